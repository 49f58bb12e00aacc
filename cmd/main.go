package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addBlockedTimeHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/add_blocked_time"
	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	cancelByTokenHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_by_token"
	confirmBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_booking"
	confirmModificationHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_modification"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	discardProposalHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/discard_proposal"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_business_bookings"
	getScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_schedule"
	proposeModificationHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/propose_modification"
	removeBlockedTimeHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/remove_blocked_time"
	resolveActionTokenHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/resolve_action_token"
	updateScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	customerServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
	notifierClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	tokensService "github.com/m04kA/SMC-AppointmentService/internal/service/tokens"
	confirmModificationUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_modification"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/tokens"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// systemClock источник текущего времени для production
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	customerClient := customerServiceClient.NewClient(
		cfg.CustomerService.URL,
		time.Duration(cfg.CustomerService.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CustomerService=%s timeout=%ds, Notifier=%s timeout=%ds)",
		cfg.CustomerService.URL, cfg.CustomerService.Timeout, cfg.Notifier.URL, cfg.Notifier.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		catalogRepository  *catalogRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	tokenGen := tokens.Generator{}
	clock := systemClock{}
	modificationTokenTTL := time.Duration(cfg.Booking.ModificationTokenTTLHours) * time.Hour

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		notifier,
		tokenGen,
		clock,
		log,
		modificationTokenTTL,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		catalogRepository,
		txMgr,
		log,
	)
	tokenSvc := tokensService.NewService(
		bookingRepository,
		clock,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogRepository,
		customerClient,
		notifier,
		tokenGen,
		txMgr,
		log,
		createBookingUC.Config{
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		},
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogRepository,
		log,
	)

	confirmModificationUseCase := confirmModificationUC.NewUseCase(
		tokenSvc,
		bookingRepository,
		scheduleRepository,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	proposeModification := proposeModificationHandler.NewHandler(bookingSvc, log)
	discardProposal := discardProposalHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	addBlockedTime := addBlockedTimeHandler.NewHandler(scheduleSvc, log)
	removeBlockedTime := removeBlockedTimeHandler.NewHandler(scheduleSvc, log)
	resolveActionToken := resolveActionTokenHandler.NewHandler(tokenSvc, log)
	cancelByToken := cancelByTokenHandler.NewHandler(tokenSvc, bookingSvc, log)
	confirmModification := confirmModificationHandler.NewHandler(confirmModificationUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты для записи
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования (клиент без учетной записи)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Self-service по action-токену из письма подтверждения
	api.HandleFunc("/self-service/bookings/{actionToken}",
		resolveActionToken.Handle).Methods(http.MethodGet)
	api.HandleFunc("/self-service/bookings/{actionToken}/cancel",
		cancelByToken.Handle).Methods(http.MethodPost)

	// Подтверждение переноса по одноразовому modification-токену
	api.HandleFunc("/self-service/modifications/{modificationToken}/confirm",
		confirmModification.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/propose", proposeModification.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/proposal/discard", discardProposal.Handle).Methods(http.MethodPatch)

	// --- Управление бизнесом (для менеджеров) ---
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/blocked-times", addBlockedTime.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/blocked-times/{blockedTimeId}",
		removeBlockedTime.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
