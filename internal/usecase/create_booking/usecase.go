package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	customerClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
)

// UseCase use case аллокации бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	scheduleRepo   ScheduleRepository
	catalogRepo    CatalogRepository
	customerClient CustomerServiceClient
	notifierClient NotifierClient
	tokenGen       TokenGenerator
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
	cfg            Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	customerClient CustomerServiceClient,
	notifierClient NotifierClient,
	tokenGen TokenGenerator,
	txManager TransactionManager,
	logger Logger,
	cfg Config,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		scheduleRepo:   scheduleRepo,
		catalogRepo:    catalogRepo,
		customerClient: customerClient,
		notifierClient: notifierClient,
		tokenGen:       tokenGen,
		txManager:      txManager,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
		cfg:            cfg,
	}
}

// Execute выполняет use case создания бронирования
// Проверка конфликтов и вставка выполняются в одной сериализуемой транзакции
// с блокировкой корзины (scope, date): проигравший гонку получает причину
// конфликта, а не ошибку сериализации
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: business=%d, staff=%v, service=%d, date=%s, time=%s, email=%s",
		req.BusinessID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.CustomerEmail)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем дату с учетом горизонта бронирования
	if err := validateDate(req.Date, now, uc.cfg.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Проверяем минимальный интервал до начала слота
	if err := validateBookingTime(req.Date, req.StartTime, now, uc.cfg.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 5. Проверяем существование бизнеса
	if _, err := uc.catalogRepo.GetBusinessByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 6. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// Отключенная услуга остается в истории, но не бронируется
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 7. Проверяем сотрудника и его компетенции
	if req.StaffID != nil {
		if err := uc.validateStaff(ctx, req); err != nil {
			return nil, err
		}
	}

	// 8. Длительность слота равна длительности услуги
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot does not fit into the day: %v", err)
		return nil, fmt.Errorf("%w: slot does not fit into the day", ErrInvalidInput)
	}

	// 9. Привязываем клиента по email; недоступность CustomerService не
	// блокирует аллокацию - бронь создается с inline-контактами
	customerID := uc.lookupCustomer(ctx, req.CustomerEmail)

	// 10. Генерируем постоянный self-service токен
	actionToken, err := uc.tokenGen.Generate()
	if err != nil {
		uc.logger.Error("CreateBooking: failed to generate action token: %v", err)
		return nil, fmt.Errorf("%w: failed to generate action token: %v", ErrInternal, err)
	}

	scope := domain.Scope{BusinessID: req.BusinessID, StaffID: req.StaffID}

	var result *domain.Booking

	// 11. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 11.1. Правило доступности на день недели; отсутствие = закрыто
		rule, err := uc.scheduleRepo.GetRuleForScopeAndWeekday(txCtx, scope, req.Date.Weekday())
		if err != nil && !errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			uc.logger.Error("CreateBooking: failed to get availability rule: %v", err)
			return fmt.Errorf("%w: failed to get availability rule: %v", ErrInternal, err)
		}

		// 11.2. Блокировки, пересекающие дату
		blocked, err := uc.scheduleRepo.GetBlockedTimesInRange(txCtx, req.BusinessID, req.Date, req.Date.AddDate(0, 0, 1))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get blocked times: %v", err)
			return fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
		}

		// 11.3. Активные бронирования корзины с блокировкой строк (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetActiveByScopeAndDate(txCtx, scope, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 11.4. Проверка конфликтов по порядку
		candidate := domain.SlotCandidate{
			Scope: scope,
			Date:  req.Date,
			Start: req.StartTime,
			End:   endTime,
		}

		conflict, err := domain.CheckSlot(candidate, rule, blocked, bookings, 0)
		if err != nil {
			uc.logger.Error("CreateBooking: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}
		if conflict != domain.ConflictNone {
			uc.logger.Warn("CreateBooking: slot rejected: %s", conflict)
			return conflictToError(conflict)
		}

		// 11.5. Начальный статус определяется настройкой услуги
		booking := &domain.Booking{
			BusinessID:    req.BusinessID,
			StaffID:       req.StaffID,
			ServiceID:     req.ServiceID,
			CustomerID:    customerID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			BookingDate:   req.Date,
			StartTime:     req.StartTime,
			EndTime:       endTime,
			Status:        service.InitialBookingStatus(),
			// Денормализация данных услуги
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			ActionToken:  actionToken,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d with status=%s", result.ID, result.Status)

	uc.notifierClient.Notify(ctx, notifier.EventBookingCreated, result.ID, result.BusinessID, map[string]any{
		"status":      string(result.Status),
		"actionToken": result.ActionToken,
	})

	return &Response{
		ID:            result.ID,
		BusinessID:    result.BusinessID,
		StaffID:       result.StaffID,
		ServiceID:     result.ServiceID,
		Date:          result.BookingDate,
		StartTime:     result.StartTime,
		EndTime:       result.EndTime,
		Status:        string(result.Status),
		CustomerID:    result.CustomerID,
		CustomerName:  result.CustomerName,
		CustomerEmail: result.CustomerEmail,
		CustomerPhone: result.CustomerPhone,
		ServiceName:   result.ServiceName,
		ServicePrice:  result.ServicePrice,
		ActionToken:   result.ActionToken,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// validateStaff проверяет, что сотрудник существует, активен и предоставляет услугу
func (uc *UseCase) validateStaff(ctx context.Context, req *Request) error {
	staff, err := uc.catalogRepo.GetStaffByID(ctx, req.BusinessID, *req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", *req.StaffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", *req.StaffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive {
		uc.logger.Warn("CreateBooking: staff id=%d is inactive", *req.StaffID)
		return ErrStaffNotFound
	}

	provides, err := uc.catalogRepo.StaffProvidesService(ctx, *req.StaffID, req.ServiceID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to check staff services: %v", err)
		return fmt.Errorf("%w: failed to check staff services: %v", ErrInternal, err)
	}
	if !provides {
		uc.logger.Warn("CreateBooking: staff id=%d does not provide service id=%d", *req.StaffID, req.ServiceID)
		return ErrStaffCannotProvideService
	}

	return nil
}

// lookupCustomer привязывает бронь к зарегистрированному клиенту по email
// Любой исход кроме успешного поиска дает nil: незарегистрированный клиент
// и деградация CustomerService равнозначны для аллокации
func (uc *UseCase) lookupCustomer(ctx context.Context, email string) *int64 {
	customer, err := uc.customerClient.FindByEmailWithGracefulDegradation(ctx, email)
	if err != nil {
		if errors.Is(err, customerClient.ErrCustomerNotFound) {
			uc.logger.Info("CreateBooking: customer email not registered, creating unlinked booking")
		} else {
			uc.logger.Warn("CreateBooking: customer lookup degraded: %v", err)
		}
		return nil
	}

	uc.logger.Info("CreateBooking: linked customer id=%d", customer.ID)
	return &customer.ID
}

// conflictToError конвертирует причину конфликта в ошибку usecase
func conflictToError(conflict domain.ConflictResult) error {
	switch conflict {
	case domain.ConflictOutsideAvailability:
		return ErrOutsideAvailability
	case domain.ConflictBlocked:
		return ErrBlocked
	case domain.ConflictSlotFull:
		return ErrSlotFull
	default:
		return fmt.Errorf("%w: unexpected conflict result %q", ErrInternal, conflict)
	}
}
