package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
)

// UseCase use case выдачи доступных слотов за диапазон дат
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Выдача консистентна на момент чтения; гарантия отсутствия конфликтов
// дается только аллокацией - слот может быть занят между выдачей и бронированием
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, staff=%v, service=%d, from=%s, to=%s",
		req.BusinessID, req.StaffID, req.ServiceID,
		req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование бизнеса
	if _, err := uc.catalogRepo.GetBusinessByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем услугу - её длительность определяет размер слота
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Проверяем сотрудника и его компетенции
	if req.StaffID != nil {
		if err := uc.validateStaff(ctx, req); err != nil {
			return nil, err
		}
	}

	scope := domain.Scope{BusinessID: req.BusinessID, StaffID: req.StaffID}

	// 5. Блокировки за весь диапазон одним запросом
	rangeEnd := req.DateTo.AddDate(0, 0, 1)
	blocked, err := uc.scheduleRepo.GetBlockedTimesInRange(ctx, req.BusinessID, req.DateFrom, rangeEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
	}

	// 6. Генерируем слоты по дням
	days := make([]DaySlots, 0)
	for date := req.DateFrom; !date.After(req.DateTo); date = date.AddDate(0, 0, 1) {
		daySlots, err := uc.resolveDaySlots(ctx, scope, date, service, blocked, req.OnlyAvailable)
		if err != nil {
			return nil, err
		}
		days = append(days, daySlots)
	}

	uc.logger.Info("GetAvailableSlots: resolved %d days for business=%d", len(days), req.BusinessID)

	return &Response{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		Days:       days,
	}, nil
}

// validateStaff проверяет, что сотрудник существует, активен и предоставляет услугу
func (uc *UseCase) validateStaff(ctx context.Context, req *Request) error {
	staff, err := uc.catalogRepo.GetStaffByID(ctx, req.BusinessID, *req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", *req.StaffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", *req.StaffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive {
		uc.logger.Warn("GetAvailableSlots: staff id=%d is inactive", *req.StaffID)
		return ErrStaffNotFound
	}

	provides, err := uc.catalogRepo.StaffProvidesService(ctx, *req.StaffID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check staff services: %v", err)
		return fmt.Errorf("%w: failed to check staff services: %v", ErrInternal, err)
	}
	if !provides {
		uc.logger.Warn("GetAvailableSlots: staff id=%d does not provide service id=%d", *req.StaffID, req.ServiceID)
		return ErrStaffCannotProvideService
	}

	return nil
}

// resolveDaySlots резолвит доступность одного дня и генерирует его слоты
func (uc *UseCase) resolveDaySlots(
	ctx context.Context,
	scope domain.Scope,
	date time.Time,
	service *domain.Service,
	blocked []*domain.BlockedTime,
	onlyAvailable bool,
) (DaySlots, error) {
	// Отсутствие правила на день недели означает "закрыто"
	rule, err := uc.scheduleRepo.GetRuleForScopeAndWeekday(ctx, scope, date.Weekday())
	if err != nil && !errors.Is(err, scheduleRepo.ErrRuleNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get rule for %s: %v", date.Format(domain.DateFormat), err)
		return DaySlots{}, fmt.Errorf("%w: failed to get availability rule: %v", ErrInternal, err)
	}

	day, err := domain.ResolveDay(rule, blocked, scope, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve day %s: %v", date.Format(domain.DateFormat), err)
		return DaySlots{}, fmt.Errorf("%w: failed to resolve day: %v", ErrInternal, err)
	}

	if day.IsClosed() {
		return DaySlots{Date: date, IsClosed: true, Slots: []Slot{}}, nil
	}

	bookings, err := uc.bookingRepo.GetActiveByScopeAndDate(ctx, scope, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for %s: %v", date.Format(domain.DateFormat), err)
		return DaySlots{}, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	slots, err := domain.GenerateSlots(day, service.DurationMinutes, bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for %s: %v", date.Format(domain.DateFormat), err)
		return DaySlots{}, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	if onlyAvailable {
		slots = domain.FilterAvailable(slots)
	}

	return DaySlots{Date: date, IsClosed: false, Slots: fromDomainSlots(slots)}, nil
}
