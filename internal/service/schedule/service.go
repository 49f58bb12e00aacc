package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис управления расписанием: недельные правила и блокировки
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule получает недельное расписание scope
func (s *Service) GetSchedule(ctx context.Context, businessID int64, staffID *int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for business=%d, staff=%v", businessID, staffID)

	scope, err := s.resolveScope(ctx, businessID, staffID, "GetSchedule")
	if err != nil {
		return nil, err
	}

	rules, err := s.scheduleRepo.GetRulesForScope(ctx, scope)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSchedule: successfully fetched %d rules for business=%d", len(rules), businessID)
	return models.FromDomainRules(businessID, staffID, rules), nil
}

// ReplaceSchedule атомарно заменяет недельное расписание scope
// Старые правила удаляются, новые вставляются одной транзакцией,
// чтобы выдача слотов никогда не видела полупустое расписание
func (s *Service) ReplaceSchedule(ctx context.Context, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: replacing schedule for business=%d, staff=%v, rules=%d",
		req.BusinessID, req.StaffID, len(req.Rules))

	scope, err := s.resolveScope(ctx, req.BusinessID, req.StaffID, "ReplaceSchedule")
	if err != nil {
		return nil, err
	}

	rules, err := s.convertAndValidateRules(req)
	if err != nil {
		s.logger.Warn("ReplaceSchedule: invalid rules for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceRulesForScope(txCtx, scope, rules)
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceSchedule: successfully replaced schedule for business=%d", req.BusinessID)
	return models.FromDomainRules(req.BusinessID, req.StaffID, rules), nil
}

// AddBlockedTime добавляет блокировку (отпуск, праздник, перерыв)
func (s *Service) AddBlockedTime(ctx context.Context, req *models.AddBlockedTimeRequest) (*models.BlockedTimeResponse, error) {
	s.logger.Info("AddBlockedTime: adding blocked time for business=%d, staff=%v, from=%s to=%s",
		req.BusinessID, req.StaffID, req.StartsAt, req.EndsAt)

	if _, err := s.resolveScope(ctx, req.BusinessID, req.StaffID, "AddBlockedTime"); err != nil {
		return nil, err
	}

	if err := s.validateBlockedTime(req); err != nil {
		s.logger.Warn("AddBlockedTime: invalid request for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	blocked := &domain.BlockedTime{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Reason:     req.Reason,
	}

	created, err := s.scheduleRepo.CreateBlockedTime(ctx, blocked)
	if err != nil {
		s.logger.Error("AddBlockedTime: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: AddBlockedTime - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddBlockedTime: successfully added blocked time id=%d for business=%d", created.ID, req.BusinessID)
	return models.FromDomainBlockedTime(created), nil
}

// RemoveBlockedTime удаляет блокировку бизнеса
func (s *Service) RemoveBlockedTime(ctx context.Context, businessID, blockedTimeID int64) error {
	s.logger.Info("RemoveBlockedTime: removing blocked time id=%d for business=%d", blockedTimeID, businessID)

	if err := s.scheduleRepo.DeleteBlockedTime(ctx, businessID, blockedTimeID); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedTimeNotFound) {
			s.logger.Warn("RemoveBlockedTime: blocked time id=%d not found for business=%d", blockedTimeID, businessID)
			return ErrBlockedTimeNotFound
		}
		s.logger.Error("RemoveBlockedTime: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: RemoveBlockedTime - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveBlockedTime: successfully removed blocked time id=%d", blockedTimeID)
	return nil
}

// Вспомогательные методы

// resolveScope проверяет существование бизнеса и сотрудника и строит scope
func (s *Service) resolveScope(ctx context.Context, businessID int64, staffID *int64, op string) (domain.Scope, error) {
	scope := domain.Scope{BusinessID: businessID, StaffID: staffID}

	if _, err := s.catalogRepo.GetBusinessByID(ctx, businessID); err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return scope, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return scope, fmt.Errorf("%w: %s - failed to get business: %v", ErrInternal, op, err)
	}

	if staffID != nil {
		if _, err := s.catalogRepo.GetStaffByID(ctx, businessID, *staffID); err != nil {
			if errors.Is(err, catalogRepo.ErrStaffNotFound) {
				s.logger.Warn("%s: staff id=%d not found in business=%d", op, *staffID, businessID)
				return scope, ErrStaffNotFound
			}
			s.logger.Error("%s: failed to get staff id=%d: %v", op, *staffID, err)
			return scope, fmt.Errorf("%w: %s - failed to get staff: %v", ErrInternal, op, err)
		}
	}

	return scope, nil
}

// convertAndValidateRules конвертирует входные правила в доменные с валидацией
func (s *Service) convertAndValidateRules(req *models.ReplaceScheduleRequest) ([]*domain.AvailabilityRule, error) {
	rules := make([]*domain.AvailabilityRule, 0, len(req.Rules))
	seenDays := make(map[int]bool, len(req.Rules))

	for i, input := range req.Rules {
		if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: rule %d: dayOfWeek must be between 0 and 6", ErrInvalidInput, i)
		}
		if seenDays[input.DayOfWeek] {
			return nil, fmt.Errorf("%w: rule %d: duplicate dayOfWeek %d", ErrInvalidInput, i, input.DayOfWeek)
		}
		seenDays[input.DayOfWeek] = true

		rule, err := input.ToDomainRule(req.BusinessID, req.StaffID)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: invalid time format", ErrInvalidInput, i)
		}

		// Ночные диапазоны не поддерживаются
		if _, err := rule.Interval(); err != nil {
			return nil, fmt.Errorf("%w: rule %d: endTime must be after startTime", ErrInvalidInput, i)
		}

		if rule.SlotDurationMinutes < domain.MinSlotDurationMinutes || rule.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
			return nil, fmt.Errorf("%w: rule %d: slotDurationMinutes must be between %d and %d",
				ErrInvalidInput, i, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
		}
		if rule.MaxBookingsPerSlot < domain.MinBookingsPerSlot || rule.MaxBookingsPerSlot > domain.MaxBookingsPerSlot {
			return nil, fmt.Errorf("%w: rule %d: maxBookingsPerSlot must be between %d and %d",
				ErrInvalidInput, i, domain.MinBookingsPerSlot, domain.MaxBookingsPerSlot)
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

// validateBlockedTime проверяет корректность блокировки
func (s *Service) validateBlockedTime(req *models.AddBlockedTimeRequest) error {
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		return fmt.Errorf("%w: startsAt and endsAt are required", ErrInvalidInput)
	}
	if !req.EndsAt.After(req.StartsAt) {
		return fmt.Errorf("%w: endsAt must be after startsAt", ErrInvalidInput)
	}
	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}
	return nil
}
