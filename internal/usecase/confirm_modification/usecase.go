package confirm_modification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	tokenService "github.com/m04kA/SMC-AppointmentService/internal/service/tokens"
)

// UseCase use case подтверждения переноса клиентом
type UseCase struct {
	tokenResolver  TokenResolver
	bookingRepo    BookingRepository
	scheduleRepo   ScheduleRepository
	notifierClient NotifierClient
	txManager      TransactionManager
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	tokenResolver TokenResolver,
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	notifierClient NotifierClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		tokenResolver:  tokenResolver,
		bookingRepo:    bookingRepo,
		scheduleRepo:   scheduleRepo,
		notifierClient: notifierClient,
		txManager:      txManager,
		logger:         logger,
	}
}

// Execute выполняет use case подтверждения переноса
// Вся операция - одна сериализуемая транзакция: строка брони блокируется по
// токену, предложенный слот перепроверяется на конфликты с блокировкой корзины.
// Токен одноразовый в ОБЕ стороны: и успех, и конфликт гасят его. Побочные
// эффекты неуспешных исходов (гашение токена, откат просроченного предложения)
// должны пережить транзакцию, поэтому такие исходы не возвращают ошибку из
// транзакционной функции, а фиксируются и транслируются после коммита
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmModification: confirming proposed reschedule by token")

	if strings.TrimSpace(req.Token) == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	var (
		result     *domain.Booking
		failure    error
		businessID int64
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.tokenResolver.ResolveModificationToken(txCtx, domain.ModificationToken(req.Token))
		if err != nil {
			switch {
			case errors.Is(err, tokenService.ErrTokenNotFound):
				failure = ErrTokenNotFound
			case errors.Is(err, tokenService.ErrTokenExpired):
				// Откат предложения уже выполнен резолвером - коммитим его
				failure = ErrTokenExpired
			case errors.Is(err, tokenService.ErrTokenAlreadyUsed):
				failure = ErrTokenAlreadyUsed
			default:
				uc.logger.Error("ConfirmModification: token resolution failed: %v", err)
				return fmt.Errorf("%w: token resolution failed: %v", ErrInternal, err)
			}
			return nil
		}

		if !booking.HasProposal() {
			uc.logger.Warn("ConfirmModification: booking id=%d has no pending proposal", booking.ID)
			failure = ErrNoProposal
			return nil
		}

		businessID = booking.BusinessID
		scope := booking.Scope()
		proposedDate := *booking.ProposedDate

		// Правило доступности на предложенную дату
		rule, err := uc.scheduleRepo.GetRuleForScopeAndWeekday(txCtx, scope, proposedDate.Weekday())
		if err != nil && !errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			uc.logger.Error("ConfirmModification: failed to get availability rule: %v", err)
			return fmt.Errorf("%w: failed to get availability rule: %v", ErrInternal, err)
		}

		blocked, err := uc.scheduleRepo.GetBlockedTimesInRange(txCtx, booking.BusinessID, proposedDate, proposedDate.AddDate(0, 0, 1))
		if err != nil {
			uc.logger.Error("ConfirmModification: failed to get blocked times: %v", err)
			return fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
		}

		// Корзина предложенной даты с блокировкой строк (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetActiveByScopeAndDate(txCtx, scope, proposedDate)
		if err != nil {
			uc.logger.Error("ConfirmModification: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// Бронь не конфликтует сама с собой: при переносе внутри одного дня
		// исходный слот исключается из подсчета занятости
		candidate := domain.SlotCandidate{
			Scope: scope,
			Date:  proposedDate,
			Start: *booking.ProposedStart,
			End:   *booking.ProposedEnd,
		}

		conflict, err := domain.CheckSlot(candidate, rule, blocked, bookings, booking.ID)
		if err != nil {
			uc.logger.Error("ConfirmModification: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}

		if conflict != domain.ConflictNone {
			// Предложенный слот занят за время жизни ссылки: гасим токен,
			// бронь остается в modification_pending с тем же предложением
			uc.logger.Warn("ConfirmModification: proposed slot for booking id=%d rejected: %s", booking.ID, conflict)

			if err := uc.bookingRepo.MarkModificationTokenUsed(txCtx, booking.ID); err != nil {
				uc.logger.Error("ConfirmModification: failed to invalidate token for booking id=%d: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to invalidate token: %v", ErrInternal, err)
			}

			failure = conflictToError(conflict)
			return nil
		}

		// Предложение становится действующим слотом
		if err := uc.bookingRepo.ApplyProposal(txCtx, booking.ID); err != nil {
			uc.logger.Error("ConfirmModification: failed to apply proposal for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to apply proposal: %v", ErrInternal, err)
		}

		booking.BookingDate = proposedDate
		booking.StartTime = *booking.ProposedStart
		booking.EndTime = *booking.ProposedEnd
		booking.Status = domain.StatusConfirmed
		booking.ProposedDate = nil
		booking.ProposedStart = nil
		booking.ProposedEnd = nil

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	if failure != nil {
		return nil, failure
	}

	uc.logger.Info("ConfirmModification: booking id=%d moved to %s %s-%s",
		result.ID, result.BookingDate.Format(domain.DateFormat), result.StartTime, result.EndTime)

	uc.notifierClient.Notify(ctx, notifier.EventModificationApplied, result.ID, businessID, map[string]any{
		"date":      result.BookingDate.Format(domain.DateFormat),
		"startTime": result.StartTime.String(),
		"endTime":   result.EndTime.String(),
	})

	return &Response{
		ID:           result.ID,
		BusinessID:   result.BusinessID,
		StaffID:      result.StaffID,
		ServiceID:    result.ServiceID,
		Date:         result.BookingDate,
		StartTime:    result.StartTime,
		EndTime:      result.EndTime,
		Status:       string(result.Status),
		ServiceName:  result.ServiceName,
		ServicePrice: result.ServicePrice,
	}, nil
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
