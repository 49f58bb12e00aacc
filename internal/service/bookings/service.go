package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Service сервис переходов жизненного цикла бронирований
// Аллокация новых бронирований живет в отдельном usecase - здесь только
// операции над уже существующими записями
type Service struct {
	bookingRepo          BookingRepository
	notifierClient       NotifierClient
	tokenGen             TokenGenerator
	timeProvider         TimeProvider
	logger               Logger
	modificationTokenTTL time.Duration
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifierClient NotifierClient,
	tokenGen TokenGenerator,
	timeProvider TimeProvider,
	logger Logger,
	modificationTokenTTL time.Duration,
) *Service {
	return &Service{
		bookingRepo:          bookingRepo,
		notifierClient:       notifierClient,
		tokenGen:             tokenGen,
		timeProvider:         timeProvider,
		logger:               logger,
		modificationTokenTTL: modificationTokenTTL,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetBusinessBookings получает календарь бронирований бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по сотруднику, периоду, статусу и включение отменённых
//
// Примеры использования:
// - Все активные бронирования: GetBusinessBookings(ctx, &GetBusinessBookingsRequest{BusinessID: 123})
// - Бронирования сотрудника: указать StaffID
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Включая отменённые: IncludeCancelled = true
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBusinessBookings: fetching bookings for business=%d", req.BusinessID)

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: successfully fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает pending бронирование
func (s *Service) Confirm(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: confirming booking id=%d", bookingID)

	booking, err := s.getBooking(ctx, bookingID, "Confirm")
	if err != nil {
		return nil, err
	}

	// Проверяем допустимость перехода по таблице жизненного цикла
	newStatus, err := domain.NextStatus(booking.Status, domain.EventConfirm)
	if err != nil {
		s.logger.Warn("Confirm: invalid transition for booking id=%d from status=%s", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	// Исходный статус повторяется в WHERE: конкурентный переход между чтением
	// и записью не даст перезаписать уже отмененную бронь
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Confirm: booking id=%d changed status concurrently", bookingID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("Confirm: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
	}

	booking.Status = newStatus
	s.notifierClient.Notify(ctx, notifier.EventBookingConfirmed, booking.ID, booking.BusinessID, nil)

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование
// Отмена идемпотентна: повторная отмена - no-op с признаком AlreadyCancelled,
// исходная причина отмены не перезаписывается
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.CancelResult, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by=%s", bookingID, req.By)

	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return nil, err
	}

	if _, err := domain.NextStatus(booking.Status, domain.EventCancel); err != nil {
		if errors.Is(err, domain.ErrAlreadyCancelled) {
			s.logger.Warn("Cancel: booking id=%d is already cancelled", bookingID)
			return &models.CancelResult{AlreadyCancelled: true}, nil
		}
		s.logger.Warn("Cancel: invalid transition for booking id=%d from status=%s", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.Reason, req.By); err != nil {
		// Конкурентная отмена успела первой - для вызывающего это та же
		// идемпотентная повторная отмена, причина первой не перезаписана
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%d was cancelled concurrently", bookingID)
			return &models.CancelResult{AlreadyCancelled: true}, nil
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.notifierClient.Notify(ctx, notifier.EventBookingCancelled, booking.ID, booking.BusinessID, map[string]any{
		"cancelledBy": string(req.By),
	})

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return &models.CancelResult{AlreadyCancelled: false}, nil
}

// Propose предлагает клиенту перенос бронирования на новое время
// Бронь переходит в modification_pending, но продолжает занимать исходный слот;
// предложенный слот НЕ резервируется. Одноразовый токен подтверждения выдается
// с настроенным сроком жизни
func (s *Service) Propose(ctx context.Context, bookingID int64, req *models.ProposeModificationRequest) (*models.ProposeResponse, error) {
	s.logger.Info("Propose: proposing modification for booking id=%d to date=%s start=%s",
		bookingID, req.Date.Format(domain.DateFormat), req.StartTime)

	if err := s.validateProposal(req); err != nil {
		s.logger.Warn("Propose: invalid proposal for booking id=%d: %v", bookingID, err)
		return nil, err
	}

	booking, err := s.getBooking(ctx, bookingID, "Propose")
	if err != nil {
		return nil, err
	}

	if _, err := domain.NextStatus(booking.Status, domain.EventProposeModification); err != nil {
		s.logger.Warn("Propose: invalid transition for booking id=%d from status=%s", bookingID, booking.Status)
		return nil, ErrInvalidTransition
	}

	// Предложенный слот наследует длительность исходного бронирования
	proposedEnd, err := req.StartTime.AddMinutes(booking.DurationMinutes())
	if err != nil {
		s.logger.Warn("Propose: proposed slot for booking id=%d does not fit into the day", bookingID)
		return nil, fmt.Errorf("%w: proposed slot does not fit into the day", ErrInvalidInput)
	}

	token, err := s.tokenGen.Generate()
	if err != nil {
		s.logger.Error("Propose: failed to generate modification token for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Propose - token generation: %v", ErrInternal, err)
	}

	expiresAt := s.timeProvider.Now().Add(s.modificationTokenTTL)

	proposal := bookingRepo.Proposal{
		Date:      req.Date,
		Start:     req.StartTime,
		End:       proposedEnd,
		Reason:    req.Reason,
		Token:     domain.ModificationToken(token),
		ExpiresAt: expiresAt,
	}

	if err := s.bookingRepo.SetProposal(ctx, bookingID, proposal); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Propose: booking id=%d changed status concurrently", bookingID)
			return nil, ErrInvalidTransition
		}
		s.logger.Error("Propose: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Propose - repository error: %v", ErrInternal, err)
	}

	// Обновляем локальную копию для ответа
	booking.Status = domain.StatusModificationPending
	booking.ProposedDate = &proposal.Date
	booking.ProposedStart = &proposal.Start
	booking.ProposedEnd = &proposal.End
	booking.ModificationReason = req.Reason
	booking.ModificationTokenExpiresAt = &expiresAt

	s.notifierClient.Notify(ctx, notifier.EventModificationProposed, booking.ID, booking.BusinessID, map[string]any{
		"proposedDate":      proposal.Date.Format(domain.DateFormat),
		"proposedStart":     proposal.Start.String(),
		"proposedEnd":       proposal.End.String(),
		"modificationToken": token,
		"expiresAt":         expiresAt.Format(time.RFC3339),
	})

	s.logger.Info("Propose: successfully proposed modification for booking id=%d, token expires at %s",
		bookingID, expiresAt.Format(time.RFC3339))

	return &models.ProposeResponse{
		Booking:           models.FromDomainBooking(booking),
		ModificationToken: token,
		ExpiresAt:         expiresAt,
	}, nil
}

// DiscardProposal отзывает предложение переноса
// Бронь возвращается в confirmed на исходном слоте, токен гасится безвозвратно
func (s *Service) DiscardProposal(ctx context.Context, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("DiscardProposal: discarding proposal for booking id=%d", bookingID)

	booking, err := s.getBooking(ctx, bookingID, "DiscardProposal")
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.DiscardProposal(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrNoProposal) {
			s.logger.Warn("DiscardProposal: booking id=%d has no pending proposal", bookingID)
			return nil, ErrNoProposal
		}
		s.logger.Error("DiscardProposal: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: DiscardProposal - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusConfirmed
	booking.ProposedDate = nil
	booking.ProposedStart = nil
	booking.ProposedEnd = nil
	booking.ModificationReason = nil
	booking.ModificationTokenExpiresAt = nil

	s.notifierClient.Notify(ctx, notifier.EventProposalDiscarded, booking.ID, booking.BusinessID, nil)

	s.logger.Info("DiscardProposal: successfully discarded proposal for booking id=%d", bookingID)
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// validateProposal проверяет корректность параметров предложения переноса
func (s *Service) validateProposal(req *models.ProposeModificationRequest) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: proposal date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid proposal start time", ErrInvalidInput)
	}
	return nil
}
