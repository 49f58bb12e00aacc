package tokens

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
)

// Service резолвинг self-service токенов
// Два типа токенов не взаимозаменяемы: action-токен постоянный и ведет к
// бронированию на весь срок его жизни, modification-токен одноразовый
// и подтверждает конкретное предложение переноса
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса токенов
func NewService(bookingRepo BookingRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ResolveActionToken находит бронирование по постоянному self-service токену
// Токен не истекает и не гасится - единственный исход кроме успеха это "не найден"
func (s *Service) ResolveActionToken(ctx context.Context, token domain.ActionToken) (*domain.Booking, error) {
	if token.IsZero() {
		return nil, ErrTokenNotFound
	}

	booking, err := s.bookingRepo.GetByActionToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("ResolveActionToken: token not found")
			return nil, ErrTokenNotFound
		}
		s.logger.Error("ResolveActionToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: ResolveActionToken - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ResolveActionToken: resolved booking id=%d", booking.ID)
	return booking, nil
}

// ResolveModificationToken находит бронирование по одноразовому токену переноса
// Срок жизни проверяется лениво - фонового процесса истечения нет. Просроченный
// токен при резолве отбрасывает предложение: бронь возвращается в confirmed
// на исходном слоте, вызывающий получает ErrTokenExpired
func (s *Service) ResolveModificationToken(ctx context.Context, token domain.ModificationToken) (*domain.Booking, error) {
	if token.IsZero() {
		return nil, ErrTokenNotFound
	}

	booking, err := s.bookingRepo.GetByModificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("ResolveModificationToken: token not found")
			return nil, ErrTokenNotFound
		}
		s.logger.Error("ResolveModificationToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: ResolveModificationToken - repository error: %v", ErrInternal, err)
	}

	if booking.ModificationTokenUsedAt != nil {
		s.logger.Warn("ResolveModificationToken: token for booking id=%d already used", booking.ID)
		return nil, ErrTokenAlreadyUsed
	}

	if booking.ModificationTokenExpiresAt != nil && !s.timeProvider.Now().Before(*booking.ModificationTokenExpiresAt) {
		s.logger.Info("ResolveModificationToken: token for booking id=%d expired, reverting proposal", booking.ID)

		if err := s.bookingRepo.DiscardProposal(ctx, booking.ID); err != nil {
			// Бронь могла уже уйти из modification_pending другим путем (отмена) -
			// токен в любом случае просрочен
			if !errors.Is(err, bookingRepo.ErrNoProposal) {
				s.logger.Error("ResolveModificationToken: failed to revert expired proposal for booking id=%d: %v", booking.ID, err)
				return nil, fmt.Errorf("%w: ResolveModificationToken - revert expired proposal: %v", ErrInternal, err)
			}
		}

		return nil, ErrTokenExpired
	}

	s.logger.Info("ResolveModificationToken: resolved booking id=%d", booking.ID)
	return booking, nil
}
