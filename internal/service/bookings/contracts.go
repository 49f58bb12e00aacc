package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason *string, by domain.CancelledBy) error
	SetProposal(ctx context.Context, id int64, p bookingRepo.Proposal) error
	DiscardProposal(ctx context.Context, id int64) error
}

// NotifierClient интерфейс клиента сервиса нотификаций
// Доставка fire-and-forget: сбой не влияет на результат операции
type NotifierClient interface {
	Notify(ctx context.Context, eventType string, bookingID, businessID int64, payload any)
}

// TokenGenerator интерфейс генератора непрозрачных токенов
type TokenGenerator interface {
	Generate() (string, error)
}

// TimeProvider интерфейс источника текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
