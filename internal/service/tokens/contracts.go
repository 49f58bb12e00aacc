package tokens

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByActionToken(ctx context.Context, token domain.ActionToken) (*domain.Booking, error)
	GetByModificationToken(ctx context.Context, token domain.ModificationToken) (*domain.Booking, error)
	DiscardProposal(ctx context.Context, id int64) error
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
