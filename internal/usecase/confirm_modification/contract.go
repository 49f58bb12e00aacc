package confirm_modification

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// TokenResolver интерфейс резолвинга modification-токенов
// Резолвер выполняет ленивую проверку срока жизни и откат просроченных предложений
type TokenResolver interface {
	ResolveModificationToken(ctx context.Context, token domain.ModificationToken) (*domain.Booking, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByScopeAndDate(ctx context.Context, scope domain.Scope, date time.Time) ([]*domain.Booking, error)
	MarkModificationTokenUsed(ctx context.Context, id int64) error
	ApplyProposal(ctx context.Context, id int64) error
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetRuleForScopeAndWeekday(ctx context.Context, scope domain.Scope, weekday time.Weekday) (*domain.AvailabilityRule, error)
	GetBlockedTimesInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error)
}

// NotifierClient интерфейс клиента сервиса нотификаций
type NotifierClient interface {
	Notify(ctx context.Context, eventType string, bookingID, businessID int64, payload any)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
