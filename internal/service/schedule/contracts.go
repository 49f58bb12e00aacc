package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetRulesForScope(ctx context.Context, scope domain.Scope) ([]*domain.AvailabilityRule, error)
	ReplaceRulesForScope(ctx context.Context, scope domain.Scope, rules []*domain.AvailabilityRule) error
	GetBlockedTimesInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error)
	CreateBlockedTime(ctx context.Context, bt *domain.BlockedTime) (*domain.BlockedTime, error)
	DeleteBlockedTime(ctx context.Context, businessID, id int64) error
}

// CatalogRepository интерфейс репозитория каталога тенанта
type CatalogRepository interface {
	GetBusinessByID(ctx context.Context, id int64) (*domain.Business, error)
	GetStaffByID(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
