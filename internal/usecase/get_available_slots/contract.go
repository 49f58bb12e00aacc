package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByScopeAndDate(ctx context.Context, scope domain.Scope, date time.Time) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetRuleForScopeAndWeekday(ctx context.Context, scope domain.Scope, weekday time.Weekday) (*domain.AvailabilityRule, error)
	GetBlockedTimesInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.BlockedTime, error)
}

// CatalogRepository интерфейс репозитория каталога тенанта
type CatalogRepository interface {
	GetBusinessByID(ctx context.Context, id int64) (*domain.Business, error)
	GetServiceByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error)
	GetStaffByID(ctx context.Context, businessID, staffID int64) (*domain.StaffMember, error)
	StaffProvidesService(ctx context.Context, staffID, serviceID int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
