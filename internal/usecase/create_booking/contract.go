package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/customerservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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

// CustomerServiceClient интерфейс клиента CustomerService
type CustomerServiceClient interface {
	FindByEmailWithGracefulDegradation(ctx context.Context, email string) (*customerservice.Customer, error)
}

// NotifierClient интерфейс клиента сервиса нотификаций
type NotifierClient interface {
	Notify(ctx context.Context, eventType string, bookingID, businessID int64, payload any)
}

// TokenGenerator интерфейс генератора непрозрачных токенов
type TokenGenerator interface {
	Generate() (string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
