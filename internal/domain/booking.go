package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusModificationPending BookingStatus = "modification_pending"
	StatusCancelled           BookingStatus = "cancelled"
)

// CancelledBy кто инициировал отмену бронирования
type CancelledBy string

const (
	CancelledByCustomer CancelledBy = "customer"
	CancelledByBusiness CancelledBy = "business"
)

// Booking центральная сущность: запись клиента на услугу
// Бронирование никогда не удаляется физически - отмена это терминальный статус,
// история календаря сохраняется
type Booking struct {
	ID         int64
	BusinessID int64
	StaffID    *int64 // nil = общий пул бизнеса
	ServiceID  int64

	// Идентичность клиента: контакты хранятся inline, CustomerID заполняется,
	// если клиент найден в CustomerService
	CustomerID    *int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64

	// Постоянный токен для self-service ссылок (отмена / просмотр / перенос)
	ActionToken string

	// Предложенный перенос: пока статус modification_pending, бронь продолжает
	// занимать исходный слот, предложенный слот не зарезервирован
	ProposedDate               *time.Time
	ProposedStart              *types.TimeString
	ProposedEnd                *types.TimeString
	ModificationReason         *string
	ModificationToken          *string
	ModificationTokenExpiresAt *time.Time
	ModificationTokenUsedAt    *time.Time

	CancellationReason *string
	CancelledBy        *CancelledBy
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// HasProposal проверяет, что у бронирования есть активное предложение переноса
func (b *Booking) HasProposal() bool {
	return b.Status == StatusModificationPending &&
		b.ProposedDate != nil && b.ProposedStart != nil && b.ProposedEnd != nil
}

// DurationMinutes возвращает длительность бронирования в минутах
func (b *Booking) DurationMinutes() int {
	start, err := b.StartTime.Minutes()
	if err != nil {
		return 0
	}
	end, err := b.EndTime.Minutes()
	if err != nil {
		return 0
	}
	return end - start
}

// Scope возвращает область конфликтов этого бронирования
func (b *Booking) Scope() Scope {
	return Scope{BusinessID: b.BusinessID, StaffID: b.StaffID}
}

// BusinessBookingsFilter фильтр для выдачи календаря бизнеса
type BusinessBookingsFilter struct {
	BusinessID       int64          // обязательный параметр
	StaffID          *int64         // фильтр по сотруднику (nil - все)
	StartDate        *time.Time     // начало периода (nil - без ограничения)
	EndDate          *time.Time     // конец периода (nil - без ограничения)
	Status           *BookingStatus // фильтр по статусу
	IncludeCancelled bool           // включать ли отменённые бронирования
}
