package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes       = 30
	DefaultMaxBookingsPerSlot        = 1
	DefaultModificationTokenTTLHours = 72
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MinBookingsPerSlot     = 1
	MaxBookingsPerSlot     = 100
	MaxReasonLength        = 500
	MaxCustomerNameLength  = 200
	MaxSlotRangeDays       = 62 // максимальный диапазон дат для выдачи слотов
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, при которых бронирование занимает слот
// modification_pending занимает ИСХОДНЫЙ слот - предложенный слот не резервируется до подтверждения
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusModificationPending,
}

// InactiveStatuses статусы, при которых бронирование не занимает слот
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}
