package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена и не бронируется
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrStaffCannotProvideService возвращается, когда услуга не входит в компетенции сотрудника
	ErrStaffCannotProvideService = errors.New("create_booking: staff member does not provide this service")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTooLateToBook возвращается, когда бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrOutsideAvailability возвращается, когда слот вне рабочих часов scope
	ErrOutsideAvailability = errors.New("create_booking: slot is outside availability")

	// ErrBlocked возвращается, когда слот пересекает блокировку
	ErrBlocked = errors.New("create_booking: slot overlaps a blocked time")

	// ErrSlotFull возвращается, когда все места слота заняты
	ErrSlotFull = errors.New("create_booking: slot is full")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
