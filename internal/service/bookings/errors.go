package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrAlreadyCancelled возвращается при повторной отмене бронирования
	// Повторная отмена - no-op, исходная причина отмены не перезаписывается
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrNoProposal возвращается, когда у бронирования нет активного предложения переноса
	ErrNoProposal = errors.New("booking has no pending proposal")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
