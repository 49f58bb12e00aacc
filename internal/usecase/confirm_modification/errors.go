package confirm_modification

import "errors"

var (
	// ErrTokenNotFound возвращается, когда токен переноса не найден
	ErrTokenNotFound = errors.New("confirm_modification: token not found")

	// ErrTokenExpired возвращается, когда срок жизни токена истёк
	// Предложение при этом отбрасывается, бронь возвращается на исходный слот
	ErrTokenExpired = errors.New("confirm_modification: token expired")

	// ErrTokenAlreadyUsed возвращается, когда токен уже был погашен
	ErrTokenAlreadyUsed = errors.New("confirm_modification: token already used")

	// ErrNoProposal возвращается, когда у бронирования нет активного предложения
	ErrNoProposal = errors.New("confirm_modification: booking has no pending proposal")

	// ErrOutsideAvailability возвращается, когда предложенный слот вне рабочих часов
	// Токен при этом гасится - бизнес должен предложить перенос заново
	ErrOutsideAvailability = errors.New("confirm_modification: proposed slot is outside availability")

	// ErrBlocked возвращается, когда предложенный слот пересекает блокировку
	ErrBlocked = errors.New("confirm_modification: proposed slot overlaps a blocked time")

	// ErrSlotFull возвращается, когда все места предложенного слота заняты
	ErrSlotFull = errors.New("confirm_modification: proposed slot is full")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_modification: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_modification: internal error")
)
