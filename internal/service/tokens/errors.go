package tokens

import "errors"

var (
	// ErrTokenNotFound возвращается, когда токен не найден
	// Для action-токена это единственная ошибка резолва: токен постоянный
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenExpired возвращается, когда срок жизни modification-токена истёк
	ErrTokenExpired = errors.New("modification token expired")

	// ErrTokenAlreadyUsed возвращается, когда modification-токен уже был погашен
	ErrTokenAlreadyUsed = errors.New("modification token already used")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
