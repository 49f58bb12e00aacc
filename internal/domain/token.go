package domain

// Два класса токенов намеренно разведены в разные типы: логика резолва
// одного не может случайно принять другой.

// ActionToken постоянный токен бронирования для self-service ссылок
// Не истекает, привязан 1:1 к бронированию, даёт доступ только к
// просмотру / отмене / подтверждению переноса - не является секретом повышения привилегий
type ActionToken string

// String возвращает строковое представление токена
func (t ActionToken) String() string {
	return string(t)
}

// IsZero проверяет, что токен не задан
func (t ActionToken) IsZero() bool {
	return t == ""
}

// ModificationToken одноразовый токен подтверждения переноса
// Выпускается при входе в modification_pending, ограничен по времени,
// гасится при первом использовании, истечении или любом выходе из modification_pending
type ModificationToken string

// String возвращает строковое представление токена
func (t ModificationToken) String() string {
	return string(t)
}

// IsZero проверяет, что токен не задан
func (t ModificationToken) IsZero() bool {
	return t == ""
}
