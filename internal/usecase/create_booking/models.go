package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Config настройки аллокатора
// Нулевые значения отключают соответствующее ограничение
type Config struct {
	MinBookingNoticeMinutes int // Минимальный интервал до начала слота
	AdvanceBookingDays      int // Горизонт бронирования в днях
}

// Request модель запроса на создание бронирования
// Идентичность клиента передается inline - привязка к зарегистрированному
// клиенту выполняется по email, если CustomerService знает его
type Request struct {
	BusinessID int64            // ID бизнеса
	StaffID    *int64           // ID сотрудника (nil = общий пул бизнеса)
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")

	CustomerName  string  // Имя клиента
	CustomerEmail string  // Email клиента
	CustomerPhone *string // Телефон клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64            // ID созданного бронирования
	BusinessID int64            // ID бизнеса
	StaffID    *int64           // ID сотрудника
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время конца
	Status     string           // Статус (pending или confirmed)

	CustomerID    *int64  // ID клиента, если найден в CustomerService
	CustomerName  string  // Имя клиента
	CustomerEmail string  // Email клиента
	CustomerPhone *string // Телефон клиента

	// Денормализованные данные услуги
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги

	// Постоянный self-service токен: выдается единственный раз здесь
	ActionToken string

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
