package confirm_modification

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на подтверждение переноса
type Request struct {
	Token string // Одноразовый modification-токен из self-service ссылки
}

// Response модель ответа с бронированием на новом слоте
type Response struct {
	ID         int64            // ID бронирования
	BusinessID int64            // ID бизнеса
	StaffID    *int64           // ID сотрудника
	ServiceID  int64            // ID услуги
	Date       time.Time        // Новая дата (бывшая предложенная)
	StartTime  types.TimeString // Новое время начала
	EndTime    types.TimeString // Новое время конца
	Status     string           // Всегда confirmed после успешного переноса

	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги
}
