package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса доступных слотов
type Request struct {
	BusinessID    int64     // ID бизнеса
	StaffID       *int64    // ID сотрудника (nil = общий пул бизнеса)
	ServiceID     int64     // ID услуги (определяет длительность слота)
	DateFrom      time.Time // Начало диапазона дат (включительно)
	DateTo        time.Time // Конец диапазона дат (включительно)
	OnlyAvailable bool      // Вернуть только слоты со свободными местами
}

// Slot бронируемый слот в выдаче
type Slot struct {
	StartTime      types.TimeString // Время начала ("10:00")
	EndTime        types.TimeString // Время конца ("10:30")
	AvailableSpots int              // Свободные места
	TotalSpots     int              // Всего мест в слоте
}

// DaySlots слоты одного дня
type DaySlots struct {
	Date     time.Time // Дата
	IsClosed bool      // Scope закрыт в этот день
	Slots    []Slot    // Слоты дня (пусто, если закрыт)
}

// Response модель ответа с доступными слотами по дням
type Response struct {
	BusinessID int64      // ID бизнеса
	StaffID    *int64     // ID сотрудника (если запрошен)
	ServiceID  int64      // ID услуги
	Days       []DaySlots // Слоты по дням диапазона
}

// fromDomainSlots конвертирует доменные слоты в выдачу
func fromDomainSlots(slots []domain.AvailableSlot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		result[i] = Slot{
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		}
	}
	return result
}
