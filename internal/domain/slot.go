package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// AvailableSlot дискретный бронируемый слот внутри открытого интервала
type AvailableSlot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	AvailableSpots int // свободные места в слоте
	TotalSpots     int // всего мест (maxBookingsPerSlot)
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}

// GenerateSlots генерирует бронируемые слоты по резолву доступности на день
// Шаг генерации - гранулярность слота из правила (НЕ длительность услуги);
// слот попадает в выдачу, только если start + serviceDuration <= конец интервала.
// Каждый слот аннотируется остатком мест с учетом активных бронирований;
// заполненные слоты остаются в выдаче с AvailableSpots = 0
func GenerateSlots(day DayAvailability, serviceDurationMinutes int, bookings []*Booking) ([]AvailableSlot, error) {
	if day.IsClosed() || day.SlotDurationMinutes <= 0 || serviceDurationMinutes <= 0 {
		return []AvailableSlot{}, nil
	}

	slots := make([]AvailableSlot, 0)

	for _, interval := range day.Intervals {
		current := interval.Start

		for current.IsBefore(interval.End) {
			slotEnd, err := current.AddMinutes(serviceDurationMinutes)
			if err != nil {
				// Услуга не помещается до конца суток
				break
			}
			if slotEnd.IsAfter(interval.End) {
				break
			}

			taken := CountOverlappingActive(bookings, current, slotEnd, 0)
			available := day.MaxBookingsPerSlot - taken
			if available < 0 {
				available = 0
			}

			slots = append(slots, AvailableSlot{
				StartTime:      current,
				EndTime:        slotEnd,
				AvailableSpots: available,
				TotalSpots:     day.MaxBookingsPerSlot,
			})

			current, err = current.AddMinutes(day.SlotDurationMinutes)
			if err != nil {
				break
			}
		}
	}

	return slots, nil
}

// FilterAvailable оставляет только слоты со свободными местами
func FilterAvailable(slots []AvailableSlot) []AvailableSlot {
	result := make([]AvailableSlot, 0, len(slots))
	for _, s := range slots {
		if !s.IsFull() {
			result = append(result, s)
		}
	}
	return result
}

// CountOverlappingActive подсчитывает активные бронирования, пересекающиеся
// с диапазоном [start, end)
// Пересечение полуоткрытое: граничащие диапазоны не конфликтуют.
// excludeBookingID исключает бронирование из подсчета (0 - не исключать);
// используется при подтверждении переноса, чтобы исходный слот брони
// не конфликтовал сам с собой
func CountOverlappingActive(bookings []*Booking, start, end types.TimeString, excludeBookingID int64) int {
	count := 0

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if excludeBookingID != 0 && b.ID == excludeBookingID {
			continue
		}

		// Строгие неравенства: конец одной брони может совпадать с началом другой
		if b.StartTime.IsBefore(end) && start.IsBefore(b.EndTime) {
			count++
		}
	}

	return count
}
