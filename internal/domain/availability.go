package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilityRule недельное правило доступности для бизнеса или сотрудника
// Правило повторяется каждую неделю и не привязано к конкретной дате
// Расписание сотрудника независимо: отсутствие правила сотрудника на день недели
// означает "недоступен", а НЕ откат к часам бизнеса
type AvailabilityRule struct {
	ID                  int64
	BusinessID          int64
	StaffID             *int64 // nil = правило бизнеса
	DayOfWeek           time.Weekday
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	MaxBookingsPerSlot  int
	IsOpen              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Interval возвращает рабочий интервал правила
// Ночные диапазоны (EndTime <= StartTime) отклоняются как некорректная конфигурация
func (r *AvailabilityRule) Interval() (Interval, error) {
	return NewInterval(r.StartTime, r.EndTime)
}

// BlockedTime абсолютный диапазон дат-времени, исключённый из доступности
// (отпуска, праздники) независимо от недельных правил
type BlockedTime struct {
	ID         int64
	BusinessID int64
	StaffID    *int64 // nil = блокировка всего бизнеса
	StartsAt   time.Time
	EndsAt     time.Time
	Reason     *string
	CreatedAt  time.Time
}

// AppliesTo проверяет, действует ли блокировка на указанный scope
// Блокировка уровня бизнеса действует на всех; блокировка сотрудника - только на него
func (bt *BlockedTime) AppliesTo(scope Scope) bool {
	if bt.BusinessID != scope.BusinessID {
		return false
	}
	if bt.StaffID == nil {
		return true
	}
	return scope.StaffID != nil && *bt.StaffID == *scope.StaffID
}

// ClipToDate возвращает часть блокировки, попадающую на указанную дату,
// как интервал внутри дня. Блокировка может начинаться и заканчиваться
// в другие дни - тогда она обрезается границами суток
func (bt *BlockedTime) ClipToDate(date time.Time) (Interval, bool) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Границы блокировки приводятся к локации даты: драйвер возвращает
	// timestamptz в таймзоне сессии, а TimeString берет локальные часы-минуты
	startsAt := bt.StartsAt.In(date.Location())
	endsAt := bt.EndsAt.In(date.Location())

	if !startsAt.Before(dayEnd) || !endsAt.After(dayStart) {
		return Interval{}, false
	}

	start := types.TimeString("00:00")
	if startsAt.After(dayStart) {
		start = types.NewTimeString(startsAt)
	}

	end := types.TimeString("24:00")
	if endsAt.Before(dayEnd) {
		end = types.NewTimeString(endsAt)
	}

	if !start.IsBefore(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// DayAvailability результат резолва доступности на одну дату:
// открытые интервалы после вычета блокировок плюс параметры слотов правила
type DayAvailability struct {
	Date                time.Time
	Intervals           []Interval
	SlotDurationMinutes int
	MaxBookingsPerSlot  int
}

// IsClosed проверяет, что на дату нет открытых интервалов
func (d DayAvailability) IsClosed() bool {
	return len(d.Intervals) == 0
}

// ResolveDay собирает доступность scope на дату: берет недельное правило,
// отбрасывает закрытые дни и вычитает все применимые блокировки
// Одна блокировка может разрезать открытый интервал на ноль, один или два куска
func ResolveDay(rule *AvailabilityRule, blocked []*BlockedTime, scope Scope, date time.Time) (DayAvailability, error) {
	day := DayAvailability{Date: date}

	if rule == nil || !rule.IsOpen {
		return day, nil
	}

	base, err := rule.Interval()
	if err != nil {
		return DayAvailability{}, err
	}

	day.SlotDurationMinutes = rule.SlotDurationMinutes
	day.MaxBookingsPerSlot = rule.MaxBookingsPerSlot

	cuts := make([]Interval, 0, len(blocked))
	for _, bt := range blocked {
		if !bt.AppliesTo(scope) {
			continue
		}
		if cut, ok := bt.ClipToDate(date); ok {
			cuts = append(cuts, cut)
		}
	}

	day.Intervals = SubtractAll([]Interval{base}, cuts)
	return day, nil
}
