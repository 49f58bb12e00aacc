package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ConflictResult типизированный результат проверки кандидата на бронирование
type ConflictResult string

const (
	// ConflictNone кандидат проходит все проверки
	ConflictNone ConflictResult = "ok"

	// ConflictOutsideAvailability кандидат вне рабочих часов scope на эту дату
	ConflictOutsideAvailability ConflictResult = "outside_availability"

	// ConflictBlocked кандидат пересекает блокировку (отпуск, праздник)
	ConflictBlocked ConflictResult = "blocked"

	// ConflictSlotFull все места слота заняты активными бронированиями
	ConflictSlotFull ConflictResult = "slot_full"
)

// SlotCandidate кандидат на бронирование для проверки конфликтов
type SlotCandidate struct {
	Scope Scope
	Date  time.Time
	Start types.TimeString
	End   types.TimeString
}

// Interval возвращает временной диапазон кандидата
func (c SlotCandidate) Interval() (Interval, error) {
	return NewInterval(c.Start, c.End)
}

// CheckSlot проверяет кандидата по порядку, останавливаясь на первом провале:
//  1. кандидат целиком внутри рабочего интервала недельного правила
//  2. кандидат не пересекает ни одну применимую блокировку
//  3. число пересекающихся активных бронирований меньше maxBookingsPerSlot
//
// Блокировки проверяются отдельным шагом (а не через вычет из интервала),
// чтобы вернуть различимую причину blocked вместо общего outside_availability.
// excludeBookingID исключает бронь из подсчета занятости (для подтверждения переноса)
func CheckSlot(
	candidate SlotCandidate,
	rule *AvailabilityRule,
	blocked []*BlockedTime,
	activeBookings []*Booking,
	excludeBookingID int64,
) (ConflictResult, error) {
	candidateInterval, err := candidate.Interval()
	if err != nil {
		return "", err
	}

	// 1. Рабочие часы
	if rule == nil || !rule.IsOpen {
		return ConflictOutsideAvailability, nil
	}
	ruleInterval, err := rule.Interval()
	if err != nil {
		return "", err
	}
	if !ruleInterval.Contains(candidateInterval) {
		return ConflictOutsideAvailability, nil
	}

	// 2. Блокировки
	for _, bt := range blocked {
		if !bt.AppliesTo(candidate.Scope) {
			continue
		}
		cut, ok := bt.ClipToDate(candidate.Date)
		if !ok {
			continue
		}
		if candidateInterval.Overlaps(cut) {
			return ConflictBlocked, nil
		}
	}

	// 3. Вместимость
	taken := CountOverlappingActive(activeBookings, candidate.Start, candidate.End, excludeBookingID)
	if taken >= rule.MaxBookingsPerSlot {
		return ConflictSlotFull, nil
	}

	return ConflictNone, nil
}
