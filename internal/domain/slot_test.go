package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func activeBooking(id int64, start, end types.TimeString) *Booking {
	return &Booking{
		ID:         id,
		BusinessID: 1,
		StartTime:  start,
		EndTime:    end,
		Status:     StatusConfirmed,
	}
}

func TestGenerateSlots_BlackoutSplitsDay(t *testing.T) {
	// Понедельник 09:00-12:00 с блокировкой 10:00-10:30: слот 10:00
	// выпадает, остальные сохраняются
	blocked := []*BlockedTime{{
		BusinessID: 1,
		StartsAt:   monday.Add(10 * time.Hour),
		EndsAt:     monday.Add(10*time.Hour + 30*time.Minute),
	}}

	day, err := ResolveDay(mondayRule(nil), blocked, Scope{BusinessID: 1}, monday)
	require.NoError(t, err)

	slots, err := GenerateSlots(day, 30, nil)
	require.NoError(t, err)

	starts := make([]types.TimeString, len(slots))
	for i, s := range slots {
		starts[i] = s.StartTime
	}
	assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:30", "11:00", "11:30"}, starts)
}

func TestGenerateSlots_ServiceLongerThanGranularity(t *testing.T) {
	// Шаг генерации - гранулярность правила (30 мин), но 60-минутная услуга
	// не помещается в слоты, начинающиеся позже 11:00
	day, err := ResolveDay(mondayRule(nil), nil, Scope{BusinessID: 1}, monday)
	require.NoError(t, err)

	slots, err := GenerateSlots(day, 60, nil)
	require.NoError(t, err)

	require.Len(t, slots, 5)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), slots[0].EndTime)
	assert.Equal(t, types.TimeString("11:00"), slots[4].StartTime)
	assert.Equal(t, types.TimeString("12:00"), slots[4].EndTime)
}

func TestGenerateSlots_CapacityAnnotations(t *testing.T) {
	rule := mondayRule(nil)
	rule.MaxBookingsPerSlot = 2

	day, err := ResolveDay(rule, nil, Scope{BusinessID: 1}, monday)
	require.NoError(t, err)

	bookings := []*Booking{
		activeBooking(1, "09:00", "09:30"),
		activeBooking(2, "09:00", "09:30"),
		activeBooking(3, "09:30", "10:00"),
		// Отмененная бронь слот не занимает
		{ID: 4, StartTime: "10:00", EndTime: "10:30", Status: StatusCancelled},
	}

	slots, err := GenerateSlots(day, 30, bookings)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	// 09:00 заполнен, но остается в выдаче
	assert.Equal(t, 0, slots[0].AvailableSpots)
	assert.True(t, slots[0].IsFull())

	assert.Equal(t, 1, slots[1].AvailableSpots)
	assert.True(t, slots[1].IsPartiallyAvailable())

	assert.Equal(t, 2, slots[2].AvailableSpots)

	filtered := FilterAvailable(slots)
	require.Len(t, filtered, 5)
	assert.Equal(t, types.TimeString("09:30"), filtered[0].StartTime)
}

func TestCountOverlappingActive(t *testing.T) {
	bookings := []*Booking{
		activeBooking(1, "10:00", "11:00"),
		activeBooking(2, "10:30", "11:30"),
		{ID: 3, StartTime: "10:00", EndTime: "11:00", Status: StatusCancelled},
	}

	// Граничащие диапазоны не конфликтуют
	assert.Equal(t, 0, CountOverlappingActive(bookings, "09:00", "10:00", 0))

	assert.Equal(t, 2, CountOverlappingActive(bookings, "10:30", "11:00", 0))

	// Исключение самой брони при подтверждении переноса
	assert.Equal(t, 1, CountOverlappingActive(bookings, "10:30", "11:00", 1))
}
