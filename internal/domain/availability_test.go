package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// monday 2026-03-16 - понедельник
var monday = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func mondayRule(staffID *int64) *AvailabilityRule {
	return &AvailabilityRule{
		BusinessID:          1,
		StaffID:             staffID,
		DayOfWeek:           time.Monday,
		StartTime:           "09:00",
		EndTime:             "12:00",
		SlotDurationMinutes: 30,
		MaxBookingsPerSlot:  1,
		IsOpen:              true,
	}
}

func TestBlockedTime_AppliesTo(t *testing.T) {
	businessScope := Scope{BusinessID: 1}
	staffScope := Scope{BusinessID: 1, StaffID: ptr.Ptr(int64(7))}

	businessWide := &BlockedTime{BusinessID: 1}
	staffOnly := &BlockedTime{BusinessID: 1, StaffID: ptr.Ptr(int64(7))}
	otherStaff := &BlockedTime{BusinessID: 1, StaffID: ptr.Ptr(int64(8))}
	otherBusiness := &BlockedTime{BusinessID: 2}

	// Блокировка бизнеса действует на всех
	assert.True(t, businessWide.AppliesTo(businessScope))
	assert.True(t, businessWide.AppliesTo(staffScope))

	// Блокировка сотрудника действует только на него
	assert.False(t, staffOnly.AppliesTo(businessScope))
	assert.True(t, staffOnly.AppliesTo(staffScope))
	assert.False(t, otherStaff.AppliesTo(staffScope))

	assert.False(t, otherBusiness.AppliesTo(businessScope))
}

func TestBlockedTime_ClipToDate(t *testing.T) {
	t.Run("fully inside the day", func(t *testing.T) {
		bt := &BlockedTime{
			StartsAt: monday.Add(10 * time.Hour),
			EndsAt:   monday.Add(10*time.Hour + 30*time.Minute),
		}
		iv, ok := bt.ClipToDate(monday)
		require.True(t, ok)
		assert.Equal(t, mustInterval(t, "10:00", "10:30"), iv)
	})

	t.Run("multi-day vacation clips to day bounds", func(t *testing.T) {
		bt := &BlockedTime{
			StartsAt: monday.AddDate(0, 0, -2),
			EndsAt:   monday.AddDate(0, 0, 3),
		}
		iv, ok := bt.ClipToDate(monday)
		require.True(t, ok)
		assert.Equal(t, Interval{Start: "00:00", End: "24:00"}, iv)
	})

	t.Run("ends before the day", func(t *testing.T) {
		bt := &BlockedTime{
			StartsAt: monday.AddDate(0, 0, -1),
			EndsAt:   monday,
		}
		_, ok := bt.ClipToDate(monday)
		assert.False(t, ok)
	})

	t.Run("normalizes timestamps to the date location", func(t *testing.T) {
		// Драйвер может вернуть timestamptz в таймзоне сессии БД:
		// 13:00+03:00 и 10:00 UTC - один и тот же момент
		msk := time.FixedZone("MSK", 3*60*60)
		bt := &BlockedTime{
			StartsAt: time.Date(2026, 3, 16, 13, 0, 0, 0, msk),
			EndsAt:   time.Date(2026, 3, 16, 13, 30, 0, 0, msk),
		}
		iv, ok := bt.ClipToDate(monday)
		require.True(t, ok)
		assert.Equal(t, mustInterval(t, "10:00", "10:30"), iv)
	})

	t.Run("session timezone does not shift day bounds", func(t *testing.T) {
		// 02:00+03:00 = 23:00 UTC предыдущего дня - на дату в UTC не попадает
		msk := time.FixedZone("MSK", 3*60*60)
		bt := &BlockedTime{
			StartsAt: time.Date(2026, 3, 16, 1, 0, 0, 0, msk),
			EndsAt:   time.Date(2026, 3, 16, 2, 0, 0, 0, msk),
		}
		_, ok := bt.ClipToDate(monday)
		assert.False(t, ok)
	})
}

func TestResolveDay(t *testing.T) {
	scope := Scope{BusinessID: 1}

	t.Run("no rule means closed", func(t *testing.T) {
		day, err := ResolveDay(nil, nil, scope, monday)
		require.NoError(t, err)
		assert.True(t, day.IsClosed())
	})

	t.Run("closed rule means closed", func(t *testing.T) {
		rule := mondayRule(nil)
		rule.IsOpen = false
		day, err := ResolveDay(rule, nil, scope, monday)
		require.NoError(t, err)
		assert.True(t, day.IsClosed())
	})

	t.Run("blackout splits the working interval", func(t *testing.T) {
		blocked := []*BlockedTime{{
			BusinessID: 1,
			StartsAt:   monday.Add(10 * time.Hour),
			EndsAt:     monday.Add(10*time.Hour + 30*time.Minute),
		}}

		day, err := ResolveDay(mondayRule(nil), blocked, scope, monday)
		require.NoError(t, err)
		require.Len(t, day.Intervals, 2)
		assert.Equal(t, mustInterval(t, "09:00", "10:00"), day.Intervals[0])
		assert.Equal(t, mustInterval(t, "10:30", "12:00"), day.Intervals[1])
		assert.Equal(t, 30, day.SlotDurationMinutes)
		assert.Equal(t, 1, day.MaxBookingsPerSlot)
	})

	t.Run("staff blackout does not affect business pool", func(t *testing.T) {
		blocked := []*BlockedTime{{
			BusinessID: 1,
			StaffID:    ptr.Ptr(int64(7)),
			StartsAt:   monday.Add(9 * time.Hour),
			EndsAt:     monday.Add(12 * time.Hour),
		}}

		day, err := ResolveDay(mondayRule(nil), blocked, scope, monday)
		require.NoError(t, err)
		require.Len(t, day.Intervals, 1)
		assert.Equal(t, mustInterval(t, "09:00", "12:00"), day.Intervals[0])
	})
}
