package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func mondayCandidate(start, end string) SlotCandidate {
	return SlotCandidate{
		Scope: Scope{BusinessID: 1},
		Date:  monday,
		Start: types.TimeString(start),
		End:   types.TimeString(end),
	}
}

func TestCheckSlot(t *testing.T) {
	rule := mondayRule(nil)

	t.Run("fits inside working hours", func(t *testing.T) {
		result, err := CheckSlot(mondayCandidate("10:00", "10:30"), rule, nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, ConflictNone, result)
	})

	t.Run("no rule means outside availability", func(t *testing.T) {
		result, err := CheckSlot(mondayCandidate("10:00", "10:30"), nil, nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, ConflictOutsideAvailability, result)
	})

	t.Run("partially outside working hours", func(t *testing.T) {
		result, err := CheckSlot(mondayCandidate("11:30", "12:30"), rule, nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, ConflictOutsideAvailability, result)
	})

	t.Run("overlapping blackout wins over capacity", func(t *testing.T) {
		blocked := []*BlockedTime{{
			BusinessID: 1,
			StartsAt:   monday.Add(10 * time.Hour),
			EndsAt:     monday.Add(11 * time.Hour),
		}}

		result, err := CheckSlot(mondayCandidate("10:30", "11:00"), rule, blocked, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, ConflictBlocked, result)
	})

	t.Run("slot full", func(t *testing.T) {
		bookings := []*Booking{activeBooking(5, "10:00", "10:30")}

		result, err := CheckSlot(mondayCandidate("10:00", "10:30"), rule, nil, bookings, 0)
		require.NoError(t, err)
		assert.Equal(t, ConflictSlotFull, result)
	})

	t.Run("excluded booking does not conflict with itself", func(t *testing.T) {
		bookings := []*Booking{activeBooking(5, "10:00", "10:30")}

		result, err := CheckSlot(mondayCandidate("10:00", "10:30"), rule, nil, bookings, 5)
		require.NoError(t, err)
		assert.Equal(t, ConflictNone, result)
	})

	t.Run("adjacent booking does not conflict", func(t *testing.T) {
		bookings := []*Booking{activeBooking(5, "09:30", "10:00")}

		result, err := CheckSlot(mondayCandidate("10:00", "10:30"), rule, nil, bookings, 0)
		require.NoError(t, err)
		assert.Equal(t, ConflictNone, result)
	})
}
