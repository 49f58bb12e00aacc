package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(types.TimeString(start), types.TimeString(end))
	require.NoError(t, err)
	return iv
}

func TestNewInterval(t *testing.T) {
	_, err := NewInterval("09:00", "18:00")
	assert.NoError(t, err)

	// Пустой и ночной интервалы отклоняются
	_, err = NewInterval("09:00", "09:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval("22:00", "02:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestInterval_Overlaps(t *testing.T) {
	base := mustInterval(t, "10:00", "12:00")

	assert.True(t, base.Overlaps(mustInterval(t, "11:00", "13:00")))
	assert.True(t, base.Overlaps(mustInterval(t, "09:00", "10:30")))
	assert.True(t, base.Overlaps(mustInterval(t, "10:30", "11:30")))

	// Полуоткрытые интервалы: граничащие диапазоны не пересекаются
	assert.False(t, base.Overlaps(mustInterval(t, "12:00", "13:00")))
	assert.False(t, base.Overlaps(mustInterval(t, "09:00", "10:00")))
}

func TestInterval_Contains(t *testing.T) {
	base := mustInterval(t, "09:00", "18:00")

	assert.True(t, base.Contains(mustInterval(t, "09:00", "18:00")))
	assert.True(t, base.Contains(mustInterval(t, "10:00", "11:00")))
	assert.False(t, base.Contains(mustInterval(t, "08:00", "10:00")))
	assert.False(t, base.Contains(mustInterval(t, "17:00", "19:00")))
}

func TestInterval_Subtract(t *testing.T) {
	base := mustInterval(t, "09:00", "12:00")

	t.Run("no overlap", func(t *testing.T) {
		result := base.Subtract(mustInterval(t, "13:00", "14:00"))
		assert.Equal(t, []Interval{base}, result)
	})

	t.Run("cut in the middle splits in two", func(t *testing.T) {
		result := base.Subtract(mustInterval(t, "10:00", "10:30"))
		require.Len(t, result, 2)
		assert.Equal(t, mustInterval(t, "09:00", "10:00"), result[0])
		assert.Equal(t, mustInterval(t, "10:30", "12:00"), result[1])
	})

	t.Run("cut trims left edge", func(t *testing.T) {
		result := base.Subtract(mustInterval(t, "08:00", "10:00"))
		require.Len(t, result, 1)
		assert.Equal(t, mustInterval(t, "10:00", "12:00"), result[0])
	})

	t.Run("cut swallows interval", func(t *testing.T) {
		result := base.Subtract(mustInterval(t, "08:00", "13:00"))
		assert.Empty(t, result)
	})
}

func TestSubtractAll(t *testing.T) {
	base := []Interval{mustInterval(t, "09:00", "18:00")}
	cuts := []Interval{
		mustInterval(t, "12:00", "13:00"),
		mustInterval(t, "16:00", "16:30"),
	}

	result := SubtractAll(base, cuts)
	require.Len(t, result, 3)
	assert.Equal(t, mustInterval(t, "09:00", "12:00"), result[0])
	assert.Equal(t, mustInterval(t, "13:00", "16:00"), result[1])
	assert.Equal(t, mustInterval(t, "16:30", "18:00"), result[2])
}
