package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid morning", input: "09:00"},
		{name: "valid midnight", input: "00:00"},
		{name: "end of day", input: "24:00"},
		{name: "after end of day", input: "24:01", wantErr: true},
		{name: "missing leading zero", input: "9:00", wantErr: true},
		{name: "garbage", input: "morning", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "minutes out of range", input: "10:65", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("09:30")

	end, err := ts.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), end)

	// Ровно до конца суток - допустимо
	end, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)

	// За пределы суток
	_, err = TimeString("23:30").AddMinutes(45)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("18:00").IsAfter("09:00"))
	assert.Equal(t, 0, TimeString("12:00").Compare("12:00"))
}

func TestTimeString_JSON(t *testing.T) {
	data, err := json.Marshal(TimeString("14:30"))
	require.NoError(t, err)
	assert.Equal(t, `"14:30"`, string(data))

	var ts TimeString
	require.NoError(t, json.Unmarshal([]byte(`"08:15"`), &ts))
	assert.Equal(t, TimeString("08:15"), ts)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &ts))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит как "HH:MM:SS"
	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 3, 15, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}
