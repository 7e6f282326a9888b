package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "9:05", want: 545},
		{in: " 13:30 ", want: 810},
		{in: "00:00", want: 0},
		{in: "24:00", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClock_String(t *testing.T) {
	assert.Equal(t, "09:05", Clock(545).String())
	assert.Equal(t, "01:00", Clock(25*60).String())
}

func TestClock_JSON(t *testing.T) {
	var cfg DaySchedule
	err := json.Unmarshal([]byte(`{"startTime":"08:30","periodDuration":45,"totalPeriods":2,"breaks":[]}`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, Clock(510), cfg.StartTime)
	assert.Nil(t, cfg.EndTime)

	data, err := json.Marshal(TimeSlot{ID: "p1", Type: SlotTypePeriod, Start: 510, End: 555, Order: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","type":"PERIOD","label":"","start":"08:30","end":"09:15","slotOrder":1}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"startTime":540}`), &cfg))
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]Weekday{"monday": Monday, "SAT": Saturday, " Friday ": Friday} {
		got, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseWeekday("funday")
	assert.Error(t, err)

	var days []Weekday
	require.NoError(t, json.Unmarshal([]byte(`["mon","Saturday"]`), &days))
	assert.Equal(t, []Weekday{Monday, Saturday}, days)
	assert.Equal(t, "Mon", Monday.Short())
}
