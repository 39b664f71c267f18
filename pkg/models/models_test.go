package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"8:30", 0, true},
		{"ab:cd", 0, true},
		{"+1:+5", 0, true},
		{"-1:05", 0, true},
		{" 9:05", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ClockMinutes(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClockKeyIsZeroPadded(t *testing.T) {
	at := time.Date(2026, 10, 20, 7, 5, 42, 0, time.Local)
	assert.Equal(t, "07:05", ClockKey(at))
}

func TestTriggerNotification(t *testing.T) {
	trig := Trigger{Item: ScheduleItem{Activity: "Pausa", Category: CategoryBreak, Duration: "15min"}}
	n := trig.Notification()
	assert.Equal(t, "☕ Pausa", n.Title)
	assert.Equal(t, "Duration: 15min", n.Body)

	assert.Equal(t, "📚", CategoryStudy.Glyph())
	assert.Equal(t, CategoryLunch.Glyph(), CategoryDinner.Glyph())
}

func TestCloneDoesNotAlias(t *testing.T) {
	s := CustomSchedule{ID: "a", Name: "A", Days: []int{1}, Items: []ScheduleItem{{ID: "x", Time: "08:00"}}}
	c := s.Clone()
	c.Days[0] = 5
	c.Items[0].Time = "09:00"

	assert.Equal(t, 1, s.Days[0])
	assert.Equal(t, "08:00", s.Items[0].Time)
	assert.True(t, s.HasDay(1))
	assert.False(t, s.HasDay(5))
}

func TestConfigNormalize(t *testing.T) {
	c := &Config{LogLevel: "LOUD"}
	c.Normalize()

	assert.Equal(t, DefaultAppID, c.AppID)
	assert.Equal(t, DefaultTickSpec, c.TickSpec)
	assert.Equal(t, DefaultLogLevel, c.LogLevel)
	assert.True(t, c.NotificationsEnabled())

	off := false
	c.Notifications = &off
	assert.False(t, c.NotificationsEnabled())
}
