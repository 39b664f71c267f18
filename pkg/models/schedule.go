package models

import (
	"fmt"
	"strconv"
	"time"
)

// Category classifies a schedule item. It drives presentation only.
type Category string

const (
	CategoryStudy  Category = "study"
	CategoryBreak  Category = "break"
	CategoryLunch  Category = "lunch"
	CategoryDinner Category = "dinner"
)

// Glyph returns the icon shown in front of the activity in notifications
func (c Category) Glyph() string {
	switch c {
	case CategoryStudy:
		return "📚"
	case CategoryBreak:
		return "☕"
	case CategoryLunch, CategoryDinner:
		return "🍽️"
	default:
		return "⏰"
	}
}

// ScheduleItem is one activity occurrence within a day
type ScheduleItem struct {
	ID       string   `json:"id"`       // Stable identifier
	Time     string   `json:"time"`     // Zero-padded 24h "HH:MM"
	Activity string   `json:"activity"` // Display label
	Category Category `json:"type"`     // study, break, lunch or dinner
	Duration string   `json:"duration"` // Display only, never added to Time
}

// CustomSchedule overrides the default table on the weekdays it lists
type CustomSchedule struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Days  []int          `json:"days"`  // 0 = Sunday ... 6 = Saturday
	Items []ScheduleItem `json:"items"` // Sorted ascending by Time
}

// HasDay reports whether the schedule covers the given weekday index
func (s *CustomSchedule) HasDay(day int) bool {
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so edits never alias registry state
func (s CustomSchedule) Clone() CustomSchedule {
	out := s
	out.Days = append([]int{}, s.Days...)
	out.Items = append([]ScheduleItem{}, s.Items...)
	return out
}

// State is the mutable, persisted portion of the registry
type State struct {
	Active          bool
	SoundEnabled    bool
	CustomSchedules []CustomSchedule
}

// DefaultState returns the state used when nothing has been persisted yet
func DefaultState() State {
	return State{
		Active:          false,
		SoundEnabled:    true,
		CustomSchedules: []CustomSchedule{},
	}
}

// ClockKey formats t as the "HH:MM" key used for matching schedule items
func ClockKey(t time.Time) string {
	return t.Format("15:04")
}

// ClockMinutes converts an "HH:MM" string to minutes since midnight
func ClockMinutes(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' || !isDigits(hhmm[:2]) || !isDigits(hhmm[3:]) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", hhmm)
	}
	h, err := strconv.Atoi(hhmm[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	m, err := strconv.Atoi(hhmm[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return h*60 + m, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
