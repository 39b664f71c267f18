package models

import "time"

// Trigger is emitted when the current minute matches a schedule item
type Trigger struct {
	Item    ScheduleItem // Matched item, or the synthetic test item
	Weekday int          // 0 = Sunday ... 6 = Saturday
	At      time.Time    // Tick instant that fired the trigger
	Test    bool         // True for a manually requested test alarm
}

// Notification is the payload handed to the notification sink
type Notification struct {
	Title string
	Body  string
}

// Notification builds the sink payload: "<glyph> <activity>" / "Duration: <duration>"
func (t Trigger) Notification() Notification {
	return Notification{
		Title: t.Item.Category.Glyph() + " " + t.Item.Activity,
		Body:  "Duration: " + t.Item.Duration,
	}
}
