package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/borgmon/study-alarm/pkg/schedule"
	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

const productID = "-//borgmon//study-alarm//EN"

// floatingFormat is an iCalendar DATE-TIME without zone, read as local time by clients
const floatingFormat = "20060102T150405"

// Resolver resolves the effective schedule for a weekday
type Resolver interface {
	ResolveForDay(day int) schedule.Resolved
}

var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// BuildWeek renders the seven days starting at from as weekly recurring events.
// Each item becomes one VEVENT whose first occurrence falls inside that week.
func BuildWeek(r Resolver, from time.Time) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := from.UTC()
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	for offset := 0; offset < 7; offset++ {
		date := start.AddDate(0, 0, offset)
		day := int(date.Weekday())
		resolved := r.ResolveForDay(day)

		for _, item := range resolved.Items {
			event, err := buildEvent(item, day, date, stamp, resolved.Label)
			if err != nil {
				return nil, err
			}
			cal.Children = append(cal.Children, event.Component)
		}
	}

	return cal, nil
}

// ExportWeek writes the week starting at from as an iCalendar document
func ExportWeek(w io.Writer, r Resolver, from time.Time) error {
	cal, err := BuildWeek(r, from)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func buildEvent(item models.ScheduleItem, day int, date, stamp time.Time, label string) (*ical.Event, error) {
	minutes, err := models.ClockMinutes(item.Time)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", item.ID, err)
	}
	at := date.Add(time.Duration(minutes) * time.Minute)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%d@study-alarm", item.ID, day))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)

	dtstart := ical.NewProp(ical.PropDateTimeStart)
	dtstart.SetValueType(ical.ValueDateTime)
	dtstart.Value = at.Format(floatingFormat)
	event.Props.Set(dtstart)

	n := models.Trigger{Item: item}.Notification()
	event.Props.SetText(ical.PropSummary, n.Title)
	event.Props.SetText(ical.PropDescription, n.Body+"\n"+label)
	event.Props.SetText(ical.PropCategories, string(item.Category))

	event.Props.SetRecurrenceRule(&rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[day]},
	})

	return event, nil
}
