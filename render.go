package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/borgmon/study-alarm/pkg/schedule"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	categoryStyles = map[models.Category]lipgloss.Style{
		models.CategoryStudy:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		models.CategoryBreak:  lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
		models.CategoryLunch:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		models.CategoryDinner: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeResolved(w io.Writer, day time.Weekday, resolved schedule.Resolved) {
	fmt.Fprintln(w, titleStyle.Render(day.String()+": "+resolved.Label))
	if len(resolved.Items) == 0 {
		fmt.Fprintln(w, "No alarms")
		return
	}
	fmt.Fprintln(w, itemsTable(resolved.Items).Render())
}

func writeSchedule(w io.Writer, s models.CustomSchedule) {
	fmt.Fprintln(w, titleStyle.Render(s.Name+" ("+formatDays(s.Days)+")"))
	if len(s.Items) == 0 {
		fmt.Fprintln(w, "No alarms")
		return
	}
	fmt.Fprintln(w, itemsTable(s.Items).Render())
}

func writeSchedules(w io.Writer, schedules []models.CustomSchedule) {
	if len(schedules) == 0 {
		fmt.Fprintln(w, "No custom schedules")
		return
	}

	t := newTable("ID", "NAME", "DAYS", "ALARMS")
	for _, s := range schedules {
		t.Row(s.ID, s.Name, formatDays(s.Days), strconv.Itoa(len(s.Items)))
	}
	fmt.Fprintln(w, t.Render())
}

func itemsTable(items []models.ScheduleItem) *table.Table {
	t := newTable("TIME", "ACTIVITY", "CATEGORY", "DURATION", "ID")
	for _, item := range items {
		category := string(item.Category)
		if style, ok := categoryStyles[item.Category]; ok {
			category = style.Render(category)
		}
		t.Row(item.Time, item.Category.Glyph()+" "+item.Activity, category, item.Duration, item.ID)
	}
	return t
}

// formatDays renders weekday indices as short names, e.g. "Mon, Wed"
func formatDays(days []int) string {
	if len(days) == 0 {
		return "no days"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, time.Weekday(d).String()[:3])
	}
	return strings.Join(names, ", ")
}
