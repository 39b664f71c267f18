package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/study-alarm/pkg/alarm"
	"github.com/borgmon/study-alarm/pkg/models"
)

const upcomingLimit = 5

// trayState is what the tray menu shows; a tick only rebuilds the menu when it changes
type trayState struct {
	Weekday  int
	Label    string
	NextID   string
	NextTime string
	Active   bool
	Sound    bool
}

func (sa *StudyAlarm) trayStateFor(result alarm.TickResult) trayState {
	state := trayState{
		Weekday: result.Weekday,
		Label:   result.Resolved.Label,
		Active:  sa.registry.Active(),
		Sound:   sa.registry.SoundEnabled(),
	}
	if result.Next != nil {
		state.NextID = result.Next.ID
		state.NextTime = result.Next.Time
	}
	return state
}

func (sa *StudyAlarm) setupSystemTray() {
	sa.updateSystemTrayMenu()
}

// refreshTray rebuilds the menu after a change made from the menu itself
func (sa *StudyAlarm) refreshTray() {
	result := alarm.TickResult{}
	now := time.Now()
	result.Weekday = int(now.Weekday())
	result.Resolved = sa.registry.ResolveForDay(result.Weekday)
	result.Next = sa.clock.Next(now)

	sa.mu.Lock()
	sa.tray = sa.trayStateFor(result)
	sa.mu.Unlock()

	sa.updateSystemTrayMenu()
}

func (sa *StudyAlarm) updateSystemTrayMenu() {
	desk, ok := sa.app.(desktop.App)
	if !ok {
		return
	}

	menu := fyne.NewMenu("Study Alarm", sa.trayMenuItems(time.Now())...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

func (sa *StudyAlarm) trayMenuItems(now time.Time) []*fyne.MenuItem {
	resolved := sa.registry.ResolveForDay(int(now.Weekday()))
	menuItems := []*fyne.MenuItem{disabledItem(truncateString(resolved.Label, 45))}

	if next := sa.clock.Next(now); next != nil {
		menuItems = append(menuItems, disabledItem(fmt.Sprintf("Next: %s %s %s",
			next.Time, next.Category.Glyph(), truncateString(next.Activity, 30))))
	} else {
		menuItems = append(menuItems, disabledItem("No more alarms today"))
	}

	upcoming := alarm.Upcoming(resolved.Items, models.ClockKey(now), upcomingLimit)
	if len(upcoming) > 1 {
		menuItems = append(menuItems, fyne.NewMenuItemSeparator(), disabledItem("Upcoming Today:"))
		for _, item := range upcoming[1:] {
			menuItems = append(menuItems, disabledItem(fmt.Sprintf("  %s - %s",
				item.Time, truncateString(item.Activity, 35))))
		}
	}

	alarms := fyne.NewMenuItem("Alarms Enabled", sa.toggleActive)
	alarms.Checked = sa.registry.Active()
	sound := fyne.NewMenuItem("Sound Enabled", sa.toggleSound)
	sound.Checked = sa.registry.SoundEnabled()

	menuItems = append(menuItems,
		fyne.NewMenuItemSeparator(),
		alarms,
		sound,
		fyne.NewMenuItem("Test Alarm", sa.testAlarm),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", sa.quit),
	)
	return menuItems
}

func disabledItem(label string) *fyne.MenuItem {
	item := fyne.NewMenuItem(label, nil)
	item.Disabled = true
	return item
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
