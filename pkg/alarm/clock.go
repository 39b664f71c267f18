package alarm

import (
	"fmt"
	"sync"
	"time"

	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/borgmon/study-alarm/pkg/schedule"
	"go.uber.org/zap"
)

// TestItemID identifies the synthetic item fired by RequestTest
const TestItemID = "test"

// Registry is the part of the schedule registry the clock reads
type Registry interface {
	ResolveForDay(day int) schedule.Resolved
	Active() bool
	SoundEnabled() bool
}

// Notifier delivers a trigger to the user
type Notifier interface {
	Notify(n models.Notification) error
}

// SoundPlayer plays the alarm sound without blocking
type SoundPlayer interface {
	Play() error
}

// FiredKey identifies the minute an alarm last fired in
type FiredKey struct {
	Date    string // Calendar date of the tick, so a weekly alarm re-arms a week later
	Weekday int
	Time    string
}

// TickResult is what one tick observed and did
type TickResult struct {
	Weekday  int
	Now      string // "HH:MM"
	Resolved schedule.Resolved
	Fired    *models.Trigger       // Nil when nothing fired
	Next     *models.ScheduleItem // First item later today, nil when none remain
}

// Clock decides, once per tick, whether an alarm fires and which alarm is next.
// Ticks must arrive at least every 30 seconds so no matching minute is missed.
type Clock struct {
	mu sync.Mutex

	registry   Registry
	capability Capability
	notifier   Notifier
	sound      SoundPlayer
	logger     *zap.Logger

	lastFired   FiredKey
	hasFired    bool
	testPending bool
}

// NewClock wires the clock. sound may be nil.
func NewClock(registry Registry, capability Capability, notifier Notifier, sound SoundPlayer, log *zap.Logger) *Clock {
	return &Clock{
		registry:   registry,
		capability: capability,
		notifier:   notifier,
		sound:      sound,
		logger:     logger.OrNop(log),
	}
}

// RequestTest makes the next eligible tick fire a synthetic alarm
func (c *Clock) RequestTest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testPending = true
}

// TestPending reports whether a test alarm is still waiting to fire
func (c *Clock) TestPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.testPending
}

// LastFired returns the key of the last emitted trigger
func (c *Clock) LastFired() (FiredKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFired, c.hasFired
}

// Next returns the next alarm later today without firing anything
func (c *Clock) Next(now time.Time) *models.ScheduleItem {
	resolved := c.registry.ResolveForDay(int(now.Weekday()))
	return NextAfter(resolved.Items, models.ClockKey(now))
}

// Tick evaluates the schedule at now, emitting at most one trigger per calendar minute
func (c *Clock) Tick(now time.Time) TickResult {
	weekday := int(now.Weekday())
	nowKey := models.ClockKey(now)
	resolved := c.registry.ResolveForDay(weekday)

	result := TickResult{
		Weekday:  weekday,
		Now:      nowKey,
		Resolved: resolved,
		Next:     NextAfter(resolved.Items, nowKey),
	}

	var match *models.ScheduleItem
	for i := range resolved.Items {
		if resolved.Items[i].Time == nowKey {
			match = &resolved.Items[i]
			break
		}
	}

	key := FiredKey{Date: now.Format("2006-01-02"), Weekday: weekday, Time: nowKey}

	c.mu.Lock()
	if (match == nil && !c.testPending) ||
		!c.registry.Active() ||
		c.capability.Permission() != PermissionGranted ||
		(c.hasFired && c.lastFired == key) {
		c.mu.Unlock()
		return result
	}

	trigger := models.Trigger{Weekday: weekday, At: now}
	if match != nil {
		trigger.Item = *match
	} else {
		trigger.Item = testItem(nowKey)
		trigger.Test = true
	}

	c.lastFired = key
	c.hasFired = true
	c.testPending = false
	c.mu.Unlock()

	c.emit(trigger)
	result.Fired = &trigger
	return result
}

// emit delivers the trigger. Failures are logged; the trigger still counts as fired.
func (c *Clock) emit(trigger models.Trigger) {
	n := trigger.Notification()
	c.logger.Info("Alarm fired",
		zap.String("time", trigger.Item.Time),
		zap.Int("weekday", trigger.Weekday),
		zap.String("activity", trigger.Item.Activity),
		zap.Bool("test", trigger.Test))

	if err := safeCall(func() error { return c.notifier.Notify(n) }); err != nil {
		c.logger.Error("Failed to deliver notification", zap.String("title", n.Title), zap.Error(err))
	}

	if c.sound == nil || !c.registry.SoundEnabled() {
		return
	}
	if err := safeCall(c.sound.Play); err != nil {
		c.logger.Error("Failed to play alarm sound", zap.Error(err))
	}
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// NextAfter returns a copy of the first item strictly later than nowKey, nil when none remain.
// items must be sorted by time.
func NextAfter(items []models.ScheduleItem, nowKey string) *models.ScheduleItem {
	upcoming := Upcoming(items, nowKey, 1)
	if len(upcoming) == 0 {
		return nil
	}
	return &upcoming[0]
}

// Upcoming returns at most limit items strictly later than nowKey, in schedule order
func Upcoming(items []models.ScheduleItem, nowKey string, limit int) []models.ScheduleItem {
	upcoming := []models.ScheduleItem{}
	for _, item := range items {
		if len(upcoming) >= limit {
			break
		}
		if item.Time > nowKey {
			upcoming = append(upcoming, item)
		}
	}
	return upcoming
}

func testItem(nowKey string) models.ScheduleItem {
	return models.ScheduleItem{
		ID:       TestItemID,
		Time:     nowKey,
		Activity: "Alarm Test",
		Category: models.CategoryStudy,
		Duration: "1min",
	}
}
