package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultScheduleName is given to schedules returned by Create
const DefaultScheduleName = "New Schedule"

var (
	ErrScheduleNotFound = errors.New("custom schedule not found")
	ErrInvalidDay       = errors.New("weekday index must be between 0 and 6")
)

// Saver persists the registry state after every committed change
type Saver interface {
	Save(state models.State) error
}

// Editor performs CRUD on staged copies of custom schedules.
// Nothing is visible to the alarm clock until Save commits it.
type Editor struct {
	registry       *Registry
	saver          Saver
	logger         *zap.Logger
	rejectOverlaps bool

	// NewID generates schedule and item identifiers
	NewID func() string
}

// NewEditor creates an editor committing into registry and persisting through saver
func NewEditor(registry *Registry, saver Saver, log *zap.Logger) *Editor {
	return &Editor{
		registry: registry,
		saver:    saver,
		logger:   logger.OrNop(log),
		NewID:    func() string { return uuid.New().String() },
	}
}

// SetRejectOverlaps makes Save refuse schedules sharing a weekday with another schedule
func (e *Editor) SetRejectOverlaps(reject bool) {
	e.rejectOverlaps = reject
}

// Create returns a new, uncommitted schedule
func (e *Editor) Create() *models.CustomSchedule {
	return &models.CustomSchedule{
		ID:    e.NewID(),
		Name:  DefaultScheduleName,
		Days:  []int{},
		Items: []models.ScheduleItem{},
	}
}

// Edit returns a staged copy of a committed schedule
func (e *Editor) Edit(id string) (*models.CustomSchedule, error) {
	s, ok := e.registry.Schedule(id)
	if !ok {
		return nil, fmt.Errorf("edit %s: %w", id, ErrScheduleNotFound)
	}
	return &s, nil
}

// Save validates the staged schedule and commits it, replacing a schedule
// with the same ID in place or appending a new one.
func (e *Editor) Save(s *models.CustomSchedule) error {
	if s == nil {
		return &ValidationError{Problems: []string{"schedule is required"}}
	}
	committed, err := NormalizeSchedule(*s)
	if err != nil {
		return err
	}

	if e.rejectOverlaps {
		if days := e.registry.Overlaps(committed); len(days) > 0 {
			return &ValidationError{Problems: []string{fmt.Sprintf("days %v are already covered by another schedule", days)}}
		}
	}

	e.registry.put(committed)
	e.logger.Info("Custom schedule saved",
		zap.String("id", committed.ID),
		zap.String("name", committed.Name),
		zap.Ints("days", committed.Days),
		zap.Int("items", len(committed.Items)))

	return e.persist()
}

// Delete removes a committed schedule. Unknown IDs are a no-op.
func (e *Editor) Delete(id string) error {
	if !e.registry.remove(id) {
		return nil
	}
	e.logger.Info("Custom schedule deleted", zap.String("id", id))
	return e.persist()
}

// Rename sets the staged schedule's display name
func (e *Editor) Rename(s *models.CustomSchedule, name string) {
	s.Name = name
}

// ToggleDay adds the weekday if absent and removes it if present, keeping days ascending
func (e *Editor) ToggleDay(s *models.CustomSchedule, day int) error {
	if day < 0 || day > 6 {
		return fmt.Errorf("toggle day %d: %w", day, ErrInvalidDay)
	}

	if s.HasDay(day) {
		days := make([]int, 0, len(s.Days))
		for _, d := range s.Days {
			if d != day {
				days = append(days, d)
			}
		}
		s.Days = days
	} else {
		s.Days = append(s.Days, day)
	}
	sort.Ints(s.Days)
	return nil
}

// AddItem validates the candidate, assigns it an ID and inserts it keeping items sorted by time
func (e *Editor) AddItem(s *models.CustomSchedule, candidate ItemCandidate) (models.ScheduleItem, error) {
	item, err := ValidateItem(candidate)
	if err != nil {
		return models.ScheduleItem{}, err
	}
	item.ID = e.NewID()

	s.Items = append(s.Items, item)
	sortItems(s.Items)
	return item, nil
}

// RemoveItem drops the item with the given ID. Unknown IDs are a no-op.
func (e *Editor) RemoveItem(s *models.CustomSchedule, itemID string) {
	for i, item := range s.Items {
		if item.ID == itemID {
			s.Items = append(s.Items[:i:i], s.Items[i+1:]...)
			return
		}
	}
}

// SetActive toggles alarm firing and persists the flag
func (e *Editor) SetActive(active bool) error {
	e.registry.SetActive(active)
	e.logger.Info("Alarms toggled", zap.Bool("active", active))
	return e.persist()
}

// SetSoundEnabled toggles the alarm sound and persists the flag
func (e *Editor) SetSoundEnabled(enabled bool) error {
	e.registry.SetSoundEnabled(enabled)
	e.logger.Info("Alarm sound toggled", zap.Bool("sound_enabled", enabled))
	return e.persist()
}

func (e *Editor) persist() error {
	if e.saver == nil {
		return nil
	}
	if err := e.saver.Save(e.registry.Snapshot()); err != nil {
		e.logger.Error("Failed to persist schedules", zap.Error(err))
		return fmt.Errorf("persist schedules: %w", err)
	}
	return nil
}

func normalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
