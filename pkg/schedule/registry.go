package schedule

import (
	"sort"
	"sync"

	"github.com/borgmon/study-alarm/pkg/models"
)

// CustomSuffix is appended to a custom schedule's name in resolved labels
const CustomSuffix = " (Custom)"

// Resolved is the effective schedule for one weekday
type Resolved struct {
	Items    []models.ScheduleItem
	Label    string
	IsCustom bool
	CustomID string // Empty unless IsCustom
}

// Registry owns the default weekly table, the custom schedules and the feature flags
type Registry struct {
	mu sync.RWMutex

	// Stored order decides precedence: first schedule covering a day wins
	custom []models.CustomSchedule

	active       bool
	soundEnabled bool
}

// NewRegistry seeds a registry from persisted state
func NewRegistry(state models.State) *Registry {
	r := &Registry{
		active:       state.Active,
		soundEnabled: state.SoundEnabled,
		custom:       make([]models.CustomSchedule, 0, len(state.CustomSchedules)),
	}
	for _, s := range state.CustomSchedules {
		c := s.Clone()
		sortItems(c.Items)
		r.custom = append(r.custom, c)
	}
	return r
}

// ResolveForDay returns the schedule governing the weekday index (0 = Sunday)
func (r *Registry) ResolveForDay(day int) Resolved {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.custom {
		if s.HasDay(day) {
			return Resolved{
				Items:    append([]models.ScheduleItem{}, s.Items...),
				Label:    s.Name + CustomSuffix,
				IsCustom: true,
				CustomID: s.ID,
			}
		}
	}

	band := BandForDay(day)
	return Resolved{
		Items: band.Items,
		Label: band.Label,
	}
}

// Schedules returns a copy of the custom schedules in stored order
func (r *Registry) Schedules() []models.CustomSchedule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CustomSchedule, 0, len(r.custom))
	for _, s := range r.custom {
		out = append(out, s.Clone())
	}
	return out
}

// Schedule returns a copy of the custom schedule with the given ID
func (r *Registry) Schedule(id string) (models.CustomSchedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.custom[i].Clone(), true
	}
	return models.CustomSchedule{}, false
}

// Overlaps returns the weekdays of s already claimed by another custom schedule
func (r *Registry) Overlaps(s models.CustomSchedule) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var days []int
	for _, day := range s.Days {
		for _, other := range r.custom {
			if other.ID != s.ID && other.HasDay(day) {
				days = append(days, day)
				break
			}
		}
	}
	return days
}

// Snapshot returns the mutable state for persistence
func (r *Registry) Snapshot() models.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := models.State{
		Active:          r.active,
		SoundEnabled:    r.soundEnabled,
		CustomSchedules: make([]models.CustomSchedule, 0, len(r.custom)),
	}
	for _, s := range r.custom {
		state.CustomSchedules = append(state.CustomSchedules, s.Clone())
	}
	return state
}

func (r *Registry) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *Registry) SetActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = active
}

func (r *Registry) SoundEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.soundEnabled
}

func (r *Registry) SetSoundEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.soundEnabled = enabled
}

// put replaces the schedule with the same ID in place, or appends it
func (r *Registry) put(s models.CustomSchedule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(s.ID); i >= 0 {
		r.custom[i] = s
		return
	}
	r.custom = append(r.custom, s)
}

// remove deletes the schedule with the given ID and reports whether it existed
func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.custom = append(r.custom[:i], r.custom[i+1:]...)
	return true
}

func (r *Registry) indexOf(id string) int {
	for i, s := range r.custom {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// sortItems orders items by time, keeping the relative order of equal times
func sortItems(items []models.ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Time < items[j].Time
	})
}
