package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/borgmon/study-alarm/pkg/schedule"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Preference keys, kept compatible with data written by earlier versions
const (
	KeyIsActive        = "alarmSystem:isActive"
	KeySoundEnabled    = "alarmSystem:soundEnabled"
	KeyCustomSchedules = "alarmSystem:customSchedules"
)

// ErrCorruptSchedules is reported by Load when the stored schedules cannot be parsed.
// The returned state is still usable and holds an empty schedule list.
var ErrCorruptSchedules = errors.New("stored custom schedules are corrupt")

// KeyValue is the subset of fyne.Preferences the store needs
type KeyValue interface {
	StringWithFallback(key, fallback string) string
	SetString(key, value string)
}

// PreferenceStore persists registry state into a key-value store
type PreferenceStore struct {
	prefs  KeyValue
	logger *zap.Logger
}

// NewPreferenceStore creates a PreferenceStore over prefs, usually app.Preferences()
func NewPreferenceStore(prefs KeyValue, log *zap.Logger) *PreferenceStore {
	return &PreferenceStore{prefs: prefs, logger: logger.OrNop(log)}
}

// Load reads the persisted state. Missing keys fall back to defaults; corrupt
// schedules fall back to an empty list and ErrCorruptSchedules is returned
// alongside the usable state.
func (ps *PreferenceStore) Load() (models.State, error) {
	state := models.DefaultState()
	state.Active = ps.loadBool(KeyIsActive, state.Active)
	state.SoundEnabled = ps.loadBool(KeySoundEnabled, state.SoundEnabled)

	raw := ps.prefs.StringWithFallback(KeyCustomSchedules, "")
	if strings.TrimSpace(raw) == "" {
		return state, nil
	}

	schedules, err := DecodeSchedules(raw)
	if err != nil {
		ps.logger.Warn("Discarding unreadable custom schedules", zap.Error(err))
		return state, fmt.Errorf("%w: %v", ErrCorruptSchedules, err)
	}

	state.CustomSchedules = ps.sanitize(schedules)
	return state, nil
}

// Save writes every entry of the state
func (ps *PreferenceStore) Save(state models.State) error {
	encoded, err := EncodeSchedules(state.CustomSchedules)
	if err != nil {
		return fmt.Errorf("encode custom schedules: %w", err)
	}

	ps.prefs.SetString(KeyIsActive, strconv.FormatBool(state.Active))
	ps.prefs.SetString(KeySoundEnabled, strconv.FormatBool(state.SoundEnabled))
	ps.prefs.SetString(KeyCustomSchedules, encoded)
	return nil
}

func (ps *PreferenceStore) loadBool(key string, fallback bool) bool {
	raw := ps.prefs.StringWithFallback(key, "")
	switch raw {
	case "":
		return fallback
	case "true":
		return true
	case "false":
		return false
	default:
		ps.logger.Warn("Ignoring malformed flag", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
}

// sanitize drops items and schedules that would break registry invariants
func (ps *PreferenceStore) sanitize(schedules []models.CustomSchedule) []models.CustomSchedule {
	out := make([]models.CustomSchedule, 0, len(schedules))

	for _, s := range schedules {
		items := make([]models.ScheduleItem, 0, len(s.Items))
		seen := make(map[string]bool, len(s.Items))
		for _, item := range s.Items {
			valid, err := schedule.ValidateItem(schedule.ItemCandidate{
				Time:     item.Time,
				Activity: item.Activity,
				Category: item.Category,
				Duration: item.Duration,
			})
			if err != nil || item.ID == "" || seen[item.ID] {
				ps.logger.Warn("Dropping invalid stored item",
					zap.String("schedule_id", s.ID),
					zap.String("item_id", item.ID),
					zap.Error(err))
				continue
			}
			seen[item.ID] = true
			valid.ID = item.ID
			items = append(items, valid)
		}
		s.Items = items

		if s.ID == "" {
			ps.logger.Warn("Dropping stored schedule without id", zap.String("name", s.Name))
			continue
		}
		normalized, err := schedule.NormalizeSchedule(s)
		if err != nil {
			ps.logger.Warn("Dropping invalid stored schedule", zap.String("schedule_id", s.ID), zap.Error(err))
			continue
		}
		out = append(out, normalized)
	}

	return out
}

// EncodeSchedules serializes schedules as a JSON array. Nil lists, including nil
// days and items, encode as [].
func EncodeSchedules(schedules []models.CustomSchedule) (string, error) {
	out := make([]models.CustomSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s.Days == nil {
			s.Days = []int{}
		}
		if s.Items == nil {
			s.Items = []models.ScheduleItem{}
		}
		out = append(out, s)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeSchedules parses a JSON array of schedules
func DecodeSchedules(raw string) ([]models.CustomSchedule, error) {
	var schedules []models.CustomSchedule
	if err := json.Unmarshal([]byte(raw), &schedules); err != nil {
		return nil, err
	}
	if schedules == nil {
		schedules = []models.CustomSchedule{}
	}
	for i := range schedules {
		if schedules[i].Days == nil {
			schedules[i].Days = []int{}
		}
		if schedules[i].Items == nil {
			schedules[i].Items = []models.ScheduleItem{}
		}
	}
	return schedules, nil
}
