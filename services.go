package main

import (
	"errors"

	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/borgmon/study-alarm/pkg/schedule"
	"github.com/borgmon/study-alarm/pkg/store"
	"go.uber.org/zap"
)

// services is the state shared by the tray app and the CLI commands
type services struct {
	config   *models.Config
	logger   *zap.Logger
	store    *store.PreferenceStore
	registry *schedule.Registry
	editor   *schedule.Editor
}

func newServices(cfg *models.Config, prefs store.KeyValue, log *zap.Logger) *services {
	log = logger.OrNop(log)
	ps := store.NewPreferenceStore(prefs, log)

	state, err := ps.Load()
	if errors.Is(err, store.ErrCorruptSchedules) {
		log.Warn("Starting with no custom schedules", zap.Error(err))
	} else if err != nil {
		log.Error("Failed to load schedules", zap.Error(err))
	}

	registry := schedule.NewRegistry(state)
	editor := schedule.NewEditor(registry, ps, log)
	editor.SetRejectOverlaps(cfg.RejectOverlaps)

	log.Debug("Schedules loaded",
		zap.Bool("active", state.Active),
		zap.Bool("sound_enabled", state.SoundEnabled),
		zap.Int("custom_schedules", len(state.CustomSchedules)))

	return &services{
		config:   cfg,
		logger:   log,
		store:    ps,
		registry: registry,
		editor:   editor,
	}
}
