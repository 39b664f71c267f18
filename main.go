package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/borgmon/study-alarm/pkg/alarm"
	"github.com/borgmon/study-alarm/pkg/audio"
	"github.com/borgmon/study-alarm/pkg/notify"
	"github.com/borgmon/study-alarm/pkg/platform"
	"github.com/borgmon/study-alarm/pkg/ticker"
	"go.uber.org/zap"
)

type StudyAlarm struct {
	*services

	app        fyne.App
	permission *alarm.PermissionState
	requester  *notify.Requester
	clock      *alarm.Clock
	driver     *ticker.Driver
	player     *audio.Player

	mu   sync.Mutex
	tray trayState
}

func main() {
	if err := newCLI(defaultEnv()).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "study-alarm:", err)
		os.Exit(1)
	}
}

func newStudyAlarm(a fyne.App, svc *services) (*StudyAlarm, error) {
	sa := &StudyAlarm{
		services:   svc,
		app:        a,
		permission: alarm.NewPermissionState(),
	}
	sa.requester = notify.NewRequester(sa.permission, svc.config.NotificationsEnabled(), svc.logger)

	var sound alarm.SoundPlayer
	player, err := audio.LoadPlayer(svc.config.SoundFile, svc.logger)
	if err != nil {
		svc.logger.Warn("Alarm sound unavailable, notifications only", zap.String("sound_file", svc.config.SoundFile), zap.Error(err))
	} else {
		sa.player = player
		sound = player
	}

	sa.clock = alarm.NewClock(svc.registry, sa.permission, notify.NewFyneSink(a), sound, svc.logger)

	sa.driver, err = ticker.NewDriver(svc.config.TickSpec, sa.clock, svc.logger)
	if err != nil {
		return nil, fmt.Errorf("create tick driver: %w", err)
	}
	sa.driver.OnTick(sa.onTick)

	return sa, nil
}

func (sa *StudyAlarm) initialize() {
	// Sync autostart state with config on startup
	if err := setupAutostart(sa.config.AutoStart, sa.logger); err != nil {
		sa.logger.Warn("Failed to setup autostart", zap.Error(err))
	}

	sa.setupSystemTray()
}

func (sa *StudyAlarm) run() {
	sa.app.Lifecycle().SetOnStarted(func() {
		platform.RunAsTrayOnly(sa.logger)
		sa.requester.Request()
		sa.driver.Start()
	})
	sa.app.Lifecycle().SetOnStopped(func() {
		sa.stop()
	})
	sa.app.Run()
}

// onTick runs on the driver goroutine and only touches the UI when the tray content changed
func (sa *StudyAlarm) onTick(result alarm.TickResult) {
	next := sa.trayStateFor(result)

	sa.mu.Lock()
	changed := next != sa.tray
	sa.tray = next
	sa.mu.Unlock()

	if changed {
		fyne.Do(sa.updateSystemTrayMenu)
	}
}

func (sa *StudyAlarm) toggleActive() {
	if err := sa.editor.SetActive(!sa.registry.Active()); err != nil {
		sa.logger.Error("Failed to toggle alarms", zap.Error(err))
	}
	sa.refreshTray()
}

func (sa *StudyAlarm) toggleSound() {
	if err := sa.editor.SetSoundEnabled(!sa.registry.SoundEnabled()); err != nil {
		sa.logger.Error("Failed to toggle alarm sound", zap.Error(err))
	}
	sa.refreshTray()
}

func (sa *StudyAlarm) testAlarm() {
	sa.clock.RequestTest()
	if !sa.registry.Active() || sa.permission.Permission() != alarm.PermissionGranted {
		sa.logger.Info("Test alarm queued until alarms are enabled and notifications are allowed")
	}
}

func (sa *StudyAlarm) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sa.driver.Stop(ctx); err != nil {
		sa.logger.Warn("Alarm clock did not stop cleanly", zap.Error(err))
	}
	sa.player.Stop()
}

// quit leaves cleanup to the lifecycle's stopped hook
func (sa *StudyAlarm) quit() {
	sa.app.Quit()
}
