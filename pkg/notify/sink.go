package notify

import (
	"errors"

	"fyne.io/fyne/v2"
	"github.com/borgmon/study-alarm/pkg/alarm"
	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/borgmon/study-alarm/pkg/models"
	"go.uber.org/zap"
)

var ErrNoApp = errors.New("notification sink has no fyne app")

// FyneSink delivers alarm notifications through the desktop notification service
type FyneSink struct {
	app fyne.App
}

// NewFyneSink creates a sink bound to app
func NewFyneSink(app fyne.App) *FyneSink {
	return &FyneSink{app: app}
}

// Notify sends the notification
func (s *FyneSink) Notify(n models.Notification) error {
	if s.app == nil {
		return ErrNoApp
	}
	s.app.SendNotification(fyne.NewNotification(n.Title, n.Body))
	return nil
}

// Requester resolves the notification permission once the app is running
type Requester struct {
	state   *alarm.PermissionState
	enabled bool
	logger  *zap.Logger
}

// NewRequester creates a requester. When enabled is false every request is denied.
func NewRequester(state *alarm.PermissionState, enabled bool, log *zap.Logger) *Requester {
	return &Requester{state: state, enabled: enabled, logger: logger.OrNop(log)}
}

// Request records the permission outcome
func (r *Requester) Request() alarm.Permission {
	result := alarm.PermissionGranted
	if !r.enabled {
		result = alarm.PermissionDenied
	}
	r.state.Set(result)
	r.logger.Info("Notification permission resolved", zap.String("permission", string(result)))
	return result
}
