package notify

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/borgmon/study-alarm/pkg/alarm"
	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFyneSinkSendsNotification(t *testing.T) {
	a := test.NewTempApp(t)
	sink := NewFyneSink(a)

	trig := models.Trigger{Item: models.ScheduleItem{Activity: "Almoço e descanso", Category: models.CategoryLunch, Duration: "1h45min"}}
	want := fyne.NewNotification("🍽️ Almoço e descanso", "Duration: 1h45min")

	test.AssertNotificationSent(t, want, func() {
		require.NoError(t, sink.Notify(trig.Notification()))
	})
}

func TestFyneSinkWithoutApp(t *testing.T) {
	err := NewFyneSink(nil).Notify(models.Notification{Title: "x"})
	assert.ErrorIs(t, err, ErrNoApp)
}

func TestRequester(t *testing.T) {
	state := alarm.NewPermissionState()
	assert.Equal(t, alarm.PermissionDefault, state.Permission())

	assert.Equal(t, alarm.PermissionGranted, NewRequester(state, true, nil).Request())
	assert.Equal(t, alarm.PermissionGranted, state.Permission())

	assert.Equal(t, alarm.PermissionDenied, NewRequester(state, false, nil).Request())
	assert.Equal(t, alarm.PermissionDenied, state.Permission())
}
