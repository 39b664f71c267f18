package ticker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/borgmon/study-alarm/pkg/alarm"
	"github.com/borgmon/study-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	mu    sync.Mutex
	ticks []time.Time
}

func (c *countingTarget) Tick(now time.Time) alarm.TickResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = append(c.ticks, now)
	return alarm.TickResult{Now: models.ClockKey(now)}
}

func (c *countingTarget) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ticks)
}

func TestValidateSpec(t *testing.T) {
	for _, spec := range []string{"@every 1s", "@every 30s", "* * * * * *", "*/15 * * * * *"} {
		_, err := ValidateSpec(spec)
		assert.NoError(t, err, spec)
	}

	for _, spec := range []string{"@every 1m", "@every 31s", "0 * * * * *", "* * * * *", "@hourly"} {
		_, err := ValidateSpec(spec)
		assert.ErrorIs(t, err, ErrTickTooSlow, spec)
	}

	_, err := ValidateSpec("not a spec")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTickTooSlow)
}

func TestTickUsesInjectedClock(t *testing.T) {
	target := &countingTarget{}
	d, err := NewDriver("@every 1s", target, nil)
	require.NoError(t, err)

	fixed := time.Date(2026, 10, 20, 10, 15, 0, 0, time.Local)
	d.Now = func() time.Time { return fixed }

	var got alarm.TickResult
	d.OnTick(func(r alarm.TickResult) { got = r })
	d.tick()

	require.Equal(t, 1, target.count())
	assert.Equal(t, fixed, target.ticks[0])
	assert.Equal(t, "10:15", got.Now)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	target := &countingTarget{}
	d, err := NewDriver("@every 1s", target, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return target.count() >= 1 }, 3*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop")
	}
}
