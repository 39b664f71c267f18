package ticker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/borgmon/study-alarm/pkg/alarm"
	"github.com/borgmon/study-alarm/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaxPeriod is the longest gap allowed between ticks. Every matching minute
// must see at least one tick, with room for clock drift.
const MaxPeriod = 30 * time.Second

var ErrTickTooSlow = errors.New("tick spec fires less often than every 30s")

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Tickable is driven once per tick
type Tickable interface {
	Tick(now time.Time) alarm.TickResult
}

// Driver runs a Tickable on a cron schedule
type Driver struct {
	cron   *cron.Cron
	target Tickable
	logger *zap.Logger
	onTick func(alarm.TickResult)

	// Now supplies the tick instant
	Now func() time.Time
}

// ValidateSpec parses spec and checks that over a full day it never leaves a gap longer than MaxPeriod
func ValidateSpec(spec string) (cron.Schedule, error) {
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse tick spec %q: %w", spec, err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	for prev := start; prev.Before(end); {
		next := sched.Next(prev)
		if next.IsZero() || next.Sub(prev) > MaxPeriod {
			return nil, fmt.Errorf("%q: %w", spec, ErrTickTooSlow)
		}
		prev = next
	}
	return sched, nil
}

// NewDriver validates spec and prepares a stopped driver
func NewDriver(spec string, target Tickable, log *zap.Logger) (*Driver, error) {
	sched, err := ValidateSpec(spec)
	if err != nil {
		return nil, err
	}

	l := logger.OrNop(log)
	cl := cronLogger{l.Sugar()}
	d := &Driver{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		target: target,
		logger: l,
		Now:    time.Now,
	}
	d.cron.Schedule(sched, cron.FuncJob(d.tick))
	return d, nil
}

// OnTick registers a callback receiving every tick result
func (d *Driver) OnTick(fn func(alarm.TickResult)) {
	d.onTick = fn
}

// Start begins ticking in the background
func (d *Driver) Start() {
	d.logger.Info("Alarm clock started")
	d.cron.Start()
}

// Stop halts ticking and waits for a running tick to finish or ctx to expire
func (d *Driver) Stop(ctx context.Context) error {
	done := d.cron.Stop()
	select {
	case <-done.Done():
		d.logger.Info("Alarm clock stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks until ctx is cancelled
func (d *Driver) Run(ctx context.Context) error {
	d.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Stop(stopCtx)
}

func (d *Driver) tick() {
	result := d.target.Tick(d.Now())
	if result.Fired != nil {
		d.logger.Debug("Tick fired alarm", zap.String("time", result.Now), zap.String("activity", result.Fired.Item.Activity))
	}
	if d.onTick != nil {
		d.onTick(result)
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
