// Package monitor keeps one certificate model refreshed and publishes its state.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ivoronin/certexpiry/internal/certificate"
	"github.com/ivoronin/certexpiry/internal/condition"
	"github.com/ivoronin/certexpiry/internal/publisher"
)

// Refresh triggers.
const (
	TriggerStartup    = "startup"
	TriggerSchedule   = "schedule"
	TriggerInterval   = "interval"
	TriggerSignal     = "signal"
	TriggerFileChange = "file_change"
	TriggerHTTP       = "http"
	TriggerManual     = "manual"
)

// Config controls when the monitor refreshes and what it publishes.
type Config struct {
	// Entity is the name the state is published under.
	Entity string

	// Daily schedules one refresh per day; nil disables it.
	Daily *DailySchedule

	// Interval adds a periodic refresh; 0 disables it.
	Interval time.Duration

	// Alert is evaluated after every refresh; nil never alerts.
	Alert *condition.Condition

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Monitor owns a certificate model and serializes all access to it.
type Monitor struct {
	cfg        Config
	log        *zap.Logger
	publishers []publisher.Publisher

	requests chan string

	mu    sync.Mutex
	model *certificate.Model
	last  *publisher.Snapshot
}

// New creates a monitor for model. The model is not refreshed until
// Refresh or Run is called.
func New(model *certificate.Model, cfg Config, log *zap.Logger, pubs ...publisher.Publisher) *Monitor {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Monitor{
		cfg:        cfg,
		log:        log.With(zap.String("entity", cfg.Entity)),
		publishers: pubs,
		requests:   make(chan string, 1),
		model:      model,
	}
}

// Refresh re-reads the certificate, publishes the resulting snapshot to
// every publisher and returns it. Publisher failures are logged only.
// An error is returned when the certificate carries malformed timestamps.
func (m *Monitor) Refresh(ctx context.Context, trigger string) (publisher.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Info("certificate refresh triggered", zap.String("trigger", trigger))

	m.model.Refresh()
	snap, err := publisher.NewSnapshot(m.cfg.Entity, trigger, m.model, m.cfg.Clock())
	if err != nil {
		m.log.Error("Failed to derive certificate state",
			zap.String("path", m.model.Path()),
			zap.Error(err))
		for _, p := range m.publishers {
			if r, ok := p.(publisher.ErrorRecorder); ok {
				r.RecordError(m.cfg.Entity)
			}
		}
		return publisher.Snapshot{}, err
	}

	if m.cfg.Alert != nil && m.cfg.Alert.Matches(snap.State) {
		snap.Alert = true
		m.log.Warn("Certificate alert condition matched",
			zap.String("state", snap.State.String()),
			zap.String("condition", m.cfg.Alert.String()))
	}

	for _, p := range m.publishers {
		if err := p.Publish(ctx, snap); err != nil {
			m.log.Error("Failed to publish certificate state", zap.Error(err))
		}
	}

	m.last = &snap
	return snap, nil
}

// Snapshot returns the last published snapshot. ok is false before the
// first successful refresh.
func (m *Monitor) Snapshot() (snap publisher.Snapshot, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return publisher.Snapshot{}, false
	}
	return *m.last, true
}

// Trigger asks Run to refresh. It never blocks; a trigger arriving while
// another is pending is coalesced into it and false is returned.
func (m *Monitor) Trigger(name string) bool {
	select {
	case m.requests <- name:
		return true
	default:
		return false
	}
}

// Run refreshes once, then on every schedule tick and Trigger call until
// ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.refresh(ctx, TriggerStartup)

	var timer *time.Timer
	var daily <-chan time.Time
	if m.cfg.Daily != nil {
		timer = time.NewTimer(m.untilNext())
		defer timer.Stop()
		daily = timer.C
		m.log.Info("Daily refresh scheduled", zap.Stringer("at", m.cfg.Daily))
	}

	var tick <-chan time.Time
	if m.cfg.Interval > 0 {
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Monitor stopped")
			return nil
		case <-daily:
			m.refresh(ctx, TriggerSchedule)
			timer.Reset(m.untilNext())
		case <-tick:
			m.refresh(ctx, TriggerInterval)
		case trigger := <-m.requests:
			m.refresh(ctx, trigger)
		}
	}
}

func (m *Monitor) refresh(ctx context.Context, trigger string) {
	// errors are already logged and counted by Refresh
	_, _ = m.Refresh(ctx, trigger)
}

func (m *Monitor) untilNext() time.Duration {
	now := m.cfg.Clock()
	return m.cfg.Daily.Next(now).Sub(now)
}
