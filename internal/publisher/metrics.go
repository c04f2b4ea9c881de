package publisher

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ivoronin/certexpiry/internal/certificate"
)

var allKinds = []certificate.Kind{
	certificate.KindUnknown,
	certificate.KindNotStarted,
	certificate.KindDaysRemaining,
	certificate.KindExpired,
}

// MetricsPublisher exposes snapshots as Prometheus metrics.
type MetricsPublisher struct {
	// daysRemaining is -1 while the certificate is unknown or not started
	daysRemaining *prometheus.GaugeVec

	// state is 1 for the current state kind and 0 for the others
	// Labels: entity, state (unknown, not_started, days_remaining, expired)
	state *prometheus.GaugeVec

	notBefore   *prometheus.GaugeVec
	notAfter    *prometheus.GaugeVec
	lastRefresh *prometheus.GaugeVec

	// refreshes counts refreshes by result (ok, unknown)
	refreshes *prometheus.CounterVec
}

// NewMetricsPublisher registers the certexpiry metrics with reg.
func NewMetricsPublisher(reg prometheus.Registerer) *MetricsPublisher {
	factory := promauto.With(reg)
	return &MetricsPublisher{
		daysRemaining: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "certexpiry_days_remaining",
				Help: "Whole days until the certificate expires",
			},
			[]string{"entity"},
		),
		state: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "certexpiry_state",
				Help: "Current certificate state, 1 for the active state",
			},
			[]string{"entity", "state"},
		),
		notBefore: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "certexpiry_not_before_timestamp_seconds",
				Help: "Start of the certificate validity window as a Unix timestamp",
			},
			[]string{"entity"},
		),
		notAfter: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "certexpiry_not_after_timestamp_seconds",
				Help: "End of the certificate validity window as a Unix timestamp",
			},
			[]string{"entity"},
		),
		lastRefresh: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "certexpiry_last_refresh_timestamp_seconds",
				Help: "Time of the last certificate refresh as a Unix timestamp",
			},
			[]string{"entity"},
		),
		refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "certexpiry_refresh_total",
				Help: "Total number of certificate refreshes grouped by result",
			},
			[]string{"entity", "result"},
		),
	}
}

// Publish updates all gauges from the snapshot.
func (p *MetricsPublisher) Publish(_ context.Context, s Snapshot) error {
	days := -1.0
	switch s.State.Kind {
	case certificate.KindDaysRemaining:
		days = float64(s.State.Days)
	case certificate.KindExpired:
		days = 0
	}
	p.daysRemaining.WithLabelValues(s.Entity).Set(days)

	for _, k := range allKinds {
		v := 0.0
		if k == s.State.Kind {
			v = 1
		}
		p.state.WithLabelValues(s.Entity, k.String()).Set(v)
	}

	if s.Attributes.StartDate != nil {
		p.notBefore.WithLabelValues(s.Entity).Set(float64(s.Attributes.StartDate.Unix()))
	} else {
		p.notBefore.DeleteLabelValues(s.Entity)
	}
	if s.Attributes.EndDate != nil {
		p.notAfter.WithLabelValues(s.Entity).Set(float64(s.Attributes.EndDate.Unix()))
	} else {
		p.notAfter.DeleteLabelValues(s.Entity)
	}

	p.lastRefresh.WithLabelValues(s.Entity).Set(float64(s.RefreshedAt.Unix()))

	result := "ok"
	if s.State.Kind == certificate.KindUnknown {
		result = "unknown"
	}
	p.refreshes.WithLabelValues(s.Entity, result).Inc()
	return nil
}

// RecordError counts a refresh that could not produce a snapshot.
func (p *MetricsPublisher) RecordError(entity string) {
	p.refreshes.WithLabelValues(entity, "error").Inc()
}
