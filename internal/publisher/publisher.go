// Package publisher delivers refreshed certificate state to external sinks.
package publisher

import (
	"context"
	"time"

	"github.com/ivoronin/certexpiry/internal/certificate"
)

// Publisher receives every refreshed snapshot.
type Publisher interface {
	Publish(ctx context.Context, s Snapshot) error
}

// Attributes are the descriptive fields published next to the state.
// All are nil when the certificate is unknown.
type Attributes struct {
	Subject      certificate.Name `json:"subject" yaml:"subject"`
	Issuer       certificate.Name `json:"issuer" yaml:"issuer"`
	Version      *int             `json:"version" yaml:"version"`
	SerialNumber *string          `json:"serial_number" yaml:"serial_number"`
	Fingerprint  *string          `json:"fingerprint" yaml:"fingerprint"`
	StartDate    *time.Time       `json:"start_date" yaml:"start_date"`
	EndDate      *time.Time       `json:"end_date" yaml:"end_date"`
}

// Snapshot is the state of one certificate at one refresh.
type Snapshot struct {
	Entity      string            `json:"entity" yaml:"entity"`
	Path        string            `json:"path" yaml:"path"`
	State       certificate.State `json:"state" yaml:"state"`
	Attributes  Attributes        `json:"attributes" yaml:"attributes"`
	Alert       bool              `json:"alert" yaml:"alert"`
	Trigger     string            `json:"trigger" yaml:"trigger"`
	RefreshedAt time.Time         `json:"refreshed_at" yaml:"refreshed_at"`
	Error       string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSnapshot builds a snapshot from a refreshed model.
// It fails only when the model's validity timestamps are malformed.
func NewSnapshot(entity, trigger string, m *certificate.Model, at time.Time) (Snapshot, error) {
	state, err := m.State()
	if err != nil {
		return Snapshot{}, err
	}
	before, err := m.DateBefore()
	if err != nil {
		return Snapshot{}, err
	}
	after, err := m.DateAfter()
	if err != nil {
		return Snapshot{}, err
	}

	s := Snapshot{
		Entity:      entity,
		Path:        m.Path(),
		State:       state,
		Trigger:     trigger,
		RefreshedAt: at,
		Attributes: Attributes{
			Subject:   m.Subject(),
			Issuer:    m.Issuer(),
			StartDate: before,
			EndDate:   after,
		},
	}

	fields := m.Fields()
	if fields.Version != 0 {
		v := fields.Version
		s.Attributes.Version = &v
	}
	if fields.SerialNumber != "" {
		serial := fields.SerialNumber
		s.Attributes.SerialNumber = &serial
	}
	if !fields.Fingerprint.IsZero() {
		fp := fields.Fingerprint.String()
		s.Attributes.Fingerprint = &fp
	}
	if err := m.Err(); err != nil {
		s.Error = err.Error()
	}
	return s, nil
}

// ErrorRecorder is implemented by publishers that count failed refreshes.
type ErrorRecorder interface {
	RecordError(entity string)
}
