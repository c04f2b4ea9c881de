// Package certificate loads an X.509 certificate file and derives
// its validity state relative to the current time.
package certificate

import (
	"time"
)

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the time source used for derived values.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithDecoder overrides how the certificate file is decoded.
func WithDecoder(d Decoder) Option {
	return func(m *Model) {
		m.decoder = d
	}
}

// Model is the parsed state of one certificate file.
//
// Model does no locking: Refresh must not run concurrently
// with any other method on the same Model.
type Model struct {
	path    string
	exists  bool
	fields  Fields
	err     error
	decoder Decoder
	now     func() time.Time
}

// New creates a Model for path and performs the initial Refresh.
func New(path string, opts ...Option) *Model {
	m := &Model{
		path:    path,
		exists:  true,
		decoder: FileDecoder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Refresh()
	return m
}

// Refresh re-reads the certificate file and replaces every field.
// Decode failures are not returned: the model becomes empty and
// Exists reports false. Err keeps the failure for diagnostics.
func (m *Model) Refresh() {
	m.fields = Fields{}
	m.exists = true
	m.err = nil

	fields, err := m.decoder.Decode(m.path)
	switch {
	case err != nil:
		m.exists = false
		m.err = err
	case fields == nil:
		m.exists = false
		m.err = ErrNoCertificate
	default:
		m.fields = *fields
	}
}

// Path returns the certificate file path.
func (m *Model) Path() string { return m.path }

// Exists reports whether the last Refresh decoded a certificate.
func (m *Model) Exists() bool { return m.exists }

// Err returns the decode failure of the last Refresh, if any.
func (m *Model) Err() error { return m.err }

// Fields returns a copy of the decoded fields.
func (m *Model) Fields() Fields { return m.fields }

// Subject returns the subject name, nil when unset.
func (m *Model) Subject() Name { return m.fields.Subject }

// Issuer returns the issuer name, nil when unset.
func (m *Model) Issuer() Name { return m.fields.Issuer }

// Version returns the certificate format version, 0 when unset.
func (m *Model) Version() int { return m.fields.Version }

// DateBefore returns NotBefore as a time, nil when unset.
func (m *Model) DateBefore() (*time.Time, error) {
	return parseOptional(m.fields.NotBefore)
}

// DateAfter returns NotAfter as a time, nil when unset.
func (m *Model) DateAfter() (*time.Time, error) {
	return parseOptional(m.fields.NotAfter)
}

func parseOptional(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// IsStarted reports whether at least one whole day has passed since NotBefore.
func (m *Model) IsStarted() (bool, error) {
	before, err := m.DateBefore()
	if err != nil || before == nil {
		return false, err
	}
	return wholeDays(*before, m.now()) > 0, nil
}

// ExpirationDays returns the whole days left until NotAfter, never below 0.
// It returns -1 when NotAfter is unset.
func (m *Model) ExpirationDays() (int, error) {
	after, err := m.DateAfter()
	if err != nil {
		return 0, err
	}
	if after == nil {
		return -1, nil
	}
	if days := wholeDays(m.now(), *after); days > 0 {
		return days, nil
	}
	return 0, nil
}

// State derives the published status of the certificate.
func (m *Model) State() (State, error) {
	if !m.exists {
		return Unknown(), nil
	}

	started, err := m.IsStarted()
	if err != nil {
		return State{}, err
	}
	if !started {
		return NotStarted(), nil
	}

	days, err := m.ExpirationDays()
	if err != nil {
		return State{}, err
	}
	if days == 0 {
		return Expired(), nil
	}
	return DaysRemaining(days), nil
}
