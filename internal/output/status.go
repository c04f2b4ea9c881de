package output

import (
	"encoding/json"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivoronin/certexpiry/internal/certificate"
	"github.com/ivoronin/certexpiry/internal/publisher"
)

// StatusOutput implements Formatter for a certificate snapshot.
type StatusOutput struct {
	Snapshot publisher.Snapshot
	// Alert is the result of the alert check; nil when none was run.
	Alert *bool
}

// NewStatusOutput creates a new StatusOutput formatter.
func NewStatusOutput(s publisher.Snapshot) *StatusOutput {
	return &StatusOutput{Snapshot: s}
}

// FormatText renders the snapshot as a two-column FIELD/VALUE table.
// Unset attributes are shown as "-".
func (o *StatusOutput) FormatText() string {
	s := o.Snapshot
	a := s.Attributes

	tw := NewTableWriter()
	tw.Header("FIELD", "VALUE")
	tw.Field("path", s.Path)
	tw.Field("state", s.State.String())
	tw.Field("subject", a.Subject.String())
	tw.Field("issuer", a.Issuer.String())
	tw.Field("version", intString(a.Version))
	tw.Field("serial_number", deref(a.SerialNumber))
	tw.Field("fingerprint", deref(a.Fingerprint))
	tw.Field("start_date", deref(formatTime(a.StartDate)))
	tw.Field("end_date", deref(formatTime(a.EndDate)))
	if o.Alert != nil {
		tw.Field("alert", strconv.FormatBool(*o.Alert))
	}
	if s.Error != "" {
		tw.Field("error", s.Error)
	}
	return tw.String()
}

// FormatJSON formats the snapshot as indented JSON.
func (o *StatusOutput) FormatJSON() ([]byte, error) {
	return json.MarshalIndent(o.document(), "", "  ")
}

// FormatYAML formats the snapshot as YAML.
func (o *StatusOutput) FormatYAML() ([]byte, error) {
	return yaml.Marshal(o.document())
}

func (o *StatusOutput) document() statusDocument {
	s := o.Snapshot
	doc := statusDocument{
		Path:         s.Path,
		State:        s.State,
		Subject:      s.Attributes.Subject,
		Issuer:       s.Attributes.Issuer,
		Version:      s.Attributes.Version,
		SerialNumber: s.Attributes.SerialNumber,
		Fingerprint:  s.Attributes.Fingerprint,
		StartDate:    formatTime(s.Attributes.StartDate),
		EndDate:      formatTime(s.Attributes.EndDate),
		Alert:        o.Alert,
		Error:        s.Error,
	}
	return doc
}

// statusDocument is the JSON/YAML output structure.
type statusDocument struct {
	Path         string            `json:"path" yaml:"path"`
	State        certificate.State `json:"state" yaml:"state"`
	Subject      certificate.Name  `json:"subject" yaml:"subject"`
	Issuer       certificate.Name  `json:"issuer" yaml:"issuer"`
	Version      *int              `json:"version" yaml:"version"`
	SerialNumber *string           `json:"serial_number" yaml:"serial_number"`
	Fingerprint  *string           `json:"fingerprint" yaml:"fingerprint"`
	StartDate    *string           `json:"start_date" yaml:"start_date"`
	EndDate      *string           `json:"end_date" yaml:"end_date"`
	Alert        *bool             `json:"alert,omitempty" yaml:"alert,omitempty"`
	Error        string            `json:"error,omitempty" yaml:"error,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := certificate.FormatTimestamp(*t)
	return &s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
