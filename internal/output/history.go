package output

import (
	"encoding/json"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivoronin/certexpiry/internal/publisher"
)

// jsonTimeFormat is the ISO 8601 UTC timestamp format for JSON output.
const jsonTimeFormat = "2006-01-02T15:04:05Z"

// HistoryEntry is one recorded refresh of a certificate.
type HistoryEntry struct {
	RefreshedAt string `json:"refreshed_at" yaml:"refreshed_at"`
	State       string `json:"state" yaml:"state"`
	Trigger     string `json:"trigger" yaml:"trigger"`
	Alert       bool   `json:"alert" yaml:"alert"`
	Subject     string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`

	at time.Time
}

// HistoryList implements Formatter for stored state history.
// Entries are always rendered newest first.
type HistoryList struct {
	Entries []HistoryEntry
}

// NewHistoryList converts stored records into a HistoryList.
func NewHistoryList(records []publisher.StateRecord) *HistoryList {
	l := &HistoryList{Entries: make([]HistoryEntry, len(records))}
	for i, r := range records {
		l.Entries[i] = HistoryEntry{
			RefreshedAt: r.RefreshedAt.UTC().Format(jsonTimeFormat),
			State:       r.State,
			Trigger:     r.Trigger,
			Alert:       r.Alert,
			Subject:     r.Subject,
			Fingerprint: r.Fingerprint,
			Error:       r.Error,
			at:          r.RefreshedAt,
		}
	}
	sort.SliceStable(l.Entries, func(i, j int) bool {
		return l.Entries[i].at.After(l.Entries[j].at)
	})
	return l
}

// FormatText returns kubectl-style table output with aligned columns.
// Header: REFRESHED, STATE, TRIGGER, ALERT, SUBJECT
func (l *HistoryList) FormatText() string {
	if len(l.Entries) == 0 {
		return ""
	}

	tw := NewTableWriter()
	tw.Header("REFRESHED", "STATE", "TRIGGER", "ALERT", "SUBJECT")
	for _, e := range l.Entries {
		alert := "-"
		if e.Alert {
			alert = "yes"
		}
		tw.Row(e.RefreshedAt, e.State, e.Trigger, alert, orDash(e.Subject))
	}
	return tw.String()
}

// FormatJSON returns JSON array output.
func (l *HistoryList) FormatJSON() ([]byte, error) {
	if len(l.Entries) == 0 {
		return []byte("[]"), nil
	}
	return json.MarshalIndent(l.Entries, "", "  ")
}

// FormatYAML returns YAML sequence output.
func (l *HistoryList) FormatYAML() ([]byte, error) {
	if len(l.Entries) == 0 {
		return []byte("[]\n"), nil
	}
	return yaml.Marshal(l.Entries)
}
