package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ivoronin/certexpiry/internal/publisher"
)

func testRecords() []publisher.StateRecord {
	base := time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC)
	return []publisher.StateRecord{
		{State: "15", Trigger: "schedule", RefreshedAt: base.Add(-24 * time.Hour), Subject: "commonName=example.com"},
		{State: "14", Trigger: "schedule", Alert: true, RefreshedAt: base, Subject: "commonName=example.com"},
		{State: "unknown", Trigger: "signal", RefreshedAt: base.Add(-48 * time.Hour), Error: "missing"},
	}
}

func TestHistoryList_NewestFirst(t *testing.T) {
	l := NewHistoryList(testRecords())

	want := []string{"14", "15", "unknown"}
	for i, e := range l.Entries {
		if e.State != want[i] {
			t.Errorf("entry %d state = %s, want %s", i, e.State, want[i])
		}
	}
	if l.Entries[0].RefreshedAt != "2026-03-10T00:01:00Z" {
		t.Errorf("refreshed_at = %s", l.Entries[0].RefreshedAt)
	}
}

func TestHistoryList_FormatText(t *testing.T) {
	out := NewHistoryList(testRecords()).FormatText()

	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "REFRESHED") {
		t.Errorf("missing header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "yes") {
		t.Errorf("alerting entry should be marked: %s", lines[1])
	}
	if !strings.HasSuffix(lines[3], "-") {
		t.Errorf("missing subject should render as dash: %s", lines[3])
	}
}

func TestHistoryList_Empty(t *testing.T) {
	l := NewHistoryList(nil)

	if out := l.FormatText(); out != "" {
		t.Errorf("empty history text = %q, want empty", out)
	}
	data, err := l.FormatJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("empty history should produce [], got: %s", data)
	}
}

func TestHistoryList_FormatJSON(t *testing.T) {
	data, err := NewHistoryList(testRecords()).FormatJSON()
	if err != nil {
		t.Fatal(err)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 3 {
		t.Fatalf("got %d entries, want 3", len(parsed))
	}
	if parsed[2]["error"] != "missing" {
		t.Errorf("error = %v, want missing", parsed[2]["error"])
	}
	if _, ok := parsed[0]["error"]; ok {
		t.Error("error should be omitted when empty")
	}
}
