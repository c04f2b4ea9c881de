package certificate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStateForms(t *testing.T) {
	tests := []struct {
		state    State
		wantText string
		wantJSON string
		wantKind string
	}{
		{Unknown(), "unknown", `"unknown"`, "unknown"},
		{NotStarted(), "not started", `"not started"`, "not_started"},
		{Expired(), "expired", `"expired"`, "expired"},
		{DaysRemaining(42), "42", `42`, "days_remaining"},
	}

	for _, tt := range tests {
		t.Run(tt.wantText, func(t *testing.T) {
			assert.Equal(t, tt.wantText, tt.state.String())
			assert.Equal(t, tt.wantKind, tt.state.Kind.String())

			data, err := json.Marshal(tt.state)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(data))

			var decoded State
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.state, decoded)

			parsed, err := ParseState(tt.wantText)
			require.NoError(t, err)
			assert.Equal(t, tt.state, parsed)
		})
	}
}

func TestStateYAML(t *testing.T) {
	out, err := yaml.Marshal(map[string]State{"state": DaysRemaining(7)})
	require.NoError(t, err)
	assert.Equal(t, "state: 7\n", string(out))

	out, err = yaml.Marshal(map[string]State{"state": NotStarted()})
	require.NoError(t, err)
	assert.Equal(t, "state: not started\n", string(out))
}

func TestParseStateInvalid(t *testing.T) {
	_, err := ParseState("soon")
	assert.Error(t, err)

	var s State
	assert.Error(t, json.Unmarshal([]byte(`true`), &s))
}
