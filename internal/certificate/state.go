package certificate

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the published certificate state.
type Kind int

const (
	KindUnknown       Kind = iota // file missing or undecodable
	KindNotStarted                // less than one whole day since NotBefore
	KindDaysRemaining             // whole days left until NotAfter
	KindExpired                   // no whole day left
)

// String returns a label-safe name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotStarted:
		return "not_started"
	case KindDaysRemaining:
		return "days_remaining"
	case KindExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Published state values.
const (
	StateUnknown    = "unknown"
	StateNotStarted = "not started"
	StateExpired    = "expired"
)

// State is the derived certificate status.
// Days is meaningful only for KindDaysRemaining.
type State struct {
	Kind Kind
	Days int
}

// Unknown returns the state of a missing or undecodable certificate.
func Unknown() State { return State{Kind: KindUnknown} }

// NotStarted returns the state of a certificate not yet valid for a whole day.
func NotStarted() State { return State{Kind: KindNotStarted} }

// Expired returns the state of a certificate with no whole day left.
func Expired() State { return State{Kind: KindExpired} }

// DaysRemaining returns the state of a certificate with days whole days left.
func DaysRemaining(days int) State { return State{Kind: KindDaysRemaining, Days: days} }

// Value returns the published form: an int for KindDaysRemaining, a string otherwise.
func (s State) Value() interface{} {
	if s.Kind == KindDaysRemaining {
		return s.Days
	}
	return s.String()
}

func (s State) String() string {
	switch s.Kind {
	case KindNotStarted:
		return StateNotStarted
	case KindDaysRemaining:
		return strconv.Itoa(s.Days)
	case KindExpired:
		return StateExpired
	default:
		return StateUnknown
	}
}

// MarshalJSON encodes the state as a number or a string.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value())
}

// UnmarshalJSON accepts the forms produced by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		*s = DaysRemaining(int(v))
		return nil
	case string:
		parsed, err := ParseState(v)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	default:
		return fmt.Errorf("invalid state %s", string(data))
	}
}

// MarshalYAML encodes the state as a number or a string.
func (s State) MarshalYAML() (interface{}, error) {
	return s.Value(), nil
}

// ParseState parses the String form of a state.
func ParseState(value string) (State, error) {
	switch value {
	case StateUnknown:
		return Unknown(), nil
	case StateNotStarted:
		return NotStarted(), nil
	case StateExpired:
		return Expired(), nil
	}
	days, err := strconv.Atoi(value)
	if err != nil {
		return State{}, fmt.Errorf("invalid state %q", value)
	}
	return DaysRemaining(days), nil
}
