package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ivoronin/certexpiry/internal/certificate"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		state certificate.State
		want  bool
	}{
		{"unknown matches unknown", "unknown", certificate.Unknown(), true},
		{"unknown ignores expired", "unknown", certificate.Expired(), false},
		{"expired matches expired", "expired", certificate.Expired(), true},
		{"not started", "not_started", certificate.NotStarted(), true},
		{"days below limit", "days<30", certificate.DaysRemaining(29), true},
		{"days at limit", "days<30", certificate.DaysRemaining(30), false},
		{"days at limit inclusive", "days<=30", certificate.DaysRemaining(30), true},
		{"days above", "days>30", certificate.DaysRemaining(31), true},
		{"days exact", "days=5", certificate.DaysRemaining(5), true},
		{"days exact miss", "days=5", certificate.DaysRemaining(6), false},
		{"days never match expired", "days<30", certificate.Expired(), false},
		{"days never match unknown", "days>=0", certificate.Unknown(), false},
		{"any term", "unknown,expired,days<14", certificate.DaysRemaining(3), true},
		{"no term", "unknown,expired,days<14", certificate.DaysRemaining(90), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.expr).Matches(tt.state))
		})
	}
}

func TestMatchesNil(t *testing.T) {
	var c *Condition
	assert.False(t, c.Matches(certificate.Unknown()))
	assert.False(t, (&Condition{}).Matches(certificate.Unknown()))
}

func TestMatchesUnknownOperator(t *testing.T) {
	c := &Condition{Terms: []Term{{Kind: certificate.KindDaysRemaining, Operator: "~", Days: 1}}}
	assert.False(t, c.Matches(certificate.DaysRemaining(1)))
}
