package condition

import (
	"strconv"
	"strings"

	"github.com/ivoronin/certexpiry/internal/certificate"
)

// operatorFuncs maps operators to their day count comparisons.
var operatorFuncs = map[Operator]func(days, limit int) bool{
	OpEqual:        func(days, limit int) bool { return days == limit },
	OpGreater:      func(days, limit int) bool { return days > limit },
	OpLess:         func(days, limit int) bool { return days < limit },
	OpGreaterEqual: func(days, limit int) bool { return days >= limit },
	OpLessEqual:    func(days, limit int) bool { return days <= limit },
}

// Matches reports whether any term matches the state.
// A nil or empty condition never matches.
func (c *Condition) Matches(s certificate.State) bool {
	if c == nil {
		return false
	}
	for _, t := range c.Terms {
		if t.matches(s) {
			return true
		}
	}
	return false
}

func (t Term) matches(s certificate.State) bool {
	if t.Kind != s.Kind {
		return false
	}
	if t.Kind != certificate.KindDaysRemaining {
		return true
	}
	cmp, ok := operatorFuncs[t.Operator]
	if !ok {
		return false // Unknown operator
	}
	return cmp(s.Days, t.Days)
}

// String returns the canonical expression form.
func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c.Terms))
	for i, t := range c.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

func (t Term) String() string {
	if t.Kind == certificate.KindDaysRemaining {
		return "days" + string(t.Operator) + strconv.Itoa(t.Days)
	}
	return t.Kind.String()
}
