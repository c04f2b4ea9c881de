// Package condition parses and evaluates alert conditions over certificate states.
package condition

import (
	"github.com/ivoronin/certexpiry/internal/certificate"
)

// Operator for day count comparison.
type Operator string

const (
	OpEqual        Operator = "="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// Term is one alternative of a condition.
// For KindDaysRemaining the remaining days are compared against Days using Operator;
// other kinds match their state directly.
type Term struct {
	Kind     certificate.Kind
	Operator Operator
	Days     int
}

// Condition is a parsed alert expression. It matches when any term matches.
type Condition struct {
	Terms []Term
}
