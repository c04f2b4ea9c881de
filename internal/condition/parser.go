package condition

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ivoronin/certexpiry/internal/certificate"
)

// AST types for Participle grammar

// conditionExpr is the root of the grammar: comma-separated terms
type conditionExpr struct {
	Terms []*termExpr `parser:"@@ ( ',' @@ )*"`
}

// termExpr is either a state keyword or a day comparison: days<op>N
type termExpr struct {
	Days    *daysExpr `parser:"  @@"`
	Keyword string    `parser:"| @Keyword"`
}

type daysExpr struct {
	Operator string `parser:"Days @Operator"`
	Value    int    `parser:"@Number"`
}

// Days must precede Keyword so that "days" is never lexed as a state keyword.
var conditionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Operator", Pattern: `>=|<=|>|<|=`},
	{Name: "Days", Pattern: `(?i)\bdays\b`},
	{Name: "Keyword", Pattern: `(?i)\bunknown\b|\bnot[_ -]started\b|\bexpired\b`},
	{Name: "Number", Pattern: `\d+`},
})

var conditionParser = participle.MustBuild[conditionExpr](
	participle.Lexer(conditionLexer),
	participle.CaseInsensitive("Days"),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
)

// Parse parses an expression like "unknown,expired,days<30".
func Parse(expr string) (*Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty condition expression")
	}

	ast, err := conditionParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid condition %q: %w", expr, err)
	}

	terms := make([]Term, 0, len(ast.Terms))
	for _, t := range ast.Terms {
		terms = append(terms, convertTerm(t))
	}
	return &Condition{Terms: terms}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) *Condition {
	c, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return c
}

// convertTerm converts AST term to domain Term
func convertTerm(t *termExpr) Term {
	if t.Days != nil {
		return Term{
			Kind:     certificate.KindDaysRemaining,
			Operator: Operator(t.Days.Operator),
			Days:     t.Days.Value,
		}
	}

	// Keyword is already validated by lexer
	switch kw := strings.ToLower(t.Keyword); {
	case kw == "expired":
		return Term{Kind: certificate.KindExpired}
	case strings.HasPrefix(kw, "not"):
		return Term{Kind: certificate.KindNotStarted}
	default:
		return Term{Kind: certificate.KindUnknown}
	}
}
