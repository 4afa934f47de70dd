// Package formula evaluates the restricted arithmetic expression language used
// by formula salary components. Expressions are reduced to pure arithmetic
// before evaluation: named references are substituted with numeric values, the
// "N% of X" notation is rewritten to (N/100)*X, and the result must pass a
// strict character whitelist. The evaluator is a hand-rolled tokenizer plus
// recursive-descent parser over decimals; it can never reach the host
// language, the filesystem, or any function call.
package formula

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyExpression = errors.New("formula: empty expression")
	ErrDivisionByZero  = errors.New("formula: division by zero")
)

var (
	percentOfRegex = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*%\s*of\s+([A-Za-z_][A-Za-z0-9_]*|[0-9]+(?:\.[0-9]+)?)`)
	identRegex     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	allowedRegex   = regexp.MustCompile(`^[0-9+\-*/(). ]+$`)
)

// Evaluate resolves expr against vars and returns its numeric value. Variable
// names are matched case-insensitively against the upper-cased keys of vars.
// Any unknown reference, disallowed character, or malformed arithmetic yields
// an error; callers treat that as a recoverable configuration problem.
func Evaluate(expr string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(expr) == "" {
		return decimal.Zero, ErrEmptyExpression
	}

	rewritten := percentOfRegex.ReplaceAllString(expr, "($1/100)*$2")

	var unknown []string
	substituted := identRegex.ReplaceAllStringFunc(rewritten, func(name string) string {
		if v, ok := vars[strings.ToUpper(name)]; ok {
			// Parenthesized so negative values survive adjacent operators.
			return "(" + v.String() + ")"
		}
		unknown = append(unknown, name)
		return name
	})
	if len(unknown) > 0 {
		return decimal.Zero, fmt.Errorf("formula: unknown reference %q", unknown[0])
	}

	if !allowedRegex.MatchString(substituted) {
		return decimal.Zero, fmt.Errorf("formula: expression contains disallowed characters")
	}

	p := &parser{input: substituted}
	result, err := p.parseExpression()
	if err != nil {
		return decimal.Zero, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return decimal.Zero, fmt.Errorf("formula: unexpected input at position %d", p.pos)
	}
	return result, nil
}

// parser is a recursive-descent evaluator with the usual precedence:
// expression := term (('+'|'-') term)*
// term       := factor (('*'|'/') factor)*
// factor     := '-'* (number | '(' expression ')')
type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) parseExpression() (decimal.Decimal, error) {
	left, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *parser) parseTerm() (decimal.Decimal, error) {
	left, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, ErrDivisionByZero
			}
			left = left.Div(right)
		}
	}
}

func (p *parser) parseFactor() (decimal.Decimal, error) {
	ch, ok := p.peek()
	if !ok {
		return decimal.Zero, fmt.Errorf("formula: unexpected end of expression")
	}

	if ch == '-' {
		p.pos++
		v, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Neg(), nil
	}

	if ch == '(' {
		p.pos++
		v, err := p.parseExpression()
		if err != nil {
			return decimal.Zero, err
		}
		closing, ok := p.peek()
		if !ok || closing != ')' {
			return decimal.Zero, fmt.Errorf("formula: missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}

	return p.parseNumber()
}

func (p *parser) parseNumber() (decimal.Decimal, error) {
	p.skipSpaces()
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return decimal.Zero, fmt.Errorf("formula: expected number at position %d", start)
	}
	literal := p.input[start:p.pos]
	v, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("formula: invalid number %q", literal)
	}
	return v, nil
}
