// Package calc evaluates plain arithmetic expressions: decimal numbers,
// + - * /, parentheses and unary minus. Nothing else is accepted.
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/Proton-105/arcade-bot/internal/errors"
)

// MaxLength bounds the accepted expression size.
const MaxLength = 256

// maxDepth bounds parenthesis and unary nesting.
const maxDepth = 64

var (
	errDivisionByZero = apperrors.NewValidationError("❌ Invalid expression! Division by zero.")
	errCharset        = apperrors.NewValidationError("❌ Only basic math operations allowed: +, -, *, /, (, )")
)

func invalid(format string, args ...any) error {
	return apperrors.NewValidationError("❌ Invalid expression! " + fmt.Sprintf(format, args...))
}

// Eval parses and evaluates expr.
func Eval(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, invalid("Expression is empty.")
	}
	if len(expr) > MaxLength {
		return 0, invalid("Expression is too long.")
	}
	for _, r := range expr {
		if !strings.ContainsRune("0123456789+-*/.() ", r) {
			return 0, errCharset
		}
	}

	p := &parser{src: expr}
	value, err := p.expr()
	if err != nil {
		return 0, err
	}

	p.skipSpace()
	if p.pos < len(p.src) {
		return 0, invalid("Unexpected %q at position %d.", p.src[p.pos], p.pos+1)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, invalid("Result is out of range.")
	}

	return value, nil
}

// Format renders a result without trailing zeros.
func Format(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return strconv.FormatFloat(value, 'g', 12, 64)
}

// parser is a recursive descent parser over:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = "-" unary | "+" unary | factor
//	factor = number | "(" expr ")"
type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}

	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}

	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, errDivisionByZero
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (float64, error) {
	if err := p.enter(); err != nil {
		return 0, err
	}
	defer p.leave()

	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.unary()
		return -v, err
	case '+':
		p.pos++
		return p.unary()
	default:
		return p.factor()
	}
}

func (p *parser) factor() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, invalid("Missing closing parenthesis.")
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case c == 0:
		return 0, invalid("Unexpected end of expression.")
	default:
		return 0, invalid("Unexpected %q at position %d.", c, p.pos+1)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	dots := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' {
			dots++
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}

	literal := p.src[start:p.pos]
	if dots > 1 || literal == "." {
		return 0, invalid("Malformed number %q.", literal)
	}

	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, invalid("Malformed number %q.", literal)
	}
	return v, nil
}

// peek skips whitespace and returns the next byte, or 0 at the end.
func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return invalid("Expression is nested too deeply.")
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}
