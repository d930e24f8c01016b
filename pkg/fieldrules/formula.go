// Package fieldrules evaluates per-field rules for a dynamic form: computed
// formulas, value-keyed show/hide triggers, and dropdown filter chaining. It
// depends only on a field's rule configuration and the live value map of one
// form instance.
package fieldrules

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Formula evaluation error causes. Errors surface as typed values so the UI
// renders an error marker instead of a wrong number; a result is never
// silently zero.
var (
	ErrUnknownField     = errors.New("unknown field token")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrMalformedFormula = errors.New("malformed formula")
)

// FormulaError reports why a computed formula could not produce a value.
type FormulaError struct {
	Formula string
	Token   string
	Err     error
}

func (e *FormulaError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("formula %q: %v: %s", e.Formula, e.Err, e.Token)
	}

	return fmt.Sprintf("formula %q: %v", e.Formula, e.Err)
}

func (e *FormulaError) Unwrap() error {
	return e.Err
}

func (e *FormulaError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	invalidIDChars = regexp.MustCompile(`[^A-Z0-9_]`)
)

// NormalizeFieldID converts a raw field label to its canonical identifier:
// uppercased, whitespace runs collapsed to single underscores, any remaining
// character outside [A-Z0-9_] stripped.
func NormalizeFieldID(raw string) string {
	id := strings.ToUpper(strings.TrimSpace(raw))
	id = whitespaceRuns.ReplaceAllString(id, "_")

	return invalidIDChars.ReplaceAllString(id, "")
}

// EvaluateComputed evaluates a computed-field formula against the live value
// map. The formula is read left to right: operators share equal precedence
// and apply in order of appearance, with parentheses for grouping. Field
// tokens are normalized before lookup; values must be keyed by canonical
// identifiers.
func EvaluateComputed(formula string, values map[string]float64) (float64, error) {
	tokens, err := lex(formula)
	if err != nil {
		return 0, err
	}

	if len(tokens) == 0 {
		return 0, &FormulaError{Formula: formula, Err: ErrMalformedFormula}
	}

	ev := &evaluator{formula: formula, tokens: tokens, values: values}

	result, err := ev.expression()
	if err != nil {
		return 0, err
	}

	if ev.pos != len(ev.tokens) {
		return 0, &FormulaError{Formula: formula, Token: ev.tokens[ev.pos].text, Err: ErrMalformedFormula}
	}

	return result, nil
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenField
	tokenOperator
	tokenLParen
	tokenRParen
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

// lex splits the formula into number, field, operator, and parenthesis
// tokens. Anything between two operator/parenthesis boundaries that does not
// parse as a number is a field label, spaces included.
func lex(formula string) ([]token, error) {
	tokens := make([]token, 0)
	var chunk strings.Builder

	flush := func() {
		raw := strings.TrimSpace(chunk.String())
		chunk.Reset()

		if raw == "" {
			return
		}

		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			tokens = append(tokens, token{kind: tokenNumber, text: raw, value: value})

			return
		}

		tokens = append(tokens, token{kind: tokenField, text: raw})
	}

	for _, r := range formula {
		switch r {
		case '+', '-', '*', '/':
			flush()
			tokens = append(tokens, token{kind: tokenOperator, text: string(r)})
		case '(':
			flush()
			tokens = append(tokens, token{kind: tokenLParen, text: "("})
		case ')':
			flush()
			tokens = append(tokens, token{kind: tokenRParen, text: ")"})
		default:
			chunk.WriteRune(r)
		}
	}

	flush()

	return tokens, nil
}

type evaluator struct {
	formula string
	tokens  []token
	pos     int
	values  map[string]float64
}

// expression evaluates operand (operator operand)* strictly left to right.
func (e *evaluator) expression() (float64, error) {
	left, err := e.operand()
	if err != nil {
		return 0, err
	}

	for e.pos < len(e.tokens) && e.tokens[e.pos].kind == tokenOperator {
		op := e.tokens[e.pos].text
		e.pos++

		right, err := e.operand()
		if err != nil {
			return 0, err
		}

		left, err = e.apply(op, left, right)
		if err != nil {
			return 0, err
		}
	}

	return left, nil
}

func (e *evaluator) operand() (float64, error) {
	if e.pos >= len(e.tokens) {
		return 0, &FormulaError{Formula: e.formula, Err: ErrMalformedFormula}
	}

	tok := e.tokens[e.pos]
	e.pos++

	switch tok.kind {
	case tokenNumber:
		return tok.value, nil

	case tokenField:
		id := NormalizeFieldID(tok.text)

		value, ok := e.values[id]
		if !ok {
			return 0, &FormulaError{Formula: e.formula, Token: id, Err: ErrUnknownField}
		}

		return value, nil

	case tokenLParen:
		value, err := e.expression()
		if err != nil {
			return 0, err
		}

		if e.pos >= len(e.tokens) || e.tokens[e.pos].kind != tokenRParen {
			return 0, &FormulaError{Formula: e.formula, Err: ErrMalformedFormula}
		}

		e.pos++

		return value, nil

	default:
		return 0, &FormulaError{Formula: e.formula, Token: tok.text, Err: ErrMalformedFormula}
	}
}

func (e *evaluator) apply(op string, left, right float64) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, &FormulaError{Formula: e.formula, Err: ErrDivisionByZero}
		}

		return left / right, nil
	}

	return 0, &FormulaError{Formula: e.formula, Token: op, Err: ErrMalformedFormula}
}
