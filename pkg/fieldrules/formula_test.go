package fieldrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFieldID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "simple label", raw: "Invoice Amount", expected: "INVOICE_AMOUNT"},
		{name: "already canonical", raw: "FIELD_A", expected: "FIELD_A"},
		{name: "whitespace runs collapse", raw: "LC   Issue   Date", expected: "LC_ISSUE_DATE"},
		{name: "special characters stripped", raw: "Tenor (days)", expected: "TENOR_DAYS"},
		{name: "leading and trailing space", raw: "  Margin %  ", expected: "MARGIN_"},
		{name: "digits preserved", raw: "Charge 2", expected: "CHARGE_2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NormalizeFieldID(tt.raw))
		})
	}
}

func TestEvaluateComputed(t *testing.T) {
	t.Parallel()

	values := map[string]float64{
		"FIELD_A":        10,
		"FIELD_B":        5,
		"INVOICE_AMOUNT": 100,
		"TAX":            19,
	}

	tests := []struct {
		name     string
		formula  string
		expected float64
	}{
		{name: "addition", formula: "FIELD_A + FIELD_B", expected: 15},
		{name: "subtraction", formula: "FIELD_A - FIELD_B", expected: 5},
		{name: "multiplication", formula: "FIELD_A * FIELD_B", expected: 50},
		{name: "division", formula: "FIELD_A / FIELD_B", expected: 2},
		{name: "fractional division", formula: "FIELD_B / FIELD_A", expected: 0.5},
		{name: "left to right without precedence", formula: "2 + 3 * 4", expected: 20},
		{name: "parentheses group", formula: "2 + (3 * 4)", expected: 14},
		{name: "nested parentheses", formula: "(FIELD_A - (FIELD_B - 3)) * 2", expected: 16},
		{name: "raw labels normalize", formula: "Invoice Amount + Tax", expected: 119},
		{name: "numeric literal mix", formula: "INVOICE_AMOUNT * 0.1", expected: 10},
		{name: "single field", formula: "FIELD_A", expected: 10},
		{name: "single literal", formula: "42", expected: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := EvaluateComputed(tt.formula, values)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, result, 1e-9)
		})
	}
}

func TestEvaluateComputed_Errors(t *testing.T) {
	t.Parallel()

	values := map[string]float64{"FIELD_A": 10, "FIELD_B": 0}

	tests := []struct {
		name    string
		formula string
		wantErr error
	}{
		{name: "division by zero", formula: "FIELD_A / FIELD_B", wantErr: ErrDivisionByZero},
		{name: "division by zero literal", formula: "FIELD_A / 0", wantErr: ErrDivisionByZero},
		{name: "unknown field", formula: "FIELD_A + FIELD_C", wantErr: ErrUnknownField},
		{name: "trailing operator", formula: "FIELD_A +", wantErr: ErrMalformedFormula},
		{name: "leading operator", formula: "+ FIELD_A", wantErr: ErrMalformedFormula},
		{name: "empty formula", formula: "", wantErr: ErrMalformedFormula},
		{name: "blank formula", formula: "   ", wantErr: ErrMalformedFormula},
		{name: "unbalanced open paren", formula: "(FIELD_A + FIELD_B", wantErr: ErrMalformedFormula},
		{name: "unbalanced close paren", formula: "FIELD_A + FIELD_B)", wantErr: ErrMalformedFormula},
		{name: "adjacent operands", formula: "FIELD_A (FIELD_B)", wantErr: ErrMalformedFormula},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := EvaluateComputed(tt.formula, values)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, result)

			var formulaErr *FormulaError
			assert.ErrorAs(t, err, &formulaErr)
		})
	}
}

func TestEvaluateComputed_ErrorNeverSilentZero(t *testing.T) {
	t.Parallel()

	// A failed evaluation must be distinguishable from a genuine zero so the
	// form renders an error marker instead of a wrong number.
	_, err := EvaluateComputed("MISSING - MISSING", map[string]float64{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
}
