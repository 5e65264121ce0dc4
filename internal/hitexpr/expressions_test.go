package hitexpr_test

import (
	"math"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/hitexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *hitexpr.Expression {
	t.Helper()
	expr, err := hitexpr.Parse(src)
	require.NoError(t, err, "parsing %q", src)
	return expr
}

func TestExpression_VariablesAndFunctions(t *testing.T) {
	expr := mustParse(t, "2*a + sin(b) - a/max(c, 1)")

	assert.Equal(t, []string{"a", "b", "c"}, expr.Variables())
	assert.Equal(t, []string{"max", "sin"}, expr.Functions())
	// cached analysis must be stable
	assert.Equal(t, []string{"a", "b", "c"}, expr.Variables())
}

func TestExpression_Eval(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		vars map[string]float64
		want float64
	}{
		{"literal arithmetic", "1 + 2*3", nil, 7},
		{"variables", "a*b", map[string]float64{"a": 2, "b": 4.5}, 9},
		{"minus without spaces", "x-1", map[string]float64{"x": 3}, 2},
		{"exponent literal", "1e-3*1000", nil, 1},
		{"functions", "sqrt(16) + abs(-2) + pow(2, 3)", nil, 14},
		{"constants", "cos(pi)", nil, -1},
		{"variable shadows constant", "e*2", map[string]float64{"e": 5}, 10},
		{"unary minus", "-a", map[string]float64{"a": 2}, -2},
		{"power", "x^2", map[string]float64{"x": 3}, 9},
		{"power binds tighter than product", "2*x^2", map[string]float64{"x": 3}, 18},
		{"power binds tighter than unary minus", "-x^2", map[string]float64{"x": 3}, -9},
		{"power is right associative", "2^3^2", nil, 512},
		{"negative exponent", "2^-1", nil, 0.5},
		{"power of group and call", "(1+1)^sqrt(9)", nil, 8},
		{"power in function argument", "max(x^2, 1)", map[string]float64{"x": 2}, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := mustParse(t, tc.src).Eval(tc.vars)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestExpression_EvalBool(t *testing.T) {
	expr := mustParse(t, "x>0 & x<2")

	for x, want := range map[float64]bool{0: false, 1: true, 2: false, 1.999: true, -1: false} {
		got, err := expr.EvalBool(map[string]float64{"x": x})
		require.NoError(t, err)
		assert.Equal(t, want, got, "x=%v", x)
	}

	eq := mustParse(t, "x = 3 | x >= 10")
	ok, err := eq.EvalBool(map[string]float64{"x": 3})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = eq.EvalBool(map[string]float64{"x": 4})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpression_Errors(t *testing.T) {
	t.Run("undefined variable", func(t *testing.T) {
		_, err := mustParse(t, "a + b").Eval(map[string]float64{"a": 1})
		assert.ErrorContains(t, err, "undefined variable 'b'")
	})

	t.Run("caret without exponent", func(t *testing.T) {
		_, err := hitexpr.Parse("a^")
		assert.ErrorContains(t, err, "'^' is missing its exponent")
	})

	t.Run("caret without base", func(t *testing.T) {
		_, err := hitexpr.Parse("^2")
		assert.ErrorContains(t, err, "'^' is missing its base")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := hitexpr.Parse("1 +")
		assert.ErrorContains(t, err, "failed to parse expression '1 +'")
	})

	t.Run("non finite variable", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1)} {
			var err error
			require.NotPanics(t, func() { _, err = mustParse(t, "a * 2").Eval(map[string]float64{"a": v}) })
			assert.ErrorContains(t, err, "variable 'a' is not a finite number")
		}
	})

	t.Run("non finite result", func(t *testing.T) {
		_, err := mustParse(t, "sqrt(-1)").Eval(nil)
		assert.Error(t, err)
	})

	t.Run("condition used as number", func(t *testing.T) {
		_, err := mustParse(t, "1 < 2").Eval(nil)
		assert.ErrorContains(t, err, "does not produce a number")
	})
}
