package hitexpr

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Constants are available to every expression unless a variable of the same
// name shadows them.
var Constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// Functions is the function table available to expressions.
var Functions = map[string]function.Function{
	"abs":   stdlib.AbsoluteFunc,
	"ceil":  stdlib.CeilFunc,
	"floor": stdlib.FloorFunc,
	"max":   stdlib.MaxFunc,
	"min":   stdlib.MinFunc,
	"pow":   stdlib.PowFunc,
	"sign":  stdlib.SignumFunc,
	"sin":   unaryMath(math.Sin),
	"cos":   unaryMath(math.Cos),
	"tan":   unaryMath(math.Tan),
	"asin":  unaryMath(math.Asin),
	"acos":  unaryMath(math.Acos),
	"atan":  unaryMath(math.Atan),
	"exp":   unaryMath(math.Exp),
	"log":   unaryMath(math.Log),
	"log10": unaryMath(math.Log10),
	"sqrt":  unaryMath(math.Sqrt),
}

func unaryMath(fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "num", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			r := fn(x)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return cty.NilVal, fmt.Errorf("result is not a finite number")
			}
			return cty.NumberFloatVal(r), nil
		},
	})
}

// Eval evaluates the expression to a number. Every name the expression
// refers to must be present in vars or Constants.
func (e *Expression) Eval(vars map[string]float64) (float64, error) {
	val, err := e.evaluate(vars)
	if err != nil {
		return 0, err
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("expression '%s' does not produce a number", e.src)
	}
	f, _ := num.AsBigFloat().Float64()
	return f, nil
}

// EvalBool evaluates the expression as a condition.
func (e *Expression) EvalBool(vars map[string]float64) (bool, error) {
	val, err := e.evaluate(vars)
	if err != nil {
		return false, err
	}
	b, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("expression '%s' does not produce a condition", e.src)
	}
	return b.True(), nil
}

func (e *Expression) evaluate(vars map[string]float64) (cty.Value, error) {
	ctx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value, len(vars)+len(Constants)),
		Functions: Functions,
	}
	for name, v := range Constants {
		ctx.Variables[name] = cty.NumberFloatVal(v)
	}
	for name, v := range vars {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return cty.NilVal, fmt.Errorf("variable '%s' is not a finite number", name)
		}
		ctx.Variables[name] = cty.NumberFloatVal(v)
	}
	for _, name := range e.Variables() {
		if _, ok := ctx.Variables[name]; !ok {
			return cty.NilVal, fmt.Errorf("undefined variable '%s' in expression '%s'", name, e.src)
		}
	}

	val, diags := e.expr.Value(ctx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to evaluate '%s': %s", e.src, diagSummary(diags))
	}
	if !val.IsKnown() || val.IsNull() {
		return cty.NilVal, fmt.Errorf("expression '%s' has no value", e.src)
	}
	return val, nil
}
