package expand

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/specialistvlad/hitbuild/internal/hitexpr"
	"github.com/specialistvlad/hitbuild/internal/units"
)

func evalRaw(_ *Scope, args []string) (string, error) {
	return strings.Join(args, ""), nil
}

func (e *Expander) evalEnv(_ *Scope, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("env takes exactly one variable name, got %d", len(args))
	}
	v, ok := e.getenv(args[0])
	if !ok {
		return "", fmt.Errorf("environment variable '%s' is not set", args[0])
	}
	return v, nil
}

func evalReplace(scope *Scope, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("replace takes exactly one field name, got %d", len(args))
	}
	return scope.Lookup(args[0])
}

func evalFParse(scope *Scope, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("fparse requires an expression")
	}
	expr, err := hitexpr.Parse(strings.Join(args, " "))
	if err != nil {
		return "", err
	}

	vars := make(map[string]float64)
	for _, name := range expr.Variables() {
		text, err := scope.Lookup(name)
		if err != nil {
			if _, isConst := hitexpr.Constants[name]; isConst {
				continue
			}
			return "", err
		}
		v, err := parseFinite(text)
		if err != nil {
			return "", fmt.Errorf("variable '%s' has non-numeric value '%s'", name, text)
		}
		vars[name] = v
	}

	result, err := expr.Eval(vars)
	if err != nil {
		return "", err
	}
	return formatNumber(result), nil
}

// evalUnits accepts "value unit", which documents the unit and returns the
// value unchanged, or "value from -> to", which converts.
func evalUnits(scope *Scope, args []string) (string, error) {
	switch {
	case len(args) == 2:
		if _, err := units.Parse(args[1]); err != nil {
			return "", err
		}
		return args[0], nil
	case len(args) == 4 && args[2] == "->":
		value, err := numericArg(scope, args[0])
		if err != nil {
			return "", err
		}
		converted, err := units.Convert(value, args[1], args[3])
		if err != nil {
			return "", err
		}
		return formatNumber(converted), nil
	}
	return "", fmt.Errorf("units expects 'value unit' or 'value from_unit -> to_unit'")
}

func numericArg(scope *Scope, arg string) (float64, error) {
	if v, err := parseFinite(arg); err == nil {
		return v, nil
	}
	text, err := scope.Lookup(arg)
	if err != nil {
		return 0, fmt.Errorf("'%s' is neither a number nor a known field", arg)
	}
	v, err := parseFinite(text)
	if err != nil {
		return 0, fmt.Errorf("field '%s' has non-numeric value '%s'", arg, text)
	}
	return v, nil
}

// parseFinite parses a number, rejecting NaN and infinities.
func parseFinite(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("'%s' is not a finite number", text)
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
