// Package units converts values between physical units expressed as
// products and quotients of named units, e.g. "kg*m/s^2" or "mJ".
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension holds the exponents of the seven SI base quantities in the
// order length, mass, time, current, temperature, amount, luminosity.
type Dimension [7]int

// Unit is a scale factor relative to the SI base units of its dimension.
type Unit struct {
	Factor float64
	Dim    Dimension
}

func (u Unit) mul(v Unit, power int) Unit {
	out := Unit{Factor: u.Factor, Dim: u.Dim}
	for i := 0; i < power; i++ {
		out.Factor *= v.Factor
	}
	for i := 0; i > power; i-- {
		out.Factor /= v.Factor
	}
	for i := range out.Dim {
		out.Dim[i] += v.Dim[i] * power
	}
	return out
}

// Conformable reports whether u and v measure the same quantity.
func (u Unit) Conformable(v Unit) bool { return u.Dim == v.Dim }

// ConversionError reports units that cannot be converted into each other.
type ConversionError struct {
	From string
	To   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("units '%s' and '%s' are not conformable", e.From, e.To)
}

// Parse reads a unit expression. Factors are separated by '*' or '/', and
// each may carry an integer power with '^'.
func Parse(expr string) (Unit, error) {
	src := strings.TrimSpace(expr)
	if src == "" {
		return Unit{}, fmt.Errorf("empty unit expression")
	}
	result := Unit{Factor: 1}
	sign := 1
	for {
		end := strings.IndexAny(src, "*/")
		term := src
		if end >= 0 {
			term = src[:end]
		}
		u, power, err := parseTerm(strings.TrimSpace(term))
		if err != nil {
			return Unit{}, fmt.Errorf("invalid unit '%s': %w", expr, err)
		}
		result = result.mul(u, sign*power)
		if end < 0 {
			break
		}
		if src[end] == '/' {
			sign = -1
		} else {
			sign = 1
		}
		src = src[end+1:]
	}
	return result, nil
}

func parseTerm(term string) (Unit, int, error) {
	if term == "" {
		return Unit{}, 0, fmt.Errorf("missing unit name")
	}
	name, power := term, 1
	if i := strings.IndexByte(term, '^'); i >= 0 {
		p, err := strconv.Atoi(strings.TrimSpace(term[i+1:]))
		if err != nil {
			return Unit{}, 0, fmt.Errorf("bad power in '%s'", term)
		}
		name, power = strings.TrimSpace(term[:i]), p
	}
	if name == "1" {
		return Unit{Factor: 1}, power, nil
	}
	u, ok := lookup(name)
	if !ok {
		return Unit{}, 0, fmt.Errorf("unknown unit '%s'", name)
	}
	return u, power, nil
}

func lookup(name string) (Unit, bool) {
	if u, ok := named[name]; ok {
		return u, true
	}
	for _, p := range prefixOrder {
		if !strings.HasPrefix(name, p) || len(name) == len(p) {
			continue
		}
		if u, ok := named[name[len(p):]]; ok && prefixable[name[len(p):]] {
			u.Factor *= prefixes[p]
			return u, true
		}
	}
	return Unit{}, false
}

// Convert expresses value, measured in from, in the unit to.
func Convert(value float64, from, to string) (float64, error) {
	fu, err := Parse(from)
	if err != nil {
		return 0, err
	}
	tu, err := Parse(to)
	if err != nil {
		return 0, err
	}
	if !fu.Conformable(tu) {
		return 0, &ConversionError{From: from, To: to}
	}
	return value * fu.Factor / tu.Factor, nil
}
