package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/hitexpr"
	"github.com/zclconf/go-cty/cty"
)

// AutoBuild names the pair of parameters a vector parameter can be
// synthesized from: Base0 .. Base(Count-1).
type AutoBuild struct {
	Base  string
	Count string
}

// Param is one typed slot of a schema. The exported fields are the
// declaration; the rest is filled in by extraction.
type Param struct {
	Name               string
	Kind               Kind
	Doc                string
	Required           bool
	Private            bool
	Deprecated         bool
	DeprecationMessage string
	Aliases            []string
	Range              string
	Options            []string
	AutoBuild          *AutoBuild
	Default            cty.Value

	defaultRaw    any
	hasDefaultRaw bool
	rangeExpr     *hitexpr.Expression
	value         cty.Value
	loc           document.Location
	fromGlobal    bool
	setByUser     bool
}

// Option configures a Param at declaration time.
type Option func(*Param)

// Required marks the parameter as mandatory.
func Required() Option { return func(p *Param) { p.Required = true } }

// Private hides the parameter from the input; only code may set it.
func Private() Option { return func(p *Param) { p.Private = true } }

// Deprecated marks the parameter as deprecated with a message shown on use.
func Deprecated(msg string) Option {
	return func(p *Param) {
		p.Deprecated = true
		p.DeprecationMessage = msg
	}
}

// Alias adds alternative names the parameter may be given by in the input.
func Alias(names ...string) Option {
	return func(p *Param) { p.Aliases = append(p.Aliases, names...) }
}

// Range sets a condition every numeric value must satisfy, written in terms
// of the parameter name (and name_size for vectors), e.g. "rho > 0 & rho < 2".
func Range(expr string) Option { return func(p *Param) { p.Range = expr } }

// Options sets the legal values of an Enum or EnumVector parameter.
func Options(opts ...string) Option {
	return func(p *Param) { p.Options = append(p.Options, opts...) }
}

// Default sets the default value. v may be text in input syntax or a Go
// value (scalar, slice, nested slice or map) matching the kind.
func Default(v any) Option {
	return func(p *Param) {
		p.defaultRaw = v
		p.hasDefaultRaw = true
	}
}

// AutoBuildFrom lets the vector parameter be synthesized from a base name
// parameter and a count parameter.
func AutoBuildFrom(base, count string) Option {
	return func(p *Param) { p.AutoBuild = &AutoBuild{Base: base, Count: count} }
}

func newParam(name string, kind Kind, doc string, opts []Option) *Param {
	if !kind.Valid() {
		panic(fmt.Sprintf("schema: parameter '%s' has invalid kind %d", name, kind))
	}
	p := &Param{Name: name, Kind: kind, Doc: doc}
	for _, opt := range opts {
		opt(p)
	}
	if p.Range != "" {
		if !kind.IsNumeric() {
			panic(fmt.Sprintf("schema: range on non-numeric parameter '%s'", name))
		}
		expr, err := hitexpr.Parse(p.Range)
		if err != nil {
			panic(fmt.Sprintf("schema: range for parameter '%s': %v", name, err))
		}
		p.rangeExpr = expr
	}
	if (kind == KindEnum || kind == KindEnumVector) && len(p.Options) == 0 {
		panic(fmt.Sprintf("schema: enum parameter '%s' declares no options", name))
	}
	if p.AutoBuild != nil && kind != KindStringVector && kind != KindNameVector {
		panic(fmt.Sprintf("schema: auto-build parameter '%s' must be a string or name vector", name))
	}
	if p.hasDefaultRaw {
		text, err := defaultText(p.defaultRaw)
		if err == nil {
			p.Default, err = converters[kind](p, text, ConvertOptions{})
		}
		if err != nil {
			panic(fmt.Sprintf("schema: default for parameter '%s': %v", name, err))
		}
	}
	return p
}

// Parse converts literal input text to a value of the parameter's kind and
// checks it against the range expression, if any.
func (p *Param) Parse(raw string, opts ConvertOptions) (cty.Value, error) {
	v, err := converters[p.Kind](p, raw, opts)
	if err != nil {
		return cty.NilVal, err
	}
	if err := p.checkRange(v); err != nil {
		return cty.NilVal, err
	}
	return v, nil
}

func (p *Param) checkRange(v cty.Value) error {
	if p.rangeExpr == nil {
		return nil
	}
	vars := map[string]float64{}
	if v.Type().IsListType() {
		vars[p.Name+"_size"] = float64(v.LengthInt())
	}
	var check func(cty.Value) error
	check = func(v cty.Value) error {
		if v.Type().IsListType() {
			for it := v.ElementIterator(); it.Next(); {
				_, el := it.Element()
				if err := check(el); err != nil {
					return err
				}
			}
			return nil
		}
		x, _ := v.AsBigFloat().Float64()
		vars[p.Name] = x
		ok, err := p.rangeExpr.EvalBool(vars)
		if err != nil {
			return fmt.Errorf("cannot check range of parameter '%s': %w", p.Name, err)
		}
		if !ok {
			return &RangeCheckError{Param: p.Name, Value: FormatValue(v), Range: p.Range}
		}
		return nil
	}
	return check(v)
}

// Set stores a value read from the input at loc.
func (p *Param) Set(v cty.Value, loc document.Location, fromGlobal bool) {
	p.value = v
	p.loc = loc
	p.fromGlobal = fromGlobal
	p.setByUser = true
}

// Assign stores a value computed by code rather than read from the input.
func (p *Param) Assign(v cty.Value) {
	p.value = v
}

// Value returns the stored value, falling back to the default. The result
// is cty.NilVal when neither exists.
func (p *Param) Value() cty.Value {
	if p.value != cty.NilVal {
		return p.value
	}
	return p.Default
}

// IsValid reports whether the parameter has a value or a default.
func (p *Param) IsValid() bool { return p.Value() != cty.NilVal }

// HasDefault reports whether a default was declared.
func (p *Param) HasDefault() bool { return p.Default != cty.NilVal }

func (p *Param) IsSetByUser() bool           { return p.setByUser }
func (p *Param) FromGlobal() bool            { return p.fromGlobal }
func (p *Param) Location() document.Location { return p.loc }

// Names returns the parameter name followed by its aliases.
func (p *Param) Names() []string {
	return append([]string{p.Name}, p.Aliases...)
}

// Clone returns a copy of the declaration and any value it holds.
func (p *Param) Clone() *Param {
	c := *p
	c.Aliases = append([]string(nil), p.Aliases...)
	c.Options = append([]string(nil), p.Options...)
	if p.AutoBuild != nil {
		ab := *p.AutoBuild
		c.AutoBuild = &ab
	}
	return &c
}

var defaultSeparators = []string{" ", ";", "|"}

// defaultText renders a Go default value as input text, so defaults go
// through the same converter as the input.
func defaultText(v any) (string, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		depth := nestDepth(rv.Type())
		if depth >= len(defaultSeparators) {
			return "", fmt.Errorf("default nests too deeply")
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := defaultText(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, defaultSeparators[depth]), nil
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]string, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ks, err := cast.ToStringE(iter.Key().Interface())
			if err != nil {
				return "", err
			}
			vs, err := cast.ToStringE(iter.Value().Interface())
			if err != nil {
				return "", err
			}
			keys = append(keys, ks)
			byKey[ks] = vs
		}
		sort.Strings(keys)
		parts := make([]string, 0, 2*len(keys))
		for _, k := range keys {
			parts = append(parts, k, byKey[k])
		}
		return strings.Join(parts, " "), nil
	}
	return cast.ToStringE(v)
}

// nestDepth is 0 for a flat list, 1 for a list of lists and so on.
func nestDepth(t reflect.Type) int {
	d := 0
	for e := t.Elem(); e.Kind() == reflect.Slice || e.Kind() == reflect.Array; e = e.Elem() {
		d++
	}
	return d
}
