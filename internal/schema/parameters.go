package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/hitbuild/internal/diag"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Parameters is an ordered set of typed parameter slots belonging to one
// object or action type.
type Parameters struct {
	Class  string
	order  []string
	params map[string]*Param
}

// New returns an empty schema for the named class.
func New(class string) *Parameters {
	return &Parameters{Class: class, params: make(map[string]*Param)}
}

// Declare adds a parameter. Declaring the same name twice panics.
func (ps *Parameters) Declare(name string, kind Kind, doc string, opts ...Option) *Param {
	if _, exists := ps.params[name]; exists {
		panic(fmt.Sprintf("schema: parameter '%s' already declared for '%s'", name, ps.Class))
	}
	p := newParam(name, kind, doc, opts)
	ps.order = append(ps.order, name)
	ps.params[name] = p
	return p
}

// Get returns the named parameter or nil.
func (ps *Parameters) Get(name string) *Param { return ps.params[name] }

// Has reports whether name is declared.
func (ps *Parameters) Has(name string) bool {
	_, ok := ps.params[name]
	return ok
}

func (ps *Parameters) Len() int { return len(ps.order) }

// Names returns the declared names in declaration order.
func (ps *Parameters) Names() []string {
	return append([]string(nil), ps.order...)
}

// InputNames returns every name, alias included, the input may use.
func (ps *Parameters) InputNames() []string {
	var out []string
	for _, p := range ps.Params() {
		if !p.Private {
			out = append(out, p.Names()...)
		}
	}
	return out
}

// Params returns the parameters in declaration order.
func (ps *Parameters) Params() []*Param {
	out := make([]*Param, 0, len(ps.order))
	for _, name := range ps.order {
		out = append(out, ps.params[name])
	}
	return out
}

// Value returns the value of the named parameter, or cty.NilVal.
func (ps *Parameters) Value(name string) cty.Value {
	if p := ps.params[name]; p != nil {
		return p.Value()
	}
	return cty.NilVal
}

// Put inserts p, replacing a parameter of the same name in place.
func (ps *Parameters) Put(p *Param) {
	if _, exists := ps.params[p.Name]; !exists {
		ps.order = append(ps.order, p.Name)
	}
	ps.params[p.Name] = p
}

// Remove deletes the named parameter if present.
func (ps *Parameters) Remove(name string) {
	if _, exists := ps.params[name]; !exists {
		return
	}
	delete(ps.params, name)
	for i, n := range ps.order {
		if n == name {
			ps.order = append(ps.order[:i], ps.order[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy; values set on the copy do not affect ps.
func (ps *Parameters) Clone() *Parameters {
	c := New(ps.Class)
	for _, p := range ps.Params() {
		c.order = append(c.order, p.Name)
		c.params[p.Name] = p.Clone()
	}
	return c
}

// Merge adds every parameter of other not already declared. A name declared
// in both with different kinds is an error; nothing is added in that case.
func (ps *Parameters) Merge(other *Parameters) error {
	var errs diag.Errors
	for _, p := range other.Params() {
		if have := ps.params[p.Name]; have != nil && have.Kind != p.Kind {
			errs.Add(&KindConflictError{Param: p.Name, Have: have.Kind, Other: p.Kind})
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	for _, p := range other.Params() {
		if !ps.Has(p.Name) {
			ps.Put(p.Clone())
		}
	}
	return nil
}

// Missing returns the names of required parameters that have no value.
func (ps *Parameters) Missing() []string {
	var out []string
	for _, p := range ps.Params() {
		if p.Required && !p.IsValid() {
			out = append(out, p.Name)
		}
	}
	return out
}

// Decode copies parameter values into the fields of the struct pointed to
// by v. Fields are matched by a `param:"name"` tag; fields of type cty.Value
// receive the value as is. Parameters without a value leave the field alone.
func (ps *Parameters) Decode(v any) error {
	structVal := reflect.ValueOf(v)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", v)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		fieldDef := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tagName := strings.Split(fieldDef.Tag.Get("param"), ",")[0]
		if tagName == "" || tagName == "-" {
			continue
		}
		p := ps.params[tagName]
		if p == nil {
			return fmt.Errorf("field '%s' refers to undeclared parameter '%s' of '%s'", fieldDef.Name, tagName, ps.Class)
		}

		val := p.Value()
		if val == cty.NilVal || val.IsNull() {
			continue
		}
		if fieldDef.Type == reflect.TypeOf(cty.Value{}) {
			fieldVal.Set(reflect.ValueOf(val))
			continue
		}
		if err := gocty.FromCtyValue(val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode parameter '%s': %w", tagName, err)
		}
	}
	return nil
}
