package registry

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/specialistvlad/hitbuild/internal/suggest"
)

// HandlerType returns the registered handler type.
func (r *Registry) HandlerType(name string) (*HandlerType, bool) {
	ht, ok := r.handlerTypes[name]
	return ht, ok
}

// HandlerParams returns a fresh copy of the handler type's schema.
func (r *Registry) HandlerParams(name string) (*schema.Parameters, error) {
	ht, ok := r.handlerTypes[name]
	if !ok {
		return nil, fmt.Errorf("unknown handler type '%s'", name)
	}
	return freshParams(name, ht.Params), nil
}

// GetValidParams returns a fresh copy of the object type's schema.
func (r *Registry) GetValidParams(typeName string) (*schema.Parameters, error) {
	obj, ok := r.objectTypes[typeName]
	if !ok {
		msg := fmt.Sprintf("unknown object type '%s'", typeName)
		if hint := suggest.DidYouMean(suggest.FindSimilar(typeName, r.ObjectTypes())); hint != "" {
			msg += ". " + hint
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return freshParams(typeName, obj.Params), nil
}

func freshParams(class string, fn ParamsFunc) *schema.Parameters {
	ps := fn()
	if ps.Class == "" {
		ps.Class = class
	}
	return ps
}

// ObjectTypes returns the registered object type names, sorted.
func (r *Registry) ObjectTypes() []string {
	names := make([]string, 0, len(r.objectTypes))
	for name := range r.objectTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registrations returns every syntax registration in registration order.
func (r *Registry) Registrations() []Registration {
	return append([]Registration(nil), r.registrations...)
}

// IsPathAssociated finds the registered syntax a document block path
// resolves to. An exact registration wins, then the most specific wildcard
// match. When only a longer registration agrees with the path, the path is
// that registration's parent and isParentOnly is true; among several such
// registrations the most general one is reported.
func (r *Registry) IsPathAssociated(path string) (registrationID string, isParentOnly bool, ok bool) {
	path = document.NormalizePath(path)
	var full, parent *Registration
	for i := range r.registrations {
		reg := &r.registrations[i]
		switch {
		case reg.ID() == path:
			return reg.ID(), false, true
		case reg.Syntax.Match(path):
			if full == nil || reg.Syntax.Literals() > full.Syntax.Literals() {
				full = reg
			}
		case reg.Syntax.IsParentOf(path):
			if parent == nil || reg.Syntax.Literals() < parent.Syntax.Literals() {
				parent = reg
			}
		}
	}
	if full != nil {
		return full.ID(), false, true
	}
	if parent != nil {
		return parent.ID(), true, true
	}
	return "", false, false
}

// GetHandlersForPath returns the registrations that act on the block path,
// in registration order. A parent-only match has none.
func (r *Registry) GetHandlersForPath(path string) []Registration {
	id, isParent, ok := r.IsPathAssociated(path)
	if !ok || isParent {
		return nil
	}
	var out []Registration
	for _, reg := range r.registrations {
		if reg.ID() == id {
			out = append(out, reg)
		}
	}
	return out
}

// TaskOrder returns every task such that each comes after the tasks it
// depends on.
func (r *Registry) TaskOrder() ([]string, error) {
	return r.tasks.TopologicalSort()
}
