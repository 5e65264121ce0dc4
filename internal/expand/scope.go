package expand

import (
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/document"
)

// Scope gives evaluators access to the field being expanded and to the
// fields visible from it.
type Scope struct {
	field    *document.Node
	expander *Expander
}

// Field returns the field whose value is being expanded.
func (s *Scope) Field() *document.Node { return s.field }

// Lookup resolves name by searching the enclosing section and then each
// ancestor in turn. The found field is expanded first if needed and is
// recorded as used.
func (s *Scope) Lookup(name string) (string, error) {
	for sec := s.field.Parent(); sec != nil; sec = sec.Parent() {
		n := sec.Find(name)
		if n == nil || n == s.field || !n.IsField() {
			continue
		}
		if err := s.expander.expandField(n); err != nil {
			return "", fmt.Errorf("referenced field '%s' could not be expanded: %w", n.FullPath(), err)
		}
		s.expander.used[n.FullPath()] = struct{}{}
		return n.RawValue(), nil
	}
	return "", fmt.Errorf("no variable '%s' found for substitution", name)
}
