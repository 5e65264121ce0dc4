package document

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/hitbuild/internal/diag"
)

// Names of the fields that filter the sub-blocks of a section.
const (
	ActiveField   = "active"
	InactiveField = "inactive"
	// ActiveAll is the value of an active list that keeps every sub-block.
	ActiveAll = "__all__"
)

// BadActiveListError reports a malformed active or inactive list.
type BadActiveListError struct {
	Location
	Section string
	Msg     string
}

func (e *BadActiveListError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Location, blockLabel(e.Section), e.Msg)
}

func blockLabel(path string) string {
	if path == "" {
		return "the top level"
	}
	return "section '[" + path + "]'"
}

// IsActive reports whether n takes part in the build. A section is inactive
// when the active list of its parent leaves it out, when the inactive list of
// its parent names it, or when any enclosing section is inactive. A field is
// active when the section holding it is.
func IsActive(n *Node) bool {
	if n.kind == KindField || n.kind == KindComment {
		if n.parent == nil {
			return true
		}
		n = n.parent
	}
	for c := n; c.parent != nil; c = c.parent {
		if !activeIn(c.parent, NormalizePath(c.name)) {
			return false
		}
	}
	return true
}

func activeIn(parent *Node, name string) bool {
	if f := parent.directField(ActiveField); f != nil {
		list := normalized(f.VecStrVal())
		return slices.Contains(list, ActiveAll) || slices.Contains(list, name)
	}
	if f := parent.directField(InactiveField); f != nil {
		return !slices.Contains(normalized(f.VecStrVal()), name)
	}
	return true
}

func (n *Node) directField(name string) *Node {
	for _, c := range n.children {
		if c.kind == KindField && c.name == name {
			return c
		}
	}
	return nil
}

func normalized(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, NormalizePath(name))
	}
	return out
}

// CheckActiveLists reports every section that sets both an active and an
// inactive list, and every list entry that names no sub-block of its
// section. The tree should be exploded first.
func CheckActiveLists(root *Node) error {
	var errs diag.Errors
	Walk(root, WalkerFunc(func(path string, n *Node) bool {
		if n.kind != KindRoot && n.kind != KindSection {
			return true
		}
		active, inactive := n.directField(ActiveField), n.directField(InactiveField)
		if active != nil && inactive != nil {
			errs.Add(&BadActiveListError{
				Location: inactive.loc,
				Section:  path,
				Msg:      "sets both 'active' and 'inactive'",
			})
		}
		for _, f := range []*Node{active, inactive} {
			if f == nil {
				continue
			}
			for _, name := range normalized(f.VecStrVal()) {
				if name == ActiveAll && f.name == ActiveField {
					continue
				}
				if !n.hasSection(name) {
					errs.Add(&BadActiveListError{
						Location: f.loc,
						Section:  path,
						Msg:      fmt.Sprintf("lists '%s' in '%s', but it has no such sub-block", name, f.name),
					})
				}
			}
		}
		return true
	}))
	return errs.ErrorOrNil()
}

func (n *Node) hasSection(name string) bool {
	for _, c := range n.children {
		if c.kind == KindSection && NormalizePath(c.name) == name {
			return true
		}
	}
	return false
}
