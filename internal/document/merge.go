package document

import (
	"fmt"
	"strings"
)

// Override records a field whose value was replaced by Merge.
type Override struct {
	Path        string
	OldValue    string
	NewValue    string
	Previous    Location
	Replacement Location
}

func (o Override) String() string {
	return fmt.Sprintf("%s: parameter '%s' overrides the value '%s' set at %s", o.Replacement, o.Path, o.OldValue, o.Previous)
}

// Merge splices the fields and sections of src into dst. A field present in
// both replaces the destination value; a section present in both is merged
// recursively; anything missing is cloned under the matching destination
// parent. Both trees are expected to be exploded. The returned overrides are
// in document order of src.
func Merge(src, dst *Node) []Override {
	var overrides []Override
	mergeInto(src, dst, &overrides)
	return overrides
}

func mergeInto(src, dst *Node, overrides *[]Override) {
	for _, c := range src.children {
		switch c.kind {
		case KindField:
			if existing := childNamed(dst, c.name, KindField); existing != nil {
				*overrides = append(*overrides, Override{
					Path:        existing.FullPath(),
					OldValue:    existing.value,
					NewValue:    c.value,
					Previous:    existing.loc,
					Replacement: c.loc,
				})
				existing.value = c.value
				existing.quote = c.quote
				existing.loc = c.loc
				continue
			}
			dst.AddChild(c.Clone())
		case KindSection:
			if existing := childNamed(dst, c.name, KindSection); existing != nil {
				mergeInto(c, existing, overrides)
				continue
			}
			dst.AddChild(c.Clone())
		}
	}
}

// childNamed returns the last child of n with the given name and kind, so a
// reopened section receives merged content.
func childNamed(n *Node, name string, kind Kind) *Node {
	name = NormalizePath(name)
	for i := len(n.children) - 1; i >= 0; i-- {
		c := n.children[i]
		if c.kind == kind && NormalizePath(c.name) == name {
			return c
		}
	}
	return nil
}

// Explode rewrites every field or section whose name contains a '/' into
// nested sections, reusing sections that already exist at each level.
// Names are normalized along the way.
func Explode(root *Node) {
	var pending []*Node
	Walk(root, WalkerFunc(func(_ string, n *Node) bool {
		if n.kind != KindField && n.kind != KindSection {
			return true
		}
		if n.name != NormalizePath(n.name) || strings.Contains(n.name, "/") {
			pending = append(pending, n)
		}
		return true
	}))

	for _, n := range pending {
		explodeNode(n)
	}
}

func explodeNode(n *Node) {
	name := NormalizePath(n.name)
	segs := strings.Split(name, "/")
	if len(segs) == 1 {
		n.name = name
		return
	}

	parent := n.parent
	idx := indexOf(parent, n)
	for _, seg := range segs[:len(segs)-1] {
		next := childNamed(parent, seg, KindSection)
		if next == nil {
			next = NewSection(seg, n.loc)
			next.implicit = true
			parent.InsertChild(idx, next)
		}
		parent = next
		idx = len(parent.children)
	}
	n.name = segs[len(segs)-1]
	parent.AddChild(n)
}

func indexOf(parent, n *Node) int {
	for i, c := range parent.children {
		if c == n {
			return i
		}
	}
	return len(parent.children)
}
