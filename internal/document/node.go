package document

import (
	"fmt"
	"strings"
)

// Kind identifies what a Node represents in the document tree.
type Kind int

const (
	KindRoot Kind = iota
	KindSection
	KindField
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSection:
		return "section"
	case KindField:
		return "field"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Location is the source position a node was parsed from.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Line <= 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d.%d", l.File, l.Line, l.Column)
}

// Node is one element of a parsed document. Sections and the root hold
// ordered children; fields hold a raw value.
type Node struct {
	kind     Kind
	name     string
	value    string
	quote    byte
	children []*Node
	parent   *Node
	loc      Location
	implicit bool
}

// NewRoot creates an empty document root for the given source name.
func NewRoot(file string) *Node {
	return &Node{kind: KindRoot, loc: Location{File: file}}
}

// NewSection creates a detached section node.
func NewSection(name string, loc Location) *Node {
	return &Node{kind: KindSection, name: name, loc: loc}
}

// NewField creates a detached field node holding an unquoted value.
func NewField(name, value string, loc Location) *Node {
	return &Node{kind: KindField, name: name, value: value, loc: loc}
}

func newComment(text string, loc Location) *Node {
	return &Node{kind: KindComment, value: text, loc: loc}
}

func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Name() string { return n.name }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Location() Location { return n.loc }
func (n *Node) File() string { return n.loc.File }
func (n *Node) Line() int { return n.loc.Line }
func (n *Node) Column() int { return n.loc.Column }
func (n *Node) IsSection() bool { return n.kind == KindSection }
func (n *Node) IsField() bool { return n.kind == KindField }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) Quote() byte { return n.quote }
func (n *Node) SetLocation(l Location) { n.loc = l }

// Implicit reports whether the section was created by Explode rather than
// written in the input.
func (n *Node) Implicit() bool { return n.implicit }

// RawValue returns the field value exactly as stored, after unquoting and
// with any ${...} markers still in place until expansion runs.
func (n *Node) RawValue() string { return n.value }

// SetValue replaces the field value. The node keeps its kind and location.
func (n *Node) SetValue(v string) { n.value = v }

// AddChild appends c to n and takes ownership of it.
func (n *Node) AddChild(c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

// InsertChild places c at index i among n's children.
func (n *Node) InsertChild(i int, c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	if i >= len(n.children) {
		n.children = append(n.children, c)
		return
	}
	n.children = append(n.children[:i], append([]*Node{c}, n.children[i:]...)...)
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Root returns the top of the tree n belongs to.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// FullPath returns the normalized, slash-joined names from the root to n.
// The root itself has an empty path.
func (n *Node) FullPath() string {
	if n.kind == KindRoot || n.parent == nil {
		return NormalizePath(n.name)
	}
	parent := n.parent.FullPath()
	if parent == "" {
		return NormalizePath(n.name)
	}
	return NormalizePath(parent + "/" + n.name)
}

// Sections returns the direct section children of n in document order.
func (n *Node) Sections() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == KindSection {
			out = append(out, c)
		}
	}
	return out
}

// Fields returns the direct field children of n in document order.
func (n *Node) Fields() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == KindField {
			out = append(out, c)
		}
	}
	return out
}

// Find looks up the node at path relative to n. It never fails; a missing
// path returns nil. Names that still contain slashes (an unexploded tree)
// are matched segment-wise.
func (n *Node) Find(path string) *Node {
	path = NormalizePath(path)
	if path == "" {
		return n
	}
	return n.find(strings.Split(path, "/"))
}

func (n *Node) find(segs []string) *Node {
	if len(segs) == 0 {
		return n
	}
	for _, c := range n.children {
		if c.kind != KindSection && c.kind != KindField {
			continue
		}
		name := NormalizePath(c.name)
		if name == "" {
			continue
		}
		parts := strings.Split(name, "/")
		if len(parts) > len(segs) || !equalSegs(parts, segs[:len(parts)]) {
			continue
		}
		rest := segs[len(parts):]
		if len(rest) == 0 {
			return c
		}
		if c.kind == KindSection {
			if found := c.find(rest); found != nil {
				return found
			}
		}
	}
	return nil
}

func equalSegs(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep, detached copy of n.
func (n *Node) Clone() *Node {
	c := &Node{
		kind:     n.kind,
		name:     n.name,
		value:    n.value,
		quote:    n.quote,
		loc:      n.loc,
		implicit: n.implicit,
	}
	for _, child := range n.children {
		c.AddChild(child.Clone())
	}
	return c
}

// Walker visits nodes during Walk. Returning false from Visit on a section
// skips its subtree.
type Walker interface {
	Visit(fullpath string, n *Node) bool
}

// WalkerFunc adapts a function to the Walker interface.
type WalkerFunc func(fullpath string, n *Node) bool

func (f WalkerFunc) Visit(fullpath string, n *Node) bool { return f(fullpath, n) }

// Walk visits n and all of its descendants in document order (pre-order).
func Walk(n *Node, w Walker) {
	if !w.Visit(n.FullPath(), n) {
		return
	}
	// Copy so walkers may restructure the tree they are visiting.
	children := append([]*Node(nil), n.children...)
	for _, c := range children {
		Walk(c, w)
	}
}

// WalkFields calls fn for every field below n.
func WalkFields(n *Node, fn func(fullpath string, f *Node)) {
	Walk(n, WalkerFunc(func(p string, node *Node) bool {
		if node.kind == KindField {
			fn(p, node)
		}
		return true
	}))
}

// NormalizePath collapses repeated separators and "." segments and trims
// leading and trailing slashes.
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	segs := strings.Split(p, "/")
	out := segs[:0]
	for _, s := range segs {
		if s == "" || s == "." {
			continue
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}

// JoinPath joins path elements and normalizes the result.
func JoinPath(elems ...string) string {
	return NormalizePath(strings.Join(elems, "/"))
}

// BaseName returns the last segment of a path.
func BaseName(p string) string {
	p = NormalizePath(p)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ParentPath returns everything before the last segment of a path.
func ParentPath(p string) string {
	p = NormalizePath(p)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}
