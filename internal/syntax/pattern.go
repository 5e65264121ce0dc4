// internal/syntax/pattern.go
package syntax

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// String serializes the pattern back to its slash separated form.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = s.Name
	}
	return strings.Join(names, "/")
}

func (p *Pattern) Len() int { return len(p.Segments) }

// Literals counts the segments without glob characters. A higher count is a
// more specific pattern.
func (p *Pattern) Literals() int {
	n := 0
	for _, s := range p.Segments {
		if !s.IsGlob() {
			n++
		}
	}
	return n
}

// Match reports whether the document path has exactly as many segments as
// the pattern and each segment matches.
func (p *Pattern) Match(path string) bool {
	elems := splitPath(path)
	return len(elems) == len(p.Segments) && p.matchPrefix(elems)
}

// IsParentOf reports whether the pattern is longer than the document path
// and agrees with it on every segment the path has.
func (p *Pattern) IsParentOf(path string) bool {
	elems := splitPath(path)
	return len(elems) > 0 && len(elems) < len(p.Segments) && p.matchPrefix(elems)
}

func (p *Pattern) matchPrefix(elems []string) bool {
	for i, name := range elems {
		seg := p.Segments[i].Name
		if seg == name {
			continue
		}
		if !p.Segments[i].IsGlob() {
			return false
		}
		ok, err := doublestar.Match(seg, name)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
