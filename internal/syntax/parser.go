// internal/syntax/parser.go
package syntax

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex accepts the characters section names may contain, plus '*'.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:<>+*-]+$`)

func isValidSegmentName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return segmentRegex.MatchString(name)
}

// Parse creates a Pattern from its slash separated text. Leading and
// trailing slashes are ignored.
func Parse(raw string) (*Pattern, error) {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("syntax path cannot be empty")
	}

	p := &Pattern{}
	for _, name := range strings.Split(trimmed, "/") {
		if name == "" {
			return nil, fmt.Errorf("syntax path %q contains an empty segment", raw)
		}
		if !isValidSegmentName(name) {
			return nil, fmt.Errorf("invalid segment %q in syntax path %q", name, raw)
		}
		p.Segments = append(p.Segments, Segment{Name: name})
	}
	return p, nil
}

// MustParse is like Parse but panics on error. It is meant for registration
// code, where a bad path is a programming error.
func MustParse(raw string) *Pattern {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}
