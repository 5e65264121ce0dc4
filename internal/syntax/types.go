// internal/syntax/types.go
package syntax

// Wildcard is the segment that matches any single section name.
const Wildcard = "*"

// Segment is one component of a syntax path.
type Segment struct {
	Name string
}

// IsGlob reports whether the segment contains glob metacharacters.
func (s Segment) IsGlob() bool {
	for i := 0; i < len(s.Name); i++ {
		if s.Name[i] == '*' {
			return true
		}
	}
	return false
}

// Pattern is the parsed form of a registered syntax path.
type Pattern struct {
	Segments []Segment
}
