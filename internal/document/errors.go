package document

import "fmt"

// SyntaxError reports malformed input text. Parsing stops at the first one.
type SyntaxError struct {
	Location
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Msg)
}

// DuplicateKind distinguishes the two flavours of duplicate error.
type DuplicateKind string

const (
	DuplicateParameter DuplicateKind = "parameter"
	DuplicateSection   DuplicateKind = "section"
)

// DuplicateError reports a path supplied more than once in one document.
type DuplicateError struct {
	Kind  DuplicateKind
	Path  string
	At    Location
	First Location
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: duplicate %s '%s'; also set at %s", e.At, e.Kind, e.Path, e.First)
}
