package builder

import (
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/document"
)

// UnregisteredSyntaxError reports a section no handler is registered for.
type UnregisteredSyntaxError struct {
	document.Location
	Section string
}

func (e *UnregisteredSyntaxError) Error() string {
	return fmt.Sprintf("%s: section '[%s]' does not have an associated Action; you likely misspelled the Action/section name or the app you are running does not support this Action/syntax", e.Location, e.Section)
}

// RequiredParameterMissingError reports a required parameter that neither the
// block nor the global block set.
type RequiredParameterMissingError struct {
	document.Location
	Block string
	Class string
	Param string
}

func (e *RequiredParameterMissingError) Error() string {
	return fmt.Sprintf("%s: missing required parameter '%s/%s' (%s)", e.Location, e.Block, e.Param, e.Class)
}

// ActionError wraps a failure of a handler factory.
type ActionError struct {
	document.Location
	Block   string
	Handler string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: cannot build %s for block '[%s]': %v", e.Location, e.Handler, e.Block, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
