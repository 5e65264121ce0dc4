// Package diag collects errors found during one pipeline phase so they can be
// reported together.
package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Errors accumulates errors. The zero value is ready to use.
type Errors struct {
	merr *multierror.Error
}

// Add appends err, ignoring nil. Nested multierrors are flattened.
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	e.merr = multierror.Append(e.merr, err)
}

// Addf appends a formatted error.
func (e *Errors) Addf(format string, args ...any) {
	e.Add(fmt.Errorf(format, args...))
}

// Len returns the number of collected errors.
func (e *Errors) Len() int {
	if e.merr == nil {
		return 0
	}
	return len(e.merr.Errors)
}

// Errors returns the collected errors.
func (e *Errors) Errors() []error {
	if e.merr == nil {
		return nil
	}
	return e.merr.Errors
}

// ErrorOrNil returns nil when nothing was collected, otherwise an error whose
// message is every collected message on its own line.
func (e *Errors) ErrorOrNil() error {
	if e.merr == nil {
		return nil
	}
	e.merr.ErrorFormat = Lines
	return e.merr.ErrorOrNil()
}

// Lines is a multierror.ErrorFormatFunc that joins messages with newlines.
func Lines(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}
