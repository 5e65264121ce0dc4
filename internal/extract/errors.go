package extract

import (
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/diag"
	"github.com/specialistvlad/hitbuild/internal/document"
)

// ParamError is a conversion failure of one field.
type ParamError struct {
	Location document.Location
	Path     string
	Err      error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// BlockError gathers every parameter error of one block.
type BlockError struct {
	Block  string
	Errors []error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("errors in block '[%s]':\n%s", e.Block, diag.Lines(e.Errors))
}

func (e *BlockError) Unwrap() []error { return e.Errors }
