package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/diag"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/spf13/afero"
)

// InputExtension is the extension of input files found in directories.
const InputExtension = ".i"

// loadInputs parses the input files and merges each one over the ones
// before it. Duplicates are checked per file, before merging, so a later
// file overriding an earlier one is a warning and not an error. The
// returned warnings name both locations of every override.
func (a *App) loadInputs(ctx context.Context, paths []string) (*document.Node, []string, error) {
	logger := ctxlog.FromContext(ctx)
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no input files given")
	}

	var (
		root     *document.Node
		warnings []string
		errs     diag.Errors
	)
	for _, path := range paths {
		data, err := afero.ReadFile(a.fs, path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read input: %w", err)
		}
		doc, err := document.Parse(path, string(data))
		if err != nil {
			return nil, nil, err
		}
		document.Explode(doc)
		if err := document.CheckDuplicates(doc); err != nil {
			errs.Add(err)
			continue
		}
		logger.Debug("Input parsed.", "file", path, "bytes", len(data))

		if root == nil {
			root = doc
			continue
		}
		for _, o := range document.Merge(doc, root) {
			warnings = append(warnings, o.String())
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, nil, err
	}
	return root, warnings, nil
}
