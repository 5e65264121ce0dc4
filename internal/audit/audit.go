// Package audit reports input fields nothing consumed.
package audit

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/suggest"
)

// AllowUnusedHint is appended to unused parameter errors.
const AllowUnusedHint = "Append --allow-unused (or -w) on the command line to ignore unused parameters."

// Severity decides whether unused parameters fail the run.
type Severity int

const (
	SeverityWarn Severity = iota
	SeverityError
)

// NameSource lists the parameter names a block accepts.
type NameSource interface {
	ValidNames(blockPath string) []string
}

// Diagnostic is one unused field or command line flag.
type Diagnostic struct {
	Location document.Location
	// Path is the field path, or the flag for command line diagnostics.
	Path        string
	Flag        bool
	Suggestions []string
}

func (d Diagnostic) String() string {
	if d.Flag {
		return fmt.Sprintf("unused command line parameter '%s'", d.Path)
	}
	msg := fmt.Sprintf("%s: unused parameter '%s'", d.Location, d.Path)
	if hint := suggest.DidYouMean(d.Suggestions); hint != "" {
		msg += "\n\t" + hint
	}
	return msg
}

// UnusedParameterError carries the diagnostics of a failed audit.
type UnusedParameterError struct {
	Diagnostics []Diagnostic
}

func (e *UnusedParameterError) Error() string {
	lines := lo.Map(e.Diagnostics, func(d Diagnostic, _ int) string { return d.String() })
	return strings.Join(lines, "\n") + "\n\n" + AllowUnusedHint
}

// Option configures an Auditor.
type Option func(*Auditor)

// SkipSource leaves out fields read from the named source, for trees that
// hold fields audited elsewhere.
func SkipSource(file string) Option {
	return func(a *Auditor) { a.skipFiles = append(a.skipFiles, file) }
}

// Auditor finds unused fields.
type Auditor struct {
	names     NameSource
	skipFiles []string
}

// New creates an auditor suggesting names from names. names may be nil.
func New(names NameSource, opts ...Option) *Auditor {
	a := &Auditor{names: names}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit returns a diagnostic for every field below root whose path is not in
// used. The active and inactive lists, fields of inactive sections and
// fields without a source line are never reported.
func (a *Auditor) Audit(root *document.Node, used []string) []Diagnostic {
	consumed := lo.SliceToMap(used, func(p string) (string, struct{}) {
		return document.NormalizePath(p), struct{}{}
	})
	var diags []Diagnostic
	document.WalkFields(root, func(path string, f *document.Node) {
		if _, ok := consumed[path]; ok {
			return
		}
		if f.Name() == document.ActiveField || f.Name() == document.InactiveField {
			return
		}
		if f.Line() <= 0 || lo.Contains(a.skipFiles, f.File()) || !document.IsActive(f) {
			return
		}
		d := Diagnostic{Location: f.Location(), Path: path}
		if a.names != nil {
			d.Suggestions = suggest.FindSimilar(f.Name(), a.names.ValidNames(document.ParentPath(path)))
		}
		diags = append(diags, d)
	})
	return diags
}

// UnusedFlags returns a diagnostic for every command line flag nothing
// matched.
func UnusedFlags(flags []string) []Diagnostic {
	return lo.Map(flags, func(f string, _ int) Diagnostic { return Diagnostic{Path: f, Flag: true} })
}

// Report turns diagnostics into warnings or an error, depending on sev.
func Report(diags []Diagnostic, sev Severity) ([]string, error) {
	if len(diags) == 0 {
		return nil, nil
	}
	if sev == SeverityError {
		return nil, &UnusedParameterError{Diagnostics: diags}
	}
	return lo.Map(diags, func(d Diagnostic, _ int) string { return d.String() }), nil
}
