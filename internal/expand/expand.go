// Package expand replaces ${...} markers in field values with computed text
// before any parameter is extracted from the document.
package expand

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/hitbuild/internal/diag"
	"github.com/specialistvlad/hitbuild/internal/document"
)

// Error is a failed ${...} expansion.
type Error struct {
	document.Location
	Path   string
	Marker string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: cannot expand '%s' in '%s': %v", e.Location, e.Marker, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Evaluator computes the replacement text for one marker. args are the
// whitespace separated words following the evaluator name.
type Evaluator interface {
	Evaluate(scope *Scope, args []string) (string, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(scope *Scope, args []string) (string, error)

func (f EvaluatorFunc) Evaluate(scope *Scope, args []string) (string, error) { return f(scope, args) }

// Expander walks a document and rewrites every field value containing a
// marker. It remembers every field another field referred to.
type Expander struct {
	evaluators map[string]Evaluator
	getenv     func(string) (string, bool)
	used       map[string]struct{}

	// active guards against fields that refer to themselves through a chain.
	active map[*document.Node]bool
	done   map[*document.Node]error
}

// Option configures an Expander.
type Option func(*Expander)

// WithEnv replaces the environment lookup used by the env evaluator.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(e *Expander) { e.getenv = lookup }
}

// WithEvaluator registers an additional evaluator.
func WithEvaluator(name string, ev Evaluator) Option {
	return func(e *Expander) { e.evaluators[name] = ev }
}

// New returns an Expander with the raw, env, replace, fparse and units
// evaluators registered.
func New(opts ...Option) *Expander {
	e := &Expander{
		getenv: os.LookupEnv,
		used:   make(map[string]struct{}),
		active: make(map[*document.Node]bool),
		done:   make(map[*document.Node]error),
	}
	e.evaluators = map[string]Evaluator{
		"raw":     EvaluatorFunc(evalRaw),
		"env":     EvaluatorFunc(e.evalEnv),
		"replace": EvaluatorFunc(evalReplace),
		"fparse":  EvaluatorFunc(evalFParse),
		"units":   EvaluatorFunc(evalUnits),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand rewrites every field under root. All failures are collected and
// returned together; fields that fail keep their original text.
func (e *Expander) Expand(root *document.Node) error {
	var errs diag.Errors
	document.WalkFields(root, func(_ string, f *document.Node) {
		errs.Add(e.expandField(f))
	})
	return errs.ErrorOrNil()
}

// Used returns the sorted full paths of every field referenced by a marker.
func (e *Expander) Used() []string {
	out := make([]string, 0, len(e.used))
	for p := range e.used {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsUsed reports whether a marker referred to the field at path.
func (e *Expander) IsUsed(path string) bool {
	_, ok := e.used[document.NormalizePath(path)]
	return ok
}

func (e *Expander) expandField(f *document.Node) error {
	if err, ok := e.done[f]; ok {
		return err
	}
	value := f.RawValue()
	if !strings.Contains(value, "${") {
		return nil
	}
	if e.active[f] {
		return &Error{Location: f.Location(), Path: f.FullPath(), Marker: value, Err: fmt.Errorf("reference cycle")}
	}
	e.active[f] = true
	defer delete(e.active, f)

	err := e.substitute(f, value)
	e.done[f] = err
	return err
}

func (e *Expander) substitute(f *document.Node, value string) error {
	var (
		out  strings.Builder
		errs diag.Errors
	)
	rest := value
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			errs.Add(&Error{Location: f.Location(), Path: f.FullPath(), Marker: rest[start:], Err: fmt.Errorf("missing closing '}'")})
			return errs.ErrorOrNil()
		}
		end += start
		marker := rest[start : end+1]
		out.WriteString(rest[:start])

		replacement, err := e.evaluate(f, rest[start+2:end])
		if err != nil {
			errs.Add(&Error{Location: f.Location(), Path: f.FullPath(), Marker: marker, Err: err})
			out.WriteString(marker)
		} else {
			out.WriteString(replacement)
		}
		rest = rest[end+1:]
	}

	if errs.Len() > 0 {
		return errs.ErrorOrNil()
	}
	f.SetValue(out.String())
	return nil
}

func (e *Expander) evaluate(f *document.Node, body string) (string, error) {
	words := strings.Fields(body)
	if len(words) == 0 {
		return "", fmt.Errorf("empty marker")
	}
	scope := &Scope{field: f, expander: e}

	ev, ok := e.evaluators[words[0]]
	if !ok {
		if len(words) == 1 {
			return evalReplace(scope, words)
		}
		return "", fmt.Errorf("unknown evaluator '%s'", words[0])
	}
	return ev.Evaluate(scope, words[1:])
}
