// Package cmdline splits a command line into option entries and structured
// input parameters, and keeps track of which of them were consumed.
package cmdline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/specialistvlad/hitbuild/internal/document"
)

// SourceName is the file name of the document built from input parameters
// given on the command line.
const SourceName = "CLI_ARGS"

// Entry is one option or one input parameter.
type Entry struct {
	// Name is the option as written ("-w", "--input") or the parameter path.
	Name string
	// Value is the space-joined value words; see HasValue.
	Value    string
	HasValue bool
	// Separator is "=" for inline values and " " for following words.
	Separator string
	// RawArgs are the arguments the entry was built from.
	RawArgs []string
	// SubApp is the prefix of a "sub:path=value" parameter.
	SubApp string
	// HitParam marks input parameters as opposed to options.
	HitParam bool
	// Used is set once something consumed the entry.
	Used bool
}

// CommandLine is a parsed argument list.
type CommandLine struct {
	entries []*Entry
}

// Parse splits args, which must not include the program name. Options take
// the following words up to the next option or parameter as their value.
func Parse(args []string) (*CommandLine, error) {
	cl := &CommandLine{}
	var current *Entry
	for _, arg := range args {
		switch {
		case isOption(arg):
			name, value, inline := strings.Cut(arg, "=")
			current = &Entry{Name: name, RawArgs: []string{arg}}
			if inline {
				current.Value, current.HasValue, current.Separator = value, true, "="
				cl.entries = append(cl.entries, current)
				current = nil
				continue
			}
			cl.entries = append(cl.entries, current)
		case strings.Contains(arg, "="):
			entry, err := parseParam(arg)
			if err != nil {
				return nil, err
			}
			cl.entries = append(cl.entries, entry)
			current = nil
		default:
			if err := checkSubAppOption(arg); err != nil {
				return nil, err
			}
			if current == nil {
				cl.entries = append(cl.entries, &Entry{Name: arg, RawArgs: []string{arg}})
				continue
			}
			words := strings.Fields(arg)
			if current.HasValue {
				words = append([]string{current.Value}, words...)
			}
			current.Value = strings.Join(words, " ")
			current.HasValue, current.Separator = true, " "
			current.RawArgs = append(current.RawArgs, arg)
		}
	}
	return cl, nil
}

// isOption reports whether arg starts an option. Negative numbers are values.
func isOption(arg string) bool {
	if !strings.HasPrefix(arg, "-") || len(arg) < 2 {
		return false
	}
	c := arg[1]
	return !(c >= '0' && c <= '9') && c != '.'
}

func parseParam(arg string) (*Entry, error) {
	if err := checkSubAppOption(arg); err != nil {
		return nil, err
	}
	name, value, _ := strings.Cut(arg, "=")
	entry := &Entry{
		Name:      name,
		Value:     strings.Join(strings.Fields(value), " "),
		HasValue:  true,
		Separator: "=",
		RawArgs:   []string{arg},
		HitParam:  true,
	}
	if sub, rest, ok := strings.Cut(name, ":"); ok {
		entry.SubApp, entry.Name = sub, rest
	}
	return entry, nil
}

func checkSubAppOption(arg string) error {
	if _, rest, ok := strings.Cut(arg, ":"); ok && strings.HasPrefix(rest, "-") {
		return fmt.Errorf("the sub-application command line argument '%s' sets a command line option; sub-application arguments can only set input parameters", arg)
	}
	return nil
}

// Clone returns an independent copy, usage flags included.
func (c *CommandLine) Clone() *CommandLine {
	out := &CommandLine{entries: make([]*Entry, len(c.entries))}
	for i, e := range c.entries {
		cp := *e
		cp.RawArgs = append([]string(nil), e.RawArgs...)
		out.entries[i] = &cp
	}
	return out
}

// Entries returns every entry in command line order.
func (c *CommandLine) Entries() []*Entry { return c.entries }

// HasHitParam reports whether an input parameter with the path was given.
func (c *CommandLine) HasHitParam(path string) bool {
	return lo.ContainsBy(c.entries, func(e *Entry) bool { return e.HitParam && e.Name == path })
}

// Options returns the option entries.
func (c *CommandLine) Options() []*Entry {
	return lo.Filter(c.entries, func(e *Entry, _ int) bool { return !e.HitParam })
}

// MarkUsed marks every option entry written as name. It reports whether
// there was one.
func (c *CommandLine) MarkUsed(name string) bool {
	found := false
	for _, e := range c.entries {
		if !e.HitParam && e.Name == name {
			e.Used = true
			found = true
		}
	}
	return found
}

// MarkHitParamsUsed marks the input parameters of the main application
// whose path was consumed.
func (c *CommandLine) MarkHitParamsUsed(used []string) {
	c.markUsed(used, func(e *Entry) bool { return e.SubApp == "" })
}

// MarkSubAppParamsUsed marks the parameters addressed to one sub-application
// whose path its build consumed.
func (c *CommandLine) MarkSubAppParamsUsed(app string, index int, used []string) {
	c.markUsed(used, func(e *Entry) bool { return addresses(e, app, index) })
}

func (c *CommandLine) markUsed(used []string, match func(*Entry) bool) {
	consumed := lo.SliceToMap(used, func(p string) (string, struct{}) {
		return document.NormalizePath(p), struct{}{}
	})
	for _, e := range c.entries {
		if !e.HitParam || !match(e) {
			continue
		}
		if _, ok := consumed[document.NormalizePath(e.Name)]; ok {
			e.Used = true
		}
	}
}

// addresses reports whether e is meant for the index-th sub-application
// named app. "app:" addresses all of them, "app1:" only the second.
func addresses(e *Entry, app string, index int) bool {
	return e.SubApp == app || e.SubApp == app+strconv.Itoa(index)
}

// UsedHitPaths returns the paths of consumed main application parameters.
func (c *CommandLine) UsedHitPaths() []string {
	used := lo.FilterMap(c.entries, func(e *Entry, _ int) (string, bool) {
		return document.NormalizePath(e.Name), e.HitParam && e.Used && e.SubApp == ""
	})
	return lo.Uniq(used)
}

// UnusedOptions returns the options nothing consumed, as written.
func (c *CommandLine) UnusedOptions() []string {
	return lo.FilterMap(c.entries, func(e *Entry, _ int) (string, bool) {
		return e.Name, !e.HitParam && !e.Used
	})
}

// UnusedSubAppParams returns the sub-application parameters no
// sub-application build consumed, as written.
func (c *CommandLine) UnusedSubAppParams() []string {
	return lo.FilterMap(c.entries, func(e *Entry, _ int) (string, bool) {
		return e.RawArgs[0], e.HitParam && e.SubApp != "" && !e.Used
	})
}

// HitParams builds the document of the main application parameters, one
// field per line in command line order, under the source name CLI_ARGS.
// Later parameters with the same path override earlier ones once merged.
func (c *CommandLine) HitParams() (*document.Node, error) {
	return c.document(func(e *Entry) bool { return e.SubApp == "" })
}

// SubAppHitParams builds the document of the parameters addressed to the
// index-th sub-application named app. Parameters addressing deeper
// sub-applications are left out.
func (c *CommandLine) SubAppHitParams(app string, index int) (*document.Node, error) {
	return c.document(func(e *Entry) bool {
		return addresses(e, app, index) && !strings.Contains(e.Name, ":")
	})
}

func (c *CommandLine) document(match func(*Entry) bool) (*document.Node, error) {
	var lines []string
	for _, e := range c.entries {
		if e.HitParam && match(e) {
			lines = append(lines, e.Name+" = "+quote(e.Value))
		}
	}
	root, err := document.Parse(SourceName, strings.Join(lines, "\n"))
	if err != nil {
		return nil, fmt.Errorf("invalid input parameter on the command line: %w", err)
	}
	document.Explode(root)
	return root, nil
}

// quote keeps values that are already quoted and quotes the rest when
// they would not survive as a single word.
func quote(v string) string {
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		return v
	}
	if v != "" && !strings.ContainsAny(v, " \t'\"[#") {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}
