package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/specialistvlad/hitbuild/internal/app"
	"github.com/specialistvlad/hitbuild/internal/cmdline"
	"github.com/spf13/pflag"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

type options struct {
	inputs          []string
	allowUnused     bool
	errorUnused     bool
	errorDeprecated bool
	logFormat       string
	logLevel        string
	ranks           int
	dumpSchema      bool
	dumpInput       bool
	help            bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("hitbuild", pflag.ContinueOnError)
	fs.StringSliceVarP(&opts.inputs, "input", "i", nil, "Input file(s), merged in order. Later files override earlier ones.")
	fs.BoolVarP(&opts.allowUnused, "allow-unused", "w", false, "Warn about unused input parameters instead of failing.")
	fs.BoolVarP(&opts.errorUnused, "error-unused", "e", false, "Fail on unused input parameters (the default).")
	fs.BoolVar(&opts.errorDeprecated, "error-deprecated", false, "Fail on deprecated input parameters.")
	fs.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	fs.IntVar(&opts.ranks, "ranks", 1, "Number of independent application instances to build.")
	fs.BoolVar(&opts.dumpSchema, "dump-schema", false, "Print the registered syntax and parameters as YAML and exit.")
	fs.BoolVar(&opts.dumpInput, "dump-input", false, "Print the merged and expanded input before building.")
	fs.BoolVarP(&opts.help, "help", "h", false, "Show this help.")
	return fs
}

func printUsage(output io.Writer, fs *pflag.FlagSet) {
	fmt.Fprint(output, `
hitbuild - builds and validates block-structured simulation input.

Usage:
  hitbuild [options] [INPUT...] [path/to/param=value...]

Arguments:
  INPUT
    Input file; the same as -i.
  path/to/param=value
    Sets an input parameter, overriding the input files.
    Prefix with 'app:' to address a sub-application.

Options:
`)
	fmt.Fprint(output, fs.FlagUsages())
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Options are matched against the option table and marked used on the
// returned command line; options that match nothing stay unused and are
// reported by the usage audit.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	cl, err := cmdline.Parse(args)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	opts := &options{}
	fs := newFlagSet(opts)
	var positional []string
	for _, e := range cl.Entries() {
		if e.HitParam {
			continue
		}
		if !strings.HasPrefix(e.Name, "-") {
			positional = append(positional, e.Name)
			e.Used = true
			continue
		}
		flag := lookup(fs, e.Name)
		if flag == nil {
			slog.Debug("Option not in the option table.", "option", e.Name)
			continue
		}
		rest, err := set(fs, flag, e)
		if err != nil {
			return nil, false, err
		}
		positional = append(positional, rest...)
		e.Used = true
	}
	// the input slice flag replaces its value on first use
	opts.inputs = append(opts.inputs, positional...)
	slog.Debug("Arguments parsed successfully.", "inputs", opts.inputs)

	if opts.help {
		printUsage(output, fs)
		return nil, true, nil
	}
	if len(opts.inputs) == 0 && !opts.dumpSchema {
		slog.Debug("No input provided, printing usage and exiting.")
		printUsage(output, fs)
		return nil, true, nil
	}

	logFormat := strings.ToLower(opts.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(opts.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Inputs:          opts.inputs,
		CommandLine:     cl,
		AllowUnused:     opts.allowUnused,
		ErrorUnused:     opts.errorUnused,
		ErrorDeprecated: opts.errorDeprecated,
		DumpSchema:      opts.dumpSchema,
		DumpInput:       opts.dumpInput,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Ranks:           opts.ranks,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// lookup finds the flag an option names. "--name" and "-name" are long
// names; a single letter after one dash is a shorthand.
func lookup(fs *pflag.FlagSet, option string) *pflag.Flag {
	if name, ok := strings.CutPrefix(option, "--"); ok {
		return fs.Lookup(name)
	}
	name := strings.TrimPrefix(option, "-")
	if len(name) == 1 {
		return fs.ShorthandLookup(name)
	}
	return fs.Lookup(name)
}

// set applies the entry to the flag. Words following a switch that are not
// a boolean are returned as positional arguments.
func set(fs *pflag.FlagSet, flag *pflag.Flag, e *cmdline.Entry) ([]string, error) {
	var rest []string
	if flag.NoOptDefVal != "" && e.HasValue && e.Separator == " " {
		if _, err := strconv.ParseBool(e.Value); err != nil {
			rest = strings.Fields(e.Value)
			e = &cmdline.Entry{Name: e.Name}
		}
	}
	if !e.HasValue {
		if flag.NoOptDefVal == "" {
			return nil, usageError("option '%s' needs a value", e.Name)
		}
		return rest, fs.Set(flag.Name, flag.NoOptDefVal)
	}
	values := []string{e.Value}
	if flag.Value.Type() == "stringSlice" {
		values = strings.Fields(e.Value)
	}
	for _, v := range values {
		if err := fs.Set(flag.Name, v); err != nil {
			return nil, usageError("invalid value '%s' for option '%s': %v", v, e.Name, err)
		}
	}
	return rest, nil
}
