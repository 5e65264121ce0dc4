package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/hitbuild/internal/audit"
	"github.com/specialistvlad/hitbuild/internal/cmdline"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Inputs []string // input files, merged in order
	// CommandLine is the parsed argument list. Its options are expected to be
	// marked used already; its input parameters are merged over the inputs.
	CommandLine *cmdline.CommandLine

	AllowUnused     bool
	ErrorUnused     bool
	ErrorDeprecated bool
	DumpSchema      bool
	DumpInput       bool

	LogFormat string
	LogLevel  string
	Ranks     int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Inputs) == 0 && !cfg.DumpSchema {
		return nil, errors.New("at least one input file is required")
	}
	if cfg.AllowUnused && cfg.ErrorUnused {
		return nil, errors.New("--allow-unused and --error-unused cannot be used together")
	}
	if cfg.Ranks == 0 {
		cfg.Ranks = 1
	}
	if cfg.Ranks < 0 {
		return nil, fmt.Errorf("ranks must be positive, got %d", cfg.Ranks)
	}
	if cfg.CommandLine == nil {
		cfg.CommandLine = &cmdline.CommandLine{}
	}
	return &cfg, nil
}

// UnusedSeverity is how unused parameters are reported. Errors are the
// default.
func (c *Config) UnusedSeverity() audit.Severity {
	if c.AllowUnused {
		return audit.SeverityWarn
	}
	return audit.SeverityError
}
