package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/spf13/afero"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	fs       afero.Fs
	modules  []registry.Module
	registry *registry.Registry
	ranks    []*rank
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry. Input
// files are read from fs. An invalid registry is a programmer error and
// panics.
func NewApp(outW io.Writer, cfg *Config, fs afero.Fs, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		fs:      fs,
		modules: modules,
	}
	a.registry = a.newRegistry(ctx)
	logger.Debug("All Go modules registered.", "count", len(modules))
	return a
}

// newRegistry registers every module into a fresh registry and seals it.
// Each build gets its own, since dynamic registration changes it.
func (a *App) newRegistry(ctx context.Context) *registry.Registry {
	reg := registry.New()
	for _, mod := range a.modules {
		mod.Register(reg)
	}
	reg.Seal()
	if err := reg.ValidateRegistry(ctx); err != nil {
		// This is a programmer error (mismatch between modules), so we panic.
		panic(err)
	}
	return reg
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Actions returns the actions the first rank configured in the last Run,
// in build order. This is primarily for testing.
func (a *App) Actions() []action.Action {
	if len(a.ranks) == 0 || a.ranks[0].result == nil {
		return nil
	}
	return a.ranks[0].result.wh.Actions()
}
