package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/specialistvlad/hitbuild/internal/app"
	"github.com/specialistvlad/hitbuild/internal/cli"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var errorColor = color.New(color.FgRed, color.Bold)

// main is the entrypoint for the hitbuild application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			errorColor.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		errorColor.Fprintln(os.Stderr, "*** ERROR ***")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand wraps run. Flag parsing is left to the cli package, since
// input parameters and options share one argument list.
func newRootCommand(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:                "hitbuild [options] [INPUT...] [path/to/param=value...]",
		Short:              "Builds and validates block-structured simulation input.",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), outW, args)
		},
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. modules replace the compiled-in modules when given.
func run(ctx context.Context, outW io.Writer, args []string, modules ...registry.Module) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on programmer errors in the registered modules; turn
	// them into a clean error for the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	hitbuild := app.NewApp(outW, appConfig, afero.NewOsFs(), modules...)
	return hitbuild.Run(ctx)
}
