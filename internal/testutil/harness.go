package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/builder"
	"github.com/specialistvlad/hitbuild/internal/ctxlog"
	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/specialistvlad/hitbuild/internal/expand"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/warehouse"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcome of building one input.
type HarnessResult struct {
	LogOutput string
	Err       error
	Actions   []action.Action
	Warnings  []string
	Used      []string
	Registry  *registry.Registry
}

// BuildInput registers modules in a fresh registry, then expands, builds
// and executes text against it. Build and execution errors end up in Err.
// A panicking module registration is reported as an error too.
func BuildInput(t *testing.T, text string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	res := &HarnessResult{}
	defer func() {
		res.LogOutput = logBuffer.String()
		if os.Getenv("HITBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), res.LogOutput)
		}
	}()

	reg, err := newRegistry(ctx, modules)
	if err != nil {
		res.Err = err
		return res
	}
	res.Registry = reg

	doc, err := document.Parse("test.i", text)
	if err != nil {
		res.Err = err
		return res
	}
	document.Explode(doc)
	if err := document.CheckDuplicates(doc); err != nil {
		res.Err = err
		return res
	}
	exp := expand.New()
	if err := exp.Expand(doc); err != nil {
		res.Err = err
		return res
	}

	wh := warehouse.New(reg)
	built, err := builder.New(reg, doc, wh, builder.Options{}).Build(ctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.Actions = built.Actions
	res.Warnings = built.Warnings
	res.Used = append(exp.Used(), built.Used...)

	res.Err = wh.Execute(ctx)
	return res
}

func newRegistry(ctx context.Context, modules []registry.Module) (reg *registry.Registry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module registration panicked | %v", r)
		}
	}()
	reg = registry.New()
	for _, m := range modules {
		m.Register(reg)
	}
	reg.Seal()
	return reg, reg.ValidateRegistry(ctx)
}
