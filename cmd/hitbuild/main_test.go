package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/specialistvlad/hitbuild/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type duplicateModule struct{}

func (duplicateModule) Register(r *registry.Registry) {
	ht := &registry.HandlerType{
		Params: func() *schema.Parameters { return schema.New("") },
		New:    func(action.Config, *registry.Registry) (action.Action, error) { return nil, nil },
	}
	r.RegisterHandlerType("Twice", ht)
	r.RegisterHandlerType("Twice", ht)
}

func writeInput(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.i")
	require.NoError(t, os.WriteFile(path, []byte(text), 0600), "failed to set up test file")
	return path
}

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "[Outputs]\n  exodus = true\n[]\n")
	out := &bytes.Buffer{}

	runErr := run(context.Background(), out, []string{path}, duplicateModule{})

	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	assert.Contains(t, runErr.Error(), "application startup panicked")
	assert.Contains(t, runErr.Error(), "handler type with name 'Twice' already registered")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"in.i", "--log-format", "xml"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "invalid log-format")
}

func TestRun_BuildsInput(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "[Mesh]\n  type = GeneratedMesh\n  dim = 2\n  nx = 4\n[]\n[Outputs]\n  exodus = true\n[]\n")
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{"-i", path, "Mesh/ny=3"})

	require.NoError(t, err)
	assert.NotContains(t, out.String(), "unused parameter")
}

func TestRun_SyntaxError(t *testing.T) {
	t.Parallel()

	path := writeInput(t, "[Mesh]\n  type = GeneratedMesh\n")
	out := &bytes.Buffer{}

	err := run(context.Background(), out, []string{path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestRootCommand(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := newRootCommand(out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "--allow-unused")
}
