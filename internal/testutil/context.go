package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/ctxlog"
)

// Context returns a context carrying a debug logger. Output goes to the test
// log when HITBUILD_TEST_LOGS is "true" and is discarded otherwise.
func Context(t *testing.T) context.Context {
	t.Helper()
	var w io.Writer = io.Discard
	if os.Getenv("HITBUILD_TEST_LOGS") == "true" {
		w = testWriter{t}
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
