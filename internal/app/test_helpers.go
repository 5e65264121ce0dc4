package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/registry"
	"github.com/spf13/afero"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. Input files
// are read from fs.
func SetupAppTest(t *testing.T, cfg *Config, fs afero.Fs, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	out := &SafeBuffer{}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	testApp := NewApp(out, cfg, fs, modules...)

	t.Cleanup(func() {
		if os.Getenv("HITBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Output for %s ---\n%s", t.Name(), out.String())
		}
	})

	return testApp, out
}
