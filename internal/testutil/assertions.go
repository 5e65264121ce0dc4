package testutil

import (
	"strings"
	"testing"

	"github.com/specialistvlad/hitbuild/internal/action"
	"github.com/stretchr/testify/require"
)

// RequireAction returns the action built for block, failing the test when
// there is none.
func RequireAction(t *testing.T, result *HarnessResult, block string) action.Action {
	t.Helper()
	for _, a := range result.Actions {
		if a.Block() == block {
			return a
		}
	}
	require.Failf(t, "action not built", "no action was built for block '[%s]'", block)
	return nil
}

// AssertLogged checks that the log output contains every fragment.
func AssertLogged(t *testing.T, result *HarnessResult, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		require.True(t,
			strings.Contains(result.LogOutput, f),
			"expected log output %q was not found in logs", f,
		)
	}
}
