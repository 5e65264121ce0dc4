package testutil

import (
	"testing"

	"github.com/specialistvlad/hitbuild/internal/document"
	"github.com/stretchr/testify/require"
)

// ParseDoc parses and explodes text, failing the test on a syntax error.
func ParseDoc(t *testing.T, name, text string) *document.Node {
	t.Helper()
	root, err := document.Parse(name, text)
	require.NoError(t, err)
	document.Explode(root)
	return root
}
