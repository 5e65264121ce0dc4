package fsutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandInputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{"/cases/b.i", "/cases/a.i", "/cases/nested/c.i", "/cases/notes.txt", "/main.i"} {
		require.NoError(t, afero.WriteFile(fs, p, []byte("#"), 0o644))
	}

	got, err := ExpandInputs(fs, []string{"/main.i", "/cases", "/missing.i"}, ".i")

	require.NoError(t, err)
	assert.Equal(t, []string{"/main.i", "/cases/a.i", "/cases/b.i", "/cases/nested/c.i", "/missing.i"}, got)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(afero.NewMemMapFs(), "/", "") })
}
