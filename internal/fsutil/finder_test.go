package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.hcl"))
	touch(t, filepath.Join(dir, "nested", "b.yaml"))
	touch(t, filepath.Join(dir, "nested", "c.txt"))
	single := filepath.Join(t.TempDir(), "d.yml")
	touch(t, single)

	files, err := FindFiles([]string{dir, single, dir, filepath.Join(dir, "missing")}, ".hcl", ".yaml", ".yml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "nested", "b.yaml"),
		single,
	}, files)
}

func TestFindFiles_RequiresExtension(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { _, _ = FindFiles([]string{"."}) })
}
