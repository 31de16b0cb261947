package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySweepRemovesOnlyUnrecorded(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.rst")
	stale := filepath.Join(dir, "stale.rst")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	r := NewRegistry()
	r.Record(kept)

	deleted, err := r.Sweep(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, deleted)

	assert.FileExists(t, kept)
	assert.NoFileExists(t, stale)
	assert.DirExists(t, filepath.Join(dir, "subdir"))
}

func TestRegistrySweepEmptyRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rst"), []byte("x"), 0o644))

	deleted, err := NewRegistry().Sweep(dir)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
}

func TestRegistryRecorded(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Recorded("a"))
	r.Record("a")
	assert.True(t, r.Recorded("a"))
	assert.Equal(t, 1, r.Len())
}
