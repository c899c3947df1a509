package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 16, opts.PoolSize)
	assert.Equal(t, 2, opts.ReplacerK)
	assert.False(t, opts.SyncWrites)
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cairndb.toml")
	contents := "pool_size = 64\nsync_writes = true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	opts, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 64, opts.PoolSize)
	assert.True(t, opts.SyncWrites)
	assert.Equal(t, 2, opts.ReplacerK, "fields absent from the file keep their default")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
