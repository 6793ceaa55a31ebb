package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"modsync/core/apperr"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Paths(t *testing.T) {
	m := New(afero.NewMemMapFs(), ".cache")

	assert.Equal(t, ".cache", m.Root())
	assert.Equal(t, filepath.Join(".cache", "downloads"), m.Downloads())
	assert.Equal(t, filepath.Join(".cache", "mod-hashes.json"), m.HashesPath())
}

func TestManager_InitAndClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := New(fs, "/work/.cache")

	require.NoError(t, m.Init())
	ok, err := afero.DirExists(fs, m.Downloads())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, afero.WriteFile(fs, m.HashesPath(), []byte("{}"), 0644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(m.Downloads(), "mods.zip"), []byte("zip"), 0644))

	require.NoError(t, m.Clear())
	ok, err = afero.Exists(fs, m.Root())
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing an already-cleared cache is not an error.
	assert.NoError(t, m.Clear())
}

func TestManager_EnsureDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := New(fs, "/work/.cache")

	require.NoError(t, m.EnsureDirs("/work/dist", "/work/a/b/c"))
	for _, d := range []string{"/work/dist", "/work/a/b/c"} {
		ok, _ := afero.DirExists(fs, d)
		assert.True(t, ok, d)
	}
}

func TestManager_EnsureDirs_ReadOnly(t *testing.T) {
	m := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/work/.cache")

	err := m.Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrIO))
}

func TestManager_ClearRefusesRoot(t *testing.T) {
	assert.Error(t, New(afero.NewMemMapFs(), "").Clear())
	assert.Error(t, New(afero.NewMemMapFs(), "/").Clear())
}
