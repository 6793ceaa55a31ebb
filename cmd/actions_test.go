package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"modsync/core/apperr"
	"modsync/core/cache"
	"modsync/core/config"
	"modsync/core/gate"
	"modsync/feature/mods"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSelectedActions(t *testing.T) {
	tests := []struct {
		name  string
		flags flagState
		want  []Action
	}{
		{"None", flagState{}, nil},
		{"ModsOnly", flagState{updateMods: true}, []Action{ActionUpdateMods}},
		{
			"ExecutionOrder",
			flagState{clearCache: true, updateShaders: true, updateMods: true},
			[]Action{ActionUpdateMods, ActionUpdateShaders, ActionClearCache},
		},
		{
			"All",
			flagState{true, true, true, true, true},
			allActions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectedActions(tt.flags))
		})
	}
}

func TestActionMetadata(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range allActions {
		assert.NotEmpty(t, a.Flag())
		assert.NotEmpty(t, a.Label())
		assert.NotEmpty(t, a.Help())
		assert.False(t, seen[a.Flag()], "duplicate flag %s", a.Flag())
		seen[a.Flag()] = true
	}
	assert.Empty(t, Action(99).Flag())
}

func TestRootFlagsRegistered(t *testing.T) {
	for _, a := range allActions {
		assert.NotNil(t, RootCmd.Flags().Lookup(a.Flag()), a.Flag())
	}
	assert.Equal(t, "m", RootCmd.Flags().Lookup("update-mods").Shorthand)
	assert.Equal(t, "s", RootCmd.Flags().Lookup("update-shaders").Shorthand)
	assert.Equal(t, "y", RootCmd.PersistentFlags().Lookup("yes").Shorthand)
}

func TestZipModsArgs(t *testing.T) {
	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		c.Flags().String(ActionZipMods.Flag(), "", "")
		return c
	}

	c := newCmd()
	assert.NoError(t, zipModsArgs(c, nil))
	assert.Error(t, zipModsArgs(c, []string{"stray"}))

	c = newCmd()
	require.NoError(t, c.Flags().Set(ActionZipMods.Flag(), "mods"))
	assert.NoError(t, zipModsArgs(c, []string{"out.zip"}))
	assert.Error(t, zipModsArgs(c, nil))
	assert.Error(t, zipModsArgs(c, []string{"a", "b"}))
}

func newMenuApp(t *testing.T, input string) (*app, *bytes.Buffer, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	cm := cache.New(fs, ".cache")
	require.NoError(t, cm.Init())

	var out bytes.Buffer
	return &app{
		log:   zap.NewNop(),
		out:   &out,
		gate:  gate.New(strings.NewReader(input), &out),
		cache: cm,
	}, &out, fs
}

func TestMenu_Quit(t *testing.T) {
	a, out, _ := newMenuApp(t, "q\n")

	require.NoError(t, a.menu(context.Background()))
	for _, action := range allActions {
		assert.Contains(t, out.String(), action.Label())
	}
}

func TestMenu_ClearCacheThenQuit(t *testing.T) {
	a, out, fs := newMenuApp(t, "9\n5\nQ\n")

	require.NoError(t, a.menu(context.Background()))
	assert.Contains(t, out.String(), "Cache cleared")

	exists, err := afero.DirExists(fs, ".cache")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMenu_EOFCancels(t *testing.T) {
	a, _, _ := newMenuApp(t, "")

	err := a.menu(context.Background())
	assert.ErrorIs(t, err, apperr.ErrCancelled)
}

func TestMenu_ZipPromptCancel(t *testing.T) {
	a, _, _ := newMenuApp(t, "3\nmods\n")

	err := a.menu(context.Background())
	assert.ErrorIs(t, err, apperr.ErrCancelled)
}

func TestOutputPath(t *testing.T) {
	a := &app{cfg: &config.Config{Paths: config.Paths{OutputDir: "dist"}}}

	assert.Equal(t, filepath.Join("dist", "ModPack.zip"), a.outputPath("ModPack.zip"))
	assert.Equal(t, filepath.Join("dist", "packs", "ModPack.zip"), a.outputPath(filepath.Join("packs", "ModPack.zip")))

	abs := filepath.Join(t.TempDir(), "ModPack.zip")
	assert.Equal(t, abs, a.outputPath(abs))

	a.cfg.Paths.OutputDir = ""
	assert.Equal(t, "ModPack.zip", a.outputPath("ModPack.zip"))
}

func TestMenu_ZipModsUsesOutputDir(t *testing.T) {
	a, out, fs := newMenuApp(t, "3\n/src\nModPack.zip\nq\n")
	a.cfg = &config.Config{Paths: config.Paths{OutputDir: "/dist"}}
	a.mods = mods.NewService(fs, nil, a.gate, nil, nil, out, zap.NewNop(), mods.Options{})
	require.NoError(t, afero.WriteFile(fs, "/src/a.jar", []byte("a"), 0644))

	require.NoError(t, a.menu(context.Background()))

	exists, err := afero.Exists(fs, "/dist/ModPack.zip")
	require.NoError(t, err)
	assert.True(t, exists)
}
