package archive

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func always(ok bool) ReplaceFunc {
	return func(string) (bool, error) { return ok, nil }
}

// TestZipDir_RoundTrip tests that zipped jars list back under their base names.
func TestZipDir_RoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a.jar", []byte("aaa"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/src/b.jar", []byte("bbbb"), 0644))

	var added []string
	written, err := ZipDir(fsys, "/src", "/dist/out/ModPack.zip", always(true), func(name string) {
		added = append(added, name)
	})
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, []string{"a.jar", "b.jar"}, added)

	entries, err := List(fsys, "/dist/out/ModPack.zip")
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Name: "a.jar", Size: 3}, {Name: "b.jar", Size: 4}}, entries)

	_, err = Extract(fsys, "/dist/out/ModPack.zip", "b.jar", "/check")
	require.NoError(t, err)
	data, _ := afero.ReadFile(fsys, "/check/b.jar")
	assert.Equal(t, "bbbb", string(data))
}

// TestZipDir_Validation tests the directory shape checks.
func TestZipDir_Validation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(fsys afero.Fs)
		want  error
	}{
		{
			name:  "Missing",
			setup: func(fsys afero.Fs) {},
			want:  ErrNotDirectory,
		},
		{
			name: "NotADirectory",
			setup: func(fsys afero.Fs) {
				afero.WriteFile(fsys, "/src", []byte("x"), 0644)
			},
			want: ErrNotDirectory,
		},
		{
			name: "Empty",
			setup: func(fsys afero.Fs) {
				fsys.MkdirAll("/src", 0755)
			},
			want: ErrEmptyDir,
		},
		{
			name: "Nested",
			setup: func(fsys afero.Fs) {
				afero.WriteFile(fsys, "/src/a.jar", []byte("a"), 0644)
				fsys.MkdirAll("/src/sub", 0755)
			},
			want: ErrNestedDir,
		},
		{
			name: "NotJar",
			setup: func(fsys afero.Fs) {
				afero.WriteFile(fsys, "/src/a.jar", []byte("a"), 0644)
				afero.WriteFile(fsys, "/src/readme.txt", []byte("r"), 0644)
			},
			want: ErrNotJar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			tt.setup(fsys)

			written, err := ZipDir(fsys, "/src", "/out.zip", always(true), nil)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, written)

			exists, _ := afero.Exists(fsys, "/out.zip")
			assert.False(t, exists)
		})
	}
}

// TestZipDir_DeclineOverwrite tests that refusing the replace prompt keeps dst.
func TestZipDir_DeclineOverwrite(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a.jar", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/out.zip", []byte("keep"), 0644))

	asked := 0
	written, err := ZipDir(fsys, "/src", "/out.zip", func(string) (bool, error) {
		asked++
		return false, nil
	}, nil)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, 1, asked)

	data, _ := afero.ReadFile(fsys, "/out.zip")
	assert.Equal(t, "keep", string(data))
}

// TestZipDir_ReplaceError tests that a prompt error aborts the operation.
func TestZipDir_ReplaceError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a.jar", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/out.zip", []byte("keep"), 0644))

	boom := errors.New("interrupted")
	_, err := ZipDir(fsys, "/src", "/out.zip", func(string) (bool, error) {
		return false, boom
	}, nil)
	assert.ErrorIs(t, err, boom)
}

// TestZipDir_NoPromptForNewFile tests that a fresh destination is not prompted.
func TestZipDir_NoPromptForNewFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a.jar", []byte("a"), 0644))

	written, err := ZipDir(fsys, "/src", "/out.zip", func(string) (bool, error) {
		t.Fatal("prompted for a new file")
		return false, nil
	}, nil)
	require.NoError(t, err)
	assert.True(t, written)
}
