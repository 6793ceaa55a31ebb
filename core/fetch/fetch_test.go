package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"modsync/core/apperr"
	"modsync/core/gate"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSource serves fixed content and counts Open calls.
type fakeSource struct {
	content   []byte
	size      int64
	err       error
	readErrAt int
	calls     int
}

func (s *fakeSource) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	s.calls++
	if s.err != nil {
		return nil, 0, s.err
	}
	var r io.Reader = bytes.NewReader(s.content)
	if s.readErrAt > 0 {
		r = io.MultiReader(bytes.NewReader(s.content[:s.readErrAt]), errReader{})
	}
	return io.NopCloser(r), s.size, nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func newFetcher(src *fakeSource, fs afero.Fs, answers string, opts ...Option) *Fetcher {
	g := gate.New(strings.NewReader(answers), io.Discard)
	return New(src, fs, "/cache/downloads", g, zap.NewNop(), opts...)
}

func TestFetch(t *testing.T) {
	content := bytes.Repeat([]byte("x"), 10_000)
	src := &fakeSource{content: content, size: int64(len(content))}
	fs := afero.NewMemMapFs()
	f := newFetcher(src, fs, "")

	var updates [][2]int64
	path, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", func(w, total int64) {
		updates = append(updates, [2]int64{w, total})
	})
	require.NoError(t, err)
	assert.Equal(t, "/cache/downloads/mods.zip", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	require.NotEmpty(t, updates)
	assert.Equal(t, [2]int64{4096, 10_000}, updates[0])
	assert.Equal(t, [2]int64{10_000, 10_000}, updates[len(updates)-1])

	exists, _ := afero.Exists(fs, path+partSuffix)
	assert.False(t, exists)
}

// TestFetch_CancelMidStream tests that cancelling after 2 of 10 chunks leaves no file.
func TestFetch_CancelMidStream(t *testing.T) {
	content := bytes.Repeat([]byte("y"), 10*DefaultChunkSize)
	src := &fakeSource{content: content, size: int64(len(content))}
	fs := afero.NewMemMapFs()
	f := newFetcher(src, fs, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks := 0
	_, err := f.Fetch(ctx, "ModPack.zip", "mods.zip", func(w, total int64) {
		chunks++
		if chunks == 2 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, apperr.ErrCancelled)
	assert.Equal(t, 2, chunks)

	for _, p := range []string{"/cache/downloads/mods.zip", "/cache/downloads/mods.zip" + partSuffix} {
		exists, _ := afero.Exists(fs, p)
		assert.False(t, exists, p)
	}
}

// TestFetch_DeclineOverwrite tests that a declined replace makes no request.
func TestFetch_DeclineOverwrite(t *testing.T) {
	src := &fakeSource{content: []byte("new"), size: 3}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/downloads/mods.zip", []byte("old"), 0644))
	f := newFetcher(src, fs, "n\n")

	path, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", nil)
	require.NoError(t, err)
	assert.Equal(t, "/cache/downloads/mods.zip", path)
	assert.Equal(t, 0, src.calls)

	data, _ := afero.ReadFile(fs, path)
	assert.Equal(t, "old", string(data))
}

// TestFetch_ApproveOverwrite tests that an approved replace downloads again.
func TestFetch_ApproveOverwrite(t *testing.T) {
	src := &fakeSource{content: []byte("new"), size: 3}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/downloads/mods.zip", []byte("old"), 0644))
	f := newFetcher(src, fs, "Y\n")

	path, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	data, _ := afero.ReadFile(fs, path)
	assert.Equal(t, "new", string(data))
}

// TestFetch_PromptCancelled tests that closing input during the prompt cancels.
func TestFetch_PromptCancelled(t *testing.T) {
	src := &fakeSource{content: []byte("new"), size: 3}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/downloads/mods.zip", []byte("old"), 0644))
	f := newFetcher(src, fs, "")

	_, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", nil)
	assert.ErrorIs(t, err, apperr.ErrCancelled)
	assert.Equal(t, 0, src.calls)
}

// TestFetch_SizeUnknown tests the strict and lenient size policies.
func TestFetch_SizeUnknown(t *testing.T) {
	t.Run("Strict", func(t *testing.T) {
		src := &fakeSource{content: []byte("data"), size: -1}
		fs := afero.NewMemMapFs()
		f := newFetcher(src, fs, "")

		_, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", nil)
		assert.ErrorIs(t, err, apperr.ErrSizeUnknown)

		exists, _ := afero.Exists(fs, "/cache/downloads/mods.zip"+partSuffix)
		assert.False(t, exists)
	})

	t.Run("Lenient", func(t *testing.T) {
		src := &fakeSource{content: []byte("data"), size: -1}
		fs := afero.NewMemMapFs()
		f := newFetcher(src, fs, "", WithRequireSize(false), WithChunkSize(2))

		var totals []int64
		path, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", func(w, total int64) {
			totals = append(totals, total)
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{-1, -1}, totals)

		data, _ := afero.ReadFile(fs, path)
		assert.Equal(t, "data", string(data))
	})
}

// TestFetch_ReadFailure tests that a broken stream removes the partial file.
func TestFetch_ReadFailure(t *testing.T) {
	content := bytes.Repeat([]byte("z"), 3*DefaultChunkSize)
	src := &fakeSource{content: content, size: int64(len(content)), readErrAt: DefaultChunkSize}
	fs := afero.NewMemMapFs()
	f := newFetcher(src, fs, "")

	_, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	exists, _ := afero.Exists(fs, "/cache/downloads/mods.zip"+partSuffix)
	assert.False(t, exists)
}

// TestFetch_RemoteError tests that source errors propagate unchanged.
func TestFetch_RemoteError(t *testing.T) {
	src := &fakeSource{err: &apperr.RemoteError{Status: 404, Reason: "Not Found"}}
	f := newFetcher(src, afero.NewMemMapFs(), "")

	_, err := f.Fetch(context.Background(), "ModPack.zip", "mods.zip", nil)
	var remoteErr *apperr.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, 404, remoteErr.Status)
}

// TestFetch_InvalidNames tests argument validation.
func TestFetch_InvalidNames(t *testing.T) {
	src := &fakeSource{content: []byte("x"), size: 1}
	f := newFetcher(src, afero.NewMemMapFs(), "")

	for _, name := range []string{"", ".", "..", "../mods.zip", "a/b.zip", `a\b.zip`} {
		_, err := f.Fetch(context.Background(), "ModPack.zip", name, nil)
		assert.ErrorIs(t, err, apperr.ErrUnsafePath, name)
	}

	_, err := f.Fetch(context.Background(), "", "mods.zip", nil)
	assert.Error(t, err)
	assert.Equal(t, 0, src.calls)
}

// TestFetch_CancelledBeforeStart tests that a done context makes no request.
func TestFetch_CancelledBeforeStart(t *testing.T) {
	src := &fakeSource{content: []byte("x"), size: 1}
	f := newFetcher(src, afero.NewMemMapFs(), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "ModPack.zip", "mods.zip", nil)
	assert.ErrorIs(t, err, apperr.ErrCancelled)
	assert.Equal(t, 0, src.calls)
}
