package shaders

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"modsync/core/apperr"
	"modsync/core/fetch"
	"modsync/core/gate"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct{ data []byte }

func (s staticSource) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	return io.NopCloser(bytes.NewReader(s.data)), int64(len(s.data)), nil
}

func newService(fs afero.Fs, input string, out io.Writer) *Service {
	g := gate.New(strings.NewReader(input), out)
	f := fetch.New(staticSource{data: []byte("shader-v2")}, fs, "/cache/downloads", g, zap.NewNop())
	return NewService(fs, f, g, "BSL_v10.1.zip", out, zap.NewNop())
}

func TestUpdateShaders(t *testing.T) {
	fs := afero.NewMemMapFs()
	var out bytes.Buffer

	installed, err := newService(fs, "", &out).UpdateShaders(context.Background(), "/game/shaderpacks")
	require.NoError(t, err)
	assert.True(t, installed)

	data, err := afero.ReadFile(fs, "/game/shaderpacks/BSL_v10.1.zip")
	require.NoError(t, err)
	assert.Equal(t, "shader-v2", string(data))
	assert.Contains(t, out.String(), "Successfully installed shaderpack")

	exists, _ := afero.Exists(fs, "/game/shaderpacks/BSL_v10.1.zip.part")
	assert.False(t, exists)
}

func TestUpdateShaders_Replace(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		installed bool
		want      string
		err       error
	}{
		{"Approve", "y\n", true, "shader-v2", nil},
		{"Decline", "n\n", false, "shader-v1", nil},
		{"InputClosed", "", false, "shader-v1", apperr.ErrCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/game/shaderpacks/BSL_v10.1.zip", []byte("shader-v1"), 0644))

			installed, err := newService(fs, tt.input, io.Discard).UpdateShaders(context.Background(), "/game/shaderpacks")
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.installed, installed)

			data, _ := afero.ReadFile(fs, "/game/shaderpacks/BSL_v10.1.zip")
			assert.Equal(t, tt.want, string(data))
		})
	}
}
