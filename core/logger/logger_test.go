package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"DebugConsole", Config{Level: "debug", Format: "console"}},
		{"InfoJSON", Config{Level: "info", Format: "json"}},
		{"UnknownLevel", Config{Level: "loud", Format: "console"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNew_WarnLevelFiltersInfo(t *testing.T) {
	l, err := New(&Config{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestWithRunID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	id := NewRunID()
	assert.Len(t, id, 36)

	WithRunID(base, id).Info("planned")
	WithRunID(base, "").Info("untagged")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, id, entries[0].ContextMap()["run_id"])
	assert.NotContains(t, entries[1].ContextMap(), "run_id")
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("untagged")
		c.Locals("ray_id", "abc")
		WithRayID(base, c).Info("tagged")
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].ContextMap(), "ray_id")
	assert.Equal(t, "abc", entries[1].ContextMap()["ray_id"])
}
