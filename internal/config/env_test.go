package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"INEPT_WINDOW_TITLE":       "From Env",
		"INEPT_WINDOW_WIDTH":       "100",
		"INEPT_BACKEND":            "null",
		"INEPT_VSYNC":              "false",
		"INEPT_LOG_LEVEL":          "debug",
		"INEPT_LOG_PRETTY":         "1",
		"INEPT_BUS_QUEUE_CAPACITY": "64",
		"INEPT_MAX_FRAMES":         "10",
		"INEPT_MAX_DELTA":          "0.1",
		"INEPT_SCRIPT":             "boot.lua",
		"INEPT_SCRIPT_WATCH":       "true",
		"INEPT_METRICS_ADDR":       ":9102",
	}))
	require.NoError(t, err)

	assert.Equal(t, "From Env", cfg.Window.Title)
	assert.Equal(t, 100, cfg.Window.Width)
	assert.Equal(t, 24, cfg.Window.Height)
	assert.Equal(t, "null", cfg.Window.Backend)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 64, cfg.Bus.QueueCapacity)
	assert.Equal(t, 10, cfg.Loop.MaxFrames)
	assert.InDelta(t, 0.1, cfg.Loop.MaxDelta, 1e-9)
	assert.Equal(t, "boot.lua", cfg.Script.Path)
	assert.True(t, cfg.Script.Watch)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"INEPT_WINDOW_WIDTH": "wide",
		"INEPT_VSYNC":        "sometimes",
		"INEPT_MAX_DELTA":    "soon",
		"INEPT_TARGET_FPS":   "30",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEnv)
	assert.Contains(t, err.Error(), "INEPT_WINDOW_WIDTH")
	assert.Contains(t, err.Error(), "INEPT_VSYNC")
	assert.Contains(t, err.Error(), "INEPT_MAX_DELTA")

	// Bad values leave the setting alone, good ones still apply.
	assert.Equal(t, 80, cfg.Window.Width)
	assert.Equal(t, 30, cfg.Loop.TargetFPS)
}

func TestApplyEnv_Process(t *testing.T) {
	t.Setenv("INEPT_WINDOW_HEIGHT", "50")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 50, cfg.Window.Height)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("INEPT_TEST_ONLY_TITLE=dotenv\nINEPT_TEST_ONLY_KEEP=file\n"), 0o644))

	t.Setenv("INEPT_TEST_ONLY_KEEP", "process")
	t.Cleanup(func() { _ = os.Unsetenv("INEPT_TEST_ONLY_TITLE") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "dotenv", os.Getenv("INEPT_TEST_ONLY_TITLE"))
	assert.Equal(t, "process", os.Getenv("INEPT_TEST_ONLY_KEEP"), "existing variables win")

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
	assert.NoError(t, LoadEnvFile(""))
}
