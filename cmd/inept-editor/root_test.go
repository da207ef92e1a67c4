package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inept/internal/config"
)

func parseFlags(t *testing.T, args ...string) (flags, *pflag.FlagSet) {
	t.Helper()
	var f flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(fs, &f)
	require.NoError(t, fs.Parse(args))
	return f, fs
}

func TestRoot_RunsNullBackend(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "editor.log")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--backend", "headless", "--frames", "3", "--log-file", logFile, "--log-level", "debug"})
	require.NoError(t, cmd.Execute())

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "starting inept-editor")
	assert.Contains(t, string(b), "frame limit reached")
}

func TestRoot_Version(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "inept-editor dev"))
}

func TestRoot_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--backend", "headless", "stray"})
	assert.Error(t, cmd.Execute())
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "inept.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  backend: null\n  title: From File\nlog:\n  level: warn\n"), 0o644))

	f, fs := parseFlags(t, "--config", path, "--log-level", "debug", "--frames", "7")

	cfg, err := loadConfig(f, fs)
	require.NoError(t, err)
	assert.Equal(t, "From File", cfg.Window.Title)
	assert.Equal(t, "headless", cfg.Window.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Loop.MaxFrames)
	assert.Empty(t, cfg.Log.File)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("INEPT_WINDOW_TITLE=From Env\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("INEPT_WINDOW_TITLE") })

	f, fs := parseFlags(t, "--backend", "headless")

	cfg, err := loadConfig(f, fs)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Window.Title)
}

func TestLoadConfig_TerminalLogsToFile(t *testing.T) {
	t.Chdir(t.TempDir())
	f, fs := parseFlags(t)

	cfg, err := loadConfig(f, fs)
	require.NoError(t, err)
	assert.Equal(t, "terminal", cfg.Window.Backend)
	assert.NotEmpty(t, cfg.Log.File)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())
	f, fs := parseFlags(t, "--backend", "vulkan")

	_, err := loadConfig(f, fs)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	f, fs := parseFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := loadConfig(f, fs)
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}
