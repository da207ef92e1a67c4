package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "INEPT_"

// LoadEnvFile reads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from INEPT_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalidEnv, EnvPrefix, name, v))
			return
		}
		*dst = n
	}
	float := func(name string, dst *float64) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalidEnv, EnvPrefix, name, v))
			return
		}
		*dst = f
	}
	flag := func(name string, dst *bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s%s=%q", ErrInvalidEnv, EnvPrefix, name, v))
			return
		}
		*dst = b
	}

	str("WINDOW_TITLE", &c.Window.Title)
	num("WINDOW_WIDTH", &c.Window.Width)
	num("WINDOW_HEIGHT", &c.Window.Height)
	str("BACKEND", &c.Window.Backend)
	flag("VSYNC", &c.Window.VSync)
	str("CLEAR_COLOR", &c.Window.ClearColor)
	str("LOG_LEVEL", &c.Log.Level)
	flag("LOG_PRETTY", &c.Log.Pretty)
	str("LOG_FILE", &c.Log.File)
	num("BUS_QUEUE_CAPACITY", &c.Bus.QueueCapacity)
	num("TARGET_FPS", &c.Loop.TargetFPS)
	num("MAX_FRAMES", &c.Loop.MaxFrames)
	float("MAX_DELTA", &c.Loop.MaxDelta)
	str("SCRIPT", &c.Script.Path)
	flag("SCRIPT_WATCH", &c.Script.Watch)
	num("SCRIPT_TIMEOUT_MS", &c.Script.TimeoutMS)
	str("METRICS_ADDR", &c.Metrics.Addr)

	return errors.Join(errs...)
}
