package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/inept/internal/platform"
	"github.com/dshills/inept/internal/renderer/core"
)

// Backends lists the backend names a config may select. Aliases accepted
// by platform.CanonicalName are valid too.
var Backends = []string{platform.BackendTerminal, platform.BackendHeadless, platform.BackendGLFW}

var logLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "off", "disabled", "none"}

// Config holds every engine setting.
type Config struct {
	Window  WindowConfig  `json:"window" yaml:"window" toml:"window"`
	Log     LogConfig     `json:"log" yaml:"log" toml:"log"`
	Bus     BusConfig     `json:"bus" yaml:"bus" toml:"bus"`
	Loop    LoopConfig    `json:"loop" yaml:"loop" toml:"loop"`
	Script  ScriptConfig  `json:"script" yaml:"script" toml:"script"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" toml:"metrics"`
}

// WindowConfig configures the window and its backend.
type WindowConfig struct {
	// Title is the initial caption.
	Title string `json:"title" yaml:"title" toml:"title"`
	// Width and Height are the requested size in cells.
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
	// Backend selects the platform backend by name.
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// VSync synchronizes presentation with the display where supported.
	VSync bool `json:"vsync" yaml:"vsync" toml:"vsync"`
	// ClearColor is a "#rrggbb" background; empty keeps the terminal default.
	ClearColor string `json:"clear_color" yaml:"clear_color" toml:"clear_color"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty" toml:"pretty"`
	// File redirects logs to a file. The terminal backend owns stderr's
	// screen, so interactive runs usually set this.
	File string `json:"file" yaml:"file" toml:"file"`
}

// BusConfig configures the event bus.
type BusConfig struct {
	// QueueCapacity bounds the deferred queue. Zero means unbounded.
	QueueCapacity int `json:"queue_capacity" yaml:"queue_capacity" toml:"queue_capacity"`
}

// LoopConfig configures the frame loop.
type LoopConfig struct {
	// TargetFPS paces the loop. Zero runs unpaced.
	TargetFPS int `json:"target_fps" yaml:"target_fps" toml:"target_fps"`
	// MaxFrames stops the loop after this many frames. Zero runs until
	// the window closes.
	MaxFrames int `json:"max_frames" yaml:"max_frames" toml:"max_frames"`
	// MaxDelta clamps the frame delta in seconds.
	MaxDelta float64 `json:"max_delta" yaml:"max_delta" toml:"max_delta"`
}

// ScriptConfig configures the Lua script layer.
type ScriptConfig struct {
	// Path to the startup script. Empty disables scripting.
	Path string `json:"path" yaml:"path" toml:"path"`
	// Watch reloads the script when the file changes.
	Watch bool `json:"watch" yaml:"watch" toml:"watch"`
	// TimeoutMS bounds each call into Lua.
	TimeoutMS int `json:"timeout_ms" yaml:"timeout_ms" toml:"timeout_ms"`
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	// Addr is the listen address. Empty disables the server.
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:   "Inept Editor",
			Width:   80,
			Height:  24,
			Backend: "terminal",
			VSync:   true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Bus: BusConfig{
			QueueCapacity: 4096,
		},
		Loop: LoopConfig{
			TargetFPS: 60,
			MaxDelta:  0.25,
		},
		Script: ScriptConfig{
			TimeoutMS: 2000,
		},
	}
}

// Load reads a configuration file over the defaults. The format is chosen
// by extension: .yaml/.yml, .toml or .json.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return cfg, err
	}

	switch ext := formatOf(path); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return cfg, &ParseError{Path: path, Err: err}
	}
	if nullBackend(b, formatOf(path)) {
		cfg.Window.Backend = platform.BackendHeadless
	}
	return cfg, nil
}

func formatOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// nullBackend reports whether the file sets window.backend to an explicit
// null. Decoding null into a string leaves the default in place, but
// "backend: null" names the headless backend.
func nullBackend(b []byte, ext string) bool {
	switch ext {
	case ".yaml", ".yml":
		var doc struct {
			Window struct {
				Backend yaml.Node `yaml:"backend"`
			} `yaml:"window"`
		}
		if yaml.Unmarshal(b, &doc) != nil {
			return false
		}
		n := doc.Window.Backend
		return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
	case ".json":
		var doc struct {
			Window struct {
				Backend json.RawMessage `json:"backend"`
			} `json:"window"`
		}
		if json.Unmarshal(b, &doc) != nil {
			return false
		}
		return string(doc.Window.Backend) == "null"
	}
	return false
}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if c.Window.Width <= 0 {
		add("window.width", "must be positive", c.Window.Width, ErrCodeOutOfRange)
	}
	if c.Window.Height <= 0 {
		add("window.height", "must be positive", c.Window.Height, ErrCodeOutOfRange)
	}
	if c.Window.Backend == "" {
		add("window.backend", "is required", c.Window.Backend, ErrCodeRequiredMissing)
	} else if !slices.Contains(Backends, platform.CanonicalName(c.Window.Backend)) {
		add("window.backend", "must be one of "+strings.Join(Backends, ", "), c.Window.Backend, ErrCodeInvalidEnum)
	}
	if c.Window.ClearColor != "" {
		if _, err := core.ColorFromHex(c.Window.ClearColor); err != nil {
			add("window.clear_color", "must be a #rrggbb color", c.Window.ClearColor, ErrCodeInvalidEnum)
		}
	}
	if c.Log.Level != "" && !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		add("log.level", "unknown level", c.Log.Level, ErrCodeInvalidEnum)
	}
	if c.Bus.QueueCapacity < 0 {
		add("bus.queue_capacity", "must not be negative", c.Bus.QueueCapacity, ErrCodeOutOfRange)
	}
	if c.Loop.TargetFPS < 0 || c.Loop.TargetFPS > 1000 {
		add("loop.target_fps", "must be between 0 and 1000", c.Loop.TargetFPS, ErrCodeOutOfRange)
	}
	if c.Loop.MaxFrames < 0 {
		add("loop.max_frames", "must not be negative", c.Loop.MaxFrames, ErrCodeOutOfRange)
	}
	if c.Loop.MaxDelta < 0 {
		add("loop.max_delta", "must not be negative", c.Loop.MaxDelta, ErrCodeOutOfRange)
	}
	if c.Script.TimeoutMS < 0 {
		add("script.timeout_ms", "must not be negative", c.Script.TimeoutMS, ErrCodeOutOfRange)
	}
	return errors.Join(errs...)
}

// FrameBudget returns the time per frame at TargetFPS, or zero when
// unpaced.
func (c LoopConfig) FrameBudget() time.Duration {
	if c.TargetFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TargetFPS)
}

// Timeout returns TimeoutMS as a duration.
func (c ScriptConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
