package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/inept/internal/config"
	"github.com/dshills/inept/internal/editor"
	"github.com/dshills/inept/internal/logging"
	"github.com/dshills/inept/internal/platform"
)

// envFile is loaded from the working directory when present.
const envFile = ".env"

type flags struct {
	configPath  string
	logLevel    string
	logFile     string
	backend     string
	script      string
	watch       bool
	metricsAddr string
	frames      int
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "inept-editor",
		Short: "Inept - a layered, event driven editor shell",
		Long: `inept-editor opens a window, routes its input through an event bus
and a stack of layers, and draws a status line.

Press Escape (or Ctrl+Q in a terminal) to quit.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(f, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	bindFlags(cmd.Flags(), &f)
	cmd.SetVersionTemplate(fmt.Sprintf("inept-editor %s (commit %s, built %s)\n", version, commit, date))
	return cmd
}

func bindFlags(fs *pflag.FlagSet, f *flags) {
	fs.StringVarP(&f.configPath, "config", "c", "", "Path to configuration file (yaml, toml or json)")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	fs.StringVar(&f.backend, "backend", "terminal", "Window backend ("+strings.Join(platform.Backends(), "|")+")")
	fs.StringVar(&f.script, "script", "", "Lua script to load as a layer")
	fs.BoolVar(&f.watch, "watch", false, "Reload the script when it changes")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve metrics on this address (e.g. :9090)")
	fs.IntVar(&f.frames, "frames", 0, "Stop after N frames (0 runs until the window closes)")
}

// loadConfig layers the configuration: defaults, then the config file,
// then the environment, then flags given on the command line.
func loadConfig(f flags, fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return cfg, err
		}
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-file") {
		cfg.Log.File = f.logFile
	}
	if fs.Changed("backend") {
		cfg.Window.Backend = f.backend
	}
	if fs.Changed("script") {
		cfg.Script.Path = f.script
	}
	if fs.Changed("watch") {
		cfg.Script.Watch = f.watch
	}
	if fs.Changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
	if fs.Changed("frames") {
		cfg.Loop.MaxFrames = f.frames
	}

	// The terminal backend owns the screen, so logs go to a file.
	if platform.CanonicalName(cfg.Window.Backend) == platform.BackendTerminal && cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(os.TempDir(), "inept-editor.log")
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config) error {
	closer, err := logging.Init(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		File:   cfg.Log.File,
		Pretty: cfg.Log.Pretty,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ed, err := editor.New(cfg)
	if err != nil {
		return err
	}
	defer ed.Shutdown()

	logging.Logger.Info().Str("version", version).Msg("starting inept-editor")
	return ed.Run(ctx)
}
