package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/branchlaunch/internal/config"
)

// stdout receives operator-facing output; tests swap it.
var stdout io.Writer = os.Stdout

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional)" default:"${config_file}" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Up      UpCmd      `cmd:"" default:"withargs" help:"Prepare and start backend and frontend, stop both on Ctrl+C (default)"`
	Check   CheckCmd   `cmd:"" help:"Verify the working directory and required tools without starting anything"`
	Init    InitCmd    `cmd:"" help:"Write a configuration file with the default settings"`
	History HistoryCmd `cmd:"" help:"List recent launcher runs from the run journal"`
	Ver     VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(config.LogFormatText, level))
	return nil
}

// loadConfig reads the optional config file and applies its logging settings.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.LoadOptional(root.Config)
	if err != nil {
		return nil, err
	}

	level := config.NormalizeLogLevel(cfg.Logging.Level).SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(config.NormalizeLogFormat(cfg.Logging.Format), level))
	return cfg, nil
}

func newLogger(format config.LogFormat, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
