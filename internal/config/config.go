package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Options carries the resolved settings for one selector run. Values are
// layered: built-in defaults, then the optional TOML config file, then
// environment variables, then the command line flags applied by the CLI.
type Options struct {
	// InputPath is the patch file to read.
	InputPath string
	// OutputPath receives the filtered patch on every toggle.
	OutputPath string

	// LogPath enables file logging when non-empty. The interactive shell
	// owns the terminal, so log output never goes to stdout or stderr.
	LogPath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// NoColor disables ANSI colors in non-interactive output.
	NoColor bool
	// Theme is the glamour style used to render the help overlay.
	Theme string
	// TickInterval drives the idle refresh of the interactive shell.
	TickInterval time.Duration

	// Resume restores marks and cursor from a sidecar file when the sidecar
	// matches the current input.
	Resume bool
}

// Default returns the options used when nothing overrides them.
func Default() Options {
	return Options{
		LogLevel:     "info",
		Theme:        "dark",
		TickInterval: 250 * time.Millisecond,
		Resume:       true,
	}
}

// fileConfig mirrors the optional TOML file. Pointer fields distinguish
// absent keys from zero values so the file only overrides what it names.
type fileConfig struct {
	UI struct {
		Theme   *string `toml:"theme"`
		TickMS  *int    `toml:"tick_ms"`
		NoColor *bool   `toml:"no_color"`
	} `toml:"ui"`
	Session struct {
		Resume *bool   `toml:"resume"`
		Output *string `toml:"output"`
	} `toml:"session"`
	Log struct {
		Path  *string `toml:"path"`
		Level *string `toml:"level"`
	} `toml:"log"`
}

// ApplyFile overlays settings from the TOML file at path.
func (o *Options) ApplyFile(path string) error {
	var cfg fileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.UI.Theme != nil {
		o.Theme = *cfg.UI.Theme
	}
	if cfg.UI.TickMS != nil && *cfg.UI.TickMS > 0 {
		o.TickInterval = time.Duration(*cfg.UI.TickMS) * time.Millisecond
	}
	if cfg.UI.NoColor != nil {
		o.NoColor = *cfg.UI.NoColor
	}
	if cfg.Session.Resume != nil {
		o.Resume = *cfg.Session.Resume
	}
	if cfg.Session.Output != nil {
		o.OutputPath = *cfg.Session.Output
	}
	if cfg.Log.Path != nil {
		o.LogPath = *cfg.Log.Path
	}
	if cfg.Log.Level != nil {
		o.LogLevel = *cfg.Log.Level
	}
	return nil
}

// ApplyEnv overlays PATCHPICK_* environment variables using the provided
// lookup, typically os.Getenv. The conventional NO_COLOR variable is also
// honored: any non-empty value disables color.
func (o *Options) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PATCHPICK_OUTPUT")); v != "" {
		o.OutputPath = v
	}
	if v := strings.TrimSpace(getenv("PATCHPICK_LOG")); v != "" {
		o.LogPath = v
	}
	if v := strings.TrimSpace(getenv("PATCHPICK_LOG_LEVEL")); v != "" {
		o.LogLevel = v
	}
	if v := strings.TrimSpace(getenv("PATCHPICK_THEME")); v != "" {
		o.Theme = v
	}
	if v := strings.TrimSpace(getenv("PATCHPICK_TICK_MS")); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			o.TickInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(getenv("PATCHPICK_NO_COLOR")); v != "" {
		o.NoColor = parseBool(v, o.NoColor)
	}
	if v := strings.TrimSpace(getenv("NO_COLOR")); v != "" {
		o.NoColor = true
	}
	if v := strings.TrimSpace(getenv("PATCHPICK_RESUME")); v != "" {
		o.Resume = parseBool(v, o.Resume)
	}
}

// Validate checks the fully resolved options before a session starts.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.InputPath) == "" {
		return errors.New("input path is required")
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return errors.New("output path is required")
	}
	if o.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", o.TickInterval)
	}
	return nil
}

func parseBool(value string, fallback bool) bool {
	parsed, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return fallback
	}
	return parsed
}
