// Package config loads the user configuration for the wdl command.
//
// Settings come from a YAML file, by default $XDG_CONFIG_HOME/wdl/config.yaml,
// and are then overridden by WDL_* environment variables. Command-line flags
// take precedence over both and are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	// AppDir is the directory under the XDG config home holding wdl settings.
	AppDir = "wdl"

	// FileName is the configuration file name inside AppDir.
	FileName = "config.yaml"

	defaultLogLevel      = "warn"
	defaultColor         = ColorAuto
	defaultProgressDelay = 2 * time.Second
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	Color         string `yaml:"color"`
	ProgressDelay string `yaml:"progress_delay"`
}

// CheckConfig holds defaults for `wdl check`.
type CheckConfig struct {
	Lint   bool     `yaml:"lint"`
	Except []string `yaml:"except,omitempty"`
}

// Config models config.yaml.
type Config struct {
	Version int          `yaml:"version"`
	Log     LogConfig    `yaml:"log"`
	Output  OutputConfig `yaml:"output"`
	Check   CheckConfig  `yaml:"check"`

	// Path is the file the configuration was read from, empty when defaults
	// were used.
	Path string `yaml:"-"`

	progressDelay time.Duration
}

// Environment lists the variables that override file settings.
type Environment struct {
	LogLevel      string `env:"WDL_LOG_LEVEL"`
	Color         string `env:"WDL_COLOR"`
	ProgressDelay string `env:"WDL_PROGRESS_DELAY"`
}

// DefaultPath returns the configuration file location under the XDG config
// home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppDir, FileName)
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	c.normalize()
	return c
}

// Load reads the configuration at path, or at DefaultPath when path is empty,
// and applies overrides from environ. A missing default file yields the
// built-in configuration; a missing explicit file is an error.
func Load(fsys afero.Fs, path string, environ []string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	c := &Config{}
	data, err := afero.ReadFile(fsys, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		c.Path = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := c.applyEnvironment(environ); err != nil {
		return nil, err
	}
	c.applyDefaults()
	c.normalize()
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// ProgressDelay returns how long analysis runs before a progress bar shows.
func (c *Config) ProgressDelay() time.Duration {
	return c.progressDelay
}

func (c *Config) applyEnvironment(environ []string) error {
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return fmt.Errorf("config: read environment: %w", err)
	}
	var overrides Environment
	if err := env.Unmarshal(es, &overrides); err != nil {
		return fmt.Errorf("config: read environment: %w", err)
	}
	if overrides.LogLevel != "" {
		c.Log.Level = overrides.LogLevel
	}
	if overrides.Color != "" {
		c.Output.Color = overrides.Color
	}
	if overrides.ProgressDelay != "" {
		c.Output.ProgressDelay = overrides.ProgressDelay
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Output.Color) == "" {
		c.Output.Color = defaultColor
	}
	if strings.TrimSpace(c.Output.ProgressDelay) == "" {
		c.Output.ProgressDelay = defaultProgressDelay.String()
	}
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "warning" {
		c.Log.Level = "warn"
	}
	c.Output.Color = strings.ToLower(strings.TrimSpace(c.Output.Color))
	c.Output.ProgressDelay = strings.TrimSpace(c.Output.ProgressDelay)
	if delay, err := time.ParseDuration(c.Output.ProgressDelay); err == nil {
		c.progressDelay = delay
	}

	seen := map[string]bool{}
	var except []string
	for _, rule := range c.Check.Except {
		rule = strings.TrimSpace(rule)
		if rule == "" || seen[rule] {
			continue
		}
		seen[rule] = true
		except = append(except, rule)
	}
	sort.Strings(except)
	c.Check.Except = except
}

func (c *Config) validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}
	delay, err := time.ParseDuration(c.Output.ProgressDelay)
	if err != nil {
		return fmt.Errorf("output.progress_delay: %w", err)
	}
	if delay < 0 {
		return fmt.Errorf("output.progress_delay must not be negative")
	}
	return nil
}
