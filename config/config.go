// Package config holds the lsroute configuration, read from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rhartert/lsroute/lsr"
)

// ErrInvalidConfig is returned when a configuration value is not valid.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Output formats of the CLI.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// Duration is a time.Duration written as a string such as "5m" in YAML.
type Duration struct {
	time.Duration
}

// MarshalText formats d like time.Duration.String.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses b with time.ParseDuration.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LogCfg configures logging.
type LogCfg struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// File is an optional path where JSON logs are written in addition to
	// the console.
	File string `yaml:"file,omitempty"`
}

// Config is the configuration of lsroute. The zero value is not valid: start
// from Default.
type Config struct {
	// NoLink is the convention for "no direct link" matrix values, see
	// lsr.ParseNoLink.
	NoLink string `yaml:"no_link"`
	// Frontier is how least-cost tentative routes are found, see
	// lsr.ParseFrontier.
	Frontier string `yaml:"frontier"`
	// Workers bounds the number of origins computed in parallel.
	Workers int `yaml:"workers"`
	// PathCacheTTL is how long computed paths are cached by a session. It
	// must be positive.
	PathCacheTTL Duration `yaml:"path_cache_ttl"`
	Log          LogCfg   `yaml:"log"`
	// Output is the output format of the CLI (text or yaml).
	Output string `yaml:"output"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		NoLink:       lsr.NoLinkZeroOrNegative.String(),
		Frontier:     lsr.FrontierScan.String(),
		Workers:      4,
		PathCacheTTL: Duration{5 * time.Minute},
		Log:          LogCfg{Level: "info"},
		Output:       OutputText,
	}
}

// Load reads the configuration at path. Fields missing from the file keep
// their default value. An empty path returns the default configuration.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(file)
}

// Parse decodes and validates a YAML configuration.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field of the configuration.
func (c Config) Validate() error {
	if _, err := lsr.ParseNoLink(c.NoLink); err != nil {
		return fmt.Errorf("%w: no_link: %s", ErrInvalidConfig, err)
	}
	if _, err := lsr.ParseFrontier(c.Frontier); err != nil {
		return fmt.Errorf("%w: frontier: %s", ErrInvalidConfig, err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be greater than 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.PathCacheTTL.Duration <= 0 {
		return fmt.Errorf("%w: path_cache_ttl must be greater than 0, got %s", ErrInvalidConfig, c.PathCacheTTL)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Output != OutputText && c.Output != OutputYAML {
		return fmt.Errorf("%w: output must be %q or %q, got %q", ErrInvalidConfig, OutputText, OutputYAML, c.Output)
	}
	return nil
}

// NoLinkConv returns the parsed no-link convention. The configuration must
// be valid.
func (c Config) NoLinkConv() lsr.NoLink {
	conv, _ := lsr.ParseNoLink(c.NoLink)
	return conv
}

// FrontierKind returns the parsed frontier. The configuration must be valid.
func (c Config) FrontierKind() lsr.Frontier {
	f, _ := lsr.ParseFrontier(c.Frontier)
	return f
}

// LogLevel returns the slog level of the configuration.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("%w: log.level: %s", ErrInvalidConfig, err)
	}
	return level, nil
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
