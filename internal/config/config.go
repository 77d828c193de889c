// Package config loads the CLI configuration from defaults, an optional
// .typeschema.yaml file, TYPESCHEMA_* environment variables and flags.
package config

import (
	"log/slog"
	"strings"

	"gitlab.com/tozd/go/errors"

	"typeschema/internal/output"
)

// Config is the complete typeschema configuration.
type Config struct {
	Format   string   `yaml:"format" mapstructure:"format"`       // "json" or "yaml"
	Indent   int      `yaml:"indent" mapstructure:"indent"`       // spaces per level, 0 for compact JSON
	LogLevel string   `yaml:"log_level" mapstructure:"log_level"` // debug, info, warn or error
	Color    bool     `yaml:"color" mapstructure:"color"`         // colored log output
	Env      []string `yaml:"env" mapstructure:"env"`             // extra go command environment, KEY=VALUE
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Format:   string(output.JSON),
		Indent:   2,
		LogLevel: "warn",
	}
}

// OutputFormat returns the parsed output format.
func (c *Config) OutputFormat() (output.Format, error) {
	return output.ParseFormat(c.Format)
}

// Level returns the parsed log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Errorf("invalid log level %q", c.LogLevel)
	}

	return level, nil
}

// Validate reports every invalid field at once.
func Validate(c *Config) error {
	var errs []error
	if _, err := c.OutputFormat(); err != nil {
		errs = append(errs, err)
	}

	if c.Indent < 0 || c.Indent > 8 {
		errs = append(errs, errors.Errorf("indent must be between 0 and 8, got %d", c.Indent))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	for _, kv := range c.Env {
		if k, _, ok := strings.Cut(kv, "="); !ok || k == "" {
			errs = append(errs, errors.Errorf("env entry %q is not KEY=VALUE", kv))
		}
	}

	return errors.Join(errs...)
}
