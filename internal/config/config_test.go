package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeschema/internal/output"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, FileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Color)
	assert.NoError(t, Validate(cfg))

	format, err := cfg.OutputFormat()
	require.NoError(t, err)
	assert.Equal(t, output.JSON, format)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	cfg, err := NewLoader(nil, "", t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FromSearchedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "format: yaml\nindent: 4\nenv:\n  - GOFLAGS=-mod=mod\n")

	l := NewLoader(nil, "", dir)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep defaults")
	assert.Equal(t, []string{"GOFLAGS=-mod=mod"}, cfg.Env)
	assert.Equal(t, filepath.Join(dir, FileName+".yaml"), l.Used())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "format: yaml\nlog_level: info\n")
	t.Setenv("TYPESCHEMA_FORMAT", "json")
	t.Setenv("TYPESCHEMA_LOG_LEVEL", "debug")

	cfg, err := NewLoader(nil, path).Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("TYPESCHEMA_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "json", "")
	require.NoError(t, flags.Parse([]string{"--format", "yaml"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("format", flags.Lookup("format")))

	cfg, err := NewLoader(v, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader(nil, filepath.Join(dir, "missing.yaml")).Load()
	assert.Error(t, err, "an explicit config file must exist")

	bad := writeConfig(t, dir, "format: [unclosed\n")
	_, err = NewLoader(nil, bad).Load()
	assert.ErrorContains(t, err, "failed to read config file")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("format: toml\nindent: 12\n"), 0o600))
	_, err = NewLoader(nil, invalid).Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown output format")
	assert.ErrorContains(t, err, "indent must be between 0 and 8")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"negative indent", func(c *Config) { c.Indent = -1 }, "indent must be between"},
		{"env without value", func(c *Config) { c.Env = []string{"GOFLAGS"} }, "not KEY=VALUE"},
		{"env without key", func(c *Config) { c.Env = []string{"=x"} }, "not KEY=VALUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, Validate(cfg), tt.errMsg)
		})
	}
}
