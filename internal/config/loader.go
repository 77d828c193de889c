package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"gitlab.com/tozd/go/errors"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. TYPESCHEMA_FORMAT.
	EnvPrefix = "TYPESCHEMA"
	// FileName is the config file searched for, without extension.
	FileName = ".typeschema"
)

// Loader loads the configuration. Priority, highest first: flags bound to
// the viper instance, environment variables, the config file, defaults.
type Loader struct {
	v    *viper.Viper
	file string
	dirs []string
}

// NewLoader creates a loader. An explicit file must exist; otherwise
// FileName is looked up in dirs and is optional.
func NewLoader(v *viper.Viper, file string, dirs ...string) *Loader {
	if v == nil {
		v = viper.New()
	}

	return &Loader{v: v, file: file, dirs: dirs}
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	v := l.v

	if l.file != "" {
		if _, err := os.Stat(l.file); err != nil {
			return nil, errors.Errorf("failed to read config file: %w", err)
		}
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range l.dirs {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"format", "indent", "log_level", "color", "env"} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if l.file != "" || len(l.dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Used returns the config file that was read, if any.
func (l *Loader) Used() string {
	return l.v.ConfigFileUsed()
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("format", defaults.Format)
	v.SetDefault("indent", defaults.Indent)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("color", defaults.Color)
	v.SetDefault("env", defaults.Env)
}
