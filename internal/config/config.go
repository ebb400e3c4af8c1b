// Package config loads phonorm settings from defaults, an optional YAML
// file and PHONORM_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ieee0824/phonorm/espeak"
	"github.com/ieee0824/phonorm/internal/logging"
	"github.com/ieee0824/phonorm/language"
)

// Config holds the complete application configuration.
type Config struct {
	Language string         `mapstructure:"language" yaml:"language"`
	Espeak   espeak.Config  `mapstructure:"espeak" yaml:"espeak"`
	Log      logging.Config `mapstructure:"log" yaml:"log"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Language: string(language.EnUS),
		Espeak:   espeak.DefaultConfig(),
		Log:      logging.DefaultConfig(),
	}
}

// Load reads configuration. An empty configPath searches ./phonorm.yaml and
// $HOME/.config/phonorm/phonorm.yaml; a missing file is not an error unless
// configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PHONORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("phonorm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "phonorm"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := language.Parse(c.Language); err != nil {
		return fmt.Errorf("language: %w", err)
	}
	if c.Espeak.Binary == "" {
		return fmt.Errorf("espeak.binary is required")
	}
	if len([]rune(c.Espeak.Separator)) != 1 {
		return fmt.Errorf("espeak.separator must be a single character, got %q", c.Espeak.Separator)
	}
	if c.Espeak.Timeout < 0 {
		return fmt.Errorf("espeak.timeout must not be negative")
	}
	return c.Log.Validate()
}

// ParsedLanguage returns the configured language tag.
func (c *Config) ParsedLanguage() (language.Language, error) {
	return language.Parse(c.Language)
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("language", defaults.Language)
	v.SetDefault("espeak.binary", defaults.Espeak.Binary)
	v.SetDefault("espeak.data_path", defaults.Espeak.DataPath)
	v.SetDefault("espeak.separator", defaults.Espeak.Separator)
	v.SetDefault("espeak.timeout", defaults.Espeak.Timeout)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}
