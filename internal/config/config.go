// Package config loads process configuration from defaults, an optional
// YAML file, and VOCAB_* environment variables (highest precedence).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yuchialin/vocab-trainer/internal/dict"
)

// Config holds all application configuration. The accelerated-time
// switch is fixed here for the duration of a run; nothing mutates it
// afterwards.
type Config struct {
	DatabasePath     string           `mapstructure:"database_path"`
	TestDatabasePath string           `mapstructure:"test_database_path"`
	Accelerated      bool             `mapstructure:"accelerated"`
	LogLevel         string           `mapstructure:"log_level"`
	Dictionary       DictionaryConfig `mapstructure:"dictionary"`
}

// DictionaryConfig points at the lookup and translation endpoints.
type DictionaryConfig struct {
	LookupURL      string `mapstructure:"lookup_url"`
	TranslationURL string `mapstructure:"translation_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the dictionary request timeout.
func (d DictionaryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// DBPath returns the database file for the current mode. Accelerated
// runs get their own database so test reviews never pollute the real
// schedule.
func (c *Config) DBPath() string {
	if c.Accelerated {
		return c.TestDatabasePath
	}
	return c.DatabasePath
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Load reads configuration. An explicit configFile must exist; otherwise
// an optional vocab.yaml in the working directory is used when present.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database_path", "vocab.db")
	v.SetDefault("test_database_path", "vocab_test.db")
	v.SetDefault("accelerated", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("dictionary.lookup_url", dict.DefaultDictionaryURL)
	v.SetDefault("dictionary.translation_url", dict.DefaultTranslationURL)
	v.SetDefault("dictionary.timeout_seconds", 10)

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("vocab")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("VOCAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if !validLogLevels[cfg.LogLevel] {
		return nil, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", cfg.LogLevel)
	}
	if cfg.Dictionary.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("dictionary timeout must be positive, got %d", cfg.Dictionary.TimeoutSeconds)
	}
	return &cfg, nil
}
