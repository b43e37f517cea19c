// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BUDGET_LOG_LEVEL.
const EnvPrefix = "BUDGET"

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Labels         LabelsConfig         `mapstructure:"labels" yaml:"labels"`
	Classification ClassificationConfig `mapstructure:"classification" yaml:"classification"`
	Search         SearchConfig         `mapstructure:"search" yaml:"search"`
	Input          InputConfig          `mapstructure:"input" yaml:"input"`
	Server         ServerConfig         `mapstructure:"server" yaml:"server"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LabelsConfig holds the placeholders used for missing names.
type LabelsConfig struct {
	Unclassified string `mapstructure:"unclassified" yaml:"unclassified"`
	Unknown      string `mapstructure:"unknown" yaml:"unknown"`
}

// ClassificationConfig locates the classification names file.
type ClassificationConfig struct {
	FunctionalFile string `mapstructure:"functional_file" yaml:"functional_file"`
}

// SearchConfig tunes the live search.
type SearchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// InputConfig describes the line-item source.
type InputConfig struct {
	File      string `mapstructure:"file" yaml:"file"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Address         string `mapstructure:"address" yaml:"address"`
	RefreshSchedule string `mapstructure:"refresh_schedule" yaml:"refresh_schedule"`
}

// Debounce returns the search debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// DelimiterRune returns the input delimiter as a rune. Validation guarantees a
// single character.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.budget-rollup")
	v.AddConfigPath(".budget-rollup")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// defaults always unmarshal
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("labels.unclassified", "Unclassified")
	v.SetDefault("labels.unknown", "Unknown")

	v.SetDefault("classification.functional_file", "functional-classifications.yaml")

	v.SetDefault("search.debounce_ms", 300)

	v.SetDefault("input.file", "")
	v.SetDefault("input.delimiter", ",")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.refresh_schedule", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Labels.Unclassified) == "" {
		return fmt.Errorf("labels.unclassified must not be empty")
	}
	if strings.TrimSpace(config.Labels.Unknown) == "" {
		return fmt.Errorf("labels.unknown must not be empty")
	}

	if config.Search.DebounceMS < 0 {
		return fmt.Errorf("search.debounce_ms must not be negative, got: %d", config.Search.DebounceMS)
	}

	if utf8.RuneCountInString(config.Input.Delimiter) != 1 {
		return fmt.Errorf("input delimiter must be a single character, got: %s", config.Input.Delimiter)
	}

	if config.Server.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(config.Server.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid server.refresh_schedule '%s': %w", config.Server.RefreshSchedule, err)
		}
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
