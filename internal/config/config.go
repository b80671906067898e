// Package config provides configuration management for the study companion.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "optionsage/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	UI          UIConfig    `mapstructure:"ui"`
	Storage     Storage     `mapstructure:"storage"`
	AI          AIConfig    `mapstructure:"ai"`
	Credentials Credentials `mapstructure:"-"` // Loaded separately
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Storage holds persistence configuration.
type Storage struct {
	// Path of the sqlite database file. Empty means <config dir>/optionsage.db.
	DBPath string `mapstructure:"db_path"`
}

// AIConfig holds AI coach configuration.
type AIConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI  OpenAICredentials  `mapstructure:"openai"`
	Tradier TradierCredentials `mapstructure:"tradier"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// TradierCredentials holds Tradier API credentials.
type TradierCredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	if dir := os.Getenv("OPTIONSAGE_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optionsage"
	}
	return filepath.Join(home, ".config", "optionsage")
}

// DBPath resolves the storage database path.
func (c *Config) DBPath(configDir string) string {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath
	}
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "optionsage.db")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.3)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADIER_API_KEY"); v != "" {
		cfg.Credentials.Tradier.APIKey = v
	}
	if v := os.Getenv("OPTIONSAGE_MODEL"); v != "" {
		cfg.AI.Model = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2: %w", apperrors.ErrConfigInvalid)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model must not be empty: %w", apperrors.ErrConfigInvalid)
	}
	return nil
}

// HasOpenAI reports whether an OpenAI key is configured.
func (c *Config) HasOpenAI() bool {
	return c.Credentials.OpenAI.APIKey != ""
}

// HasTradier reports whether a Tradier key is configured.
func (c *Config) HasTradier() bool {
	return c.Credentials.Tradier.APIKey != ""
}
