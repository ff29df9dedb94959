// Package config loads flashdeck settings from flags, FLASHDECK_* environment
// variables, an optional YAML file and defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/flashdeck/internal/llm"
)

// EnvPrefix is prepended to every environment variable, so "due.limit"
// is read from FLASHDECK_DUE_LIMIT.
const EnvPrefix = "FLASHDECK"

// Config holds all configuration for the application.
type Config struct {
	DB       string     `mapstructure:"db"`
	User     string     `mapstructure:"user"`
	Timezone string     `mapstructure:"timezone"`
	Due      DueConfig  `mapstructure:"due"`
	Test     TestConfig `mapstructure:"test"`
	Log      LogConfig  `mapstructure:"log"`
	LLM      LLMConfig  `mapstructure:"llm"`
}

// DueConfig bounds due-card batches.
type DueConfig struct {
	Limit int `mapstructure:"limit"`
}

// TestConfig configures mock tests.
type TestConfig struct {
	Questions int `mapstructure:"questions"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig selects and configures the card generation provider.
type LLMConfig struct {
	Provider      string         `mapstructure:"provider"`
	Timeout       time.Duration  `mapstructure:"timeout"`
	RatePerMinute int            `mapstructure:"rate_per_minute"`
	Anthropic     ProviderConfig `mapstructure:"anthropic"`
	OpenAI        ProviderConfig `mapstructure:"openai"`
	Gemini        ProviderConfig `mapstructure:"gemini"`
	Groq          ProviderConfig `mapstructure:"groq"`
}

// ProviderConfig holds per-provider credentials and model selection.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration into a fresh Config. v may already carry bound
// flags; configFile overrides the default config search path.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.User == "" {
		return nil, errors.New("user must not be empty")
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("user", "local")
	v.SetDefault("timezone", "")

	v.SetDefault("due.limit", 50)
	v.SetDefault("test.questions", 20)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.rate_per_minute", 30)
	for _, p := range []string{"anthropic", "openai", "gemini", "groq"} {
		v.SetDefault("llm."+p+".api_key", "")
		v.SetDefault("llm."+p+".model", "")
		v.SetDefault("llm."+p+".base_url", "")
	}
}

// configDir returns $XDG_CONFIG_HOME/flashdeck or ~/.config/flashdeck.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "flashdeck"), nil
}

// Location resolves the configured timezone, defaulting to the local one.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Provider builds the LLM configuration. When no provider is configured
// the well-known API key variables are probed; ok is false if none is set.
func (c *Config) Provider() (cfg llm.Config, ok bool) {
	if c.LLM.Provider == "" {
		cfg, ok = llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false
		}
	} else {
		cfg = llm.DefaultConfig()
		cfg.Provider = c.LLM.Provider
	}

	override(&cfg.Anthropic.APIKey, c.LLM.Anthropic.APIKey)
	override(&cfg.Anthropic.Model, c.LLM.Anthropic.Model)
	override(&cfg.OpenAI.APIKey, c.LLM.OpenAI.APIKey)
	override(&cfg.OpenAI.Model, c.LLM.OpenAI.Model)
	override(&cfg.OpenAI.BaseURL, c.LLM.OpenAI.BaseURL)
	override(&cfg.Gemini.APIKey, c.LLM.Gemini.APIKey)
	override(&cfg.Gemini.Model, c.LLM.Gemini.Model)
	override(&cfg.Gemini.BaseURL, c.LLM.Gemini.BaseURL)
	override(&cfg.Groq.APIKey, c.LLM.Groq.APIKey)
	override(&cfg.Groq.Model, c.LLM.Groq.Model)
	override(&cfg.Groq.BaseURL, c.LLM.Groq.BaseURL)

	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	cfg.RatePerMinute = c.LLM.RatePerMinute
	return cfg, true
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
