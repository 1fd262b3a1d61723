// Package config loads wordbridge configuration from an optional YAML file,
// a .env file and WORDBRIDGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/wordbridge/internal/llm"
)

// EnvPrefix prefixes every environment variable, e.g. WORDBRIDGE_HTTP_ADDR.
const EnvPrefix = "WORDBRIDGE"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env          string       `mapstructure:"env"` // local, development, production
	Log          Log          `mapstructure:"log"`
	DB           DB           `mapstructure:"db"`
	HTTP         HTTP         `mapstructure:"http"`
	Redis        Redis        `mapstructure:"redis"`
	Session      Session      `mapstructure:"session"`
	Housekeeping Housekeeping `mapstructure:"housekeeping"`
	LLM          LLM          `mapstructure:"llm"`
}

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // used by the review screen
}

type DB struct {
	Path string `mapstructure:"path"` // empty resolves to the XDG data dir
}

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type Redis struct {
	URL string `mapstructure:"url"` // empty keeps session state in memory
}

type Session struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type Housekeeping struct {
	Interval   time.Duration `mapstructure:"interval"`
	StaleAfter time.Duration `mapstructure:"stale_after"`
}

type LLM struct {
	Provider  string        `mapstructure:"provider"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Anthropic struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"anthropic"`
	OpenAI struct {
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"openai"`
	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`
}

// Load reads configuration. file, when non-empty, names an explicit config
// file that must exist; otherwise config.yaml is looked up in ./config and
// $XDG_CONFIG_HOME/wordbridge and may be absent.
func Load(file string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider SDK conventions as fallbacks for the API keys.
	_ = v.BindEnv("llm.anthropic.api_key", EnvPrefix+"_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.openai.api_key", EnvPrefix+"_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.gemini.api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()

	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("db.path", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("redis.url", "")
	v.SetDefault("session.cache_ttl", "24h")
	v.SetDefault("housekeeping.interval", "1h")
	v.SetDefault("housekeeping.stale_after", "24h")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout.String())
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
}

// Validate rejects durations that cannot drive the scheduler or cache.
func (c *Config) Validate() error {
	if c.Session.CacheTTL <= 0 {
		return fmt.Errorf("session.cache_ttl must be positive, got %s", c.Session.CacheTTL)
	}
	if c.Housekeeping.Interval <= 0 {
		return fmt.Errorf("housekeeping.interval must be positive, got %s", c.Housekeeping.Interval)
	}
	if c.Housekeeping.StaleAfter <= 0 {
		return fmt.Errorf("housekeeping.stale_after must be positive, got %s", c.Housekeeping.StaleAfter)
	}
	return nil
}

// LLMConfig converts the llm section into a provider configuration.
func (c *Config) LLMConfig() llm.Config {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}
	out.Anthropic.APIKey = c.LLM.Anthropic.APIKey
	if c.LLM.Anthropic.Model != "" {
		out.Anthropic.Model = c.LLM.Anthropic.Model
	}
	out.OpenAI.APIKey = c.LLM.OpenAI.APIKey
	out.OpenAI.BaseURL = c.LLM.OpenAI.BaseURL
	if c.LLM.OpenAI.Model != "" {
		out.OpenAI.Model = c.LLM.OpenAI.Model
	}
	out.Gemini.APIKey = c.LLM.Gemini.APIKey
	if c.LLM.Gemini.Model != "" {
		out.Gemini.Model = c.LLM.Gemini.Model
	}
	return out
}

func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "wordbridge"), nil
}
