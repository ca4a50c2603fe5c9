// Package config loads the service configuration from defaults, an
// optional YAML file, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/clil/internal/export"
	"github.com/abhisek/clil/internal/llm"
	"github.com/abhisek/clil/internal/store"
	"github.com/abhisek/clil/internal/taskgen"
)

// Config holds all configuration for the service.
type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	LLM        llm.Config     `mapstructure:"llm"`
	Generation taskgen.Config `mapstructure:"generation"`
	Export     export.Config  `mapstructure:"export"`
	Store      StoreConfig    `mapstructure:"store"`
	Log        LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// AllowedOrigin is the single origin allowed by CORS.
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig holds the event database location.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Mode is "dev" or "prod".
	Mode string `mapstructure:"mode"`
}

// envBindings maps config keys to environment variables, highest
// priority first.
var envBindings = map[string][]string{
	"server.addr":            {"CLIL_ADDR"},
	"server.allowed_origin":  {"CLIL_ALLOWED_ORIGIN"},
	"llm.provider":           {"CLIL_LLM_PROVIDER"},
	"llm.timeout":            {"CLIL_LLM_TIMEOUT"},
	"llm.openai.api_key":     {"CLIL_OPENAI_API_KEY", "OPENAI_API_KEY"},
	"llm.openai.model":       {"CLIL_OPENAI_MODEL"},
	"llm.openai.base_url":    {"CLIL_OPENAI_BASE_URL"},
	"llm.anthropic.api_key":  {"CLIL_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
	"llm.anthropic.model":    {"CLIL_ANTHROPIC_MODEL"},
	"llm.anthropic.base_url": {"CLIL_ANTHROPIC_BASE_URL"},
	"llm.gemini.api_key":     {"CLIL_GEMINI_API_KEY", "GEMINI_API_KEY"},
	"llm.gemini.model":       {"CLIL_GEMINI_MODEL"},
	"llm.gemini.base_url":    {"CLIL_GEMINI_BASE_URL"},
	"llm.openrouter.api_key": {"CLIL_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"},
	"llm.openrouter.model":   {"CLIL_OPENROUTER_MODEL"},
	"export.dir":             {"CLIL_EXPORT_DIR"},
	"export.font_path":       {"CLIL_PDF_FONT"},
	"store.path":             {"CLIL_DB"},
	"log.mode":               {"CLIL_LOG_MODE"},
}

// Option customizes a Load call.
type Option func(v *viper.Viper) error

// WithFlag lets an explicitly set command-line flag override key.
// Unset flags leave lower layers alone.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil || !flag.Changed {
			return nil
		}
		return v.BindPFlag(key, flag)
	}
}

// Load builds the configuration. Precedence (highest to lowest):
// 1. Flags passed as options
// 2. Environment variables
// 3. The YAML file at path, or config.yaml in the user config dir when
//    path is empty (optional in that case)
// 4. Built-in defaults
func Load(path string, opts ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(UserConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading user config: %w", err)
			}
		}
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credentials.
	cfg.LLM.OpenAI.APIKey = os.ExpandEnv(cfg.LLM.OpenAI.APIKey)
	cfg.LLM.Anthropic.APIKey = os.ExpandEnv(cfg.LLM.Anthropic.APIKey)
	cfg.LLM.Gemini.APIKey = os.ExpandEnv(cfg.LLM.Gemini.APIKey)
	cfg.LLM.OpenRouter.APIKey = os.ExpandEnv(cfg.LLM.OpenRouter.APIKey)

	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if origin := strings.TrimSpace(c.Server.AllowedOrigin); origin == "" {
		errs = append(errs, errors.New("server.allowed_origin is required"))
	} else if origin == "*" {
		errs = append(errs, errors.New("server.allowed_origin must name one origin, not *"))
	} else if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		errs = append(errs, fmt.Errorf("server.allowed_origin must be an http(s) origin, got %q", origin))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Generation.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("generation.max_tokens must be positive, got %d", c.Generation.MaxTokens))
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		errs = append(errs, fmt.Errorf("generation.temperature must be within 0..2, got %v", c.Generation.Temperature))
	}
	if c.Export.WrapWidth < 0 {
		errs = append(errs, fmt.Errorf("export.wrap_width must not be negative, got %d", c.Export.WrapWidth))
	}
	switch c.Log.Mode {
	case "dev", "prod", "production":
	default:
		errs = append(errs, fmt.Errorf("log.mode must be dev or prod, got %q", c.Log.Mode))
	}
	return errors.Join(errs...)
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	genDefaults := taskgen.DefaultConfig()

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.allowed_origin", "http://localhost:3000")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.timeout", llmDefaults.Timeout.String())
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", llmDefaults.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", llmDefaults.Retry.InitialWait.String())
	v.SetDefault("llm.retry.max_wait", llmDefaults.Retry.MaxWait.String())
	v.SetDefault("llm.retry.multiplier", llmDefaults.Retry.Multiplier)

	v.SetDefault("generation.temperature", genDefaults.Temperature)
	v.SetDefault("generation.max_tokens", genDefaults.MaxTokens)
	v.SetDefault("generation.structured_output", genDefaults.StructuredOutput)
	v.SetDefault("generation.placeholder_answer", genDefaults.PlaceholderAnswer)

	v.SetDefault("export.dir", os.TempDir())
	v.SetDefault("export.wrap_width", export.DefaultWrapWidth)
	v.SetDefault("export.font_path", "")

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = "clil.db"
	}
	v.SetDefault("store.path", dbPath)

	v.SetDefault("log.mode", "dev")
}

// UserConfigDir returns the XDG config directory for clil.
func UserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "clil")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "clil")
	}
	return filepath.Join(home, ".config", "clil")
}
