package llm

import (
	"fmt"
	"os"
	"time"
)

// ProviderNone disables LLM use; chat falls back to its scripted replies.
const ProviderNone = "none"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock", "none"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single request including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-mini"
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with LLM use disabled and every provider
// preconfigured with its default model.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderNone,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// ApplyEnv overlays LUMEN_* environment variables onto c.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Provider, "LUMEN_LLM_PROVIDER")
	set(&c.Anthropic.APIKey, "LUMEN_ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, "LUMEN_ANTHROPIC_MODEL")
	set(&c.OpenAI.APIKey, "LUMEN_OPENAI_API_KEY")
	set(&c.OpenAI.Model, "LUMEN_OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "LUMEN_OPENAI_BASE_URL")
	set(&c.Gemini.APIKey, "LUMEN_GEMINI_API_KEY")
	set(&c.Gemini.Model, "LUMEN_GEMINI_MODEL")
	set(&c.OpenRouter.APIKey, "LUMEN_OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, "LUMEN_OPENROUTER_MODEL")
}

// ConfigFromEnv builds a Config from LUMEN_* environment variables, falling
// back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// Discover fills in a provider from the standard *_API_KEY variables when
// none is selected yet. Keys are probed in the order Anthropic, OpenAI,
// Gemini, OpenRouter. It reports whether a provider was found.
func (c *Config) Discover() bool {
	if c.Enabled() {
		return true
	}
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", "anthropic", &c.Anthropic.APIKey},
		{"OPENAI_API_KEY", "openai", &c.OpenAI.APIKey},
		{"GEMINI_API_KEY", "gemini", &c.Gemini.APIKey},
		{"OPENROUTER_API_KEY", "openrouter", &c.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			if *p.key == "" {
				*p.key = k
			}
			return true
		}
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	missing := func(env string) error {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("LUMEN_ANTHROPIC_API_KEY")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("LUMEN_OPENAI_API_KEY")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("LUMEN_GEMINI_API_KEY")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("LUMEN_OPENROUTER_API_KEY")
		}
	case "mock", ProviderNone, "":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// Model returns the configured model name of the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case "anthropic":
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case "openai":
		return resolveModel(c.OpenAI.Model, openaiModels)
	case "gemini":
		return resolveModel(c.Gemini.Model, geminiModels)
	case "openrouter":
		return c.OpenRouter.Model
	case "mock":
		return "mock"
	}
	return ""
}
