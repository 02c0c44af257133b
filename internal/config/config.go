// Package config loads lumen's TOML configuration and applies environment
// overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lumenlearn/lumen/internal/llm"
	"github.com/lumenlearn/lumen/internal/playback"
	"github.com/lumenlearn/lumen/internal/store"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths holds file locations.
type Paths struct {
	DB   string `toml:"db"`
	Deck string `toml:"deck"`
	Log  string `toml:"log"`
}

// Playback tunes the sequencer.
type Playback struct {
	Autoplay           bool    `toml:"autoplay"`
	Speed              float64 `toml:"speed"`
	WordIntervalMS     int     `toml:"word_interval_ms"`
	ProgressIntervalMS int     `toml:"progress_interval_ms"`
	ProgressStep       float64 `toml:"progress_step"`
	ControlsHideMS     int     `toml:"controls_hide_ms"`
	TransitionMS       int     `toml:"transition_ms"`
	SwipeThreshold     int     `toml:"swipe_threshold"`
}

// Narration selects the text-to-speech engine.
type Narration struct {
	Engine string `toml:"engine"`
	Voice  string `toml:"voice"`
}

// Quiz controls the quiz cadence.
type Quiz struct {
	Every int `toml:"every"`
}

// LLM selects the optional chat provider. Keys come from the environment.
type LLM struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxAttempts    int    `toml:"max_attempts"`
}

// Log configures the log file.
type Log struct {
	Mode  string `toml:"mode"`
	Level string `toml:"level"`
}

// Config is the full configuration.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Playback  Playback  `toml:"playback"`
	Narration Narration `toml:"narration"`
	Quiz      Quiz      `toml:"quiz"`
	LLM       LLM       `toml:"llm"`
	Log       Log       `toml:"log"`
}

// Default returns the built-in configuration. Paths are resolved by Load.
func Default() Config {
	t := playback.DefaultTiming()
	return Config{
		Playback: Playback{
			Autoplay:           true,
			Speed:              1,
			WordIntervalMS:     int(t.WordBase / time.Millisecond),
			ProgressIntervalMS: int(t.ProgressEvery / time.Millisecond),
			ProgressStep:       t.ProgressStep,
			ControlsHideMS:     int(t.ControlsHide / time.Millisecond),
			TransitionMS:       int(t.Transition / time.Millisecond),
			SwipeThreshold:     3,
		},
		Narration: Narration{Engine: "auto"},
		Quiz:      Quiz{Every: 5},
		LLM: LLM{
			Provider:       llm.ProviderNone,
			TimeoutSeconds: 20,
			MaxAttempts:    2,
		},
		Log: Log{Mode: "prod", Level: "info"},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/lumen/config.toml, falling back
// to ~/.config.
func DefaultConfigPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.toml")
}

// DefaultLogPath returns $XDG_STATE_HOME/lumen/lumen.log, falling back to
// ~/.local/state.
func DefaultLogPath() (string, error) {
	return xdgPath("XDG_STATE_HOME", filepath.Join(".local", "state"), "lumen.log")
}

func xdgPath(env, fallback, file string) (string, error) {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return filepath.Join(base, "lumen", file), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, fallback, "lumen", file), nil
}

// Load reads the config file at path (or the default location when empty),
// applies environment overrides, resolves paths and validates the result.
// It also returns the resolved file path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		if env := os.Getenv("LUMEN_CONFIG"); env != "" {
			path = env
		}
	}
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = p
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LUMEN_DB"); v != "" {
		c.Paths.DB = v
	}
	if v := os.Getenv("LUMEN_DECK"); v != "" {
		c.Paths.Deck = v
	}
	if v := os.Getenv("LUMEN_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DB == "" {
		if c.Paths.DB, err = store.DefaultDBPath(); err != nil {
			return err
		}
	} else if !isSpecialDSN(c.Paths.DB) {
		if c.Paths.DB, err = ExpandPath(c.Paths.DB); err != nil {
			return err
		}
	}
	if c.Paths.Deck, err = ExpandPath(c.Paths.Deck); err != nil {
		return err
	}
	if c.Paths.Log == "" {
		if c.Paths.Log, err = DefaultLogPath(); err != nil {
			return err
		}
	} else if c.Paths.Log, err = ExpandPath(c.Paths.Log); err != nil {
		return err
	}

	c.Narration.Engine = strings.ToLower(strings.TrimSpace(c.Narration.Engine))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = llm.ProviderNone
	}
	c.Log.Mode = strings.ToLower(strings.TrimSpace(c.Log.Mode))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	return nil
}

func isSpecialDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if !playback.Speed(c.Playback.Speed).Valid() {
		errs = append(errs, fmt.Errorf("playback.speed: %w: %v", playback.ErrUnsupportedSpeed, c.Playback.Speed))
	}
	if err := c.Timing().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if c.Playback.SwipeThreshold < 1 {
		errs = append(errs, fmt.Errorf("playback.swipe_threshold must be at least 1, got %d", c.Playback.SwipeThreshold))
	}
	if c.Quiz.Every < 1 {
		errs = append(errs, fmt.Errorf("quiz.every must be at least 1, got %d", c.Quiz.Every))
	}
	switch c.LLM.Provider {
	case llm.ProviderNone, "auto", "anthropic", "openai", "gemini", "openrouter", "mock":
	default:
		errs = append(errs, fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider))
	}
	if c.LLM.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout_seconds must not be negative"))
	}
	switch c.Log.Mode {
	case "prod", "dev":
	default:
		errs = append(errs, fmt.Errorf("log.mode must be prod or dev, got %q", c.Log.Mode))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Timing converts the playback section to sequencer timing.
func (c *Config) Timing() playback.Timing {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return playback.Timing{
		WordBase:      ms(c.Playback.WordIntervalMS),
		ProgressEvery: ms(c.Playback.ProgressIntervalMS),
		ProgressStep:  c.Playback.ProgressStep,
		ControlsHide:  ms(c.Playback.ControlsHideMS),
		Transition:    ms(c.Playback.TransitionMS),
	}
}

// StartSpeed is the configured initial speed.
func (c *Config) StartSpeed() playback.Speed {
	return playback.Speed(c.Playback.Speed)
}

// LLMConfig builds the provider configuration: file settings, then
// LUMEN_* variables, then standard *_API_KEY discovery for "auto".
func (c *Config) LLMConfig() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	cfg.Timeout = time.Duration(c.LLM.TimeoutSeconds) * time.Second
	if c.LLM.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	}
	if c.LLM.Model != "" {
		cfg.Anthropic.Model = c.LLM.Model
		cfg.OpenAI.Model = c.LLM.Model
		cfg.Gemini.Model = c.LLM.Model
		cfg.OpenRouter.Model = c.LLM.Model
	}
	if c.LLM.BaseURL != "" {
		cfg.OpenAI.BaseURL = c.LLM.BaseURL
		cfg.Gemini.BaseURL = c.LLM.BaseURL
		cfg.OpenRouter.BaseURL = c.LLM.BaseURL
	}

	cfg.ApplyEnv()
	if cfg.Provider == "auto" {
		cfg.Provider = llm.ProviderNone
		cfg.Discover()
	}
	// Standard variables fill in missing keys for an explicit provider too.
	fill := func(dst *string, env string) {
		if *dst == "" {
			*dst = os.Getenv(env)
		}
	}
	fill(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	fill(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	fill(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	fill(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	return cfg
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// ExpandPath expands a leading ~ and makes path absolute. Empty stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else if len(path) > 1 && (path[1] == '/' || path[1] == '\\') {
			path = filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return abs, nil
}

// Sample returns the commented sample configuration.
func Sample() string { return sampleConfig }

// CreateSample writes the sample configuration to path, creating parent
// directories. An existing file is left untouched.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
