package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/playback"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"XDG_CONFIG_HOME", "XDG_DATA_HOME", "XDG_STATE_HOME",
		"LUMEN_CONFIG", "LUMEN_DB", "LUMEN_DECK", "LUMEN_LLM_PROVIDER",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
		"LUMEN_ANTHROPIC_API_KEY", "LUMEN_OPENAI_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(home, ".config", "lumen", "config.toml"), resolved)

	assert.Equal(t, filepath.Join(home, ".local", "share", "lumen", "lumen.db"), cfg.Paths.DB)
	assert.Equal(t, filepath.Join(home, ".local", "state", "lumen", "lumen.log"), cfg.Paths.Log)
	assert.Empty(t, cfg.Paths.Deck)
	assert.Equal(t, playback.DefaultTiming(), cfg.Timing())
	assert.Equal(t, playback.Speed(1), cfg.StartSpeed())
	assert.Equal(t, 5, cfg.Quiz.Every)
	assert.False(t, cfg.LLMConfig().Enabled())
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
[paths]
db = "~/data/lumen.db"
deck = "decks/bio.yaml"

[playback]
speed = 1.5
word_interval_ms = 400

[narration]
engine = "ESPEAK-NG"

[quiz]
every = 3

[llm]
provider = "mock"

[log]
level = "debug"
`)

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "data", "lumen.db"), cfg.Paths.DB)
	assert.True(t, filepath.IsAbs(cfg.Paths.Deck))
	assert.Equal(t, playback.Speed(1.5), cfg.StartSpeed())
	assert.Equal(t, 400*time.Millisecond, cfg.Timing().WordBase)
	assert.Equal(t, 50*time.Millisecond, cfg.Timing().ProgressEvery)
	assert.Equal(t, "espeak-ng", cfg.Narration.Engine)
	assert.Equal(t, 3, cfg.Quiz.Every)
	assert.Equal(t, "mock", cfg.LLMConfig().Provider)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("LUMEN_DB", ":memory:")
	t.Setenv("LUMEN_DECK", "/tmp/deck.yaml")
	t.Setenv("LUMEN_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-std")

	cfg, _, _, err := config.Load(writeConfig(t, "[llm]\nprovider = \"anthropic\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Paths.DB)
	assert.Equal(t, "/tmp/deck.yaml", cfg.Paths.Deck)

	lc := cfg.LLMConfig()
	assert.Equal(t, "openai", lc.Provider)
	assert.Equal(t, "sk-std", lc.OpenAI.APIKey)
	assert.NoError(t, lc.Validate())
}

func TestAutoProviderDiscovers(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "g")

	cfg, _, _, err := config.Load(writeConfig(t, "[llm]\nprovider = \"auto\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLMConfig().Provider)
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]string{
		"speed":     "[playback]\nspeed = 3.0\n",
		"interval":  "[playback]\nword_interval_ms = 0\n",
		"swipe":     "[playback]\nswipe_threshold = 0\n",
		"quiz":      "[quiz]\nevery = 0\n",
		"provider":  "[llm]\nprovider = \"telepathy\"\n",
		"log mode":  "[log]\nmode = \"loud\"\n",
		"log level": "[log]\nlevel = \"verbose\"\n",
		"unknown":   "[playback]\nturbo = true\n",
		"syntax":    "[playback\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			_, _, _, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestSampleMatchesDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(path))
	assert.Error(t, config.CreateSample(path))

	fromSample, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	defaults, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaults.Playback, fromSample.Playback)
	assert.Equal(t, defaults.LLM, fromSample.LLM)
	assert.Equal(t, defaults.Quiz, fromSample.Quiz)
}

func TestEncodeRoundTrip(t *testing.T) {
	isolate(t)
	cfg, _, _, err := config.Load("")
	require.NoError(t, err)

	raw, err := cfg.Encode()
	require.NoError(t, err)

	var back config.Config
	require.NoError(t, toml.Unmarshal(raw, &back))
	assert.Equal(t, *cfg, back)
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	got, err := config.ExpandPath("~/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), got)

	got, err = config.ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
