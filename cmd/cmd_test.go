package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeck = `name: Test Deck
videos:
  - title: Alpha
    source: Test Source
    page: Page 1
    sentences:
      - one two
      - three four
  - title: Beta
    source: Test Source
    page: Page 2
    sentences:
      - five
`

type cli struct {
	t      *testing.T
	dir    string
	db     string
	config string
	deck   string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"LUMEN_DB", "LUMEN_DECK", "LUMEN_CONFIG", "LUMEN_LLM_PROVIDER"} {
		t.Setenv(k, "")
	}
	return &cli{
		t:      t,
		dir:    dir,
		db:     filepath.Join(dir, "lumen.db"),
		config: filepath.Join(dir, "config.toml"),
	}
}

func (c *cli) writeDeck() {
	c.t.Helper()
	c.deck = filepath.Join(c.dir, "deck.yaml")
	require.NoError(c.t, os.WriteFile(c.deck, []byte(testDeck), 0o644))
}

// run executes the root command. Persistent flags are always passed so values
// from an earlier run do not leak into this one.
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--db", c.db, "--config", c.config, "--deck="+c.deck))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVideosListsDemoDeck(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("videos", "--yaml=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Cognitive Development Stages")
	assert.Contains(t, out, "Memory Formation")
	assert.Contains(t, out, "Introduction to Psychology")
}

func TestVideosYAML(t *testing.T) {
	c := newCLI(t)
	c.writeDeck()
	out, err := c.run("videos", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Alpha")
	assert.Contains(t, out, "- five")
}

func TestNarrateDryRunPlaysOneVideo(t *testing.T) {
	c := newCLI(t)
	c.writeDeck()
	out, err := c.run("narrate", "--dry-run", "--speed", "1", "--videos", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "▶ 1/2 Alpha")
	assert.Contains(t, out, "one two")
	assert.Contains(t, out, "three four")
	assert.NotContains(t, out, "Beta")
	assert.Contains(t, out, "Played 1 video, started narration 2 times.")
}

func TestNarrateDryRunContinuesToNextVideo(t *testing.T) {
	c := newCLI(t)
	c.writeDeck()
	out, err := c.run("narrate", "--dry-run", "--speed", "1", "--videos", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "▶ 2/2 Beta")
	assert.Contains(t, out, "five")
	assert.Contains(t, out, "Played 2 videos")
}

func TestNarrateRejectsUnknownSpeed(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("narrate", "--dry-run", "--speed", "3", "--videos", "1")
	require.Error(t, err)
}

func TestChatRepliesAndRecordsHistory(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("chat", "hello there", "--no-save=false")
	require.NoError(t, err)
	assert.Contains(t, out, "How can I assist you today?")

	out, err = c.run("history", "--limit", "10", "--kind", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "user: hello there")
	assert.Contains(t, out, "assistant: Hello!")
}

func TestChatNoSave(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("chat", "explain memory", "--no-save")
	require.NoError(t, err)

	out, err := c.run("history", "--limit", "10", "--kind=")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity recorded yet.")
}

func TestStatsOnEmptyStore(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("stats", "--months")
	require.NoError(t, err)
	assert.Contains(t, out, "Videos viewed")
	assert.Contains(t, out, "This week (0/7 days active)")
	assert.Contains(t, out, "Last 6 months")
}

func TestConfigInitValidateAndPrint(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("config", "init", "--path", c.config, "--overwrite=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	assert.FileExists(t, c.config)

	_, err = c.run("config", "init", "--path", c.config, "--overwrite=false")
	require.Error(t, err)

	_, err = c.run("config", "init", "--path", c.config, "--overwrite")
	require.NoError(t, err)

	out, err = c.run("config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")

	out, err = c.run("config")
	require.NoError(t, err)
	assert.Contains(t, out, "[playback]")
	assert.Contains(t, out, c.db)
}

func TestLLMCommandsOnEmptyStore(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("llm", "list", "--limit", "5", "--purpose=")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")

	out, err = c.run("llm", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM usage recorded yet.")

	_, err = c.run("llm", "view", "7")
	require.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "3m 05s", formatDuration(3*time.Minute+5*time.Second))
	assert.Equal(t, "2h 10m", formatDuration(2*time.Hour+10*time.Minute))
}
