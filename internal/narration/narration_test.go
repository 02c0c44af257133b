package narration

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWPM(t *testing.T) {
	assert.Equal(t, 175, WPM(1))
	assert.Equal(t, 219, WPM(1.25))
	assert.Equal(t, 263, WPM(1.5))
	assert.Equal(t, 350, WPM(2))
	assert.Equal(t, 175, WPM(0))
}

func TestEngineArgs(t *testing.T) {
	assert.Equal(t, []string{"-s", "350", "--", "hello there"}, espeakArgs("hello there", 350, ""))
	assert.Equal(t, []string{"-s", "175", "-v", "en-us", "--", "hi"}, espeakArgs("hi", 175, "en-us"))
	assert.Equal(t, []string{"-s", "175", "--", "-v is not a flag"}, espeakArgs("-v is not a flag", 175, ""))

	var say Engine
	for _, e := range Engines {
		if e.Name == "say" {
			say = e
		}
	}
	require.NotNil(t, say.Args)
	assert.Equal(t, []string{"-r", "175", "-v", "Alex", "--", "hi"}, say.Args("hi", 175, "Alex"))
}

func TestResolve(t *testing.T) {
	n, err := Resolve("none", "", nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)

	n, err = Resolve("", "", nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)

	_, err = Resolve("festival", "", nil)
	assert.Error(t, err)

	n, err = Resolve("auto", "", nil)
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestResolveMissingEngine(t *testing.T) {
	if _, err := exec.LookPath("espeak-ng"); err == nil {
		t.Skip("espeak-ng is installed")
	}
	_, err := Resolve("espeak-ng", "", nil)
	assert.True(t, errors.Is(err, ErrEngineUnavailable))
}

func TestExecCancelKillsProcess(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	n := NewExec(Engine{
		Name:   "sleep",
		Binary: sleep,
		Args:   func(string, int, string) []string { return []string{"30"} },
	}, "", nil)

	n.Speak("anything", 1)
	assert.True(t, n.Speaking())

	n.CancelAll()
	assert.False(t, n.Speaking())

	// a replaced utterance is killed too
	n.Speak("first", 1)
	n.Speak("second", 1)
	assert.True(t, n.Speaking())
	n.CancelAll()
	assert.Eventually(t, func() bool { return !n.Speaking() }, time.Second, 10*time.Millisecond)
}

func TestExecMissingBinaryIsSilent(t *testing.T) {
	n := NewExec(Engine{
		Name:   "ghost",
		Binary: "/nonexistent/tts",
		Args:   espeakArgs,
	}, "", nil)
	n.Speak("hello", 1)
	assert.False(t, n.Speaking())
	n.CancelAll()
}

func TestRecorderAndTee(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	tee := Tee{a, b}
	tee.Speak("one", 1)
	tee.CancelAll()
	tee.Speak("two", 2)

	for _, r := range []*Recorder{a, b} {
		assert.Equal(t, []Utterance{{"one", 1}, {"two", 2}}, r.Utterances())
		assert.Equal(t, 1, r.Cancels())
	}
}
