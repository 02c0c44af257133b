// Package narration speaks sentence text aloud through a local
// text-to-speech program.
package narration

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/lumenlearn/lumen/internal/logger"
)

// ErrEngineUnavailable is returned when a named engine is not installed.
var ErrEngineUnavailable = errors.New("narration engine unavailable")

// Narrator speaks text. Implementations must not block the caller.
type Narrator interface {
	Speak(text string, rate float64)
	CancelAll()
}

// BaseWPM is the speaking rate at 1x.
const BaseWPM = 175

// Engine describes a TTS command line.
type Engine struct {
	Name   string
	Binary string
	Args   func(text string, wpm int, voice string) []string
}

// Engines lists the supported programs in lookup order for "auto".
var Engines = []Engine{
	{
		Name:   "espeak-ng",
		Binary: "espeak-ng",
		Args:   espeakArgs,
	},
	{
		Name:   "espeak",
		Binary: "espeak",
		Args:   espeakArgs,
	},
	{
		Name:   "say",
		Binary: "say",
		Args: func(text string, wpm int, voice string) []string {
			args := []string{"-r", strconv.Itoa(wpm)}
			if voice != "" {
				args = append(args, "-v", voice)
			}
			return append(args, "--", text)
		},
	},
}

func espeakArgs(text string, wpm int, voice string) []string {
	args := []string{"-s", strconv.Itoa(wpm)}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return append(args, "--", text)
}

// WPM converts a playback rate to words per minute.
func WPM(rate float64) int {
	if rate <= 0 {
		rate = 1
	}
	return int(BaseWPM*rate + 0.5)
}

// Resolve picks a narrator for the configured engine name. "none" and "" give
// a silent narrator; "auto" takes the first installed engine and falls back to
// silence when none is found.
func Resolve(name, voice string, log *logger.Logger) (Narrator, error) {
	if log == nil {
		log = logger.Nop()
	}
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "none", "off":
		return Nop{}, nil
	case "auto":
		for _, e := range Engines {
			if path, err := exec.LookPath(e.Binary); err == nil {
				e.Binary = path
				return NewExec(e, voice, log), nil
			}
		}
		log.Debug("no narration engine found, narrating silently")
		return Nop{}, nil
	}

	for _, e := range Engines {
		if e.Name != name {
			continue
		}
		path, err := exec.LookPath(e.Binary)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, name)
		}
		e.Binary = path
		return NewExec(e, voice, log), nil
	}
	return nil, fmt.Errorf("unknown narration engine %q", name)
}

// Exec runs one TTS process at a time. Speak replaces whatever is playing.
type Exec struct {
	engine Engine
	voice  string
	log    *logger.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewExec(engine Engine, voice string, log *logger.Logger) *Exec {
	if log == nil {
		log = logger.Nop()
	}
	return &Exec{engine: engine, voice: voice, log: log}
}

// Name returns the engine name.
func (n *Exec) Name() string { return n.engine.Name }

func (n *Exec) Speak(text string, rate float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.killLocked()

	cmd := exec.Command(n.engine.Binary, n.engine.Args(text, WPM(rate), n.voice)...)
	if err := cmd.Start(); err != nil {
		n.log.Debug("narration failed", "engine", n.engine.Name, "error", err)
		return
	}
	n.cmd = cmd

	go func() {
		_ = cmd.Wait()
		n.mu.Lock()
		if n.cmd == cmd {
			n.cmd = nil
		}
		n.mu.Unlock()
	}()
}

func (n *Exec) CancelAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.killLocked()
}

// Speaking reports whether a process is still running.
func (n *Exec) Speaking() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cmd != nil
}

func (n *Exec) killLocked() {
	if n.cmd == nil || n.cmd.Process == nil {
		return
	}
	if err := n.cmd.Process.Kill(); err != nil {
		n.log.Debug("narration cancel failed", "error", err)
	}
	n.cmd = nil
}

// Nop discards narration.
type Nop struct{}

func (Nop) Speak(string, float64) {}
func (Nop) CancelAll()            {}

// Utterance is one recorded Speak call.
type Utterance struct {
	Text string
	Rate float64
}

// Recorder keeps every call for inspection. It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	utterances []Utterance
	cancels    int
}

func (r *Recorder) Speak(text string, rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.utterances = append(r.utterances, Utterance{Text: text, Rate: rate})
}

func (r *Recorder) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels++
}

// Utterances returns a copy of the recorded Speak calls.
func (r *Recorder) Utterances() []Utterance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Utterance(nil), r.utterances...)
}

// Cancels returns how many times CancelAll was called.
func (r *Recorder) Cancels() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancels
}

// Tee fans calls out to several narrators.
type Tee []Narrator

func (t Tee) Speak(text string, rate float64) {
	for _, n := range t {
		n.Speak(text, rate)
	}
}

func (t Tee) CancelAll() {
	for _, n := range t {
		n.CancelAll()
	}
}
