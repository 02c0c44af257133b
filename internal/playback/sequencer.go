package playback

import (
	"fmt"
	"time"

	"github.com/lumenlearn/lumen/internal/library"
	"github.com/lumenlearn/lumen/internal/logger"
)

// Narrator is the text-to-speech capability. Both calls must return
// promptly; an unavailable engine is a silent no-op.
type Narrator interface {
	Speak(text string, rate float64)
	CancelAll()
}

type silentNarrator struct{}

func (silentNarrator) Speak(string, float64) {}
func (silentNarrator) CancelAll()            {}

// Wake asks the host to call Fire(Timer, Gen) after the given delay.
type Wake struct {
	Timer Timer
	Gen   uint64
	After time.Duration
}

// Sequencer owns one PlaybackState and its timers. It is not safe for
// concurrent use; hosts call it from a single goroutine (the Bubble Tea
// update loop or a Runner).
//
// Timers are cancelled by generation: every start or stop bumps the timer's
// generation, and Fire ignores wakes carrying an older one.
type Sequencer struct {
	deck       *library.Deck
	timing     Timing
	narrator   Narrator
	onComplete func(video int)
	log        *logger.Logger

	state  State
	gens   [numTimers]uint64
	armed  [numTimers]bool
	repeat [numTimers]time.Duration
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithTiming overrides DefaultTiming.
func WithTiming(t Timing) Option {
	return func(s *Sequencer) { s.timing = t }
}

// WithNarrator sets the narration engine.
func WithNarrator(n Narrator) Option {
	return func(s *Sequencer) {
		if n != nil {
			s.narrator = n
		}
	}
}

// WithCompletionHook sets the callback invoked once per fully viewed video.
func WithCompletionHook(fn func(video int)) Option {
	return func(s *Sequencer) { s.onComplete = fn }
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *logger.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Sequencer for deck. Call Mount before dispatching anything
// else.
func New(deck *library.Deck, opts ...Option) (*Sequencer, error) {
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("playback deck: %w", err)
	}
	s := &Sequencer{
		deck:     deck,
		timing:   DefaultTiming(),
		narrator: silentNarrator{},
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.timing.Validate(); err != nil {
		return nil, fmt.Errorf("playback timing: %w", err)
	}
	return s, nil
}

// State returns a copy of the current state.
func (s *Sequencer) State() State { return s.state }

// Deck returns the deck being played.
func (s *Sequencer) Deck() *library.Deck { return s.deck }

// Timing returns the active timing.
func (s *Sequencer) Timing() Timing { return s.timing }

// Mount initializes state. Autoplay starts playback immediately.
func (s *Sequencer) Mount(autoplay bool) []Wake {
	return s.dispatch(Mount{Autoplay: autoplay})
}

// Unmount cancels all timers and narration.
func (s *Sequencer) Unmount() {
	s.dispatch(Unmount{})
}

// SetPlaying starts or stops playback.
func (s *Sequencer) SetPlaying(playing bool) []Wake {
	return s.dispatch(SetPlaying{Playing: playing})
}

// TogglePlay flips playback and shows controls.
func (s *Sequencer) TogglePlay() []Wake {
	return s.dispatch(TogglePlay{})
}

// SetSpeed switches the multiplier. The new word period applies from the
// next scheduled tick.
func (s *Sequencer) SetSpeed(speed Speed) ([]Wake, error) {
	if !speed.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSpeed, speed)
	}
	return s.dispatch(SetSpeed{Speed: speed}), nil
}

// Swipe starts a transition to the next (SwipeUp) or previous (SwipeDown)
// video. It is ignored while a transition is in progress.
func (s *Sequencer) Swipe(d Direction) []Wake {
	return s.dispatch(Swipe{Direction: d})
}

// Fire delivers a wake. Stale generations are dropped without touching
// state. Repeating timers are re-armed with the same generation.
func (s *Sequencer) Fire(t Timer, gen uint64) []Wake {
	if t < 0 || t >= numTimers || gen != s.gens[t] || !s.armed[t] {
		return nil
	}
	period := s.repeat[t]
	if period == 0 {
		s.armed[t] = false
	}

	wakes := s.dispatch(Tick{Timer: t})

	if period > 0 && s.armed[t] && s.gens[t] == gen {
		wakes = append(wakes, Wake{Timer: t, Gen: gen, After: period})
	}
	return wakes
}

// Dispatch applies any non-tick event. Timer ticks must go through Fire so
// their generation can be checked.
func (s *Sequencer) Dispatch(ev Event) []Wake {
	if _, ok := ev.(Tick); ok {
		return nil
	}
	return s.dispatch(ev)
}

// Current reports whether w still refers to the armed instance of its timer.
func (s *Sequencer) Current(w Wake) bool {
	return w.Timer >= 0 && w.Timer < numTimers && s.armed[w.Timer] && s.gens[w.Timer] == w.Gen
}

// Armed returns the timers that are currently live.
func (s *Sequencer) Armed() []Timer {
	var out []Timer
	for t := Timer(0); t < numTimers; t++ {
		if s.armed[t] {
			out = append(out, t)
		}
	}
	return out
}

func (s *Sequencer) dispatch(ev Event) []Wake {
	prev := s.state
	next, effects := Step(s.deck, s.timing, prev, ev)
	s.state = next

	var wakes []Wake
	for _, eff := range effects {
		switch e := eff.(type) {
		case StartTimer:
			s.gens[e.Timer]++
			s.armed[e.Timer] = true
			s.repeat[e.Timer] = 0
			if e.Repeat {
				s.repeat[e.Timer] = e.Period
			}
			wakes = append(wakes, Wake{Timer: e.Timer, Gen: s.gens[e.Timer], After: e.Period})
		case StopTimer:
			s.gens[e.Timer]++
			s.armed[e.Timer] = false
			s.repeat[e.Timer] = 0
		case Speak:
			s.narrator.Speak(e.Text, e.Rate)
		case CancelSpeech:
			s.narrator.CancelAll()
		case VideoCompleted:
			s.log.Debug("video completed", "video", e.Video, "title", s.deck.Video(e.Video).Title)
			if s.onComplete != nil {
				s.onComplete(e.Video)
			}
		}
	}

	if prev.Video != next.Video || prev.Sentence != next.Sentence || prev.Playing != next.Playing {
		s.log.Debug("playback transition",
			"event", fmt.Sprintf("%T", ev),
			"video", next.Video,
			"sentence", next.Sentence,
			"word", next.Word,
			"playing", next.Playing,
			"speed", next.Speed.String(),
		)
	}

	live := wakes[:0]
	for _, w := range wakes {
		if s.Current(w) {
			live = append(live, w)
		}
	}
	return live
}
