package playback

import (
	"time"

	"github.com/lumenlearn/lumen/internal/library"
)

// Timer identifies one of the playback timers.
type Timer int

const (
	TimerWord Timer = iota
	TimerProgress
	TimerControls
	TimerTransition

	numTimers
)

func (t Timer) String() string {
	switch t {
	case TimerWord:
		return "word"
	case TimerProgress:
		return "progress"
	case TimerControls:
		return "controls"
	case TimerTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// Event is an input to Step.
type Event interface{ isEvent() }

// Mount creates fresh state. Autoplay starts playback immediately.
type Mount struct{ Autoplay bool }

// Unmount stops every timer and any narration. Later events are ignored.
type Unmount struct{}

// SetPlaying sets the playing flag.
type SetPlaying struct{ Playing bool }

// TogglePlay flips the playing flag and shows controls.
type TogglePlay struct{}

// SetSpeed selects a multiplier from Speeds. Other values are ignored.
type SetSpeed struct{ Speed Speed }

// Swipe requests a move to the next or previous video.
type Swipe struct{ Direction Direction }

// Tick is one firing of a timer.
type Tick struct{ Timer Timer }

func (Mount) isEvent()      {}
func (Unmount) isEvent()    {}
func (SetPlaying) isEvent() {}
func (TogglePlay) isEvent() {}
func (SetSpeed) isEvent()   {}
func (Swipe) isEvent()      {}
func (Tick) isEvent()       {}

// Effect is a side effect requested by Step.
type Effect interface{ isEffect() }

// StartTimer arms a timer, replacing any armed instance of the same timer.
type StartTimer struct {
	Timer  Timer
	Period time.Duration
	Repeat bool
}

// StopTimer disarms a timer.
type StopTimer struct{ Timer Timer }

// Speak narrates text at rate.
type Speak struct {
	Text string
	Rate float64
}

// CancelSpeech stops any in-flight narration.
type CancelSpeech struct{}

// VideoCompleted reports that the video at index Video was fully viewed.
type VideoCompleted struct{ Video int }

func (StartTimer) isEffect()     {}
func (StopTimer) isEffect()      {}
func (Speak) isEffect()          {}
func (CancelSpeech) isEffect()   {}
func (VideoCompleted) isEffect() {}

// Step is the playback transition function. It never mutates prev and has no
// side effects of its own; callers execute the returned effects in order.
func Step(deck *library.Deck, timing Timing, prev State, ev Event) (State, []Effect) {
	if m, ok := ev.(Mount); ok {
		if prev.Mounted {
			return prev, nil
		}
		next := State{
			Mounted:         true,
			Speed:           Speeds[0],
			ControlsVisible: true,
			Playing:         m.Autoplay,
		}
		return reconcile(deck, timing, prev, next, nil)
	}
	if !prev.Mounted {
		return prev, nil
	}

	next := prev
	var effects []Effect

	switch e := ev.(type) {
	case Unmount:
		next.Mounted = false
		next.Playing = false
		next.Transitioning = false
		next.Pending = NoSwipe
		return next, []Effect{
			StopTimer{TimerWord},
			StopTimer{TimerProgress},
			StopTimer{TimerControls},
			StopTimer{TimerTransition},
			CancelSpeech{},
		}

	case SetPlaying:
		next.Playing = e.Playing

	case TogglePlay:
		next.Playing = !next.Playing
		next.ControlsVisible = true

	case SetSpeed:
		if !e.Speed.Valid() {
			return prev, nil
		}
		next.Speed = e.Speed

	case Swipe:
		if next.Transitioning || e.Direction == NoSwipe {
			return prev, nil
		}
		next.Transitioning = true
		next.Pending = e.Direction
		effects = append(effects, StartTimer{Timer: TimerTransition, Period: timing.Transition})

	case Tick:
		switch e.Timer {
		case TimerWord:
			if !next.Playing {
				return prev, nil
			}
			next, effects = advanceWord(deck, next, effects)
		case TimerProgress:
			if !next.Playing {
				return prev, nil
			}
			next.Progress += timing.ProgressStep * float64(next.Speed)
			if next.Progress >= 100 {
				next.Progress = 100
				next.Playing = false
			}
		case TimerControls:
			if !next.Playing {
				return prev, nil
			}
			next.ControlsVisible = false
		case TimerTransition:
			if !next.Transitioning {
				return prev, nil
			}
			next.Video = deck.Wrap(next.Video + int(next.Pending))
			next.Sentence = 0
			next.Word = 0
			next.Progress = 0
			next.Playing = true
			next.Transitioning = false
			next.Pending = NoSwipe
		}

	default:
		return prev, nil
	}

	return reconcile(deck, timing, prev, next, effects)
}

// advanceWord increments the word index, rolling into the next sentence or,
// after the last word of the last sentence, stopping and moving to the next
// video.
func advanceWord(deck *library.Deck, s State, effects []Effect) (State, []Effect) {
	video := deck.Video(s.Video)
	words := video.SentenceAt(s.Sentence).Words()

	if s.Word < len(words)-1 {
		s.Word++
		return s, effects
	}

	if s.Sentence < len(video.Sentences)-1 {
		s.Sentence++
		s.Word = 0
		return s, effects
	}

	s.Playing = false
	effects = append(effects, VideoCompleted{Video: s.Video})
	s.Video = deck.Wrap(s.Video + 1)
	s.Sentence = 0
	s.Word = 0
	return s, effects
}

type timerKey struct {
	playing  bool
	speed    Speed
	sentence int
	video    int
}

type narrationKey struct {
	playing bool
	text    library.Sentence
	speed   Speed
}

// reconcile derives timer and narration effects from what changed between
// prev and next. The timer set restarts whenever playing, speed, sentence or
// video changes; narration restarts whenever playing, sentence text or speed
// changes.
func reconcile(deck *library.Deck, timing Timing, prev, next State, effects []Effect) (State, []Effect) {
	before := timerKey{prev.Playing, prev.Speed, prev.Sentence, prev.Video}
	after := timerKey{next.Playing, next.Speed, next.Sentence, next.Video}
	if before != after {
		effects = append(effects,
			StopTimer{TimerWord},
			StopTimer{TimerProgress},
			StopTimer{TimerControls},
		)
		if next.Playing {
			effects = append(effects,
				StartTimer{Timer: TimerWord, Period: timing.WordPeriod(next.Speed), Repeat: true},
				StartTimer{Timer: TimerProgress, Period: timing.ProgressEvery, Repeat: true},
				StartTimer{Timer: TimerControls, Period: timing.ControlsHide},
			)
		} else {
			next.ControlsVisible = true
		}
	}

	var prevText library.Sentence
	if prev.Mounted {
		prevText = prev.CurrentSentence(deck)
	}
	text := next.CurrentSentence(deck)
	if (narrationKey{prev.Playing, prevText, prev.Speed}) != (narrationKey{next.Playing, text, next.Speed}) {
		effects = append(effects, CancelSpeech{})
		if next.Playing && text != "" {
			effects = append(effects, Speak{Text: text.Text(), Rate: float64(next.Speed)})
		}
	}

	return next, effects
}
