package playback

import (
	"fmt"
	"time"
)

// Timing holds the fixed periods that drive playback.
type Timing struct {
	// WordBase is the word-advance period at 1x.
	WordBase time.Duration

	// ProgressEvery is the progress tick period. It does not scale with speed.
	ProgressEvery time.Duration

	// ProgressStep is the percentage added per progress tick at 1x.
	ProgressStep float64

	// ControlsHide is the delay before on-screen controls auto-hide.
	ControlsHide time.Duration

	// Transition is the swipe animation delay.
	Transition time.Duration
}

// DefaultTiming returns the stock playback timing.
func DefaultTiming() Timing {
	return Timing{
		WordBase:      800 * time.Millisecond,
		ProgressEvery: 50 * time.Millisecond,
		ProgressStep:  0.5,
		ControlsHide:  3 * time.Second,
		Transition:    300 * time.Millisecond,
	}
}

// WordPeriod returns WordBase / speed.
func (t Timing) WordPeriod(s Speed) time.Duration {
	return time.Duration(float64(t.WordBase) / float64(s))
}

// Validate rejects non-positive periods.
func (t Timing) Validate() error {
	switch {
	case t.WordBase <= 0:
		return fmt.Errorf("word interval must be positive, got %s", t.WordBase)
	case t.ProgressEvery <= 0:
		return fmt.Errorf("progress interval must be positive, got %s", t.ProgressEvery)
	case t.ProgressStep <= 0:
		return fmt.Errorf("progress step must be positive, got %v", t.ProgressStep)
	case t.ControlsHide <= 0:
		return fmt.Errorf("controls hide delay must be positive, got %s", t.ControlsHide)
	case t.Transition < 0:
		return fmt.Errorf("transition delay must not be negative, got %s", t.Transition)
	}
	return nil
}
