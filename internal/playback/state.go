package playback

import "github.com/lumenlearn/lumen/internal/library"

// Direction is the result of a vertical swipe.
type Direction int

const (
	NoSwipe   Direction = 0
	SwipeUp   Direction = 1  // next video
	SwipeDown Direction = -1 // previous video
)

func (d Direction) String() string {
	switch d {
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	default:
		return "none"
	}
}

// DetectSwipe classifies a vertical drag from startY to endY. Screen rows
// grow downward, so dragging upward (startY > endY) is SwipeUp. The drag must
// exceed threshold.
func DetectSwipe(startY, endY, threshold int) Direction {
	diff := startY - endY
	if diff > threshold {
		return SwipeUp
	}
	if -diff > threshold {
		return SwipeDown
	}
	return NoSwipe
}

// State is the transient playback state. It lives from Mount to Unmount.
type State struct {
	Video    int
	Sentence int
	Word     int

	Playing         bool
	Progress        float64
	Speed           Speed
	ControlsVisible bool

	Transitioning bool
	Pending       Direction

	Mounted bool
}

// CurrentVideo returns the video at s.Video.
func (s State) CurrentVideo(d *library.Deck) library.Video {
	return d.Video(s.Video)
}

// CurrentSentence returns the sentence being narrated, or "" past the end.
func (s State) CurrentSentence(d *library.Deck) library.Sentence {
	return d.Video(s.Video).SentenceAt(s.Sentence)
}

// CurrentWord returns the highlighted word, or "" when out of range.
func (s State) CurrentWord(d *library.Deck) string {
	words := s.CurrentSentence(d).Words()
	if s.Word < 0 || s.Word >= len(words) {
		return ""
	}
	return words[s.Word]
}
