package library

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDeck is returned when a deck has no playable videos.
var ErrEmptyDeck = errors.New("deck has no videos")

// Sentence is one unit of narrated text. Words are derived on demand and
// never stored.
type Sentence string

// Words splits the sentence on single spaces. Consecutive spaces yield empty
// words, matching how the highlighter indexes them.
func (s Sentence) Words() []string {
	return strings.Split(string(s), " ")
}

// Text returns the sentence as a plain string.
func (s Sentence) Text() string {
	return string(s)
}

// Video is a swipeable unit of narrated sentences. Sentence order is playback
// order and is never changed after load.
type Video struct {
	Title     string     `yaml:"title"`
	Source    string     `yaml:"source"`
	Page      string     `yaml:"page"`
	Sentences []Sentence `yaml:"sentences"`
}

// SentenceAt returns the sentence at i, or "" when i is out of range.
func (v Video) SentenceAt(i int) Sentence {
	if i < 0 || i >= len(v.Sentences) {
		return ""
	}
	return v.Sentences[i]
}

// WordCount returns the total number of words across all sentences.
func (v Video) WordCount() int {
	n := 0
	for _, s := range v.Sentences {
		n += len(s.Words())
	}
	return n
}

// Deck is an ordered, fixed list of videos.
type Deck struct {
	Name   string  `yaml:"name"`
	Videos []Video `yaml:"videos"`
}

// Len returns the number of videos.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Videos)
}

// Video returns the video at i. The index must be in range.
func (d *Deck) Video(i int) Video {
	return d.Videos[i]
}

// Wrap maps any integer (including negatives) into [0, Len()).
func (d *Deck) Wrap(i int) int {
	n := d.Len()
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Sources returns the distinct source labels in first-seen order.
func (d *Deck) Sources() []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range d.Videos {
		if v.Source == "" || seen[v.Source] {
			continue
		}
		seen[v.Source] = true
		out = append(out, v.Source)
	}
	return out
}

// Validate checks that the deck can be played.
func (d *Deck) Validate() error {
	if d.Len() == 0 {
		return ErrEmptyDeck
	}
	for i, v := range d.Videos {
		if strings.TrimSpace(v.Title) == "" {
			return fmt.Errorf("video %d: title is required", i)
		}
		if len(v.Sentences) == 0 {
			return fmt.Errorf("video %d (%s): at least one sentence is required", i, v.Title)
		}
	}
	return nil
}
