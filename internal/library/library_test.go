package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDemoDeck(t *testing.T) {
	d := Demo()
	if d.Len() != 3 {
		t.Fatalf("got %d videos, want 3", d.Len())
	}
	if got := d.Video(0).Title; got != "Cognitive Development Stages" {
		t.Errorf("video 0 title = %q", got)
	}
	for i, v := range d.Videos {
		if len(v.Sentences) != 3 {
			t.Errorf("video %d: got %d sentences, want 3", i, len(v.Sentences))
		}
	}
	if got := d.Sources(); len(got) != 1 || got[0] != "Introduction to Psychology" {
		t.Errorf("sources = %v", got)
	}
}

func TestSentenceWords(t *testing.T) {
	tests := []struct {
		in   Sentence
		want int
	}{
		{"one two three", 3},
		{"single", 1},
		{"", 1},
		{"double  space", 3},
	}
	for _, tt := range tests {
		if got := len(tt.in.Words()); got != tt.want {
			t.Errorf("Words(%q): got %d words, want %d", tt.in, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	d := &Deck{Videos: make([]Video, 3)}
	tests := []struct{ in, want int }{
		{0, 0}, {2, 2}, {3, 0}, {-1, 2}, {-4, 2}, {7, 1},
	}
	for _, tt := range tests {
		if got := d.Wrap(tt.in); got != tt.want {
			t.Errorf("Wrap(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSentenceAtOutOfRange(t *testing.T) {
	v := Video{Sentences: []Sentence{"a b"}}
	if v.SentenceAt(1) != "" || v.SentenceAt(-1) != "" {
		t.Error("expected empty sentence out of range")
	}
	if v.WordCount() != 2 {
		t.Errorf("WordCount = %d, want 2", v.WordCount())
	}
}

func TestParseValidation(t *testing.T) {
	_, err := Parse([]byte("name: empty\nvideos: []\n"))
	if !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("got %v, want ErrEmptyDeck", err)
	}

	_, err = Parse([]byte("videos:\n  - title: x\n"))
	if err == nil {
		t.Fatal("expected error for video without sentences")
	}

	_, err = Parse([]byte("videos:\n  - sentences: [a]\n"))
	if err == nil {
		t.Fatal("expected error for video without title")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := Marshal(Demo())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Len() != 3 || d.Video(2).Page != "Page 45-46" {
		t.Errorf("unexpected deck after round trip: %+v", d.Videos[2])
	}
}

func TestLoadEmptyPathReturnsDemo(t *testing.T) {
	d, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Introduction to Psychology" {
		t.Errorf("name = %q", d.Name)
	}
}
