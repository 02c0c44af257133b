package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/playback"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

func (s *LearnScreen) View(width, height int) string {
	st := s.seq.State()
	deck := s.seq.Deck()
	video := st.CurrentVideo(deck)
	cw := components.ContentWidth(width)

	var b strings.Builder

	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(video.Title)
	meta := lipgloss.NewStyle().Foreground(theme.TextDim).Render(sourceLine(video.Source, video.Page))
	b.WriteString(title + "\n" + meta + "\n\n")

	b.WriteString(renderTranscript(st, s.seq, cw-4))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", st.Progress, true, cw-4)
	b.WriteString(bar.View())

	if st.ControlsVisible {
		b.WriteString("\n\n")
		b.WriteString(renderControls(st, deck.Len(), len(video.Sentences)))
	}

	card := components.Card(b.String(), cw)

	var hint string
	switch {
	case st.Transitioning && st.Pending == playback.SwipeUp:
		hint = theme.Hint.Render("↑ next video")
	case st.Transitioning:
		hint = theme.Hint.Render("↓ previous video")
	default:
		hint = theme.Hint.Render("swipe or ↑/↓ to change video")
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, card, "", hint))
}

func sourceLine(source, page string) string {
	switch {
	case source != "" && page != "":
		return source + " · " + page
	case source != "":
		return source
	default:
		return page
	}
}

// renderTranscript shows every sentence of the video. The current sentence
// highlights spoken, current and upcoming words; the others are dimmed.
func renderTranscript(st playback.State, seq *playback.Sequencer, width int) string {
	video := st.CurrentVideo(seq.Deck())
	wrap := lipgloss.NewStyle().Width(max(width, 10))
	lines := make([]string, 0, len(video.Sentences))
	for i, sentence := range video.Sentences {
		if i != st.Sentence {
			lines = append(lines, wrap.Render(theme.Dimmed.Render(sentence.Text())))
			continue
		}
		lines = append(lines, wrap.Render(renderSentence(sentence.Words(), st.Word)))
	}
	return strings.Join(lines, "\n")
}

func renderSentence(words []string, current int) string {
	parts := make([]string, 0, len(words))
	for i, w := range words {
		switch {
		case i < current:
			parts = append(parts, theme.Said.Render(w))
		case i == current:
			parts = append(parts, theme.Spoken.Render(w))
		default:
			parts = append(parts, theme.Unsaid.Render(w))
		}
	}
	return strings.Join(parts, " ")
}

func renderControls(st playback.State, videos, sentences int) string {
	state := "❚❚ Playing"
	if !st.Playing {
		state = "▶ Paused"
	}

	speeds := make([]string, 0, len(playback.Speeds))
	for _, sp := range playback.Speeds {
		if sp == st.Speed {
			speeds = append(speeds, theme.ButtonActive.Render(sp.String()))
		} else {
			speeds = append(speeds, theme.ButtonInactive.Render(sp.String()))
		}
	}

	pos := fmt.Sprintf("Video %d/%d · Sentence %d/%d",
		st.Video+1, videos, min(st.Sentence+1, sentences), sentences)

	return theme.Selected.Render(state) + "   " +
		strings.Join(speeds, " ") + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(pos)
}
