package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/lumenlearn/lumen/internal/chat"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	bubbleWidth := max(cw*3/4, 20)

	var lines []string
	for _, m := range s.conv.Messages {
		lines = append(lines, strings.Split(renderMessage(m, cw, bubbleWidth), "\n")...)
		lines = append(lines, "")
	}
	if s.typing {
		lines = append(lines, theme.Hint.Render("Assistant is typing..."))
	}
	if s.listening {
		lines = append(lines, theme.Selected.Render("● Listening..."))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw)
	var field string
	if s.attaching {
		field = box.Render(theme.Hint.Render("Attach a file from "+s.picker.CurrentDirectory) + "\n" + s.picker.View())
	} else {
		s.input.SetWidth(cw - 4)
		field = box.Render(s.input.View())
	}
	footer := []string{
		renderQuickReplies(s.quickFocus, s.quickIdx),
		"",
		field,
	}
	if s.errMsg != "" {
		footer = append([]string{lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)}, footer...)
	}
	bottom := strings.Join(footer, "\n")

	// Keep the newest messages that fit above the input.
	room := max(height-lipgloss.Height(bottom)-1, 1)
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	transcript := lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))

	body := lipgloss.JoinVertical(lipgloss.Left, transcript, bottom)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func renderMessage(m chat.Message, cw, bubbleWidth int) string {
	if m.Role == chat.RoleUser {
		bubble := theme.UserBubble.Width(min(lipgloss.Width(m.Content)+2, bubbleWidth)).Render(m.Content)
		return lipgloss.PlaceHorizontal(cw, lipgloss.Right, bubble)
	}
	label := "Assistant"
	if m.Origin == chat.OriginLLM {
		label = "Assistant · AI"
	}
	return theme.Hint.Render(label) + "\n" + theme.BotBubble.Width(bubbleWidth).Render(m.Content)
}

func renderQuickReplies(focused bool, idx int) string {
	parts := make([]string, 0, len(chat.QuickReplies))
	for i, q := range chat.QuickReplies {
		if focused && i == idx {
			parts = append(parts, theme.ButtonActive.Render(q.Label))
		} else {
			parts = append(parts, theme.ButtonInactive.Render(q.Label))
		}
	}
	return strings.Join(parts, " ")
}
