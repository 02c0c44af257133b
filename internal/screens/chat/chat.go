// Package chat is the assistant conversation tab.
package chat

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"charm.land/bubbles/v2/filepicker"
	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/chat"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/components"
	"github.com/lumenlearn/lumen/internal/ui/layout"
)

// replyMsg carries the assistant's answer for one conversation.
type replyMsg struct {
	ConversationID string
	Content        string
	Origin         chat.Origin
	Err            error
}

// voiceMsg ends a simulated voice recording.
type voiceMsg struct {
	ConversationID string
}

// ChatScreen shows the transcript, an input line and quick replies.
type ChatScreen struct {
	assistant *chat.Assistant
	repo      store.EventRepo
	log       *logger.Logger
	now       func() time.Time
	delay     time.Duration

	conv   *chat.Conversation
	input  components.TextInput
	typing bool
	errMsg string

	quickFocus bool
	quickIdx   int

	picker     filepicker.Model
	attaching  bool
	listening  bool
	voiceDelay time.Duration
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.InputCapturer = (*ChatScreen)(nil)

// New creates a chat screen. repo may be nil.
func New(assistant *chat.Assistant, repo store.EventRepo, log *logger.Logger) *ChatScreen {
	if log == nil {
		log = logger.Nop()
	}
	if assistant == nil {
		assistant = chat.NewAssistant(nil, log)
	}
	startDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		startDir = home
	}
	fp := filepicker.New()
	fp.AllowedTypes = chat.AttachmentTypes
	fp.CurrentDirectory = startDir
	fp.AutoHeight = false
	fp.ShowPermissions = false
	fp.Cursor = "▸"
	fp.SetHeight(6)

	return &ChatScreen{
		assistant:  assistant,
		repo:       repo,
		log:        log,
		now:        time.Now,
		delay:      chat.ReplyDelay,
		conv:       chat.NewConversation(time.Now()),
		input:      components.NewTextInput("Type your message...", 500),
		picker:     fp,
		voiceDelay: chat.VoiceDelay,
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Chat"
}

// CapturesInput is true while the text field has focus.
func (s *ChatScreen) CapturesInput() bool {
	return !s.quickFocus
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	if s.attaching {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Browse"},
			{Key: "Enter", Description: "Attach"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if s.quickFocus {
		return []layout.KeyHint{
			{Key: "←→", Description: "Choose"},
			{Key: "Enter", Description: "Send"},
			{Key: "↓", Description: "Back to input"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "↑", Description: "Quick replies"},
		{Key: "Ctrl+O", Description: "Attach"},
		{Key: "Ctrl+R", Description: "Voice"},
		{Key: "Tab", Description: "Switch tab"},
	}
}

// Conversation returns the transcript.
func (s *ChatScreen) Conversation() *chat.Conversation {
	return s.conv
}

// Typing reports whether a reply is pending.
func (s *ChatScreen) Typing() bool {
	return s.typing
}

// Attaching reports whether the attachment picker is open.
func (s *ChatScreen) Attaching() bool {
	return s.attaching
}

// Listening reports whether simulated voice input is recording.
func (s *ChatScreen) Listening() bool {
	return s.listening
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		return s, s.handleReply(msg)
	case voiceMsg:
		if msg.ConversationID != s.conv.ID || !s.listening {
			return s, nil
		}
		s.listening = false
		return s, s.send(chat.VoiceTranscript)
	case tea.KeyPressMsg:
		if s.attaching {
			return s, s.handleAttachKey(msg)
		}
		return s, s.handleKey(msg)
	}

	if s.attaching {
		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.quickFocus {
		switch msg.String() {
		case "left", "h":
			s.quickIdx = (s.quickIdx - 1 + len(chat.QuickReplies)) % len(chat.QuickReplies)
		case "right", "l":
			s.quickIdx = (s.quickIdx + 1) % len(chat.QuickReplies)
		case "down", "esc":
			s.quickFocus = false
			return s.input.Model.Focus()
		case "enter", "space":
			s.quickFocus = false
			return tea.Batch(s.input.Model.Focus(), s.send(chat.QuickReplies[s.quickIdx].Message))
		}
		return nil
	}

	switch msg.String() {
	case "enter":
		if s.typing {
			return nil
		}
		return s.send(s.input.Take())
	case "up":
		s.quickFocus = true
		s.input.Model.Blur()
		return nil
	case "ctrl+o":
		if s.typing || s.listening {
			return nil
		}
		s.attaching = true
		s.input.Model.Blur()
		return s.picker.Init()
	case "ctrl+r":
		if s.typing || s.listening {
			return nil
		}
		s.listening = true
		id := s.conv.ID
		return tea.Tick(s.voiceDelay, func(time.Time) tea.Msg {
			return voiceMsg{ConversationID: id}
		})
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *ChatScreen) handleAttachKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "esc" {
		s.attaching = false
		return s.input.Model.Focus()
	}
	var cmd tea.Cmd
	s.picker, cmd = s.picker.Update(msg)
	if ok, path := s.picker.DidSelectFile(msg); ok {
		return tea.Batch(cmd, s.attach(path))
	}
	return cmd
}

// attach closes the picker and posts the file name as a user message.
func (s *ChatScreen) attach(path string) tea.Cmd {
	s.attaching = false
	return tea.Batch(s.input.Model.Focus(), s.send(chat.AttachmentMessage(filepath.Base(path))))
}

// send appends the user message and schedules the assistant's reply.
func (s *ChatScreen) send(text string) tea.Cmd {
	if text == "" || s.typing {
		return nil
	}
	s.errMsg = ""
	s.conv.Add(chat.Message{Role: chat.RoleUser, Content: text, At: s.now()})
	s.typing = true

	return tea.Batch(
		s.persist(store.ChatEventData{
			ConversationID: s.conv.ID,
			Role:           string(chat.RoleUser),
			Content:        text,
		}),
		s.replyCmd(),
	)
}

// replyCmd asks the assistant on a copy of the transcript and holds the
// answer back until the typing delay has passed.
func (s *ChatScreen) replyCmd() tea.Cmd {
	snapshot := &chat.Conversation{ID: s.conv.ID, Messages: slices.Clone(s.conv.Messages)}
	assistant, delay := s.assistant, s.delay
	return func() tea.Msg {
		start := time.Now()
		content, origin, err := assistant.Reply(context.Background(), snapshot)
		if wait := delay - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
		return replyMsg{ConversationID: snapshot.ID, Content: content, Origin: origin, Err: err}
	}
}

func (s *ChatScreen) handleReply(msg replyMsg) tea.Cmd {
	if msg.ConversationID != s.conv.ID {
		return nil
	}
	s.typing = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return nil
	}
	s.conv.Add(chat.Message{Role: chat.RoleAssistant, Content: msg.Content, Origin: msg.Origin, At: s.now()})
	return s.persist(store.ChatEventData{
		ConversationID: s.conv.ID,
		Role:           string(chat.RoleAssistant),
		Content:        msg.Content,
		Origin:         string(msg.Origin),
	})
}

func (s *ChatScreen) persist(data store.ChatEventData) tea.Cmd {
	if s.repo == nil {
		return nil
	}
	repo, log := s.repo, s.log
	return func() tea.Msg {
		if err := repo.AppendChat(context.Background(), data); err != nil {
			log.Warn("record chat message failed", "conversation", data.ConversationID, "error", err)
		}
		return nil
	}
}
