// Package upload is the PDF upload tab: pick a file, choose pages, then wait
// while the pages are turned into videos.
package upload

import (
	"context"
	"os"
	"time"

	"charm.land/bubbles/v2/filepicker"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/layout"
	"github.com/lumenlearn/lumen/internal/ui/theme"
	"github.com/lumenlearn/lumen/internal/upload"
)

const gridColumns = 4

const recentLimit = 3

// processedMsg ends the processing stage started by run gen.
type processedMsg struct{ gen int }

// recentMsg carries the latest upload events.
type recentMsg struct {
	events []store.UploadEvent
	err    error
}

// UploadScreen drives an upload.Flow.
type UploadScreen struct {
	flow    *upload.Flow
	picker  filepicker.Model
	spinner spinner.Model
	repo    store.EventRepo
	log     *logger.Logger

	processing time.Duration
	gen        int
	visible    bool

	cursor int
	errMsg string
	recent []store.UploadEvent
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)
var _ screen.Leaver = (*UploadScreen)(nil)

// New creates the upload screen. startDir is where the file picker opens;
// empty means the home directory.
func New(startDir string, repo store.EventRepo, log *logger.Logger) *UploadScreen {
	if log == nil {
		log = logger.Nop()
	}
	if startDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		} else {
			startDir = "."
		}
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".PDF"}
	fp.CurrentDirectory = startDir
	fp.AutoHeight = false
	fp.ShowPermissions = false
	fp.Cursor = "▸"
	fp.SetHeight(8)

	return &UploadScreen{
		flow:       upload.New(),
		picker:     fp,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Selected)),
		repo:       repo,
		log:        log,
		processing: upload.ProcessingTime,
	}
}

func (s *UploadScreen) Init() tea.Cmd {
	s.visible = true
	if s.flow.Stage() == upload.StageDone {
		s.flow.Reset()
		s.cursor = 0
	}
	return tea.Batch(s.picker.Init(), s.loadRecent())
}

// Leave keeps any processing running but stops it from switching tabs.
func (s *UploadScreen) Leave() tea.Cmd {
	s.visible = false
	return nil
}

func (s *UploadScreen) Title() string {
	return s.flow.Stage().Title()
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	switch s.flow.Stage() {
	case upload.StagePick:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Browse"},
			{Key: "Enter", Description: "Open/Choose"},
			{Key: "Tab", Description: "Switch tab"},
		}
	case upload.StageSelect:
		return []layout.KeyHint{
			{Key: "←↑↓→", Description: "Move"},
			{Key: "Space", Description: "Toggle"},
			{Key: "a", Description: "Select all"},
			{Key: "Enter", Description: "Convert"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Tab", Description: "Switch tab"}}
}

// Flow exposes the underlying state machine.
func (s *UploadScreen) Flow() *upload.Flow {
	return s.flow
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recentMsg:
		if msg.err != nil {
			s.log.Warn("load recent uploads failed", "error", msg.err)
			return s, nil
		}
		s.recent = msg.events
		return s, nil

	case processedMsg:
		return s, s.handleProcessed(msg)

	case spinner.TickMsg:
		if s.flow.Stage() != upload.StageProcessing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch s.flow.Stage() {
		case upload.StageSelect:
			return s, s.handleSelectKey(msg)
		case upload.StageProcessing, upload.StageDone:
			return s, nil
		}
	}

	if s.flow.Stage() != upload.StagePick {
		return s, nil
	}
	var cmd tea.Cmd
	s.picker, cmd = s.picker.Update(msg)
	if ok, path := s.picker.DidSelectFile(msg); ok {
		s.pick(path)
	}
	return s, cmd
}

func (s *UploadScreen) pick(path string) {
	if err := s.flow.Pick(path); err != nil {
		s.errMsg = "That file is not a readable PDF."
		s.log.Debug("pdf rejected", "path", path, "error", err)
		return
	}
	s.errMsg = ""
	s.cursor = 0
}

func (s *UploadScreen) handleSelectKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		if s.cursor > 0 {
			s.cursor--
		}
	case "right", "l":
		if s.cursor < upload.PageCount-1 {
			s.cursor++
		}
	case "up", "k":
		if s.cursor >= gridColumns {
			s.cursor -= gridColumns
		}
	case "down", "j":
		if s.cursor+gridColumns < upload.PageCount {
			s.cursor += gridColumns
		}
	case "space", "x":
		s.flow.Toggle(s.cursor + 1)
		s.errMsg = ""
	case "a":
		s.flow.SelectAll()
		s.errMsg = ""
	case "esc", "backspace":
		s.flow.Back()
		s.errMsg = ""
	case "enter":
		if err := s.flow.Continue(); err != nil {
			s.errMsg = "Select at least one page to continue."
			return nil
		}
		s.errMsg = ""
		s.gen++
		gen := s.gen
		return tea.Batch(
			s.spinner.Tick,
			tea.Tick(s.processing, func(time.Time) tea.Msg { return processedMsg{gen: gen} }),
		)
	}
	return nil
}

func (s *UploadScreen) handleProcessed(msg processedMsg) tea.Cmd {
	if msg.gen != s.gen || s.flow.Stage() != upload.StageProcessing {
		return nil
	}
	if err := s.flow.Finish(); err != nil {
		return nil
	}
	data := store.UploadEventData{
		FileName:      s.flow.FileName(),
		SelectedPages: len(s.flow.Selected()),
		TotalPages:    upload.PageCount,
	}
	s.log.Info("upload processed", "file", data.FileName, "pages", data.SelectedPages)

	cmds := []tea.Cmd{s.persist(data)}
	if s.visible {
		cmds = append(cmds, router.SwitchTab(router.TabLearn))
	}
	return tea.Batch(cmds...)
}

func (s *UploadScreen) persist(data store.UploadEventData) tea.Cmd {
	if s.repo == nil {
		return nil
	}
	repo, log := s.repo, s.log
	return func() tea.Msg {
		if err := repo.AppendUpload(context.Background(), data); err != nil {
			log.Warn("record upload failed", "file", data.FileName, "error", err)
		}
		return nil
	}
}

func (s *UploadScreen) loadRecent() tea.Cmd {
	if s.repo == nil {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		events, err := repo.QueryUploads(context.Background(), store.QueryOpts{Limit: recentLimit, Newest: true})
		return recentMsg{events: events, err: err}
	}
}
