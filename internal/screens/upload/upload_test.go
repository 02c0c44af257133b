package upload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/lumen/internal/router"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/upload"
)

func setup(t *testing.T) (*UploadScreen, store.EventRepo, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.OpenPath(filepath.Join(dir, "upload.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pdf := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7\n"), 0o644))

	s := New(dir, st.EventRepo(), nil)
	s.processing = 0
	return s, st.EventRepo(), pdf
}

func press(s *UploadScreen, k string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch k {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	case "space":
		msg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "right":
		msg = tea.KeyPressMsg{Code: tea.KeyRight}
	case "down":
		msg = tea.KeyPressMsg{Code: tea.KeyDown}
	default:
		msg = tea.KeyPressMsg{Code: []rune(k)[0], Text: k}
	}
	_, cmd := s.Update(msg)
	return cmd
}

func TestPickRejectsNonPDF(t *testing.T) {
	s, _, _ := setup(t)
	bad := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o644))

	s.pick(bad)
	assert.Equal(t, upload.StagePick, s.Flow().Stage())
	assert.Contains(t, s.View(100, 40), "not a readable PDF")
}

func TestSelectPagesWithKeys(t *testing.T) {
	s, _, pdf := setup(t)
	s.pick(pdf)
	require.Equal(t, upload.StageSelect, s.Flow().Stage())
	assert.Equal(t, "Select Pages", s.Title())

	press(s, "space")
	press(s, "right")
	press(s, "down")
	press(s, "space")
	assert.Equal(t, []int{1, 6}, s.Flow().Selected())
	assert.Contains(t, s.View(100, 40), "2 pages selected")

	press(s, "a")
	assert.True(t, s.Flow().AllSelected())
	press(s, "a")
	assert.Empty(t, s.Flow().Selected())
}

func TestContinueRequiresPages(t *testing.T) {
	s, _, pdf := setup(t)
	s.pick(pdf)

	assert.Nil(t, press(s, "enter"))
	assert.Equal(t, upload.StageSelect, s.Flow().Stage())
	assert.Contains(t, s.View(100, 40), "Select at least one page")
}

func TestBackReturnsToPick(t *testing.T) {
	s, _, pdf := setup(t)
	s.pick(pdf)
	press(s, "space")

	press(s, "esc")
	assert.Equal(t, upload.StagePick, s.Flow().Stage())
	assert.Empty(t, s.Flow().Selected())
}

func TestProcessingRecordsAndSwitchesToLearn(t *testing.T) {
	s, repo, pdf := setup(t)
	s.Init()
	s.pick(pdf)
	press(s, "a")

	require.NotNil(t, press(s, "enter"))
	assert.Equal(t, upload.StageProcessing, s.Flow().Stage())
	assert.Equal(t, "Processing Content", s.Title())

	// A processed message from an earlier run is ignored.
	_, cmd := s.Update(processedMsg{gen: s.gen - 1})
	assert.Nil(t, cmd)

	_, cmd = s.Update(processedMsg{gen: s.gen})
	require.NotNil(t, cmd)
	assert.Equal(t, upload.StageDone, s.Flow().Stage())

	var msgs []tea.Msg
	for _, c := range cmd().(tea.BatchMsg) {
		if c != nil {
			msgs = append(msgs, c())
		}
	}
	assert.Contains(t, msgs, router.SwitchTabMsg{Name: router.TabLearn})

	events, err := repo.QueryUploads(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "notes.pdf", events[0].FileName)
	assert.Equal(t, upload.PageCount, events[0].SelectedPages)
	assert.Equal(t, upload.PageCount, events[0].TotalPages)

	s.Init()
	assert.Equal(t, upload.StagePick, s.Flow().Stage())
}

func TestProcessingWhileHiddenDoesNotSwitch(t *testing.T) {
	s, _, pdf := setup(t)
	s.Init()
	s.pick(pdf)
	press(s, "space")
	press(s, "enter")
	s.Leave()

	_, cmd := s.Update(processedMsg{gen: s.gen})
	require.NotNil(t, cmd)
	assert.Nil(t, cmd(), "only the upload event is recorded")
	assert.Equal(t, upload.StageDone, s.Flow().Stage())
}

func TestRecentUploadsShown(t *testing.T) {
	s, repo, _ := setup(t)
	require.NoError(t, repo.AppendUpload(context.Background(), store.UploadEventData{
		FileName: "chapter1.pdf", SelectedPages: 3, TotalPages: 12,
	}))

	msg := s.loadRecent()()
	s.Update(msg)
	out := s.View(100, 40)
	assert.Contains(t, out, "Recent uploads")
	assert.Contains(t, out, "chapter1.pdf")
}
