// Package upload models the pick → select → processing flow that turns a PDF
// into a lesson deck.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// PageCount is the number of pages offered for selection.
const PageCount = 12

// ProcessingTime is how long the processing stage lasts before the flow
// hands over to the Learn screen.
const ProcessingTime = 3 * time.Second

var (
	// ErrNotPDF is returned for files without a PDF header.
	ErrNotPDF = errors.New("upload: not a PDF file")
	// ErrNoPages is returned when continuing with nothing selected.
	ErrNoPages = errors.New("upload: no pages selected")
	// ErrWrongStage is returned for an operation the current stage does not
	// accept.
	ErrWrongStage = errors.New("upload: operation not valid in this stage")
)

var pdfMagic = []byte("%PDF-")

// Stage of the flow.
type Stage int

const (
	StagePick Stage = iota
	StageSelect
	StageProcessing
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePick:
		return "pick"
	case StageSelect:
		return "select"
	case StageProcessing:
		return "processing"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Title is the screen heading for the stage.
func (s Stage) Title() string {
	switch s {
	case StagePick:
		return "Upload PDF"
	case StageSelect:
		return "Select Pages"
	default:
		return "Processing Content"
	}
}

// Flow is the upload state machine. The zero value is not usable; call New.
type Flow struct {
	stage    Stage
	path     string
	selected map[int]bool
}

// New returns a flow in the pick stage.
func New() *Flow {
	return &Flow{stage: StagePick, selected: make(map[int]bool)}
}

// Stage returns the current stage.
func (f *Flow) Stage() Stage { return f.stage }

// Path returns the picked file, if any.
func (f *Flow) Path() string { return f.path }

// FileName returns the base name of the picked file.
func (f *Flow) FileName() string { return filepath.Base(f.path) }

// Pick validates path and moves to the select stage.
func (f *Flow) Pick(path string) error {
	if f.stage != StagePick {
		return ErrWrongStage
	}
	if err := ValidatePDF(path); err != nil {
		return err
	}
	f.path = path
	f.stage = StageSelect
	return nil
}

// Toggle flips the selection of page (1-based).
func (f *Flow) Toggle(page int) {
	if f.stage != StageSelect || page < 1 || page > PageCount {
		return
	}
	if f.selected[page] {
		delete(f.selected, page)
	} else {
		f.selected[page] = true
	}
}

// AllSelected reports whether every page is selected.
func (f *Flow) AllSelected() bool { return len(f.selected) == PageCount }

// SelectAll selects every page, or clears the selection when every page is
// already selected.
func (f *Flow) SelectAll() {
	if f.stage != StageSelect {
		return
	}
	if f.AllSelected() {
		clear(f.selected)
		return
	}
	for p := 1; p <= PageCount; p++ {
		f.selected[p] = true
	}
}

// IsSelected reports whether page is selected.
func (f *Flow) IsSelected(page int) bool { return f.selected[page] }

// Selected returns the selected pages in ascending order.
func (f *Flow) Selected() []int {
	out := make([]int, 0, len(f.selected))
	for p := range f.selected {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// SelectionLabel renders "N page(s) selected".
func (f *Flow) SelectionLabel() string {
	n := len(f.selected)
	if n == 1 {
		return "1 page selected"
	}
	return fmt.Sprintf("%d pages selected", n)
}

// Continue moves from select to processing. At least one page must be
// selected.
func (f *Flow) Continue() error {
	if f.stage != StageSelect {
		return ErrWrongStage
	}
	if len(f.selected) == 0 {
		return ErrNoPages
	}
	f.stage = StageProcessing
	return nil
}

// Finish ends processing.
func (f *Flow) Finish() error {
	if f.stage != StageProcessing {
		return ErrWrongStage
	}
	f.stage = StageDone
	return nil
}

// Back returns to the previous stage. It reports false from the pick stage
// and while processing.
func (f *Flow) Back() bool {
	switch f.stage {
	case StageSelect:
		f.stage = StagePick
		f.path = ""
		clear(f.selected)
		return true
	}
	return false
}

// Reset returns the flow to its initial state.
func (f *Flow) Reset() {
	f.stage = StagePick
	f.path = ""
	clear(f.selected)
}

// ValidatePDF checks that path is a regular file with a PDF header.
func ValidatePDF(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(file, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("%w: %s", ErrNotPDF, filepath.Base(path))
	}
	return nil
}
