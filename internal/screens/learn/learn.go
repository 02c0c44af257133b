// Package learn is the video feed: narrated sentences with word highlighting,
// swipe navigation and speed control.
package learn

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/lumenlearn/lumen/internal/library"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/playback"
	"github.com/lumenlearn/lumen/internal/screen"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/lumenlearn/lumen/internal/ui/layout"
)

// DefaultSwipeThreshold is the drag distance in rows that counts as a swipe.
const DefaultSwipeThreshold = 3

// Options configures a LearnScreen.
type Options struct {
	Deck           *library.Deck
	Timing         playback.Timing
	Speed          playback.Speed
	Autoplay       bool
	SwipeThreshold int
	Narrator       playback.Narrator
	EventRepo      store.EventRepo
	Logger         *logger.Logger
	Now            func() time.Time
}

// LearnScreen hosts a playback.Sequencer inside the Bubble Tea loop. Wakes
// become tea.Tick commands; remounting bumps timer generations so ticks from
// an earlier visit are dropped.
type LearnScreen struct {
	seq       *playback.Sequencer
	repo      store.EventRepo
	log       *logger.Logger
	now       func() time.Time
	speed     playback.Speed
	autoplay  bool
	threshold int

	// schedule turns a wake into a command. Tests replace it to capture
	// wakes instead of sleeping.
	schedule func(playback.Wake) tea.Cmd

	completed []int

	sessionID     string
	viewVideo     int
	viewStart     time.Time
	viewCompleted bool

	dragging bool
	dragY    int
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.Leaver = (*LearnScreen)(nil)

// New creates a LearnScreen. It fails when the deck or timing is invalid.
func New(opts Options) (*LearnScreen, error) {
	s := &LearnScreen{
		repo:      opts.EventRepo,
		log:       opts.Logger,
		now:       opts.Now,
		speed:     opts.Speed,
		autoplay:  opts.Autoplay,
		threshold: opts.SwipeThreshold,
		schedule:  tickCmd,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.threshold <= 0 {
		s.threshold = DefaultSwipeThreshold
	}
	if !s.speed.Valid() {
		s.speed = playback.Speeds[0]
	}

	seqOpts := []playback.Option{
		playback.WithNarrator(opts.Narrator),
		playback.WithLogger(s.log),
		playback.WithCompletionHook(func(video int) {
			s.completed = append(s.completed, video)
		}),
	}
	if opts.Timing != (playback.Timing{}) {
		seqOpts = append(seqOpts, playback.WithTiming(opts.Timing))
	}
	seq, err := playback.New(opts.Deck, seqOpts...)
	if err != nil {
		return nil, err
	}
	s.seq = seq
	return s, nil
}

func tickCmd(w playback.Wake) tea.Cmd {
	return tea.Tick(w.After, func(time.Time) tea.Msg { return wakeMsg(w) })
}

// Init mounts the sequencer and starts a new viewing session.
func (s *LearnScreen) Init() tea.Cmd {
	if s.seq.State().Mounted {
		return nil
	}
	s.sessionID = uuid.NewString()
	s.completed = nil
	s.dragging = false

	wakes := s.seq.Mount(s.autoplay)
	if s.speed != playback.Speeds[0] {
		more, err := s.seq.SetSpeed(s.speed)
		if err == nil {
			wakes = append(wakes, more...)
		}
	}
	s.viewVideo = s.seq.State().Video
	s.viewStart = s.now()
	s.viewCompleted = false
	s.log.Debug("learn mounted", "session", s.sessionID, "speed", s.speed.String())
	return s.apply(wakes)
}

// Leave records the video being watched and unmounts the sequencer.
func (s *LearnScreen) Leave() tea.Cmd {
	if !s.seq.State().Mounted {
		return nil
	}
	cmd := s.recordView()
	s.seq.Unmount()
	s.speed = s.seq.State().Speed
	return cmd
}

func (s *LearnScreen) Title() string {
	return "Learn"
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	play := "Pause"
	if !s.seq.State().Playing {
		play = "Play"
	}
	return []layout.KeyHint{
		{Key: "Space", Description: play},
		{Key: "↑/↓", Description: "Next/Prev"},
		{Key: "s", Description: "Speed"},
		{Key: "Tab", Description: "Switch tab"},
	}
}

// State returns the current playback state.
func (s *LearnScreen) State() playback.State {
	return s.seq.State()
}

// SessionID identifies the current mount.
func (s *LearnScreen) SessionID() string {
	return s.sessionID
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case wakeMsg:
		return s, s.apply(s.seq.Fire(msg.Timer, msg.Gen))

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)

	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			s.dragging = true
			s.dragY = msg.Y
		}

	case tea.MouseReleaseMsg:
		if !s.dragging {
			return s, nil
		}
		s.dragging = false
		dir := playback.DetectSwipe(s.dragY, msg.Y, s.threshold)
		if dir == playback.NoSwipe {
			return s, s.apply(s.seq.TogglePlay())
		}
		return s, s.apply(s.seq.Swipe(dir))

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelDown:
			return s, s.apply(s.seq.Swipe(playback.SwipeUp))
		case tea.MouseWheelUp:
			return s, s.apply(s.seq.Swipe(playback.SwipeDown))
		}
	}
	return s, nil
}

func (s *LearnScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if !s.seq.State().Mounted {
		return nil
	}
	switch msg.String() {
	case "space", " ", "p":
		return s.apply(s.seq.TogglePlay())
	case "up", "k":
		return s.apply(s.seq.Swipe(playback.SwipeUp))
	case "down", "j":
		return s.apply(s.seq.Swipe(playback.SwipeDown))
	case "s":
		return s.setSpeed(s.seq.State().Speed.Next())
	case "+", "=":
		return s.setSpeed(stepSpeed(s.seq.State().Speed, 1))
	case "-":
		return s.setSpeed(stepSpeed(s.seq.State().Speed, -1))
	}
	return nil
}

func (s *LearnScreen) setSpeed(sp playback.Speed) tea.Cmd {
	wakes, err := s.seq.SetSpeed(sp)
	if err != nil {
		s.log.Debug("speed rejected", "speed", sp.String(), "error", err)
		return nil
	}
	s.speed = sp
	return s.apply(wakes)
}

// stepSpeed moves delta positions through Speeds without wrapping.
func stepSpeed(cur playback.Speed, delta int) playback.Speed {
	for i, v := range playback.Speeds {
		if v == cur {
			j := min(max(i+delta, 0), len(playback.Speeds)-1)
			return playback.Speeds[j]
		}
	}
	return playback.Speeds[0]
}

// apply schedules wakes and reacts to completions and video changes caused by
// the last sequencer call.
func (s *LearnScreen) apply(wakes []playback.Wake) tea.Cmd {
	var cmds []tea.Cmd
	for _, w := range wakes {
		cmds = append(cmds, s.schedule(w))
	}

	deck := s.seq.Deck()
	for _, v := range s.completed {
		if v == s.viewVideo {
			s.viewCompleted = true
		}
		viewed := screen.VideoViewedMsg{Video: v, Title: deck.Video(v).Title}
		cmds = append(cmds, func() tea.Msg { return viewed })
	}
	s.completed = s.completed[:0]

	if st := s.seq.State(); st.Mounted && st.Video != s.viewVideo {
		cmds = append(cmds, s.recordView())
		s.viewVideo = st.Video
		s.viewStart = s.now()
		s.viewCompleted = false
	}
	return tea.Batch(cmds...)
}

// recordView persists the time spent on the current video.
func (s *LearnScreen) recordView() tea.Cmd {
	if s.repo == nil {
		return nil
	}
	elapsed := s.now().Sub(s.viewStart)
	if elapsed <= 0 {
		return nil
	}
	v := s.seq.Deck().Video(s.viewVideo)
	data := store.ViewEventData{
		SessionID:  s.sessionID,
		VideoIndex: s.viewVideo,
		Title:      v.Title,
		Source:     v.Source,
		Duration:   elapsed,
		Speed:      float64(s.seq.State().Speed),
		Completed:  s.viewCompleted,
	}
	repo, log := s.repo, s.log
	return func() tea.Msg {
		if err := repo.AppendView(context.Background(), data); err != nil {
			log.Warn("record view failed", "video", data.VideoIndex, "error", err)
		}
		return nil
	}
}
