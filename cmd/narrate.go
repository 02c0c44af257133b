package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/library"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/narration"
	"github.com/lumenlearn/lumen/internal/playback"
	"github.com/lumenlearn/lumen/internal/ui/theme"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Play the deck in the terminal without the TUI",
	Long: "narrate plays the lesson deck headlessly, printing each word as it is\n" +
		"narrated. On a terminal, type a command and press Enter to control\n" +
		"playback: p (or empty) pause/resume, n next video, b previous video,\n" +
		"s cycle speed, q quit.",
	RunE: runNarrate,
}

func init() {
	narrateCmd.Flags().String("speed", "", "Start speed (1, 1.25, 1.5 or 2; default from config)")
	narrateCmd.Flags().Int("videos", 1, "Stop after this many videos (0 plays forever)")
	narrateCmd.Flags().Bool("dry-run", false, "Replay on a virtual clock without sleeping or speaking")
	narrateCmd.Flags().Bool("silent", false, "Do not start a speech engine")
}

func runNarrate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	deck, err := loadDeck(cfg)
	if err != nil {
		return err
	}

	speed := cfg.StartSpeed()
	if v, _ := cmd.Flags().GetString("speed"); v != "" {
		if speed, err = playback.ParseSpeed(v); err != nil {
			return err
		}
	}
	limit, _ := cmd.Flags().GetInt("videos")
	if limit < 0 {
		return fmt.Errorf("--videos must not be negative, got %d", limit)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	silent, _ := cmd.Flags().GetBool("silent")

	log := logger.Nop()
	if !dryRun {
		if log, err = openLogger(cfg); err != nil {
			return err
		}
		defer log.Sync()
	}

	recorder := &narration.Recorder{}
	var narrator playback.Narrator = recorder
	if !dryRun && !silent {
		engine, err := narration.Resolve(cfg.Narration.Engine, cfg.Narration.Voice, log)
		if err != nil {
			return err
		}
		narrator = narration.Tee{engine, recorder}
	}

	seq, err := playback.New(deck,
		playback.WithTiming(cfg.Timing()),
		playback.WithNarrator(narrator),
		playback.WithLogger(log),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var clock playback.Clock = playback.RealClock{}
	if dryRun {
		clock = playback.NewVirtualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	}

	out := cmd.OutOrStdout()
	h := &narrateHost{
		seq:     seq,
		deck:    deck,
		printer: &wordPrinter{out: out, deck: deck, offsets: dryRun},
		speed:   speed,
		limit:   limit,
	}
	opts := []playback.RunnerOption{
		playback.WithClock(clock),
		playback.WithFrame(h.frame),
		playback.WithStop(h.done),
	}
	if !dryRun && isTerminal(os.Stdin) {
		opts = append(opts, playback.WithInput(readCommands(ctx, os.Stdin, h, cancel)))
	}
	h.runner = playback.NewRunner(seq, opts...)

	err = h.runner.Run(ctx, true)
	h.printer.end()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	spoken := len(recorder.Utterances())
	fmt.Fprintf(out, "\nPlayed %d %s, started narration %d %s.\n",
		h.played, plural(h.played, "video"), spoken, plural(spoken, "time"))
	return nil
}

// narrateHost keeps a headless session going: when playback stops on its own
// it resumes the next video until the limit is reached.
type narrateHost struct {
	runner  *playback.Runner
	seq     *playback.Sequencer
	deck    *library.Deck
	printer *wordPrinter

	speed    playback.Speed
	speedSet bool
	limit    int
	played   int
	paused   bool
	prev     playback.State
}

func (h *narrateHost) frame(s playback.State, now time.Time) {
	if !h.speedSet {
		h.speedSet = true
		if h.speed != s.Speed {
			wakes, _ := h.seq.SetSpeed(h.speed)
			h.runner.Schedule(wakes)
			s = h.seq.State()
		}
	}

	h.printer.frame(s, now)
	if s.Playing {
		h.paused = false
	}
	if h.prev.Playing && !s.Playing && !h.paused {
		h.played++
		if h.limit == 0 || h.played < h.limit {
			if s.Video != h.prev.Video {
				h.runner.Schedule(h.seq.SetPlaying(true))
				s = h.seq.State()
				h.printer.frame(s, now)
			} else {
				h.runner.Schedule(h.seq.Swipe(playback.SwipeUp))
			}
		}
	}
	h.prev = s
}

func (h *narrateHost) done(playback.State) bool {
	return h.limit > 0 && h.played >= h.limit
}

func (h *narrateHost) toggle(seq *playback.Sequencer) []playback.Wake {
	wakes := seq.TogglePlay()
	h.paused = !seq.State().Playing
	if h.paused {
		h.printer.pause()
	}
	return wakes
}

// readCommands turns lines typed on r into playback commands. q cancels the
// session.
func readCommands(ctx context.Context, r io.Reader, h *narrateHost, quit context.CancelFunc) <-chan playback.Command {
	ch := make(chan playback.Command)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			var c playback.Command
			switch strings.ToLower(strings.TrimSpace(sc.Text())) {
			case "", "p":
				c = h.toggle
			case "n", "j":
				c = func(s *playback.Sequencer) []playback.Wake { return s.Swipe(playback.SwipeUp) }
			case "b", "k":
				c = func(s *playback.Sequencer) []playback.Wake { return s.Swipe(playback.SwipeDown) }
			case "s":
				c = func(s *playback.Sequencer) []playback.Wake {
					wakes, _ := s.SetSpeed(s.State().Speed.Next())
					return wakes
				}
			case "q":
				quit()
				return
			default:
				continue
			}
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// wordPrinter writes each narrated word once, one sentence per line.
type wordPrinter struct {
	out     io.Writer
	deck    *library.Deck
	offsets bool

	started bool
	start   time.Time
	video   int
	sent    int
	word    int
	open    bool
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	speedStyle  = lipgloss.NewStyle().Foreground(theme.Secondary)
)

func (p *wordPrinter) frame(s playback.State, now time.Time) {
	if !p.started {
		p.start = now
	}
	if !s.Playing {
		return
	}
	newVideo := !p.started || s.Video != p.video
	newSentence := newVideo || s.Sentence != p.sent
	if !newSentence && s.Word == p.word {
		return
	}

	if newVideo {
		p.end()
		v := p.deck.Video(s.Video)
		if p.started {
			fmt.Fprintln(p.out)
		}
		lipgloss.Fprintln(p.out, headerStyle.Render(fmt.Sprintf("▶ %d/%d %s", s.Video+1, p.deck.Len(), v.Title))+
			theme.Hint.Render(fmt.Sprintf("  %s · %s", v.Source, v.Page))+
			speedStyle.Render("  "+s.Speed.String()))
	}
	if newSentence {
		p.end()
		if p.offsets {
			lipgloss.Fprint(p.out, theme.Hint.Render(fmt.Sprintf("[+%5.1fs] ", now.Sub(p.start).Seconds())))
		}
		p.open = true
	} else {
		fmt.Fprint(p.out, " ")
	}

	words := p.deck.Video(s.Video).SentenceAt(s.Sentence).Words()
	if s.Word < len(words) {
		lipgloss.Fprint(p.out, theme.Said.Render(words[s.Word]))
	}
	p.started = true
	p.video, p.sent, p.word = s.Video, s.Sentence, s.Word
}

func (p *wordPrinter) pause() {
	if p.open {
		lipgloss.Fprint(p.out, theme.Hint.Render(" ‖"))
	}
}

func (p *wordPrinter) end() {
	if p.open {
		fmt.Fprintln(p.out)
		p.open = false
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
