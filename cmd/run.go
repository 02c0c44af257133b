package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/lumenlearn/lumen/internal/app"
	"github.com/lumenlearn/lumen/internal/chat"
	"github.com/lumenlearn/lumen/internal/llm"
	"github.com/lumenlearn/lumen/internal/narration"
	"github.com/lumenlearn/lumen/internal/screens/learn"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/spf13/cobra"
)

// runApp loads configuration, opens the store, builds dependencies and
// launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if !isDSN(cfg.Paths.DB) {
		lock, err := store.AcquireLock(cfg.Paths.DB)
		if err != nil {
			if errors.Is(err, store.ErrLocked) {
				return fmt.Errorf("%w (%s)", err, cfg.Paths.DB)
			}
			return err
		}
		defer lock.Release()
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	deck, err := loadDeck(cfg)
	if err != nil {
		return err
	}

	narrator, err := narration.Resolve(cfg.Narration.Engine, cfg.Narration.Voice, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Narration unavailable:", err)
		narrator = narration.Nop{}
	}

	provider, err := llm.NewProvider(ctx, cfg.LLMConfig(), eventRepo, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The assistant will answer from its built-in replies.")
		provider = nil
	}

	cwd, _ := os.Getwd()
	log.Info("starting lumen",
		"db", cfg.Paths.DB,
		"deck", cfg.Paths.Deck,
		"videos", deck.Len(),
		"llm", provider != nil,
	)

	return app.Run(app.Options{
		Learn: learn.Options{
			Deck:           deck,
			Timing:         cfg.Timing(),
			Speed:          cfg.StartSpeed(),
			Autoplay:       cfg.Playback.Autoplay,
			SwipeThreshold: cfg.Playback.SwipeThreshold,
			Narrator:       narrator,
			EventRepo:      eventRepo,
			Logger:         log,
		},
		EventRepo: eventRepo,
		Assistant: chat.NewAssistant(provider, log),
		QuizEvery: cfg.Quiz.Every,
		UploadDir: cwd,
		Logger:    log,
	})
}
