package cmd

import (
	"errors"
	"fmt"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/library"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Narrated learning videos in the terminal",
	Long: "lumen turns study material into short narrated lessons you swipe through,\n" +
		"with word-by-word highlighting, quick quizzes and a study assistant.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LUMEN_DB and [paths] db)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides LUMEN_CONFIG)")
	rootCmd.PersistentFlags().String("deck", "", "Path to a lesson deck YAML file (overrides LUMEN_DECK and [paths] deck)")

	rootCmd.AddCommand(narrateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file named by --config and applies the --db
// and --deck overrides on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if cfg.Paths.DB, err = config.ExpandPath(p); err != nil {
			return nil, "", err
		}
	}
	if p, _ := cmd.Flags().GetString("deck"); p != "" {
		if cfg.Paths.Deck, err = config.ExpandPath(p); err != nil {
			return nil, "", err
		}
	}
	return cfg, resolved, nil
}

// openStore opens the configured database. In-memory and file: DSNs are
// passed through untouched.
func openStore(cfg *config.Config) (*store.Store, error) {
	var (
		st  *store.Store
		err error
	)
	if isDSN(cfg.Paths.DB) {
		st, err = store.Open(cfg.Paths.DB)
	} else {
		st, err = store.OpenPath(cfg.Paths.DB)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func isDSN(p string) bool {
	return p == ":memory:" || len(p) > 5 && p[:5] == "file:"
}

func openLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level, cfg.Paths.Log)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return log, nil
}

func loadDeck(cfg *config.Config) (*library.Deck, error) {
	deck, err := library.Load(cfg.Paths.Deck)
	if err != nil {
		if errors.Is(err, library.ErrEmptyDeck) {
			return nil, fmt.Errorf("%w: add at least one video with one sentence", err)
		}
		return nil, err
	}
	return deck, nil
}
