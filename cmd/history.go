package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent learning activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.EventRepo().History(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		var rows [][]string
		for _, e := range entries {
			if kind != "" && e.Kind != kind {
				continue
			}
			rows = append(rows, []string{strconv.FormatInt(e.Sequence, 10), formatTime(e.Timestamp), e.Kind, e.Detail})
		}

		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintln(out, "No activity recorded yet.")
			return nil
		}
		printTable(out, []column{{"#", right}, {"Time", left}, {"Kind", left}, {"Detail", left}}, rows, nil)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyCmd.Flags().StringP("kind", "k", "", "Only show one kind (view, quiz, chat, upload)")
}
