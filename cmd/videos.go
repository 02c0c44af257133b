package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lumenlearn/lumen/internal/library"
	"github.com/spf13/cobra"
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List the videos in the lesson deck",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		deck, err := loadDeck(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if export, _ := cmd.Flags().GetBool("yaml"); export {
			data, err := library.Marshal(deck)
			if err != nil {
				return fmt.Errorf("encode deck: %w", err)
			}
			_, err = out.Write(data)
			return err
		}

		if deck.Name != "" {
			fmt.Fprintln(out, deck.Name)
		}
		if sources := deck.Sources(); len(sources) > 0 {
			fmt.Fprintf(out, "Sources: %s\n", strings.Join(sources, ", "))
		}
		wordBase := cfg.Timing().WordBase
		var rows [][]string
		var words int
		var total time.Duration
		for i, v := range deck.Videos {
			n := v.WordCount()
			length := time.Duration(n) * wordBase
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				v.Title,
				v.Source,
				v.Page,
				strconv.Itoa(len(v.Sentences)),
				strconv.Itoa(n),
				formatDuration(length),
			})
			words += n
			total += length
		}
		printTable(out, []column{
			{"#", right}, {"Title", left}, {"Source", left}, {"Page", left},
			{"Sentences", right}, {"Words", right}, {"Length", right},
		}, rows, []string{"", fmt.Sprintf("%d videos", deck.Len()), "", "", "", strconv.Itoa(words), formatDuration(total)})
		return nil
	},
}

func init() {
	videosCmd.Flags().Bool("yaml", false, "Print the deck as YAML instead of a table")
}
