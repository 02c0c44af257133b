package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lumenlearn/lumen/internal/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.EventRepo()
		sum, err := repo.Summary(ctx)
		if err != nil {
			return fmt.Errorf("query summary: %w", err)
		}
		overview, err := stats.Load(ctx, repo, time.Now())
		if err != nil {
			return fmt.Errorf("load activity: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Totals")
		printTable(out, []column{{"Metric", left}, {"Value", right}}, [][]string{
			{"Videos viewed", strconv.Itoa(sum.Views)},
			{"Videos completed", strconv.Itoa(sum.Completed)},
			{"Watch time", formatDuration(sum.WatchTime)},
			{"Quiz answers", fmt.Sprintf("%d/%d correct", sum.QuizCorrect, sum.QuizAnswered)},
			{"Chat messages", strconv.Itoa(sum.ChatMessages)},
			{"Uploads", strconv.Itoa(sum.Uploads)},
			{"LLM requests", strconv.Itoa(sum.LLMRequests)},
			{"First activity", formatTime(sum.FirstActivity)},
		}, nil)

		fmt.Fprintln(out)
		fmt.Fprintf(out, "This week (%d/7 days active)\n", overview.ActiveThisWeek())
		var rows [][]string
		var minutes, videos int
		for _, d := range overview.Week.Days {
			rows = append(rows, []string{
				d.Date.Format("Mon Jan 2"),
				strconv.Itoa(d.Minutes()),
				strconv.Itoa(d.Videos),
				strings.Join(d.Subjects, ", "),
			})
			minutes += d.Minutes()
			videos += d.Videos
		}
		printTable(out, []column{{"Day", left}, {"Minutes", right}, {"Videos", right}, {"Subjects", left}},
			rows, []string{"Total", strconv.Itoa(minutes), strconv.Itoa(videos), ""})

		if months, _ := cmd.Flags().GetBool("months"); months {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Last %d months (%d of %d days active)\n",
				stats.MonthsShown, overview.ActiveInMonths(), overview.TotalDays())
			rows = rows[:0]
			for _, m := range overview.Months {
				var watched time.Duration
				for _, d := range m.Days {
					watched += d.Watched
				}
				rows = append(rows, []string{
					m.Start.Format("Jan 2006"),
					fmt.Sprintf("%d/%d", stats.ActiveDays(m.Days), len(m.Days)),
					formatDuration(watched),
				})
			}
			printTable(out, []column{{"Month", left}, {"Active days", right}, {"Watched", right}}, rows, nil)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("months", false, "Also show the last months of activity")
}
