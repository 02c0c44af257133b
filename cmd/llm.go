package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/llm"
	"github.com/lumenlearn/lumen/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

// withRepo loads config, opens the store and hands its EventRepo to fn.
func withRepo(cmd *cobra.Command, fn func(store.EventRepo) error) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st.EventRepo())
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withRepo(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMRequests(cmd.Context(), store.QueryOpts{Limit: limit, Newest: true})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			var rows [][]string
			for _, e := range events {
				if purpose != "" && e.Purpose != purpose {
					continue
				}
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				rows = append(rows, []string{
					strconv.FormatInt(e.Sequence, 10),
					formatTime(e.Timestamp),
					e.Purpose,
					truncate(e.Model, 28),
					strconv.Itoa(e.InputTokens),
					strconv.Itoa(e.OutputTokens),
					strconv.FormatInt(e.LatencyMs, 10),
					ok,
				})
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No LLM events found.")
				return nil
			}
			printTable(out, []column{
				{"ID", right}, {"Timestamp", left}, {"Purpose", left}, {"Model", left},
				{"In", right}, {"Out", right}, {"Ms", right}, {"OK", left},
			}, rows, nil)
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		return withRepo(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMRequests(cmd.Context(), store.QueryOpts{After: id - 1, Before: id + 1})
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if len(events) == 0 {
				return fmt.Errorf("event %d not found", id)
			}
			printLLMEvent(cmd.OutOrStdout(), events[0])
			return nil
		})
	},
}

func printLLMEvent(w io.Writer, e store.LLMRequestEvent) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %d\n", e.Sequence)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Provider:  %s\n", e.Provider)
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	fmt.Fprintf(w, "Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, part.title)
		fmt.Fprintln(w, sep)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
		} else {
			fmt.Fprintln(w, part.body)
		}
	}
}

type usage struct {
	key       string
	calls     int
	in, out   int
	latencyMs int64
}

// aggregate groups events by key, largest token totals first.
func aggregate(events []store.LLMRequestEvent, key func(store.LLMRequestEvent) string) []usage {
	byKey := make(map[string]*usage)
	for _, e := range events {
		k := key(e)
		u, ok := byKey[k]
		if !ok {
			u = &usage{key: k}
			byKey[k] = u
		}
		u.calls++
		u.in += e.InputTokens
		u.out += e.OutputTokens
		u.latencyMs += e.LatencyMs
	}
	out := make([]usage, 0, len(byKey))
	for _, u := range byKey {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].in+out[i].out, out[j].in+out[j].out
		if ti != tj {
			return ti > tj
		}
		return out[i].key < out[j].key
	})
	return out
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(repo store.EventRepo) error {
			events, err := repo.QueryLLMRequests(cmd.Context(), store.QueryOpts{})
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No LLM usage recorded yet.")
				return nil
			}

			fmt.Fprintln(out, "Usage by Purpose")
			var rows [][]string
			var calls, in, outTok int
			for _, u := range aggregate(events, func(e store.LLMRequestEvent) string { return e.Purpose }) {
				rows = append(rows, []string{
					u.key, strconv.Itoa(u.calls), strconv.Itoa(u.in), strconv.Itoa(u.out),
					strconv.Itoa(u.in + u.out), strconv.FormatInt(u.latencyMs/int64(u.calls), 10),
				})
				calls += u.calls
				in += u.in
				outTok += u.out
			}
			printTable(out, []column{
				{"Purpose", left}, {"Calls", right}, {"Input", right}, {"Output", right}, {"Total", right}, {"Avg Ms", right},
			}, rows, []string{"TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(outTok), strconv.Itoa(in + outTok), ""})

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Estimated Cost (USD)")
			rows = rows[:0]
			var total float64
			var unknown []string
			for _, u := range aggregate(events, func(e store.LLMRequestEvent) string { return e.Model }) {
				cost := "?"
				if c, ok := llm.EstimateCost(u.key, u.in, u.out); ok {
					total += c
					cost = formatCost(c)
				} else {
					unknown = append(unknown, u.key)
				}
				rows = append(rows, []string{truncate(u.key, 32), strconv.Itoa(u.calls), strconv.Itoa(u.in), strconv.Itoa(u.out), cost})
			}
			label := "TOTAL"
			if len(unknown) > 0 {
				label = "TOTAL (partial)"
			}
			printTable(out, []column{
				{"Model", left}, {"Calls", right}, {"Input", right}, {"Output", right}, {"Cost", right},
			}, rows, []string{label, "", "", "", formatCost(total)})

			if len(unknown) > 0 {
				fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
			}
			return nil
		})
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. chat)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
