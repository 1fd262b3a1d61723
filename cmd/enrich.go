package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbridge/internal/enrich"
	"github.com/abhisek/wordbridge/internal/llm"
	"github.com/abhisek/wordbridge/internal/store"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fill missing definitions and examples with an LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		provider, err := llm.New(ctx, e.cfg.LLMConfig(), e.store.EventRepo(), e.logger.Named("llm"))
		if err != nil {
			return fmt.Errorf("create LLM provider: %w", err)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		en := &enrich.Enricher{
			Provider: provider,
			Store:    e.store.Concepts(),
			Logger:   e.logger.Named("enrich"),
		}
		res, err := en.Run(ctx, limit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d of %d concepts (%d failed) with %s\n",
			res.Enriched, res.Candidates, res.Failed, provider.ModelID())
		return nil
	},
}

var enrichHistoryCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List recorded LLM requests, or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ID %q: %w", args[0], err)
			}
			return showEvent(cmd, e.store.EventRepo(), id)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		return listEvents(cmd, e.store.EventRepo(), store.QueryOpts{Limit: limit, Purpose: purpose})
	},
}

var enrichUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show aggregated LLM token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		stats, err := e.store.EventRepo().LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		rule := strings.Repeat("─", 72)
		fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Fprintln(out, rule)

		var totalCalls, totalIn, totalOut int
		for _, st := range stats {
			fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
				st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)
		return nil
	},
}

func listEvents(cmd *cobra.Command, repo store.EventRepo, opts store.QueryOpts) error {
	events, err := repo.QueryLLMEvents(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM events found.")
		return nil
	}

	fmt.Fprintf(out, "%-5s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(out, strings.Repeat("─", 100))
	for _, ev := range events {
		ok := "✓"
		if !ev.Success {
			ok = "✗"
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
			ev.ID,
			ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
			ev.Purpose,
			truncate(ev.Model, 28),
			ev.InputTokens,
			ev.OutputTokens,
			ev.LatencyMs,
			ok,
		)
	}
	return nil
}

func showEvent(cmd *cobra.Command, repo store.EventRepo, id int) error {
	ev, err := repo.GetLLMEvent(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if ev == nil {
		return fmt.Errorf("event %d not found", id)
	}

	out := cmd.OutOrStdout()
	sep := strings.Repeat("─", 60)
	fmt.Fprintf(out, "ID:        %d\n", ev.ID)
	fmt.Fprintf(out, "Time:      %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Provider:  %s\n", ev.Provider)
	fmt.Fprintf(out, "Model:     %s\n", ev.Model)
	fmt.Fprintf(out, "Purpose:   %s\n", ev.Purpose)
	fmt.Fprintf(out, "Tokens:    %d in / %d out\n", ev.InputTokens, ev.OutputTokens)
	fmt.Fprintf(out, "Latency:   %dms\n", ev.LatencyMs)
	fmt.Fprintf(out, "Success:   %v\n", ev.Success)
	if ev.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:     %s\n", ev.ErrorMessage)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", ev.RequestBody},
		{"RESPONSE", ev.ResponseBody},
	} {
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, part.title)
		fmt.Fprintln(out, sep)
		if part.body == "" {
			fmt.Fprintln(out, "(not captured)")
			continue
		}
		fmt.Fprintln(out, part.body)
	}
	return nil
}

func init() {
	enrichCmd.Flags().Int("limit", 50, "Maximum concepts to enrich (0 = all)")

	enrichHistoryCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	enrichHistoryCmd.Flags().StringP("purpose", "p", "", "Filter by purpose")

	enrichCmd.AddCommand(enrichHistoryCmd)
	enrichCmd.AddCommand(enrichUsageCmd)
}
