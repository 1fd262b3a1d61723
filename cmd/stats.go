package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbridge/internal/concept"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		st, err := e.store.Stats().Load(ctx)
		if err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}
		counts, err := e.store.Concepts().Count(ctx)
		if err != nil {
			return fmt.Errorf("count concepts: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Concepts learned:  %d (easy %d, medium %d, hard %d)\n",
			st.ConceptsLearned, st.ByDifficulty.Easy, st.ByDifficulty.Medium, st.ByDifficulty.Hard)
		fmt.Fprintf(out, "Sessions:          %d\n", st.Sessions)
		fmt.Fprintf(out, "Accuracy:          %.0f%%\n", st.AverageAccuracy*100)
		fmt.Fprintf(out, "Current streak:    %d day(s)\n", st.CurrentStreak)
		fmt.Fprintf(out, "Time spent:        %s\n", formatDuration(time.Duration(st.LearningMinutes*float64(time.Minute))))

		if len(counts) == 0 {
			fmt.Fprintln(out, "\nNo vocabulary imported yet.")
			return nil
		}

		sources := make([]concept.Source, 0, len(counts))
		for s := range counts {
			sources = append(sources, s)
		}
		slices.Sort(sources)

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-20s  %8s\n", "Source", "Concepts")
		fmt.Fprintln(out, strings.Repeat("─", 30))
		for _, s := range sources {
			fmt.Fprintf(out, "%-20s  %8d\n", s, counts[s])
		}
		return nil
	},
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if h := int(d.Hours()); h > 0 {
		return fmt.Sprintf("%dh %dm", h, int(d.Minutes())%60)
	}
	if m := int(d.Minutes()); m > 0 {
		return fmt.Sprintf("%dm %ds", m, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
