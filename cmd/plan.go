package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbridge/internal/concept"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview the next session sequence without starting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		st, err := e.store.Settings().Load(ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		count, _ := cmd.Flags().GetInt("count")
		if count <= 0 {
			count = st.DailyGoal
		}

		items, err := e.generator().Generate(ctx, st, count)
		if err != nil {
			return fmt.Errorf("generate sequence: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "Nothing to review. Import a pack or select other sources.")
			return nil
		}

		fmt.Fprintf(out, "Mode: %s, %d of %d concepts\n\n", st.Mode, len(items), count)
		fmt.Fprintf(out, "%-4s  %-28s  %-6s  %-8s  %s\n", "#", "Concept", "Kind", "Score", "Difficulty")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for i, it := range items {
			head, err := concept.Headword(it.Concept)
			if err != nil {
				return err
			}
			mark := ""
			if it.FromErrorPool {
				mark = "  ●"
			}
			fmt.Fprintf(out, "%-4d  %-28s  %-6s  %-8.3f  %s%s\n",
				i+1, truncate(head, 28), it.Concept.Kind(), it.Concept.Score(), concept.Difficulty(it.Concept), mark)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().Int("count", 0, "Concepts in the sequence (default: the daily goal)")
}
