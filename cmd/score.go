package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbridge/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <english> <translation>",
	Short: "Score the cultural distance of one word pair",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := pairFromFlags(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		r := scoring.ScoreClear(p)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s → %s\n", p.English, p.Translation)
		printResult(out, r)
		return nil
	},
}

var scoreGroupCmd = &cobra.Command{
	Use:   "group <english=translation>...",
	Short: "Score a fuzzy group of word pairs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs := make([]scoring.Pair, 0, len(args))
		for _, arg := range args {
			en, tr, ok := strings.Cut(arg, "=")
			if !ok || en == "" || tr == "" {
				return fmt.Errorf("invalid pair %q: want english=translation", arg)
			}
			pairs = append(pairs, scoring.Pair{English: en, Translation: tr})
		}

		g, err := scoring.ScoreFuzzyGroup(pairs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-12s  %8s  %s\n", "English", "Translation", "Distance", "Difficulty")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for i, r := range g.Pairs {
			fmt.Fprintf(out, "%-20s  %-12s  %8.3f  %s\n",
				truncate(pairs[i].English, 20), pairs[i].Translation, r.Total, r.Difficulty)
		}
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintf(out, "Average   %.3f\n", g.Average)
		fmt.Fprintf(out, "Std dev   %.3f\n", g.StdDev)
		fmt.Fprintf(out, "Adjusted  %.3f (%s)\n", g.Adjusted, g.Difficulty)
		return nil
	},
}

func pairFromFlags(cmd *cobra.Command, english, translation string) (scoring.Pair, error) {
	p := scoring.Pair{English: english, Translation: translation}
	if cmd.Flags().Changed("meaning") {
		m, _ := cmd.Flags().GetFloat64("meaning")
		if m < 0 || m > 1 {
			return p, fmt.Errorf("--meaning must be in [0,1], got %v", m)
		}
		p.Meaning = &m
	}
	p.Strokes, _ = cmd.Flags().GetInt("strokes")
	return p, nil
}

func printResult(w io.Writer, r scoring.Result) {
	fmt.Fprintf(w, "Meaning        %.3f\n", r.Meaning)
	fmt.Fprintf(w, "Visual         %.3f\n", r.Visual)
	fmt.Fprintf(w, "Pronunciation  %.3f\n", r.Pronunciation)
	fmt.Fprintf(w, "Total          %.3f (%s)\n", r.Total, r.Difficulty)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	scoreCmd.Flags().Float64("meaning", scoring.DirectMeaning, "Meaning distance in [0,1]")
	scoreCmd.Flags().Int("strokes", 0, "Known stroke count of the translation")
	scoreCmd.AddCommand(scoreGroupCmd)
}
