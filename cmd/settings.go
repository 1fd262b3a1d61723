package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change session settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.store.Settings().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		printSettings(cmd.OutOrStdout(), st)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
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
		if err := applySettingsFlags(cmd, &st); err != nil {
			return err
		}
		if err := st.Validate(); err != nil {
			return err
		}
		if err := e.store.Settings().Save(ctx, st); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		printSettings(cmd.OutOrStdout(), st)
		return nil
	},
}

// applySettingsFlags copies every flag the user set onto st.
func applySettingsFlags(cmd *cobra.Command, st *settings.Settings) error {
	f := cmd.Flags()
	if f.Changed("mode") {
		v, _ := f.GetString("mode")
		m, err := settings.ParseMode(v)
		if err != nil {
			return err
		}
		st.Mode = m
	}
	if f.Changed("goal") {
		st.DailyGoal, _ = f.GetInt("goal")
	}
	if f.Changed("sources") {
		v, _ := f.GetStringSlice("sources")
		st.Sources = st.Sources[:0]
		for _, s := range v {
			st.Sources = append(st.Sources, concept.Source(strings.TrimSpace(s)))
		}
	}
	if f.Changed("easy") {
		st.Distribution.Easy, _ = f.GetFloat64("easy")
	}
	if f.Changed("medium") {
		st.Distribution.Medium, _ = f.GetFloat64("medium")
	}
	if f.Changed("hard") {
		st.Distribution.Hard, _ = f.GetFloat64("hard")
	}
	if f.Changed("show-translation") {
		st.ShowTranslation, _ = f.GetBool("show-translation")
	}
	return nil
}

func printSettings(w io.Writer, st settings.Settings) {
	sources := make([]string, len(st.Sources))
	for i, s := range st.Sources {
		sources[i] = string(s)
	}
	fmt.Fprintf(w, "Mode:              %s\n", st.Mode)
	fmt.Fprintf(w, "Daily goal:        %d\n", st.DailyGoal)
	fmt.Fprintf(w, "Sources:           %s\n", strings.Join(sources, ", "))
	fmt.Fprintf(w, "Distribution:      easy %.0f%%  medium %.0f%%  hard %.0f%%\n",
		st.Distribution.Easy*100, st.Distribution.Medium*100, st.Distribution.Hard*100)
	fmt.Fprintf(w, "Show translation:  %v\n", st.ShowTranslation)
}

func init() {
	f := settingsSetCmd.Flags()
	f.String("mode", "", "Sequence mode: topic or mixed")
	f.Int("goal", 0, "Daily goal (concepts per session)")
	f.StringSlice("sources", nil, "Comma-separated word lists, e.g. oxford_3000,awl")
	f.Float64("easy", 0, "Share of easy concepts in [0,1]")
	f.Float64("medium", 0, "Share of medium concepts in [0,1]")
	f.Float64("hard", 0, "Share of hard concepts in [0,1]")
	f.Bool("show-translation", false, "Show translations without revealing them")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
