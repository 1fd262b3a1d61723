package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wordbridge",
	Short: "English vocabulary trainer for Chinese speakers",
	Long: "WordBridge orders English vocabulary by how far each word is from its Chinese translation\n" +
		"and reviews it in short sessions that mix easy, medium and hard concepts.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd)
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WORDBRIDGE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./config/config.yaml or $XDG_CONFIG_HOME/wordbridge/config.yaml)")
	rootCmd.Flags().Int("count", 0, "Concepts in the session (default: the daily goal)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(versionCmd)
}
