package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/logging"
	"github.com/abhisek/wordbridge/internal/review"
	"github.com/abhisek/wordbridge/internal/session"
)

// runReview starts a session and shows the review screen. The screen owns
// the terminal, so logs go to a file.
func runReview(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "wordbridge.log")
	}
	logger, err := logging.NewFile(logPath, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	e, err := openEnvWith(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	count, _ := cmd.Flags().GetInt("count")
	ctrl := e.controller()

	sess, items, err := ctrl.Start(ctx, count)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	st, err := e.store.Settings().Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	logger.Info("session started", zap.String("session_id", sess.ID), zap.Int("items", len(items)))

	m := review.New(ctx, ctrl, sess, items, review.Options{
		ShowTranslation: st.ShowTranslation,
		Logger:          logger.Named("review"),
	})
	final, err := review.Run(ctx, m)
	if err != nil {
		return err
	}
	if s := final.Summary(); s != nil {
		printSummary(cmd, s)
	}
	return nil
}

func printSummary(cmd *cobra.Command, s *session.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reviewed %d of %d concepts in %s\n", s.Completed, s.Target, formatDuration(s.Duration))
	fmt.Fprintf(out, "Good %d  Normal %d  Bad %d  Accuracy %.0f%%\n", s.Good, s.Normal, s.Bad, s.Accuracy*100)
}
