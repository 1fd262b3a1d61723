package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/config"
	"github.com/abhisek/wordbridge/internal/logging"
	"github.com/abhisek/wordbridge/internal/sequence"
	"github.com/abhisek/wordbridge/internal/session"
	"github.com/abhisek/wordbridge/internal/store"
)

// env bundles what most commands need.
type env struct {
	cfg    *config.Config
	store  *store.Store
	logger *zap.Logger
}

func (e *env) Close() {
	_ = e.logger.Sync()
	e.store.Close()
}

// loadConfig reads the configuration named by --config, if any.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from the config, then WORDBRIDGE_DB or the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB.Path != "" {
		return cfg.DB.Path, store.EnsureDir(cfg.DB.Path)
	}
	return store.DefaultDBPath()
}

// openEnv loads config, builds a console logger and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Env, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return openEnvWith(cmd, cfg, logger)
}

func openEnvWith(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger) (*env, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("database opened", zap.String("path", dbPath))
	return &env{cfg: cfg, store: st, logger: logger}, nil
}

func (e *env) generator() *sequence.Generator {
	return sequence.New(e.store.Concepts(), e.store.Progress(),
		sequence.WithLogger(e.logger.Named("sequence")))
}

func (e *env) controller() *session.Controller {
	return &session.Controller{
		Sequencer: e.generator(),
		Sessions:  e.store.Sessions(),
		Progress:  e.store.Progress(),
		Concepts:  e.store.Concepts(),
		Settings:  e.store.Settings(),
		Stats:     e.store.Stats(),
		Tx:        e.store,
		Logger:    e.logger.Named("session"),
	}
}
