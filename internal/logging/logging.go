// Package logging builds the zap loggers used across wordbridge.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger for env "production" and a console
// development logger otherwise. An empty level keeps the preset's level.
func New(env, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}
	if err := setLevel(&cfg, level); err != nil {
		return nil, err
	}
	return cfg.Build()
}

// NewFile returns a JSON logger writing only to path. Terminal UIs use it
// so that log lines do not corrupt the screen.
func NewFile(path, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.Sampling = nil
	if err := setLevel(&cfg, level); err != nil {
		return nil, err
	}
	return cfg.Build()
}

func setLevel(cfg *zap.Config, level string) error {
	if level == "" {
		return nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return nil
}
