package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordbridge/internal/session"
	"github.com/abhisek/wordbridge/internal/settings"
)

// singletonID is the primary key of single-row tables.
const singletonID = 1

// SettingsRepo stores the learner settings.
type SettingsRepo struct {
	s *Store
}

// Load returns the stored settings, or the defaults if none were saved.
func (r *SettingsRepo) Load(ctx context.Context) (settings.Settings, error) {
	out := settings.Default()
	found, err := r.s.loadSingleton(ctx, settingsTable, &out)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return settings.Default(), nil
	}
	return out, nil
}

// Save validates and stores the settings.
func (r *SettingsRepo) Save(ctx context.Context, s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := r.s.saveSingleton(ctx, settingsTable, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// StatsRepo stores the lifetime statistics.
type StatsRepo struct {
	s *Store
}

// Load returns the stored statistics, or zero values if none were saved.
func (r *StatsRepo) Load(ctx context.Context) (session.Statistics, error) {
	var out session.Statistics
	if _, err := r.s.loadSingleton(ctx, statisticsTable, &out); err != nil {
		return session.Statistics{}, fmt.Errorf("load statistics: %w", err)
	}
	return out, nil
}

// Save stores the statistics.
func (r *StatsRepo) Save(ctx context.Context, st session.Statistics) error {
	if err := r.s.saveSingleton(ctx, statisticsTable, st); err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}

func (s *Store) loadSingleton(ctx context.Context, table string, v any) (bool, error) {
	q, args := s.b.Select("payload").
		From(s.b.Table(table)).
		Where(entsql.EQ("id", singletonID)).
		Query()

	var payload string
	found := false
	err := query(ctx, s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&payload)
	})
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", table, err)
	}
	return true, nil
}

func (s *Store) saveSingleton(ctx context.Context, table string, v any) error {
	payload, err := toJSON(v)
	if err != nil {
		return err
	}
	q, args := s.b.Insert(table).
		Columns("id", "payload").
		Values(singletonID, payload).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	return exec(ctx, s.conn(ctx), q, args)
}
