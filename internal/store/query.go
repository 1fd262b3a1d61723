package store

import (
	"context"
	"encoding/json"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// query runs a SELECT and calls scan once per row.
func query(ctx context.Context, ex dialect.ExecQuerier, q string, args []any, scan func(*entsql.Rows) error) error {
	var rows entsql.Rows
	if err := ex.Query(ctx, q, args, &rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(&rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// exec runs a statement that returns no rows.
func exec(ctx context.Context, ex dialect.ExecQuerier, q string, args []any) error {
	return ex.Exec(ctx, q, args, nil)
}

// Timestamps are stored as UTC unix nanoseconds.
func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// stringArgs converts named string types to plain strings for the driver.
func stringArgs[T ~string](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = string(x)
	}
	return out
}

// maxInArgs keeps IN lists under SQLite's bound-parameter limit.
const maxInArgs = 500

func chunks[T any](xs []T, size int) [][]T {
	var out [][]T
	for len(xs) > size {
		out = append(out, xs[:size])
		xs = xs[size:]
	}
	if len(xs) > 0 {
		out = append(out, xs)
	}
	return out
}
