package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordbridge/internal/session"
	"github.com/abhisek/wordbridge/internal/settings"
)

// SessionRepo stores learning sessions.
type SessionRepo struct {
	s *Store
}

var sessionColumns = []string{
	"id", "started_at", "ended_at", "mode", "planned", "reviewed",
	"target", "completed", "good", "normal", "bad",
}

// Create inserts a new session.
func (r *SessionRepo) Create(ctx context.Context, sess *session.Session) error {
	values, err := sessionValues(sess)
	if err != nil {
		return err
	}
	q, args := r.s.b.Insert(sessionsTable).Columns(sessionColumns...).Values(values...).Query()
	if err := exec(ctx, r.s.conn(ctx), q, args); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update overwrites a stored session.
func (r *SessionRepo) Update(ctx context.Context, sess *session.Session) error {
	values, err := sessionValues(sess)
	if err != nil {
		return err
	}
	u := r.s.b.Update(sessionsTable)
	for i, col := range sessionColumns[1:] {
		u.Set(col, values[i+1])
	}
	q, args := u.Where(entsql.EQ("id", sess.ID)).Query()
	if err := exec(ctx, r.s.conn(ctx), q, args); err != nil {
		return fmt.Errorf("update session %s: %w", sess.ID, err)
	}
	return nil
}

// Get returns a session, or nil if it does not exist.
func (r *SessionRepo) Get(ctx context.Context, id string) (*session.Session, error) {
	q, args := r.s.b.Select(sessionColumns...).
		From(r.s.b.Table(sessionsTable)).
		Where(entsql.EQ("id", id)).
		Query()
	out, err := r.list(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// OpenSessions returns sessions that have not ended, oldest first.
func (r *SessionRepo) OpenSessions(ctx context.Context) ([]*session.Session, error) {
	q, args := r.s.b.Select(sessionColumns...).
		From(r.s.b.Table(sessionsTable)).
		Where(entsql.IsNull("ended_at")).
		OrderBy("started_at").
		Query()
	return r.list(ctx, q, args)
}

// Recent returns up to limit sessions, newest first.
func (r *SessionRepo) Recent(ctx context.Context, limit int) ([]*session.Session, error) {
	sel := r.s.b.Select(sessionColumns...).
		From(r.s.b.Table(sessionsTable)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	q, args := sel.Query()
	return r.list(ctx, q, args)
}

func sessionValues(sess *session.Session) ([]any, error) {
	planned, err := toJSON(sess.Planned)
	if err != nil {
		return nil, fmt.Errorf("encode planned concepts: %w", err)
	}
	reviewed, err := toJSON(sess.Reviewed)
	if err != nil {
		return nil, fmt.Errorf("encode reviewed concepts: %w", err)
	}
	var ended any
	if sess.EndedAt != nil {
		ended = toNanos(*sess.EndedAt)
	}
	return []any{
		sess.ID,
		toNanos(sess.StartedAt),
		ended,
		string(sess.Mode),
		planned,
		reviewed,
		sess.Target,
		sess.Completed,
		sess.Good,
		sess.Normal,
		sess.Bad,
	}, nil
}

func (r *SessionRepo) list(ctx context.Context, q string, args []any) ([]*session.Session, error) {
	var out []*session.Session
	err := query(ctx, r.s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		var (
			sess              session.Session
			started           int64
			ended             sql.NullInt64
			mode              string
			planned, reviewed string
		)
		if err := rows.Scan(&sess.ID, &started, &ended, &mode, &planned, &reviewed,
			&sess.Target, &sess.Completed, &sess.Good, &sess.Normal, &sess.Bad); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(planned), &sess.Planned); err != nil {
			return fmt.Errorf("decode planned concepts of %s: %w", sess.ID, err)
		}
		if err := json.Unmarshal([]byte(reviewed), &sess.Reviewed); err != nil {
			return fmt.Errorf("decode reviewed concepts of %s: %w", sess.ID, err)
		}
		sess.StartedAt = fromNanos(started)
		if ended.Valid {
			t := fromNanos(ended.Int64)
			sess.EndedAt = &t
		}
		sess.Mode = settings.Mode(mode)
		out = append(out, &sess)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return out, nil
}
