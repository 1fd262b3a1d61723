package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/sequence"
	"github.com/abhisek/wordbridge/internal/settings"
)

// Sequencer generates session sequences.
type Sequencer interface {
	Generate(ctx context.Context, s settings.Settings, count int) ([]sequence.Item, error)
}

// SessionRepo persists sessions. Get returns nil, nil for an unknown id.
type SessionRepo interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s *Session) error
	OpenSessions(ctx context.Context) ([]*Session, error)
}

// ProgressRepo persists progress records. Progress returns nil, nil when
// the concept was never rated.
type ProgressRepo interface {
	Progress(ctx context.Context, id concept.ID) (*progress.Record, error)
	Put(ctx context.Context, r *progress.Record) error
}

// ConceptLookup resolves concept ids. ByID returns nil, nil when unknown.
type ConceptLookup interface {
	ByID(ctx context.Context, id concept.ID) (concept.Concept, error)
}

// SettingsRepo loads the learner settings, falling back to the defaults.
type SettingsRepo interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// StatsRepo loads and saves the lifetime statistics.
type StatsRepo interface {
	Load(ctx context.Context) (Statistics, error)
	Save(ctx context.Context, s Statistics) error
}

// Transactor runs fn atomically. Repository calls made with the context
// passed to fn join the transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Controller drives sessions from start to end. Fields must be set before use;
// Tx, Now and Logger are optional. Without Tx the writes of Rate and End are
// not atomic and a failure can leave them partially applied.
type Controller struct {
	Sequencer Sequencer
	Sessions  SessionRepo
	Progress  ProgressRepo
	Concepts  ConceptLookup
	Settings  SettingsRepo
	Stats     StatsRepo
	Tx        Transactor

	Now    func() time.Time
	Logger *zap.Logger

	// mu serializes the read-modify-write of progress, sessions and statistics.
	mu sync.Mutex
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.Tx == nil {
		return fn(ctx)
	}
	return c.Tx.InTx(ctx, fn)
}

func (c *Controller) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// Start plans a new session of count concepts. A count <= 0 uses the
// daily goal. An empty sequence still creates a session so the caller can
// show that nothing is left to review.
func (c *Controller) Start(ctx context.Context, count int) (*Session, []sequence.Item, error) {
	s, err := c.Settings.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}
	if count <= 0 {
		count = s.DailyGoal
	}

	items, err := c.Sequencer.Generate(ctx, s, count)
	if err != nil {
		return nil, nil, fmt.Errorf("generate sequence: %w", err)
	}

	sess := &Session{
		ID:        uuid.NewString(),
		StartedAt: c.now(),
		Mode:      s.Mode,
		Planned:   concept.IDs(sequence.Concepts(items)),
		Reviewed:  []concept.ID{},
		Target:    len(items),
	}
	if err := c.Sessions.Create(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	c.logger().Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("mode", string(sess.Mode)),
		zap.Int("requested", count),
		zap.Int("planned", len(items)),
	)
	return sess, items, nil
}

// Get returns a session by id.
func (c *Controller) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := c.Sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Rate records the learner's rating of a concept in an open session. The
// progress, session and statistics writes share one transaction when Tx is set.
func (c *Controller) Rate(ctx context.Context, sessionID string, id concept.ID, r progress.Rating) (*progress.Record, error) {
	if _, err := progress.ParseRating(string(r)); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrClosed, sessionID)
	}
	if !sess.Plans(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotInSequence, id)
	}

	cpt, err := c.Concepts.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get concept: %w", err)
	}
	if cpt == nil {
		return nil, fmt.Errorf("%w: concept %s", ErrNotInSequence, id)
	}

	rec, err := c.Progress.Progress(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	first := rec == nil
	if first {
		rec = progress.New(id)
	}
	rec.Apply(r, c.now())
	sess.record(id, r)

	err = c.inTx(ctx, func(ctx context.Context) error {
		if err := c.Progress.Put(ctx, rec); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		if err := c.Sessions.Update(ctx, sess); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		stats, err := c.Stats.Load(ctx)
		if err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}
		stats.recordRating(r, concept.Difficulty(cpt), first)
		if err := c.Stats.Save(ctx, stats); err != nil {
			return fmt.Errorf("save statistics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger().Debug("concept rated",
		zap.String("session_id", sessionID),
		zap.String("concept_id", string(id)),
		zap.String("rating", string(r)),
		zap.Bool("error_pool", rec.InErrorPool),
	)
	return rec, nil
}

// End closes a session and credits its duration to the statistics.
func (c *Controller) End(ctx context.Context, sessionID string) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrClosed, sessionID)
	}

	now := c.now()
	sess.EndedAt = &now
	elapsed := now.Sub(sess.StartedAt)

	err = c.inTx(ctx, func(ctx context.Context) error {
		if err := c.Sessions.Update(ctx, sess); err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		stats, err := c.Stats.Load(ctx)
		if err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}
		stats.recordSession(elapsed, now)
		if err := c.Stats.Save(ctx, stats); err != nil {
			return fmt.Errorf("save statistics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger().Info("session ended",
		zap.String("session_id", sess.ID),
		zap.Int("completed", sess.Completed),
		zap.Int("target", sess.Target),
		zap.Duration("elapsed", elapsed),
	)
	return sess, nil
}

// ExpireStale closes open sessions that started more than maxAge ago.
// Their time is not credited to the statistics. It returns the number of
// sessions closed.
func (c *Controller) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	open, err := c.Sessions.OpenSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open sessions: %w", err)
	}

	now := c.now()
	cutoff := now.Add(-maxAge)
	closed := 0
	for _, sess := range open {
		if !sess.StartedAt.Before(cutoff) {
			continue
		}
		sess.EndedAt = &now
		if err := c.Sessions.Update(ctx, sess); err != nil {
			return closed, fmt.Errorf("expire session %s: %w", sess.ID, err)
		}
		closed++
	}
	return closed, nil
}
