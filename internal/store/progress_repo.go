package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
)

// ProgressRepo stores one progress record per concept.
type ProgressRepo struct {
	s *Store
}

var progressColumns = []string{
	"concept_id", "last_reviewed", "review_count", "ratings",
	"average_rating", "in_error_pool", "good_streak",
}

// Progress returns the record of id, or nil if the concept was never rated.
func (r *ProgressRepo) Progress(ctx context.Context, id concept.ID) (*progress.Record, error) {
	q, args := r.s.b.Select(progressColumns...).
		From(r.s.b.Table(progressTable)).
		Where(entsql.EQ("concept_id", string(id))).
		Query()
	recs, err := r.list(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// ProgressFor loads the records of many concepts. Concepts that were never
// rated are absent from the map.
func (r *ProgressRepo) ProgressFor(ctx context.Context, ids []concept.ID) (map[concept.ID]*progress.Record, error) {
	out := make(map[concept.ID]*progress.Record, len(ids))
	for _, chunk := range chunks(ids, maxInArgs) {
		q, args := r.s.b.Select(progressColumns...).
			From(r.s.b.Table(progressTable)).
			Where(entsql.In("concept_id", stringArgs(chunk)...)).
			Query()
		recs, err := r.list(ctx, q, args)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			out[rec.ConceptID] = rec
		}
	}
	return out, nil
}

// ErrorPoolIDs returns the ids of all concepts in the error pool.
func (r *ProgressRepo) ErrorPoolIDs(ctx context.Context) ([]concept.ID, error) {
	q, args := r.s.b.Select("concept_id").
		From(r.s.b.Table(progressTable)).
		Where(entsql.EQ("in_error_pool", true)).
		OrderBy("concept_id").
		Query()

	var ids []concept.ID
	err := query(ctx, r.s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, concept.ID(id))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query error pool: %w", err)
	}
	return ids, nil
}

// Put inserts or replaces a record.
func (r *ProgressRepo) Put(ctx context.Context, rec *progress.Record) error {
	ratings, err := toJSON(rec.Ratings)
	if err != nil {
		return fmt.Errorf("encode ratings: %w", err)
	}
	q, args := r.s.b.Insert(progressTable).
		Columns(progressColumns...).
		Values(
			string(rec.ConceptID),
			toNanos(rec.LastReviewed),
			rec.ReviewCount,
			ratings,
			rec.Average,
			rec.InErrorPool,
			rec.GoodStreak,
		).
		OnConflict(entsql.ConflictColumns("concept_id"), entsql.ResolveWithNewValues()).
		Query()
	if err := exec(ctx, r.s.conn(ctx), q, args); err != nil {
		return fmt.Errorf("save progress %s: %w", rec.ConceptID, err)
	}
	return nil
}

// Count returns the number of concepts that have been rated at least once.
func (r *ProgressRepo) Count(ctx context.Context) (int, error) {
	q, args := r.s.b.Select(entsql.Count("*")).From(r.s.b.Table(progressTable)).Query()
	var n int
	err := query(ctx, r.s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count progress: %w", err)
	}
	return n, nil
}

func (r *ProgressRepo) list(ctx context.Context, q string, args []any) ([]*progress.Record, error) {
	var out []*progress.Record
	err := query(ctx, r.s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		var (
			rec      progress.Record
			id       string
			reviewed int64
			ratings  string
		)
		if err := rows.Scan(&id, &reviewed, &rec.ReviewCount, &ratings,
			&rec.Average, &rec.InErrorPool, &rec.GoodStreak); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(ratings), &rec.Ratings); err != nil {
			return fmt.Errorf("decode ratings of %s: %w", id, err)
		}
		rec.ConceptID = concept.ID(id)
		rec.LastReviewed = fromNanos(reviewed)
		out = append(out, &rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	return out, nil
}
