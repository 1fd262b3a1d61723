package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordbridge/internal/concept"
)

// ConceptRepo stores concepts. The variant payload is kept as JSON next to
// the columns used for filtering.
type ConceptRepo struct {
	s *Store
}

var conceptColumns = []string{"id", "kind", "source", "score", "payload"}

// BulkUpsert inserts or replaces concepts in one transaction.
func (r *ConceptRepo) BulkUpsert(ctx context.Context, cs []concept.Concept) error {
	if len(cs) == 0 {
		return nil
	}
	tx, err := r.s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin concept upsert: %w", err)
	}
	for _, c := range cs {
		payload, err := toJSON(c)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode concept %s: %w", c.ConceptID(), err)
		}
		q, args := r.s.b.Insert(conceptsTable).
			Columns(conceptColumns...).
			Values(string(c.ConceptID()), string(c.Kind()), string(c.ConceptSource()), c.Score(), payload).
			OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
			Query()
		if err := exec(ctx, tx, q, args); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert concept %s: %w", c.ConceptID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit concept upsert: %w", err)
	}
	return nil
}

// ConceptsBySource returns all concepts whose source is in sources.
func (r *ConceptRepo) ConceptsBySource(ctx context.Context, sources []concept.Source) ([]concept.Concept, error) {
	if len(sources) == 0 {
		return nil, nil
	}
	q, args := r.s.b.Select(conceptColumns...).
		From(r.s.b.Table(conceptsTable)).
		Where(entsql.In("source", stringArgs(sources)...)).
		OrderBy("id").
		Query()
	return r.list(ctx, q, args)
}

// All returns every stored concept ordered by id.
func (r *ConceptRepo) All(ctx context.Context) ([]concept.Concept, error) {
	q, args := r.s.b.Select(conceptColumns...).
		From(r.s.b.Table(conceptsTable)).
		OrderBy("id").
		Query()
	return r.list(ctx, q, args)
}

// ByID returns a concept, or nil if it does not exist.
func (r *ConceptRepo) ByID(ctx context.Context, id concept.ID) (concept.Concept, error) {
	q, args := r.s.b.Select(conceptColumns...).
		From(r.s.b.Table(conceptsTable)).
		Where(entsql.EQ("id", string(id))).
		Query()
	cs, err := r.list(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, nil
	}
	return cs[0], nil
}

// Count returns the number of stored concepts per source.
func (r *ConceptRepo) Count(ctx context.Context) (map[concept.Source]int, error) {
	q, args := r.s.b.Select("source", entsql.Count("*")).
		From(r.s.b.Table(conceptsTable)).
		GroupBy("source").
		Query()

	out := make(map[concept.Source]int)
	err := query(ctx, r.s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		var (
			src string
			n   int
		)
		if err := rows.Scan(&src, &n); err != nil {
			return err
		}
		out[concept.Source(src)] = n
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count concepts: %w", err)
	}
	return out, nil
}

func (r *ConceptRepo) list(ctx context.Context, q string, args []any) ([]concept.Concept, error) {
	var out []concept.Concept
	err := query(ctx, r.s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		var (
			id, kind, source, payload string
			score                     float64
		)
		if err := rows.Scan(&id, &kind, &source, &score, &payload); err != nil {
			return err
		}
		c, err := concept.Decode(concept.Kind(kind), []byte(payload))
		if err != nil {
			return fmt.Errorf("decode concept %s: %w", id, err)
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query concepts: %w", err)
	}
	return out, nil
}
