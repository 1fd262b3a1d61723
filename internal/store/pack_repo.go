package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wordbridge/internal/concept"
)

// Pack records the imported version of a vocabulary pack.
type Pack struct {
	Name         string
	Version      string
	Source       concept.Source
	ConceptCount int
	ImportedAt   time.Time
}

// PackRepo stores imported pack versions.
type PackRepo struct {
	s *Store
}

var packColumns = []string{"name", "version", "source", "concept_count", "imported_at"}

// Get returns the pack named name, or nil if it was never imported.
func (r *PackRepo) Get(ctx context.Context, name string) (*Pack, error) {
	q, args := r.s.b.Select(packColumns...).
		From(r.s.b.Table(packsTable)).
		Where(entsql.EQ("name", name)).
		Query()
	packs, err := r.list(ctx, q, args)
	if err != nil {
		return nil, err
	}
	if len(packs) == 0 {
		return nil, nil
	}
	return packs[0], nil
}

// List returns all imported packs ordered by name.
func (r *PackRepo) List(ctx context.Context) ([]*Pack, error) {
	q, args := r.s.b.Select(packColumns...).
		From(r.s.b.Table(packsTable)).
		OrderBy("name").
		Query()
	return r.list(ctx, q, args)
}

// Put inserts or replaces a pack record.
func (r *PackRepo) Put(ctx context.Context, p *Pack) error {
	q, args := r.s.b.Insert(packsTable).
		Columns(packColumns...).
		Values(p.Name, p.Version, string(p.Source), p.ConceptCount, toNanos(p.ImportedAt)).
		OnConflict(entsql.ConflictColumns("name"), entsql.ResolveWithNewValues()).
		Query()
	if err := exec(ctx, r.s.conn(ctx), q, args); err != nil {
		return fmt.Errorf("save pack %s: %w", p.Name, err)
	}
	return nil
}

func (r *PackRepo) list(ctx context.Context, q string, args []any) ([]*Pack, error) {
	var out []*Pack
	err := query(ctx, r.s.conn(ctx), q, args, func(rows *entsql.Rows) error {
		var (
			p        Pack
			source   string
			imported int64
		)
		if err := rows.Scan(&p.Name, &p.Version, &source, &p.ConceptCount, &imported); err != nil {
			return err
		}
		p.Source = concept.Source(source)
		p.ImportedAt = fromNanos(imported)
		out = append(out, &p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query packs: %w", err)
	}
	return out, nil
}
