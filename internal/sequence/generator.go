// Package sequence builds the ordered list of concepts for a learning session.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/settings"
)

// ErrInvalidCount is returned when the requested session size is not positive.
var ErrInvalidCount = errors.New("count must be positive")

// ConceptSource provides the candidate concepts of a session.
type ConceptSource interface {
	ConceptsBySource(ctx context.Context, sources []concept.Source) ([]concept.Concept, error)
}

// ProgressSource provides review history.
type ProgressSource interface {
	// Progress returns the record of id, or nil when it was never reviewed.
	Progress(ctx context.Context, id concept.ID) (*progress.Record, error)
	ErrorPoolIDs(ctx context.Context) ([]concept.ID, error)
}

// ProgressBatcher is implemented by progress sources that can load many
// records in one query. Missing ids are absent from the returned map.
type ProgressBatcher interface {
	ProgressFor(ctx context.Context, ids []concept.ID) (map[concept.ID]*progress.Record, error)
}

// Shuffler randomizes sampling. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type shuffleFunc func(n int, swap func(i, j int))

func (f shuffleFunc) Shuffle(n int, swap func(i, j int)) { f(n, swap) }

// Generator produces session sequences. It holds no state between calls.
type Generator struct {
	concepts  ConceptSource
	progress  ProgressSource
	rng       Shuffler
	now       func() time.Time
	logger    *zap.Logger
	recency   time.Duration
	threshold float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the source of randomness used for sampling.
func WithRand(r Shuffler) Option {
	return func(g *Generator) { g.rng = r }
}

// WithClock sets the clock used by the recency filter.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithSimilarityThreshold sets the maximum score difference between
// neighbors in mixed mode.
func WithSimilarityThreshold(t float64) Option {
	return func(g *Generator) { g.threshold = t }
}

// New creates a Generator reading from the given sources.
func New(concepts ConceptSource, prog ProgressSource, opts ...Option) *Generator {
	g := &Generator{
		concepts:  concepts,
		progress:  prog,
		rng:       shuffleFunc(rand.Shuffle),
		now:       time.Now,
		logger:    zap.NewNop(),
		recency:   progress.RecencyWindow,
		threshold: DefaultSimilarityThreshold,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns up to count concepts for a session ordered by the mode in s.
//
// The sequence is shorter than count when the buckets cannot fill it, and
// empty when nothing is left to review. Storage failures abort the whole call.
func (g *Generator) Generate(ctx context.Context, s settings.Settings, count int) ([]Item, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	all, err := g.concepts.ConceptsBySource(ctx, s.Sources)
	if err != nil {
		return nil, fmt.Errorf("fetch concepts: %w", err)
	}

	available, err := g.filterRecent(ctx, all)
	if err != nil {
		return nil, err
	}

	poolIDs, err := g.progress.ErrorPoolIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch error pool: %w", err)
	}
	pool := make(map[concept.ID]bool, len(poolIDs))
	for _, id := range poolIDs {
		pool[id] = true
	}

	buckets := groupByDifficulty(available)
	sample := g.sampleByDifficulty(buckets, count, s.Distribution)

	g.logger.Debug("sequence sample",
		zap.String("mode", string(s.Mode)),
		zap.Int("candidates", len(all)),
		zap.Int("available", len(available)),
		zap.Int("easy", len(buckets.easy)),
		zap.Int("medium", len(buckets.medium)),
		zap.Int("hard", len(buckets.hard)),
		zap.Int("sampled", len(sample)),
	)

	if len(sample) == 0 {
		return []Item{}, nil
	}

	var (
		ordered []concept.Concept
		similar map[concept.ID][]concept.ID
	)
	switch s.Mode {
	case settings.ModeTopic:
		ordered = sortByScore(sample)
	case settings.ModeMixed:
		graph := buildGraph(sample, g.threshold)
		ordered = traverse(sample, graph)
		similar = graph.neighborIDs(sample)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", settings.ErrInvalid, s.Mode)
	}

	ordered = reinsertErrorPool(ordered, pool)

	items := make([]Item, len(ordered))
	for i, c := range ordered {
		items[i] = Item{Concept: c, FromErrorPool: pool[c.ConceptID()]}
		if similar != nil {
			items[i].Similar = similar[c.ConceptID()]
		}
	}
	return items, nil
}

// filterRecent drops concepts reviewed within the recency window.
func (g *Generator) filterRecent(ctx context.Context, cs []concept.Concept) ([]concept.Concept, error) {
	if len(cs) == 0 {
		return nil, nil
	}
	now := g.now()

	if b, ok := g.progress.(ProgressBatcher); ok {
		records, err := b.ProgressFor(ctx, concept.IDs(cs))
		if err != nil {
			return nil, fmt.Errorf("fetch progress: %w", err)
		}
		out := make([]concept.Concept, 0, len(cs))
		for _, c := range cs {
			if !records[c.ConceptID()].ReviewedWithin(g.recency, now) {
				out = append(out, c)
			}
		}
		return out, nil
	}

	out := make([]concept.Concept, 0, len(cs))
	for _, c := range cs {
		rec, err := g.progress.Progress(ctx, c.ConceptID())
		if err != nil {
			return nil, fmt.Errorf("fetch progress %s: %w", c.ConceptID(), err)
		}
		if !rec.ReviewedWithin(g.recency, now) {
			out = append(out, c)
		}
	}
	return out, nil
}

// sortByScore orders concepts from the most to the least familiar.
func sortByScore(cs []concept.Concept) []concept.Concept {
	out := append([]concept.Concept(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() < out[j].Score()
	})
	return out
}
