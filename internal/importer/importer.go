// Package importer loads vocabulary packs, scores every entry and stores the
// resulting concepts.
package importer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/scoring"
	"github.com/abhisek/wordbridge/internal/store"
)

var (
	// ErrPackUpToDate is returned when the stored pack version is not older
	// than the one being imported.
	ErrPackUpToDate = errors.New("pack is up to date")

	// ErrInvalidVersion is returned for pack versions that are not semver.
	ErrInvalidVersion = errors.New("invalid pack version")

	// ErrInvalidDistance is returned for a precomputed distance outside [0,1].
	ErrInvalidDistance = errors.New("distance outside [0,1]")
)

// conceptNamespace seeds the deterministic concept ids.
var conceptNamespace = uuid.MustParse("4f1c2b9e-6a53-5d0e-9c7a-2e8b1d4a6f30")

// ConceptWriter persists scored concepts.
type ConceptWriter interface {
	BulkUpsert(ctx context.Context, cs []concept.Concept) error
}

// PackStore tracks imported pack versions.
type PackStore interface {
	Get(ctx context.Context, name string) (*store.Pack, error)
	Put(ctx context.Context, p *store.Pack) error
}

// Result summarizes an import.
type Result struct {
	Pack    string
	Version string
	Clear   int
	Fuzzy   int
}

// Importer scores packs and writes them to storage.
type Importer struct {
	Concepts ConceptWriter
	Packs    PackStore
	Logger   *zap.Logger
	Now      func() time.Time
}

// Import scores and stores p. Unless force is set, a pack whose stored
// version is not older than p.Version is rejected with ErrPackUpToDate.
func (im *Importer) Import(ctx context.Context, p *Pack, force bool) (*Result, error) {
	if err := validatePack(p); err != nil {
		return nil, err
	}

	prev, err := im.Packs.Get(ctx, p.Name)
	if err != nil {
		return nil, fmt.Errorf("load pack %s: %w", p.Name, err)
	}
	if prev != nil && !force && semver.Compare(p.Version, prev.Version) <= 0 {
		return nil, fmt.Errorf("%w: %s %s already imported (have %s)", ErrPackUpToDate, p.Name, p.Version, prev.Version)
	}

	cs, err := Build(p)
	if err != nil {
		return nil, err
	}
	if err := im.Concepts.BulkUpsert(ctx, cs); err != nil {
		return nil, fmt.Errorf("store concepts: %w", err)
	}

	res := &Result{Pack: p.Name, Version: p.Version, Clear: len(p.Words), Fuzzy: len(p.FuzzyGroups)}
	err = im.Packs.Put(ctx, &store.Pack{
		Name:         p.Name,
		Version:      p.Version,
		Source:       p.Source,
		ConceptCount: len(cs),
		ImportedAt:   im.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("record pack version: %w", err)
	}

	im.logger().Info("pack imported",
		zap.String("pack", p.Name),
		zap.String("version", p.Version),
		zap.Int("clear", res.Clear),
		zap.Int("fuzzy", res.Fuzzy),
		zap.Bool("forced", force),
	)
	return res, nil
}

func (im *Importer) now() time.Time {
	if im.Now != nil {
		return im.Now()
	}
	return time.Now()
}

func (im *Importer) logger() *zap.Logger {
	if im.Logger != nil {
		return im.Logger
	}
	return zap.NewNop()
}

func validatePack(p *Pack) error {
	if p.Name == "" {
		return errors.New("pack has no name")
	}
	if p.Source == "" {
		return fmt.Errorf("pack %s has no source", p.Name)
	}
	if !semver.IsValid(p.Version) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, p.Version)
	}
	return nil
}

// Build scores every entry of p and returns the concepts in pack order,
// clear concepts first.
func Build(p *Pack) ([]concept.Concept, error) {
	out := make([]concept.Concept, 0, len(p.Words)+len(p.FuzzyGroups))
	for i, w := range p.Words {
		c, err := buildClear(p.Source, w)
		if err != nil {
			return nil, fmt.Errorf("word %d (%s): %w", i+1, w.English, err)
		}
		out = append(out, c)
	}
	for _, g := range p.FuzzyGroups {
		c, err := buildFuzzy(p.Source, g)
		if err != nil {
			return nil, fmt.Errorf("fuzzy group %s: %w", g.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func buildClear(source concept.Source, w Word) (*concept.Clear, error) {
	if w.English == "" {
		return nil, errors.New("missing english term")
	}
	if len(w.Translations) == 0 {
		return nil, errors.New("missing translations")
	}
	if w.Level != "" && !concept.ValidLevel(w.Level) {
		return nil, fmt.Errorf("unknown level %q", w.Level)
	}
	for _, d := range []struct {
		name string
		v    *float64
	}{
		{"meaning_distance", w.Meaning},
		{"visual_distance", w.Visual},
		{"pronunciation_distance", w.Pronunciation},
	} {
		if err := checkDistance(d.name, d.v); err != nil {
			return nil, err
		}
	}

	r := ScoreWord(w)
	return &concept.Clear{
		ID:            ClearID(source, w.English, w.PartOfSpeech),
		English:       w.English,
		PartOfSpeech:  w.PartOfSpeech,
		Translations:  w.Translations,
		Definition:    w.Definition,
		Example:       w.Example,
		Source:        source,
		Level:         w.Level,
		Meaning:       r.Meaning,
		Visual:        r.Visual,
		Pronunciation: r.Pronunciation,
		Total:         r.Total,
	}, nil
}

// ScoreWord scores w against its first translation. Precomputed component
// distances replace the computed ones; the total is always re-derived.
func ScoreWord(w Word) scoring.Result {
	var translation string
	if len(w.Translations) > 0 {
		translation = w.Translations[0]
	}
	r := scoring.ScoreClear(scoring.Pair{
		English:     w.English,
		Translation: translation,
		Meaning:     w.Meaning,
		Strokes:     w.Strokes,
	})
	if w.Visual == nil && w.Pronunciation == nil {
		return r
	}
	if w.Visual != nil {
		r.Visual = *w.Visual
	}
	if w.Pronunciation != nil {
		r.Pronunciation = *w.Pronunciation
	}
	r.Total = scoring.TotalDistance(r.Meaning, r.Visual, r.Pronunciation)
	r.Difficulty = scoring.DifficultyOf(r.Total)
	return r
}

func buildFuzzy(source concept.Source, g FuzzyGroup) (*concept.Fuzzy, error) {
	if g.ID == "" {
		return nil, errors.New("missing group id")
	}
	pairs := make([]scoring.Pair, len(g.Pairs))
	for i, p := range g.Pairs {
		if err := checkDistance("meaning_distance", p.Meaning); err != nil {
			return nil, fmt.Errorf("pair %d (%s): %w", i+1, p.English, err)
		}
		pairs[i] = scoring.Pair{
			English:     p.English,
			Translation: p.Translation,
			Meaning:     p.Meaning,
			Strokes:     p.Strokes,
		}
	}
	res, err := scoring.ScoreFuzzyGroup(pairs)
	if err != nil {
		return nil, err
	}

	wps := make([]concept.WordPair, len(g.Pairs))
	for i, p := range g.Pairs {
		wps[i] = concept.WordPair{
			English:      p.English,
			PartOfSpeech: p.PartOfSpeech,
			Translation:  p.Translation,
			Definition:   p.Definition,
			Distance:     res.Pairs[i].Total,
		}
	}
	return &concept.Fuzzy{
		ID:               FuzzyID(source, g.ID),
		GroupID:          g.ID,
		EnglishWords:     g.EnglishWords,
		TranslationWords: g.TranslationWords,
		Analysis:         g.Analysis,
		Source:           source,
		Average:          res.Average,
		StdDev:           res.StdDev,
		Adjusted:         res.Adjusted,
		Pairs:            wps,
	}, nil
}

// checkDistance rejects a present distance that is NaN or outside [0,1].
func checkDistance(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 || *v > 1 {
		return fmt.Errorf("%w: %s is %v", ErrInvalidDistance, field, *v)
	}
	return nil
}

// ClearID derives a stable id from the source, term and part of speech.
func ClearID(source concept.Source, english string, pos concept.PartOfSpeech) concept.ID {
	key := strings.Join([]string{string(source), strings.ToLower(english), string(pos)}, "|")
	return concept.ID(uuid.NewSHA1(conceptNamespace, []byte(key)).String())
}

// FuzzyID derives a stable id from the source and group id.
func FuzzyID(source concept.Source, group string) concept.ID {
	key := string(source) + "|" + group
	return concept.ID(uuid.NewSHA1(conceptNamespace, []byte(key)).String())
}
