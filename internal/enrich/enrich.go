// Package enrich fills in missing definitions and example sentences of clear
// concepts with an LLM. Distances are never touched.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/llm"
)

// Purpose labels enrichment requests in the LLM event log.
const Purpose = "enrich"

const maxTokens = 400

// Schema is the structured response of one enrichment request.
var Schema = &llm.Schema{
	Name:        "concept-enrichment",
	Description: "A learner-friendly definition and example sentence for an English word",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definition": map[string]any{
				"type":        "string",
				"description": "One-sentence English definition at the learner's level",
			},
			"example": map[string]any{
				"type":        "string",
				"description": "A short natural sentence using the word",
			},
		},
		"required":             []any{"definition", "example"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You write entries for a vocabulary trainer used by Chinese speakers learning English.
Definitions are one plain-English sentence suited to the CEFR level given.
Examples are short, natural and use the word exactly as given.`

// Store reads and writes concepts.
type Store interface {
	All(ctx context.Context) ([]concept.Concept, error)
	BulkUpsert(ctx context.Context, cs []concept.Concept) error
}

// Result summarizes a run.
type Result struct {
	Candidates int
	Enriched   int
	Failed     int
}

// Enricher fills missing text fields one concept at a time.
type Enricher struct {
	Provider llm.Provider
	Store    Store
	Logger   *zap.Logger
}

type reply struct {
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

// Run enriches at most limit concepts (limit <= 0 means all). A failed
// request is logged and skipped; storage errors abort the run.
func (e *Enricher) Run(ctx context.Context, limit int) (Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	all, err := e.Store.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load concepts: %w", err)
	}
	todo := Candidates(all)
	if limit > 0 && len(todo) > limit {
		todo = todo[:limit]
	}

	res := Result{Candidates: len(todo)}
	ctx = llm.WithPurpose(ctx, Purpose)
	for _, c := range todo {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r, err := e.request(ctx, c)
		if err != nil {
			res.Failed++
			logger.Warn("enrich concept", zap.String("concept", c.English), zap.Error(err))
			continue
		}
		Apply(c, r.Definition, r.Example)
		if err := e.Store.BulkUpsert(ctx, []concept.Concept{c}); err != nil {
			return res, fmt.Errorf("save %s: %w", c.ID, err)
		}
		res.Enriched++
	}
	logger.Info("enrichment finished",
		zap.Int("candidates", res.Candidates),
		zap.Int("enriched", res.Enriched),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (e *Enricher) request(ctx context.Context, c *concept.Clear) (reply, error) {
	resp, err := e.Provider.Generate(ctx, llm.UserPrompt(systemPrompt, Prompt(c), Schema, maxTokens))
	if err != nil {
		return reply{}, err
	}
	var r reply
	if err := resp.Decode(&r); err != nil {
		return reply{}, err
	}
	return r, nil
}

// Candidates returns the clear concepts missing a definition or example.
func Candidates(cs []concept.Concept) []*concept.Clear {
	var out []*concept.Clear
	for _, c := range cs {
		cl, ok := c.(*concept.Clear)
		if !ok {
			continue
		}
		if strings.TrimSpace(cl.Definition) == "" || strings.TrimSpace(cl.Example) == "" {
			out = append(out, cl)
		}
	}
	return out
}

// Prompt describes c to the model.
func Prompt(c *concept.Clear) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", c.English)
	if c.PartOfSpeech != "" {
		fmt.Fprintf(&b, "Part of speech: %s\n", c.PartOfSpeech)
	}
	if c.Level != "" {
		fmt.Fprintf(&b, "Level: %s\n", c.Level)
	}
	if len(c.Translations) > 0 {
		fmt.Fprintf(&b, "Chinese: %s\n", strings.Join(c.Translations, "、"))
	}
	if c.Definition != "" {
		fmt.Fprintf(&b, "Existing definition: %s\n", c.Definition)
	}
	return b.String()
}

// Apply sets only the fields that are still empty.
func Apply(c *concept.Clear, definition, example string) {
	if strings.TrimSpace(c.Definition) == "" {
		c.Definition = strings.TrimSpace(definition)
	}
	if strings.TrimSpace(c.Example) == "" {
		c.Example = strings.TrimSpace(example)
	}
}
