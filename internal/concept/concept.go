// Package concept defines the learnable units of a vocabulary pack.
package concept

import (
	"errors"
	"strings"

	"github.com/abhisek/wordbridge/internal/scoring"
)

// ErrUnknownKind is returned when a concept variant is not recognized.
var ErrUnknownKind = errors.New("unknown concept kind")

// ID uniquely identifies a concept.
type ID string

// Kind tags the concept variant.
type Kind string

const (
	KindClear Kind = "clear"
	KindFuzzy Kind = "fuzzy"
)

// Source names the word list a concept was imported from.
type Source string

// Well-known sources. Any non-empty source is accepted.
const (
	Oxford3000 Source = "oxford_3000"
	AWL        Source = "awl"
	GRE357     Source = "gre_357"
)

// Level is a CEFR proficiency level.
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
	C2 Level = "C2"
)

// ValidLevel reports whether l is empty or a CEFR level.
func ValidLevel(l Level) bool {
	switch l {
	case "", A1, A2, B1, B2, C1, C2:
		return true
	}
	return false
}

// PartOfSpeech is a short part-of-speech tag such as "n." or "adj.".
type PartOfSpeech string

// Concept is either a *Clear or a *Fuzzy.
type Concept interface {
	ConceptID() ID
	Kind() Kind
	ConceptSource() Source
	// Score is the distance score used for bucketing and ordering.
	Score() float64

	sealed()
}

// Clear maps one English term to one or more translations.
type Clear struct {
	ID            ID           `json:"id"`
	English       string       `json:"english"`
	PartOfSpeech  PartOfSpeech `json:"part_of_speech"`
	Translations  []string     `json:"translations"`
	Definition    string       `json:"definition"`
	Example       string       `json:"example,omitempty"`
	Source        Source       `json:"source"`
	Level         Level        `json:"level,omitempty"`
	Meaning       float64      `json:"meaning_distance"`
	Visual        float64      `json:"visual_distance"`
	Pronunciation float64      `json:"pronunciation_distance"`
	Total         float64      `json:"distance_score"`
}

// WordPair is one English/translation pairing inside a fuzzy group.
type WordPair struct {
	English      string       `json:"english"`
	PartOfSpeech PartOfSpeech `json:"part_of_speech"`
	Translation  string       `json:"translation"`
	Definition   string       `json:"definition"`
	Distance     float64      `json:"pair_distance"`
}

// Fuzzy is a cluster of English words and translations with overlapping senses.
type Fuzzy struct {
	ID               ID         `json:"id"`
	GroupID          string     `json:"group_id"`
	EnglishWords     []string   `json:"english_words"`
	TranslationWords []string   `json:"translation_words"`
	Analysis         string     `json:"cultural_analysis"`
	Source           Source     `json:"source"`
	Average          float64    `json:"average_distance"`
	StdDev           float64    `json:"std_dev"`
	Adjusted         float64    `json:"adjusted_distance"`
	Pairs            []WordPair `json:"word_pairs"`
}

func (c *Clear) ConceptID() ID { return c.ID }
func (c *Clear) Kind() Kind { return KindClear }
func (c *Clear) ConceptSource() Source { return c.Source }
func (c *Clear) Score() float64 { return c.Total }
func (*Clear) sealed() {}

func (f *Fuzzy) ConceptID() ID { return f.ID }
func (f *Fuzzy) Kind() Kind { return KindFuzzy }
func (f *Fuzzy) ConceptSource() Source { return f.Source }

// Score returns the heterogeneity-adjusted group distance.
func (f *Fuzzy) Score() float64 { return f.Adjusted }
func (*Fuzzy) sealed() {}

// Difficulty classifies a concept by its score.
func Difficulty(c Concept) scoring.Difficulty {
	return scoring.DifficultyOf(c.Score())
}

// Headword returns the English text shown to the learner.
func Headword(c Concept) (string, error) {
	switch v := c.(type) {
	case *Clear:
		return v.English, nil
	case *Fuzzy:
		return joinWords(v.EnglishWords), nil
	default:
		return "", ErrUnknownKind
	}
}

// Translation returns the translation text shown on reveal.
func Translation(c Concept) (string, error) {
	switch v := c.(type) {
	case *Clear:
		return joinWords(v.Translations), nil
	case *Fuzzy:
		return joinWords(v.TranslationWords), nil
	default:
		return "", ErrUnknownKind
	}
}

// IDs returns the ids of concepts in order.
func IDs(cs []Concept) []ID {
	ids := make([]ID, len(cs))
	for i, c := range cs {
		ids[i] = c.ConceptID()
	}
	return ids
}

func joinWords(words []string) string {
	return strings.Join(words, " / ")
}
