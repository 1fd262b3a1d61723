// Package scoring computes the cultural distance between an English term
// and its translation.
//
// The meaning and pronunciation components are fixed heuristics. They keep
// the scores of existing vocabulary packs stable and can be swapped for a
// linguistic model later, at the cost of re-scoring every stored concept.
package scoring

import (
	"math"
	"unicode/utf8"
)

// Component weights of the total distance.
const (
	MeaningWeight       = 0.4
	VisualWeight        = 0.3
	PronunciationWeight = 0.3
)

// Meaning distances for direct and partial mappings.
const (
	DirectMeaning  = 0.15
	PartialMeaning = 0.5
)

// StrokesPerCharacter estimates the strokes of one translated character
// when no stroke count is known.
const StrokesPerCharacter = 12

// Pair is one English term with one translation.
type Pair struct {
	English     string `json:"english"`
	Translation string `json:"translation"`

	// Meaning overrides the default direct-mapping meaning distance.
	Meaning *float64 `json:"meaning_distance,omitempty"`

	// Strokes is the known stroke count of the translation; <= 0 means unknown.
	Strokes int `json:"strokes,omitempty"`
}

// Result is the score of a single pair.
type Result struct {
	Meaning       float64    `json:"meaning_distance"`
	Visual        float64    `json:"visual_distance"`
	Pronunciation float64    `json:"pronunciation_distance"`
	Total         float64    `json:"distance_score"`
	Difficulty    Difficulty `json:"difficulty"`
}

// MeaningDistance returns the placeholder meaning distance.
func MeaningDistance(direct bool) float64 {
	if direct {
		return DirectMeaning
	}
	return PartialMeaning
}

// VisualDistance compares the estimated stroke count of the translation with
// the letter count of the English term: 1 - exp(-|strokes - letters| / 10).
func VisualDistance(english, translation string, strokes int) float64 {
	if strokes <= 0 {
		strokes = utf8.RuneCountInString(translation) * StrokesPerCharacter
	}
	diff := math.Abs(float64(strokes - utf8.RuneCountInString(english)))
	return clamp01(1 - math.Exp(-diff/10))
}

// PronunciationDistance is a step function of the average term length.
func PronunciationDistance(english, translation string) float64 {
	avg := float64(utf8.RuneCountInString(english)+utf8.RuneCountInString(translation)) / 2
	switch {
	case avg <= 5:
		return 0.75
	case avg <= 10:
		return 0.85
	default:
		return 0.95
	}
}

// TotalDistance is the weighted sum of the components, clamped to [0,1].
func TotalDistance(meaning, visual, pronunciation float64) float64 {
	return clamp01(MeaningWeight*meaning + VisualWeight*visual + PronunciationWeight*pronunciation)
}

// ScoreClear scores a single English/translation pair.
func ScoreClear(p Pair) Result {
	meaning := MeaningDistance(true)
	if p.Meaning != nil {
		meaning = clamp01(*p.Meaning)
	}
	visual := VisualDistance(p.English, p.Translation, p.Strokes)
	pron := PronunciationDistance(p.English, p.Translation)
	total := TotalDistance(meaning, visual, pron)
	return Result{
		Meaning:       meaning,
		Visual:        visual,
		Pronunciation: pron,
		Total:         total,
		Difficulty:    DifficultyOf(total),
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
