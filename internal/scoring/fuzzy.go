package scoring

import (
	"errors"
	"math"
)

// ErrEmptyGroup is returned when a fuzzy group has no word pairs.
var ErrEmptyGroup = errors.New("fuzzy group has no word pairs")

// HeterogeneityPenalty scales the standard deviation added to a group's average.
const HeterogeneityPenalty = 0.3

// GroupResult is the score of a fuzzy concept group.
type GroupResult struct {
	Average    float64    `json:"average_distance"`
	StdDev     float64    `json:"std_dev"`
	Adjusted   float64    `json:"adjusted_distance"`
	Difficulty Difficulty `json:"difficulty"`
	Pairs      []Result   `json:"pairs"`
}

// ScoreFuzzyGroup scores every pair as a clear concept and penalizes the
// group for spread among the pair scores: adjusted = min(1, avg + 0.3*stddev).
// The standard deviation is the population one.
func ScoreFuzzyGroup(pairs []Pair) (GroupResult, error) {
	if len(pairs) == 0 {
		return GroupResult{}, ErrEmptyGroup
	}

	results := make([]Result, len(pairs))
	var sum float64
	for i, p := range pairs {
		results[i] = ScoreClear(p)
		sum += results[i].Total
	}
	n := float64(len(pairs))
	avg := sum / n

	var sq float64
	for _, r := range results {
		d := r.Total - avg
		sq += d * d
	}
	std := math.Sqrt(sq / n)

	adjusted := math.Min(1, avg+HeterogeneityPenalty*std)
	return GroupResult{
		Average:    avg,
		StdDev:     std,
		Adjusted:   adjusted,
		Difficulty: DifficultyOf(adjusted),
		Pairs:      results,
	}, nil
}
