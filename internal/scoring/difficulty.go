package scoring

import "fmt"

// Difficulty is the learning difficulty bucket derived from a distance score.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Bucket thresholds on the total distance score.
const (
	EasyBelow   = 0.4
	MediumBelow = 0.7
)

// AllDifficulties lists the buckets in ascending order.
var AllDifficulties = []Difficulty{Easy, Medium, Hard}

// DifficultyOf classifies a total distance score.
func DifficultyOf(total float64) Difficulty {
	switch {
	case total < EasyBelow:
		return Easy
	case total < MediumBelow:
		return Medium
	default:
		return Hard
	}
}

// ParseDifficulty converts a label into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}
