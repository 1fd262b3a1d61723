// Package settings holds the learner's session preferences.
package settings

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/wordbridge/internal/concept"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Mode selects how a session sequence is ordered.
type Mode string

const (
	// ModeTopic orders concepts from the most to the least familiar.
	ModeTopic Mode = "topic"
	// ModeMixed walks a similarity graph over the sampled concepts.
	ModeMixed Mode = "mixed"
)

// ParseMode converts a label into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeTopic, ModeMixed:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalid, s)
}

// Distribution is the share of each difficulty bucket in a session.
type Distribution struct {
	Easy   float64 `json:"easy"`
	Medium float64 `json:"medium"`
	Hard   float64 `json:"hard"`
}

// Settings configures sequence generation.
type Settings struct {
	Mode            Mode             `json:"learning_mode"`
	Distribution    Distribution     `json:"difficulty_distribution"`
	ShowTranslation bool             `json:"show_translation"`
	DailyGoal       int              `json:"daily_goal"`
	Sources         []concept.Source `json:"selected_sources"`
}

// Default returns the settings used before the learner changes anything.
func Default() Settings {
	return Settings{
		Mode:         ModeTopic,
		Distribution: Distribution{Easy: 0.3, Medium: 0.5, Hard: 0.2},
		DailyGoal:    20,
		Sources:      []concept.Source{concept.Oxford3000},
	}
}

// distributionTolerance is how far the shares may drift from summing to 1.
const distributionTolerance = 0.01

// Validate checks that the settings can drive a session.
func (s Settings) Validate() error {
	if _, err := ParseMode(string(s.Mode)); err != nil {
		return err
	}
	if s.DailyGoal <= 0 {
		return fmt.Errorf("%w: daily goal must be positive, got %d", ErrInvalid, s.DailyGoal)
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalid)
	}
	for _, src := range s.Sources {
		if src == "" {
			return fmt.Errorf("%w: empty source", ErrInvalid)
		}
	}
	return s.Distribution.Validate()
}

// Validate checks that each share is in [0,1] and the shares sum to 1.
func (d Distribution) Validate() error {
	for name, v := range map[string]float64{"easy": d.Easy, "medium": d.Medium, "hard": d.Hard} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s share %v outside [0,1]", ErrInvalid, name, v)
		}
	}
	if sum := d.Easy + d.Medium + d.Hard; math.Abs(sum-1) > distributionTolerance {
		return fmt.Errorf("%w: shares sum to %.2f, want 1", ErrInvalid, sum)
	}
	return nil
}
