package session

import (
	"time"

	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/scoring"
)

// DifficultyCounts counts learned concepts per difficulty bucket.
type DifficultyCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// Add increments the bucket of d.
func (c *DifficultyCounts) Add(d scoring.Difficulty) {
	switch d {
	case scoring.Easy:
		c.Easy++
	case scoring.Medium:
		c.Medium++
	case scoring.Hard:
		c.Hard++
	}
}

// Total returns the sum of all buckets.
func (c DifficultyCounts) Total() int {
	return c.Easy + c.Medium + c.Hard
}

// Statistics are the learner's lifetime totals.
type Statistics struct {
	ConceptsLearned int              `json:"total_concepts_learned"`
	Sessions        int              `json:"total_review_sessions"`
	AverageAccuracy float64          `json:"average_accuracy"`
	CurrentStreak   int              `json:"current_streak"`
	ByDifficulty    DifficultyCounts `json:"concepts_by_difficulty"`
	LearningMinutes float64          `json:"learning_time_total"`

	Rated        int    `json:"rated"`
	Accurate     int    `json:"accurate"`
	LastStudyDay string `json:"last_study_day,omitempty"`
}

// dayLayout formats the calendar day used for the study streak.
const dayLayout = "2006-01-02"

// recordRating folds one rating into the totals. firstReview marks the
// first rating a concept ever received.
func (s *Statistics) recordRating(r progress.Rating, d scoring.Difficulty, firstReview bool) {
	if firstReview {
		s.ConceptsLearned++
		s.ByDifficulty.Add(d)
	}
	s.Rated++
	if r != progress.Bad {
		s.Accurate++
	}
	s.AverageAccuracy = float64(s.Accurate) / float64(s.Rated)
}

// recordSession folds a finished session into the totals.
func (s *Statistics) recordSession(elapsed time.Duration, day time.Time) {
	s.Sessions++
	s.LearningMinutes += elapsed.Minutes()
	s.updateStreak(day)
}

// updateStreak counts consecutive study days. Studying again on the same day
// keeps the streak, the next day extends it, and a gap restarts it.
func (s *Statistics) updateStreak(day time.Time) {
	today := day.Format(dayLayout)
	if s.LastStudyDay == "" {
		s.CurrentStreak = 1
		s.LastStudyDay = today
		return
	}
	last, err := time.ParseInLocation(dayLayout, s.LastStudyDay, day.Location())
	if err != nil {
		s.CurrentStreak = 1
		s.LastStudyDay = today
		return
	}
	cur, _ := time.ParseInLocation(dayLayout, today, day.Location())

	switch gap := int(cur.Sub(last).Hours()/24 + 0.5); {
	case gap <= 0:
		if s.CurrentStreak == 0 {
			s.CurrentStreak = 1
		}
	case gap == 1:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	if cur.After(last) {
		s.LastStudyDay = today
	}
}
