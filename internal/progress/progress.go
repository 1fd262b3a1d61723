// Package progress tracks the review history of individual concepts.
package progress

import (
	"fmt"
	"time"

	"github.com/abhisek/wordbridge/internal/concept"
)

// Rating is the learner's self-assessment of one review.
type Rating string

const (
	Good   Rating = "good"
	Normal Rating = "normal"
	Bad    Rating = "bad"
)

// Value returns the numeric weight used for the running average.
func (r Rating) Value() int {
	switch r {
	case Good:
		return 3
	case Normal:
		return 2
	case Bad:
		return 1
	}
	return 0
}

// ParseRating converts a label into a Rating.
func ParseRating(s string) (Rating, error) {
	switch r := Rating(s); r {
	case Good, Normal, Bad:
		return r, nil
	}
	return "", fmt.Errorf("unknown rating %q", s)
}

// GoodStreakToLeavePool is the number of consecutive good ratings that
// takes a concept out of the error pool.
const GoodStreakToLeavePool = 3

// RecencyWindow is how long a reviewed concept stays out of new sessions.
const RecencyWindow = 24 * time.Hour

// Record is the review history of one concept.
type Record struct {
	ConceptID    concept.ID `json:"concept_id"`
	LastReviewed time.Time  `json:"last_reviewed"`
	ReviewCount  int        `json:"review_count"`
	Ratings      []Rating   `json:"ratings"`
	Average      float64    `json:"average_rating"`
	InErrorPool  bool       `json:"is_in_error_pool"`
	GoodStreak   int        `json:"consecutive_good_count"`
}

// New returns an empty record for id.
func New(id concept.ID) *Record {
	return &Record{ConceptID: id}
}

// Apply records a rating given at time at.
//
// A bad rating puts the concept into the error pool; it leaves the pool only
// after GoodStreakToLeavePool good ratings in a row.
func (r *Record) Apply(rating Rating, at time.Time) {
	r.Ratings = append(r.Ratings, rating)
	r.ReviewCount++
	r.LastReviewed = at

	sum := 0
	for _, x := range r.Ratings {
		sum += x.Value()
	}
	r.Average = float64(sum) / float64(len(r.Ratings))

	switch rating {
	case Bad:
		r.InErrorPool = true
		r.GoodStreak = 0
	case Good:
		r.GoodStreak++
		if r.GoodStreak >= GoodStreakToLeavePool {
			r.InErrorPool = false
		}
	default:
		r.GoodStreak = 0
	}
}

// ReviewedWithin reports whether the concept was reviewed in the window
// ending at now. A record that was never reviewed is not recent.
func (r *Record) ReviewedWithin(window time.Duration, now time.Time) bool {
	if r == nil || r.LastReviewed.IsZero() {
		return false
	}
	return !r.LastReviewed.Before(now.Add(-window))
}
