// Package session runs learning sessions: it plans the sequence, records
// ratings and keeps the learner statistics current.
package session

import (
	"errors"
	"slices"
	"time"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/settings"
)

var (
	// ErrNotFound is returned for an unknown session id.
	ErrNotFound = errors.New("session not found")
	// ErrClosed is returned when rating or ending a session that has ended.
	ErrClosed = errors.New("session already ended")
	// ErrNotInSequence is returned when rating a concept the session did not plan.
	ErrNotInSequence = errors.New("concept not in session sequence")
)

// Session is one bounded run of reviews.
type Session struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"start_time"`
	EndedAt   *time.Time    `json:"end_time,omitempty"`
	Mode      settings.Mode `json:"mode"`

	// Planned is the generated sequence in presentation order.
	Planned []concept.ID `json:"planned"`
	// Reviewed lists rated concepts in rating order.
	Reviewed  []concept.ID `json:"concepts_reviewed"`
	Target    int          `json:"total_concepts"`
	Completed int          `json:"completed_concepts"`

	Good   int `json:"good"`
	Normal int `json:"normal"`
	Bad    int `json:"bad"`
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	return s.EndedAt != nil
}

// Plans reports whether id is part of the session sequence.
func (s *Session) Plans(id concept.ID) bool {
	return slices.Contains(s.Planned, id)
}

func (s *Session) record(id concept.ID, r progress.Rating) {
	s.Reviewed = append(s.Reviewed, id)
	s.Completed++
	switch r {
	case progress.Good:
		s.Good++
	case progress.Normal:
		s.Normal++
	case progress.Bad:
		s.Bad++
	}
}
