package session

import "time"

// Summary holds the data displayed when a session ends.
type Summary struct {
	Duration  time.Duration
	Target    int
	Completed int
	Good      int
	Normal    int
	Bad       int
	Accuracy  float64
}

// BuildSummary creates a Summary from a session. An open session is
// measured up to now.
func BuildSummary(s *Session, now time.Time) *Summary {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	var accuracy float64
	if s.Completed > 0 {
		accuracy = float64(s.Good+s.Normal) / float64(s.Completed)
	}

	return &Summary{
		Duration:  end.Sub(s.StartedAt),
		Target:    s.Target,
		Completed: s.Completed,
		Good:      s.Good,
		Normal:    s.Normal,
		Bad:       s.Bad,
		Accuracy:  accuracy,
	}
}
