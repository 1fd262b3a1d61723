package session

import (
	"testing"
	"time"

	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/scoring"
)

func TestUpdateStreak(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 1, d, 20, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name       string
		lastDay    string
		streak     int
		now        time.Time
		wantStreak int
	}{
		{"first session", "", 0, day(3), 1},
		{"same day", "2025-01-03", 4, day(3), 4},
		{"next day", "2025-01-02", 4, day(3), 5},
		{"gap", "2024-12-30", 4, day(3), 1},
		{"same day after reset", "2025-01-03", 0, day(3), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Statistics{LastStudyDay: tt.lastDay, CurrentStreak: tt.streak}
			s.updateStreak(tt.now)
			if s.CurrentStreak != tt.wantStreak {
				t.Errorf("CurrentStreak = %d, want %d", s.CurrentStreak, tt.wantStreak)
			}
			if s.LastStudyDay != "2025-01-03" {
				t.Errorf("LastStudyDay = %q", s.LastStudyDay)
			}
		})
	}
}

func TestRecordRating(t *testing.T) {
	var s Statistics
	s.recordRating(progress.Good, scoring.Hard, true)
	s.recordRating(progress.Bad, scoring.Hard, false)

	if s.ConceptsLearned != 1 || s.ByDifficulty.Hard != 1 || s.ByDifficulty.Total() != 1 {
		t.Errorf("learned = %d by difficulty = %+v", s.ConceptsLearned, s.ByDifficulty)
	}
	if s.AverageAccuracy != 0.5 {
		t.Errorf("AverageAccuracy = %v, want 0.5", s.AverageAccuracy)
	}
}

func TestBuildSummary(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(7 * time.Minute)
	s := &Session{StartedAt: start, EndedAt: &end, Target: 5, Completed: 4, Good: 2, Normal: 1, Bad: 1}

	sum := BuildSummary(s, start.Add(time.Hour))
	if sum.Duration != 7*time.Minute {
		t.Errorf("Duration = %v, want 7m", sum.Duration)
	}
	if sum.Accuracy != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", sum.Accuracy)
	}

	open := &Session{StartedAt: start}
	if got := BuildSummary(open, start.Add(time.Minute)); got.Duration != time.Minute || got.Accuracy != 0 {
		t.Errorf("open summary = %+v", got)
	}
}
