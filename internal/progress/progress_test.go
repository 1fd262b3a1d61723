package progress

import (
	"testing"
	"time"
)

func TestApply_ErrorPoolLifecycle(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	r := New("c1")

	r.Apply(Bad, now)
	if !r.InErrorPool {
		t.Fatal("bad rating should enter the error pool")
	}
	if r.GoodStreak != 0 {
		t.Errorf("GoodStreak = %d, want 0", r.GoodStreak)
	}

	r.Apply(Good, now.Add(time.Minute))
	r.Apply(Good, now.Add(2*time.Minute))
	if !r.InErrorPool {
		t.Fatal("two good ratings should not leave the pool")
	}

	r.Apply(Normal, now.Add(3*time.Minute))
	if r.GoodStreak != 0 {
		t.Errorf("normal should reset streak, got %d", r.GoodStreak)
	}

	for i := 0; i < 3; i++ {
		r.Apply(Good, now.Add(time.Duration(4+i)*time.Minute))
	}
	if r.InErrorPool {
		t.Error("three consecutive good ratings should leave the pool")
	}
	if r.GoodStreak != 3 {
		t.Errorf("GoodStreak = %d, want 3", r.GoodStreak)
	}
	if r.ReviewCount != 7 {
		t.Errorf("ReviewCount = %d, want 7", r.ReviewCount)
	}
	if !r.LastReviewed.Equal(now.Add(6 * time.Minute)) {
		t.Errorf("LastReviewed = %v", r.LastReviewed)
	}
}

func TestApply_GoodWithoutPool(t *testing.T) {
	r := New("c1")
	r.Apply(Good, time.Now())
	if r.InErrorPool {
		t.Error("good rating must not enter the pool")
	}
}

func TestApply_Average(t *testing.T) {
	r := New("c1")
	now := time.Now()
	r.Apply(Good, now)
	r.Apply(Normal, now)
	r.Apply(Bad, now)
	r.Apply(Good, now)

	want := float64(3+2+1+3) / 4
	if r.Average != want {
		t.Errorf("Average = %v, want %v", r.Average, want)
	}
	if len(r.Ratings) != 4 || r.Ratings[2] != Bad {
		t.Errorf("Ratings = %v", r.Ratings)
	}
}

func TestReviewedWithin(t *testing.T) {
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ago  time.Duration
		want bool
	}{
		{"23 hours ago", 23 * time.Hour, true},
		{"exactly 24 hours ago", 24 * time.Hour, true},
		{"25 hours ago", 25 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{ConceptID: "c", LastReviewed: now.Add(-tt.ago)}
			if got := r.ReviewedWithin(RecencyWindow, now); got != tt.want {
				t.Errorf("ReviewedWithin = %v, want %v", got, tt.want)
			}
		})
	}

	var missing *Record
	if missing.ReviewedWithin(RecencyWindow, now) {
		t.Error("nil record must never be recent")
	}
}

func TestParseRating(t *testing.T) {
	for _, s := range []string{"good", "normal", "bad"} {
		if _, err := ParseRating(s); err != nil {
			t.Errorf("ParseRating(%q): %v", s, err)
		}
	}
	if _, err := ParseRating("meh"); err == nil {
		t.Error("expected error")
	}
}
