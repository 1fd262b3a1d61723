package scoring

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestTotalDistance_Range(t *testing.T) {
	steps := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1}
	for _, m := range steps {
		for _, v := range steps {
			for _, p := range steps {
				got := TotalDistance(m, v, p)
				if got < 0 || got > 1 {
					t.Fatalf("TotalDistance(%v, %v, %v) = %v, out of range", m, v, p, got)
				}
				want := 0.4*m + 0.3*v + 0.3*p
				if math.Abs(got-want) > eps {
					t.Errorf("TotalDistance(%v, %v, %v) = %v, want %v", m, v, p, got, want)
				}
			}
		}
	}
}

func TestTotalDistance_Clamped(t *testing.T) {
	if got := TotalDistance(2, 2, 2); got != 1 {
		t.Errorf("TotalDistance(2,2,2) = %v, want 1", got)
	}
	if got := TotalDistance(-1, -1, -1); got != 0 {
		t.Errorf("TotalDistance(-1,-1,-1) = %v, want 0", got)
	}
}

func TestDifficultyOf(t *testing.T) {
	tests := []struct {
		total float64
		want  Difficulty
	}{
		{0, Easy},
		{0.39, Easy},
		{0.4, Medium},
		{0.69, Medium},
		{0.7, Hard},
		{1, Hard},
	}
	for _, tt := range tests {
		if got := DifficultyOf(tt.total); got != tt.want {
			t.Errorf("DifficultyOf(%v) = %q, want %q", tt.total, got, tt.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range AllDifficulties {
		got, err := ParseDifficulty(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseDifficulty("brutal"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestVisualDistance(t *testing.T) {
	tests := []struct {
		name        string
		english     string
		translation string
		strokes     int
		want        float64
	}{
		{"estimated strokes", "cat", "猫", 0, 1 - math.Exp(-0.9)},
		{"explicit strokes", "cat", "猫", 11, 1 - math.Exp(-0.8)},
		{"no mismatch", "abcdefghijkl", "猫", 0, 0},
		{"negative hint is ignored", "cat", "猫", -4, 1 - math.Exp(-0.9)},
		{"two characters", "table", "桌子", 0, 1 - math.Exp(-1.9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisualDistance(tt.english, tt.translation, tt.strokes)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("VisualDistance = %v, want %v", got, tt.want)
			}
		})
	}

	if got := VisualDistance("cat", "猫", 0); !approx(got, 0.5934) {
		t.Errorf("VisualDistance(cat, 猫) = %v, want ~0.5934", got)
	}
}

func TestVisualDistance_Monotonic(t *testing.T) {
	prev := -1.0
	for strokes := 3; strokes < 60; strokes++ {
		got := VisualDistance("cat", "猫", strokes)
		if got < prev {
			t.Fatalf("distance decreased at %d strokes: %v < %v", strokes, got, prev)
		}
		if got > 1 {
			t.Fatalf("distance above 1 at %d strokes", strokes)
		}
		prev = got
	}
}

func TestPronunciationDistance(t *testing.T) {
	tests := []struct {
		english, translation string
		want                 float64
	}{
		{"abcde", "abcde", 0.75},
		{"abcde", "abcdef", 0.85},
		{"cat", "猫", 0.75},
		{"abcdefghij", "abcdefghij", 0.85},
		{"abcdefghij", "abcdefghijk", 0.95},
	}
	for _, tt := range tests {
		if got := PronunciationDistance(tt.english, tt.translation); got != tt.want {
			t.Errorf("PronunciationDistance(%q, %q) = %v, want %v", tt.english, tt.translation, got, tt.want)
		}
	}
}

func TestMeaningDistance(t *testing.T) {
	if got := MeaningDistance(true); got != 0.15 {
		t.Errorf("direct = %v, want 0.15", got)
	}
	if got := MeaningDistance(false); got != 0.5 {
		t.Errorf("partial = %v, want 0.5", got)
	}
}

func TestScoreClear(t *testing.T) {
	r := ScoreClear(Pair{English: "cat", Translation: "猫"})
	wantVisual := 1 - math.Exp(-0.9)
	wantTotal := 0.4*0.15 + 0.3*wantVisual + 0.3*0.75

	if r.Meaning != 0.15 {
		t.Errorf("Meaning = %v, want 0.15", r.Meaning)
	}
	if math.Abs(r.Visual-wantVisual) > eps {
		t.Errorf("Visual = %v, want %v", r.Visual, wantVisual)
	}
	if r.Pronunciation != 0.75 {
		t.Errorf("Pronunciation = %v, want 0.75", r.Pronunciation)
	}
	if math.Abs(r.Total-wantTotal) > eps {
		t.Errorf("Total = %v, want %v", r.Total, wantTotal)
	}
	if r.Difficulty != Medium {
		t.Errorf("Difficulty = %q, want medium", r.Difficulty)
	}
}

func TestScoreClear_MeaningOverride(t *testing.T) {
	zero := 0.0
	r := ScoreClear(Pair{English: "cat", Translation: "猫", Meaning: &zero})
	if r.Meaning != 0 {
		t.Errorf("Meaning = %v, want explicit 0 to be honored", r.Meaning)
	}

	high := 0.9
	r = ScoreClear(Pair{English: "cat", Translation: "猫", Meaning: &high})
	if r.Meaning != 0.9 {
		t.Errorf("Meaning = %v, want 0.9", r.Meaning)
	}
}

func TestScoreClear_Idempotent(t *testing.T) {
	p := Pair{English: "serendipity", Translation: "机缘巧合", Strokes: 30}
	a := ScoreClear(p)
	b := ScoreClear(p)
	if a != b {
		t.Errorf("ScoreClear not idempotent: %+v vs %+v", a, b)
	}
}

func TestScoreFuzzyGroup_Empty(t *testing.T) {
	_, err := ScoreFuzzyGroup(nil)
	if !errors.Is(err, ErrEmptyGroup) {
		t.Fatalf("err = %v, want ErrEmptyGroup", err)
	}
}

func TestScoreFuzzyGroup_Uniform(t *testing.T) {
	pairs := []Pair{
		{English: "happy", Translation: "快乐"},
		{English: "happy", Translation: "快乐"},
		{English: "happy", Translation: "快乐"},
	}
	g, err := ScoreFuzzyGroup(pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.StdDev > eps {
		t.Errorf("StdDev = %v, want 0", g.StdDev)
	}
	if math.Abs(g.Adjusted-g.Average) > eps {
		t.Errorf("Adjusted = %v, want Average %v", g.Adjusted, g.Average)
	}
	if g.Difficulty != DifficultyOf(g.Adjusted) {
		t.Errorf("Difficulty = %q, want %q", g.Difficulty, DifficultyOf(g.Adjusted))
	}
	if len(g.Pairs) != 3 {
		t.Errorf("len(Pairs) = %d, want 3", len(g.Pairs))
	}
}

func TestScoreFuzzyGroup_Heterogeneous(t *testing.T) {
	partial := 0.5
	pairs := []Pair{
		{English: "happy", Translation: "快乐"},
		{English: "happiness", Translation: "幸福", Meaning: &partial},
	}
	g, err := ScoreFuzzyGroup(pairs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := ScoreClear(pairs[0]).Total
	b := ScoreClear(pairs[1]).Total
	avg := (a + b) / 2
	std := math.Abs(a-b) / 2
	want := math.Min(1, avg+0.3*std)

	if math.Abs(g.Average-avg) > eps {
		t.Errorf("Average = %v, want %v", g.Average, avg)
	}
	if math.Abs(g.StdDev-std) > eps {
		t.Errorf("StdDev = %v, want %v", g.StdDev, std)
	}
	if math.Abs(g.Adjusted-want) > eps {
		t.Errorf("Adjusted = %v, want %v", g.Adjusted, want)
	}
	if g.Adjusted <= g.Average {
		t.Errorf("Adjusted %v should exceed Average %v for a mixed group", g.Adjusted, g.Average)
	}
}
