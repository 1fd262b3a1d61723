package sequence

import (
	"fmt"
	"testing"

	"github.com/abhisek/wordbridge/internal/concept"
)

func conceptsWithScores(scores ...float64) []concept.Concept {
	out := make([]concept.Concept, len(scores))
	for i, s := range scores {
		out[i] = clearConcept(fmt.Sprintf("%.2f", s), s)
	}
	return out
}

func TestBuildGraph(t *testing.T) {
	cs := conceptsWithScores(0.1, 0.2, 0.5, 0.52)
	g := buildGraph(cs, DefaultSimilarityThreshold)

	want := [][]int{{1}, {0}, {3}, {2}}
	for i := range want {
		if fmt.Sprint(g.neighbors[i]) != fmt.Sprint(want[i]) {
			t.Errorf("neighbors[%d] = %v, want %v", i, g.neighbors[i], want[i])
		}
	}
}

func TestBuildGraph_ThresholdInclusive(t *testing.T) {
	cs := conceptsWithScores(0.3, 0.45)
	g := buildGraph(cs, DefaultSimilarityThreshold)
	if len(g.neighbors[0]) != 1 {
		t.Errorf("difference of exactly 0.15 should connect, got %v", g.neighbors)
	}
}

func TestTraverse(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   string
	}{
		{"clusters", []float64{0.1, 0.2, 0.5, 0.52}, "[0.10 0.20 0.50 0.52]"},
		{"shuffled sample", []float64{0.5, 0.1, 0.52, 0.2}, "[0.10 0.20 0.50 0.52]"},
		{"jump keeps sample order", []float64{0.9, 0.1, 0.5}, "[0.10 0.90 0.50]"},
		{"first neighbor not closest", []float64{0.1, 0.24, 0.12}, "[0.10 0.24 0.12]"},
		{"single", []float64{0.4}, "[0.40]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := conceptsWithScores(tt.scores...)
			got := traverse(cs, buildGraph(cs, DefaultSimilarityThreshold))
			if s := fmt.Sprint(concept.IDs(got)); s != tt.want {
				t.Errorf("traverse = %s, want %s", s, tt.want)
			}
		})
	}
}

func TestTraverse_Empty(t *testing.T) {
	if got := traverse(nil, graph{}); len(got) != 0 {
		t.Errorf("traverse(nil) = %v", got)
	}
}

func TestTraverse_StartsAtFirstMinimum(t *testing.T) {
	cs := []concept.Concept{clearConcept("x", 0.3), clearConcept("y", 0.1), clearConcept("z", 0.1)}
	got := traverse(cs, buildGraph(cs, DefaultSimilarityThreshold))
	if got[0].ConceptID() != "y" {
		t.Errorf("start = %s, want y", got[0].ConceptID())
	}
}
