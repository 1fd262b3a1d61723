package sequence

import (
	"math"

	"github.com/abhisek/wordbridge/internal/concept"
)

// DefaultSimilarityThreshold is the largest score difference between two
// concepts that are considered similar.
const DefaultSimilarityThreshold = 0.15

// scoreEpsilon absorbs float error so a difference of exactly the threshold
// still counts as similar.
const scoreEpsilon = 1e-9

// graph is an undirected similarity graph. neighbors[i] lists the indexes
// connected to i in sample order.
type graph struct {
	neighbors [][]int
}

func buildGraph(cs []concept.Concept, threshold float64) graph {
	g := graph{neighbors: make([][]int, len(cs))}
	for i := range cs {
		for j := range cs {
			if i == j {
				continue
			}
			if math.Abs(cs[i].Score()-cs[j].Score()) <= threshold+scoreEpsilon {
				g.neighbors[i] = append(g.neighbors[i], j)
			}
		}
	}
	return g
}

// neighborIDs returns the neighbor ids of every concept. Concepts without
// neighbors map to an empty, non-nil slice.
func (g graph) neighborIDs(cs []concept.Concept) map[concept.ID][]concept.ID {
	out := make(map[concept.ID][]concept.ID, len(cs))
	for i, c := range cs {
		ids := make([]concept.ID, 0, len(g.neighbors[i]))
		for _, j := range g.neighbors[i] {
			ids = append(ids, cs[j].ConceptID())
		}
		out[c.ConceptID()] = ids
	}
	return out
}

// traverse walks the graph greedily from the lowest-scoring concept. It moves
// to the first unvisited neighbor, or jumps to the first unvisited concept in
// sample order when the current cluster is exhausted.
func traverse(cs []concept.Concept, g graph) []concept.Concept {
	n := len(cs)
	if n == 0 {
		return nil
	}

	start := 0
	for i := 1; i < n; i++ {
		if cs[i].Score() < cs[start].Score() {
			start = i
		}
	}

	visited := make([]bool, n)
	out := make([]concept.Concept, 0, n)
	cur := start
	for {
		visited[cur] = true
		out = append(out, cs[cur])

		next := -1
		for _, j := range g.neighbors[cur] {
			if !visited[j] {
				next = j
				break
			}
		}
		if next < 0 {
			for j := 0; j < n; j++ {
				if !visited[j] {
					next = j
					break
				}
			}
		}
		if next < 0 {
			return out
		}
		cur = next
	}
}
