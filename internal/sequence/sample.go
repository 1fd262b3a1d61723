package sequence

import (
	"math"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/scoring"
	"github.com/abhisek/wordbridge/internal/settings"
)

type buckets struct {
	easy, medium, hard []concept.Concept
}

func groupByDifficulty(cs []concept.Concept) buckets {
	var b buckets
	for _, c := range cs {
		switch concept.Difficulty(c) {
		case scoring.Easy:
			b.easy = append(b.easy, c)
		case scoring.Medium:
			b.medium = append(b.medium, c)
		default:
			b.hard = append(b.hard, c)
		}
	}
	return b
}

// bucketCounts splits count by the distribution. Easy and medium are
// floored; hard takes the remainder.
func bucketCounts(count int, d settings.Distribution) (easy, medium, hard int) {
	easy = int(math.Floor(float64(count) * d.Easy))
	medium = int(math.Floor(float64(count) * d.Medium))
	hard = count - easy - medium
	if hard < 0 {
		hard = 0
	}
	return easy, medium, hard
}

// sampleByDifficulty draws from each bucket without replacement. A bucket
// with too few concepts contributes all of them.
func (g *Generator) sampleByDifficulty(b buckets, count int, d settings.Distribution) []concept.Concept {
	easy, medium, hard := bucketCounts(count, d)

	out := make([]concept.Concept, 0, count)
	out = append(out, g.randomSample(b.easy, easy)...)
	out = append(out, g.randomSample(b.medium, medium)...)
	out = append(out, g.randomSample(b.hard, hard)...)
	return out
}

func (g *Generator) randomSample(cs []concept.Concept, n int) []concept.Concept {
	if n <= 0 || len(cs) == 0 {
		return nil
	}
	shuffled := append([]concept.Concept(nil), cs...)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
