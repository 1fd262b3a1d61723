package sequence

import "github.com/abhisek/wordbridge/internal/concept"

// ErrorPoolSpacing is the number of normal concepts between two error-pool concepts.
const ErrorPoolSpacing = 5

// reinsertErrorPool spreads error-pool concepts through the sequence: one
// after every ErrorPoolSpacing normal concepts, with the rest appended at the
// end. Relative order within both groups is kept.
func reinsertErrorPool(cs []concept.Concept, pool map[concept.ID]bool) []concept.Concept {
	if len(pool) == 0 {
		return cs
	}

	var normal, errs []concept.Concept
	for _, c := range cs {
		if pool[c.ConceptID()] {
			errs = append(errs, c)
		} else {
			normal = append(normal, c)
		}
	}
	if len(errs) == 0 {
		return cs
	}

	out := make([]concept.Concept, 0, len(cs))
	next := 0
	for i, c := range normal {
		out = append(out, c)
		if (i+1)%ErrorPoolSpacing == 0 && next < len(errs) {
			out = append(out, errs[next])
			next++
		}
	}
	return append(out, errs[next:]...)
}
