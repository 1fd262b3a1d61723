package sequence

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/wordbridge/internal/concept"
)

// Item is one entry of a session sequence.
type Item struct {
	Concept       concept.Concept
	FromErrorPool bool
	// Similar lists the graph neighbors of the concept in mixed mode, empty
	// for a concept with none. It is nil in topic mode and encodes as null.
	Similar []concept.ID
}

type itemJSON struct {
	Concept       json.RawMessage `json:"concept"`
	FromErrorPool bool            `json:"is_from_error_pool"`
	Similar       []concept.ID    `json:"similar_concepts"`
}

// MarshalJSON encodes the concept with its variant tag.
func (it Item) MarshalJSON() ([]byte, error) {
	c, err := concept.Marshal(it.Concept)
	if err != nil {
		return nil, fmt.Errorf("marshal sequence item: %w", err)
	}
	return json.Marshal(itemJSON{Concept: c, FromErrorPool: it.FromErrorPool, Similar: it.Similar})
}

// UnmarshalJSON decodes an item written by MarshalJSON.
func (it *Item) UnmarshalJSON(b []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c, err := concept.Unmarshal(raw.Concept)
	if err != nil {
		return fmt.Errorf("unmarshal sequence item: %w", err)
	}
	*it = Item{Concept: c, FromErrorPool: raw.FromErrorPool, Similar: raw.Similar}
	return nil
}

// Concepts returns the concepts of items in order.
func Concepts(items []Item) []concept.Concept {
	out := make([]concept.Concept, len(items))
	for i, it := range items {
		out[i] = it.Concept
	}
	return out
}
