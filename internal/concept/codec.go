package concept

import (
	"encoding/json"
	"fmt"
)

// envelope carries the variant tag next to the payload.
type envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Marshal encodes a concept with its variant tag.
func Marshal(c Concept) ([]byte, error) {
	var kind Kind
	switch c.(type) {
	case *Clear:
		kind = KindClear
	case *Fuzzy:
		kind = KindFuzzy
	default:
		return nil, ErrUnknownKind
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal %s concept: %w", kind, err)
	}
	return json.Marshal(envelope{Type: kind, Data: data})
}

// Unmarshal decodes a concept produced by Marshal.
func Unmarshal(b []byte) (Concept, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("unmarshal concept envelope: %w", err)
	}
	return Decode(env.Type, env.Data)
}

// Decode decodes the payload of a concept of the given kind.
func Decode(kind Kind, data []byte) (Concept, error) {
	var c Concept
	switch kind {
	case KindClear:
		c = &Clear{}
	case KindFuzzy:
		c = &Fuzzy{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshal %s concept: %w", kind, err)
	}
	return c, nil
}

// List is a JSON-friendly slice of concepts.
type List []Concept

// MarshalJSON encodes each element with its variant tag.
func (l List) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, len(l))
	for i, c := range l {
		b, err := Marshal(c)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a list written by MarshalJSON.
func (l *List) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(List, len(raw))
	for i, r := range raw {
		c, err := Unmarshal(r)
		if err != nil {
			return err
		}
		out[i] = c
	}
	*l = out
	return nil
}
