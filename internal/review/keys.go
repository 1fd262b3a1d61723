package review

import "charm.land/bubbles/v2/key"

// KeyMap holds the review key bindings.
type KeyMap struct {
	Good   key.Binding
	Normal key.Binding
	Bad    key.Binding
	Reveal key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Good:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "good")),
		Normal: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "normal")),
		Bad:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bad")),
		Reveal: key.NewBinding(key.WithKeys("space", " "), key.WithHelp("space", "reveal")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "end session")),
		Abort:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func hints(bindings ...key.Binding) []KeyHint {
	out := make([]KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, KeyHint{Key: h.Key, Description: h.Desc})
	}
	return out
}
