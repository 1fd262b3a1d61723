// Package sessioncache keeps the generated sequence of active review
// sessions so that a client can resume where it left off.
package sessioncache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/wordbridge/internal/sequence"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not cached")

// DefaultTTL is how long an untouched session stays cached.
const DefaultTTL = 24 * time.Hour

// State is the presentation state of one session.
type State struct {
	SessionID string          `json:"session_id"`
	Items     []sequence.Item `json:"items"`
	Cursor    int             `json:"cursor"`
}

// Current returns the item at the cursor, or false when the sequence is done.
func (s *State) Current() (sequence.Item, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Items) {
		return sequence.Item{}, false
	}
	return s.Items[s.Cursor], true
}

// Remaining is the number of items not yet presented.
func (s *State) Remaining() int {
	return max(0, len(s.Items)-s.Cursor)
}

// Cache stores session states. Put refreshes the expiry.
type Cache interface {
	Put(ctx context.Context, st *State) error
	Get(ctx context.Context, sessionID string) (*State, error)
	Delete(ctx context.Context, sessionID string) error
}

type entry struct {
	state   State
	expires time.Time
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMemory returns a Memory cache; ttl <= 0 uses DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, now: time.Now, entries: map[string]entry{}}
}

func (m *Memory) Put(_ context.Context, st *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	cp.Items = append([]sequence.Item(nil), st.Items...)
	m.entries[st.SessionID] = entry{state: cp, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Get(_ context.Context, sessionID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, sessionID)
		return nil, ErrNotFound
	}
	st := e.state
	st.Items = append([]sequence.Item(nil), e.state.Items...)
	return &st, nil
}

func (m *Memory) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
