package sessioncache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/sequence"
)

func testState(id string) *State {
	return &State{
		SessionID: id,
		Items: []sequence.Item{
			{Concept: &concept.Clear{ID: "c1", English: "cat", Translations: []string{"猫"}, Total: 0.3}},
			{Concept: &concept.Fuzzy{ID: "f1", GroupID: "g", Adjusted: 0.7}, FromErrorPool: true, Similar: []concept.ID{"c1"}},
		},
		Cursor: 1,
	}
}

// exercise runs the behavior every Cache must share.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: err = %v, want ErrNotFound", err)
	}

	if err := c.Put(ctx, testState("s1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := c.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Cursor != 1 || len(got.Items) != 2 {
		t.Fatalf("state = %+v", got)
	}
	if got.Items[0].Concept.ConceptID() != "c1" || !got.Items[1].FromErrorPool {
		t.Errorf("items = %+v", got.Items)
	}
	if _, ok := got.Items[1].Concept.(*concept.Fuzzy); !ok {
		t.Errorf("second item is %T, want *concept.Fuzzy", got.Items[1].Concept)
	}

	got.Cursor = 2
	if err := c.Put(ctx, got); err != nil {
		t.Fatalf("put advanced: %v", err)
	}
	again, err := c.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get advanced: %v", err)
	}
	if again.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", again.Cursor)
	}

	if err := c.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v", err)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory(time.Hour))
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m := NewMemory(time.Hour)
	m.now = func() time.Time { return now }

	if err := m.Put(ctx, testState("s1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	now = now.Add(59 * time.Minute)
	if _, err := m.Get(ctx, "s1"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}
	now = now.Add(time.Minute)
	if _, err := m.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get at expiry: err = %v, want ErrNotFound", err)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	st := testState("s1")
	if err := m.Put(ctx, st); err != nil {
		t.Fatalf("put: %v", err)
	}
	st.Items[0] = sequence.Item{}

	got, _ := m.Get(ctx, "s1")
	got.Items[1] = sequence.Item{}

	again, _ := m.Get(ctx, "s1")
	if again.Items[0].Concept == nil || again.Items[1].Concept == nil {
		t.Error("cached state was mutated through a caller's slice")
	}
}

func TestState_Current(t *testing.T) {
	st := testState("s1")
	item, ok := st.Current()
	if !ok || item.Concept.ConceptID() != "f1" {
		t.Errorf("current = %+v, %v", item, ok)
	}
	if st.Remaining() != 1 {
		t.Errorf("remaining = %d, want 1", st.Remaining())
	}
	st.Cursor = 2
	if _, ok := st.Current(); ok {
		t.Error("expected no current item past the end")
	}
	if st.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", st.Remaining())
	}
}

func TestRedis(t *testing.T) {
	url := os.Getenv("WORDBRIDGE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WORDBRIDGE_TEST_REDIS_URL not set")
	}
	c, err := NewRedis(context.Background(), url, time.Minute)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	exercise(t, c)
}

func TestRedis_BadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "not-a-url", 0); err == nil {
		t.Error("expected parse error")
	}
}

func TestKey(t *testing.T) {
	if got := key("abc"); got != "wordbridge:session:abc" {
		t.Errorf("key = %q", got)
	}
}
