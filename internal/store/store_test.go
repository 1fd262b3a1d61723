package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/session"
	"github.com/abhisek/wordbridge/internal/settings"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testConcepts() []concept.Concept {
	return []concept.Concept{
		&concept.Clear{ID: "c1", English: "cat", Translations: []string{"猫"}, Source: concept.Oxford3000, Total: 0.3},
		&concept.Clear{ID: "c2", English: "dog", Translations: []string{"狗"}, Source: concept.Oxford3000, Total: 0.5},
		&concept.Clear{ID: "c3", English: "analyse", Translations: []string{"分析"}, Source: concept.AWL, Total: 0.8},
		&concept.Fuzzy{
			ID:               "f1",
			GroupID:          "g1",
			EnglishWords:     []string{"home", "house"},
			TranslationWords: []string{"家"},
			Source:           concept.GRE357,
			Adjusted:         0.6,
		},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range Tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"a.db", "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:a.db?mode=rwc", "file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"a.db?_pragma=foreign_keys(0)", "a.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		if got := withPragmas(tt.dsn); got != tt.want {
			t.Errorf("withPragmas(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestConceptRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.Concepts()
	ctx := context.Background()

	if err := repo.BulkUpsert(ctx, testConcepts()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.ConceptsBySource(ctx, []concept.Source{concept.Oxford3000, concept.GRE357})
	if err != nil {
		t.Fatalf("by source: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("by source returned %d concepts, want 3", len(got))
	}

	c, err := repo.ByID(ctx, "f1")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	f, ok := c.(*concept.Fuzzy)
	if !ok {
		t.Fatalf("by id returned %T, want *concept.Fuzzy", c)
	}
	if f.Adjusted != 0.6 || len(f.EnglishWords) != 2 {
		t.Errorf("fuzzy concept = %+v", f)
	}

	missing, err := repo.ByID(ctx, "nope")
	if err != nil {
		t.Fatalf("by id (missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %v", missing)
	}

	// Re-import replaces rather than duplicates.
	updated := &concept.Clear{ID: "c1", English: "cat", Translations: []string{"貓"}, Source: concept.Oxford3000, Total: 0.35}
	if err := repo.BulkUpsert(ctx, []concept.Concept{updated}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	counts, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[concept.Oxford3000] != 2 || counts[concept.AWL] != 1 || counts[concept.GRE357] != 1 {
		t.Errorf("counts = %v", counts)
	}
	c, err = repo.ByID(ctx, "c1")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if c.Score() != 0.35 {
		t.Errorf("score after re-import = %v, want 0.35", c.Score())
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all returned %d concepts, want 4", len(all))
	}
}

func TestProgressRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.Progress()
	ctx := context.Background()

	rec, err := repo.Progress(ctx, "c1")
	if err != nil {
		t.Fatalf("progress (empty): %v", err)
	}
	if rec != nil {
		t.Fatal("expected nil record for unrated concept")
	}

	at := time.Date(2026, 3, 1, 9, 30, 0, 123, time.UTC)
	bad := progress.New("c1")
	bad.Apply(progress.Bad, at)
	good := progress.New("c2")
	good.Apply(progress.Good, at.Add(time.Hour))

	for _, r := range []*progress.Record{bad, good} {
		if err := repo.Put(ctx, r); err != nil {
			t.Fatalf("put %s: %v", r.ConceptID, err)
		}
	}

	rec, err = repo.Progress(ctx, "c1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if rec == nil || !rec.InErrorPool || rec.ReviewCount != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if !rec.LastReviewed.Equal(at) {
		t.Errorf("last reviewed = %v, want %v", rec.LastReviewed, at)
	}
	if len(rec.Ratings) != 1 || rec.Ratings[0] != progress.Bad {
		t.Errorf("ratings = %v", rec.Ratings)
	}

	batch, err := repo.ProgressFor(ctx, []concept.ID{"c1", "c2", "c3"})
	if err != nil {
		t.Fatalf("progress for: %v", err)
	}
	if len(batch) != 2 || batch["c2"] == nil || batch["c3"] != nil {
		t.Errorf("batch = %v", batch)
	}

	pool, err := repo.ErrorPoolIDs(ctx)
	if err != nil {
		t.Fatalf("error pool: %v", err)
	}
	if len(pool) != 1 || pool[0] != "c1" {
		t.Errorf("error pool = %v, want [c1]", pool)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestProgressForChunks(t *testing.T) {
	s := openTestStore(t)
	repo := s.Progress()
	ctx := context.Background()

	var ids []concept.ID
	for i := range maxInArgs + 10 {
		id := concept.ID(fmt.Sprintf("c%04d", i))
		ids = append(ids, id)
		if i%100 == 0 {
			r := progress.New(id)
			r.Apply(progress.Normal, time.Now())
			if err := repo.Put(ctx, r); err != nil {
				t.Fatalf("put: %v", err)
			}
		}
	}

	got, err := repo.ProgressFor(ctx, ids)
	if err != nil {
		t.Fatalf("progress for: %v", err)
	}
	if len(got) != 6 {
		t.Errorf("got %d records, want 6", len(got))
	}
}

func TestSessionRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sess := &session.Session{
		ID:        "s1",
		StartedAt: start,
		Mode:      settings.ModeMixed,
		Planned:   []concept.ID{"c1", "c2"},
		Target:    2,
	}
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	open, err := repo.OpenSessions(ctx)
	if err != nil {
		t.Fatalf("open sessions: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open sessions = %d, want 1", len(open))
	}

	end := start.Add(10 * time.Minute)
	sess.EndedAt = &end
	sess.Reviewed = []concept.ID{"c1"}
	sess.Completed = 1
	sess.Good = 1
	if err := repo.Update(ctx, sess); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.EndedAt == nil || !got.EndedAt.Equal(end) {
		t.Fatalf("session = %+v", got)
	}
	if got.Mode != settings.ModeMixed || got.Completed != 1 || got.Good != 1 || len(got.Planned) != 2 {
		t.Errorf("session = %+v", got)
	}

	open, err = repo.OpenSessions(ctx)
	if err != nil {
		t.Fatalf("open sessions: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("open sessions after end = %d, want 0", len(open))
	}

	missing, err := repo.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("get (missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown session")
	}

	later := &session.Session{ID: "s2", StartedAt: start.Add(time.Hour), Mode: settings.ModeTopic}
	if err := repo.Create(ctx, later); err != nil {
		t.Fatalf("create: %v", err)
	}
	recent, err := repo.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "s2" {
		t.Errorf("recent = %v, want [s2]", recent)
	}
}

func TestSettingsRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.Settings()
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if got.Mode != settings.Default().Mode || got.DailyGoal != settings.Default().DailyGoal {
		t.Errorf("default settings = %+v", got)
	}

	want := settings.Default()
	want.Mode = settings.ModeMixed
	want.DailyGoal = 40
	want.Distribution = settings.Distribution{Easy: 0.2, Medium: 0.3, Hard: 0.5}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Mode != want.Mode || got.DailyGoal != 40 || got.Distribution != want.Distribution {
		t.Errorf("settings = %+v, want %+v", got, want)
	}

	invalid := want
	invalid.Distribution = settings.Distribution{Easy: 0.5, Medium: 0.5, Hard: 0.5}
	if err := repo.Save(ctx, invalid); err == nil {
		t.Error("expected error saving invalid distribution")
	}
}

func TestStatsRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.Stats()
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if got.Sessions != 0 || got.ConceptsLearned != 0 {
		t.Errorf("empty stats = %+v", got)
	}

	want := session.Statistics{
		ConceptsLearned: 12,
		Sessions:        3,
		AverageAccuracy: 0.75,
		CurrentStreak:   2,
		ByDifficulty:    session.DifficultyCounts{Easy: 5, Medium: 4, Hard: 3},
		LastStudyDay:    "2026-03-01",
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Concepts().BulkUpsert(ctx, testConcepts()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	r := progress.New("c1")
	r.Apply(progress.Good, time.Now())
	if err := s.Progress().Put(ctx, r); err != nil {
		t.Fatalf("put progress: %v", err)
	}
	if err := s.Sessions().Create(ctx, &session.Session{ID: "s1", StartedAt: time.Now()}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := s.Stats().Save(ctx, session.Statistics{Sessions: 1}); err != nil {
		t.Fatalf("save stats: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if n, _ := s.Progress().Count(ctx); n != 0 {
		t.Errorf("progress count after reset = %d", n)
	}
	if sess, _ := s.Sessions().Get(ctx, "s1"); sess != nil {
		t.Error("session survived reset")
	}
	if st, _ := s.Stats().Load(ctx); st.Sessions != 0 {
		t.Errorf("stats after reset = %+v", st)
	}
	counts, err := s.Concepts().Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[concept.Oxford3000] != 2 {
		t.Errorf("concepts were cleared by reset: %v", counts)
	}
}

func TestPackRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.Packs()
	ctx := context.Background()

	p, err := repo.Get(ctx, "oxford")
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if p != nil {
		t.Fatal("expected nil pack before import")
	}

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, v := range []string{"v1.0.0", "v1.1.0"} {
		err := repo.Put(ctx, &Pack{Name: "oxford", Version: v, Source: concept.Oxford3000, ConceptCount: 3, ImportedAt: at})
		if err != nil {
			t.Fatalf("put %s: %v", v, err)
		}
	}

	p, err = repo.Get(ctx, "oxford")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Version != "v1.1.0" || p.Source != concept.Oxford3000 || !p.ImportedAt.Equal(at) {
		t.Errorf("pack = %+v", p)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("list = %d packs, want 1", len(all))
	}
}

func TestEventRepoLLMRequests(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m1", Purpose: "enrich", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "anthropic", Model: "m1", Purpose: "enrich", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "m2", Purpose: "analysis", Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("query returned %d events, want 3", len(all))
	}
	if all[0].Purpose != "analysis" {
		t.Errorf("first event purpose = %q, want newest first", all[0].Purpose)
	}

	enrich, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "enrich", Limit: 1})
	if err != nil {
		t.Fatalf("query filtered: %v", err)
	}
	if len(enrich) != 1 || enrich[0].InputTokens != 300 {
		t.Errorf("filtered = %+v", enrich)
	}

	e, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.ErrorMessage != "rate limited" || e.Success {
		t.Errorf("event = %+v", e)
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("usage rows = %d, want 2", len(usage))
	}
	u := usage[1] // ordered by purpose: analysis, enrich
	if u.Purpose != "enrich" || u.Calls != 2 || u.InputTokens != 400 || u.OutputTokens != 200 || u.AvgLatencyMs != 300 {
		t.Errorf("enrich usage = %+v", u)
	}
}

func TestInTx(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := progress.New("c1")
	rec.Apply(progress.Bad, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	boom := errors.New("boom")

	err := s.InTx(ctx, func(ctx context.Context) error {
		if err := s.Progress().Put(ctx, rec); err != nil {
			return err
		}
		st, err := s.Stats().Load(ctx)
		if err != nil {
			return err
		}
		st.Rated++
		if err := s.Stats().Save(ctx, st); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx error = %v, want boom", err)
	}
	got, err := s.Progress().Progress(ctx, "c1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if got != nil {
		t.Fatalf("record survived rollback: %+v", got)
	}
	st, err := s.Stats().Load(ctx)
	if err != nil {
		t.Fatalf("load stats: %v", err)
	}
	if st.Rated != 0 {
		t.Errorf("rated = %d after rollback, want 0", st.Rated)
	}

	err = s.InTx(ctx, func(ctx context.Context) error {
		return s.InTx(ctx, func(ctx context.Context) error {
			return s.Progress().Put(ctx, rec)
		})
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err = s.Progress().Progress(ctx, "c1")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if got == nil || got.ReviewCount != 1 {
		t.Errorf("record after commit = %+v", got)
	}
}
