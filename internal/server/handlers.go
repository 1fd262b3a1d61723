package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/scoring"
	"github.com/abhisek/wordbridge/internal/sequence"
	"github.com/abhisek/wordbridge/internal/session"
	"github.com/abhisek/wordbridge/internal/sessioncache"
	"github.com/abhisek/wordbridge/internal/settings"
)

type groupRequest struct {
	Pairs []scoring.Pair `json:"pairs"`
}

type startRequest struct {
	Count int `json:"count"`
}

type rateRequest struct {
	ConceptID concept.ID `json:"concept_id"`
	Rating    string     `json:"rating"`
}

// SummaryResponse is the end-of-session summary.
type SummaryResponse struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Target          int     `json:"total_concepts"`
	Completed       int     `json:"completed_concepts"`
	Good            int     `json:"good"`
	Normal          int     `json:"normal"`
	Bad             int     `json:"bad"`
	Accuracy        float64 `json:"accuracy"`
}

// SessionResponse describes a session and, while it is cached, its sequence.
type SessionResponse struct {
	Session   *session.Session `json:"session"`
	Summary   SummaryResponse  `json:"summary"`
	Items     []sequence.Item  `json:"items,omitempty"`
	Cursor    int              `json:"cursor"`
	Remaining int              `json:"remaining"`
}

// RatingResponse is returned after a rating is recorded.
type RatingResponse struct {
	Progress  *progress.Record `json:"progress"`
	Next      *sequence.Item   `json:"next,omitempty"`
	Remaining int              `json:"remaining"`
}

func summarize(sess *session.Session, now time.Time) SummaryResponse {
	sum := session.BuildSummary(sess, now)
	return SummaryResponse{
		DurationSeconds: sum.Duration.Seconds(),
		Target:          sum.Target,
		Completed:       sum.Completed,
		Good:            sum.Good,
		Normal:          sum.Normal,
		Bad:             sum.Bad,
		Accuracy:        sum.Accuracy,
	}
}

func (s *Server) score(w http.ResponseWriter, r *http.Request) {
	var p scoring.Pair
	if err := decode(w, r, &p, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validatePair(p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoring.ScoreClear(p))
}

func (s *Server) scoreGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, p := range req.Pairs {
		if err := validatePair(p); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	res, err := scoring.ScoreFuzzyGroup(req.Pairs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func validatePair(p scoring.Pair) error {
	if strings.TrimSpace(p.English) == "" || strings.TrimSpace(p.Translation) == "" {
		return badRequest("english and translation are required")
	}
	if p.Meaning != nil && (*p.Meaning < 0 || *p.Meaning > 1) {
		return badRequest("meaning_distance must be within [0, 1]")
	}
	return nil
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var st settings.Settings
	if err := decode(w, r, &st, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := st.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.settings.Save(r.Context(), st); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(w, r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Count < 0 {
		s.writeError(w, r, badRequest("count must not be negative"))
		return
	}

	sess, items, err := s.sessions.Start(r.Context(), req.Count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := &sessioncache.State{SessionID: sess.ID, Items: items}
	s.cachePut(r.Context(), st)

	writeJSON(w, http.StatusCreated, SessionResponse{
		Session:   sess,
		Summary:   summarize(sess, s.now()),
		Items:     items,
		Remaining: st.Remaining(),
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := SessionResponse{Session: sess, Summary: summarize(sess, s.now())}
	if !sess.Closed() {
		if st := s.cacheGet(r.Context(), sess.ID); st != nil {
			resp.Items = st.Items
			resp.Cursor = st.Cursor
			resp.Remaining = st.Remaining()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) rate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req rateRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ConceptID == "" {
		s.writeError(w, r, badRequest("concept_id is required"))
		return
	}
	rating, err := progress.ParseRating(req.Rating)
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}

	rec, err := s.sessions.Rate(r.Context(), id, req.ConceptID, rating)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := RatingResponse{Progress: rec}
	if st := s.cacheGet(r.Context(), id); st != nil {
		advance(st, req.ConceptID)
		s.cachePut(r.Context(), st)
		if next, ok := st.Current(); ok {
			resp.Next = &next
		}
		resp.Remaining = st.Remaining()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.End(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Delete(r.Context(), sess.ID); err != nil {
		s.logger.Warn("evict session state", zap.String("session_id", sess.ID), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, SessionResponse{Session: sess, Summary: summarize(sess, s.now())})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// advance moves the cursor past the rated concept. Rating an item out of
// order jumps to it; rating one already passed leaves the cursor alone.
func advance(st *sessioncache.State, id concept.ID) {
	for i := st.Cursor; i < len(st.Items); i++ {
		if st.Items[i].Concept.ConceptID() == id {
			st.Cursor = i + 1
			return
		}
	}
}

// cacheGet returns the cached state or nil. Cache failures are logged,
// never returned.
func (s *Server) cacheGet(ctx context.Context, id string) *sessioncache.State {
	st, err := s.cache.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, sessioncache.ErrNotFound) {
			s.logger.Warn("load session state", zap.String("session_id", id), zap.Error(err))
		}
		return nil
	}
	return st
}

func (s *Server) cachePut(ctx context.Context, st *sessioncache.State) {
	if err := s.cache.Put(ctx, st); err != nil {
		s.logger.Warn("cache session state", zap.String("session_id", st.SessionID), zap.Error(err))
	}
}
