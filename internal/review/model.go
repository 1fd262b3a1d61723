// Package review is the terminal screen for working through a session.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/progress"
	"github.com/abhisek/wordbridge/internal/sequence"
	"github.com/abhisek/wordbridge/internal/session"
)

// Controller records ratings and ends the session.
type Controller interface {
	Rate(ctx context.Context, sessionID string, id concept.ID, r progress.Rating) (*progress.Record, error)
	End(ctx context.Context, sessionID string) (*session.Session, error)
}

// Options tune the screen. The zero value is usable.
type Options struct {
	ShowTranslation bool
	Keys            *KeyMap
	Logger          *zap.Logger
	Now             func() time.Time
}

type phase int

const (
	phaseReview  phase = iota // presenting items
	phaseSummary              // session ended
)

// ratedMsg is sent when a rating has been stored.
type ratedMsg struct {
	ID     concept.ID
	Rating progress.Rating
	Record *progress.Record
	Err    error
}

// endedMsg is sent when the session has been closed.
type endedMsg struct {
	Session *session.Session
	Err     error
}

// Model is the bubbletea model of one review session.
type Model struct {
	ctx    context.Context
	ctrl   Controller
	logger *zap.Logger
	now    func() time.Time
	keys   KeyMap

	sess       *session.Session
	items      []sequence.Item
	cursor     int
	revealed   bool
	alwaysShow bool

	phase        phase
	pending      bool
	quitAfterEnd bool
	summary      *session.Summary
	errMsg       string

	width  int
	height int
}

// New creates the screen for a started session and its sequence.
func New(ctx context.Context, ctrl Controller, sess *session.Session, items []sequence.Item, opts Options) Model {
	m := Model{
		ctx:        ctx,
		ctrl:       ctrl,
		logger:     opts.Logger,
		now:        opts.Now,
		keys:       DefaultKeyMap(),
		sess:       sess,
		items:      items,
		alwaysShow: opts.ShowTranslation,
	}
	if opts.Keys != nil {
		m.keys = *opts.Keys
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Current returns the item being presented.
func (m Model) Current() (sequence.Item, bool) {
	if m.cursor >= len(m.items) {
		return sequence.Item{}, false
	}
	return m.items[m.cursor], true
}

// Summary is set once the session has ended.
func (m Model) Summary() *session.Summary {
	return m.summary
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ratedMsg:
		return m.handleRated(msg)

	case endedMsg:
		return m.handleEnded(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Abort) {
		if m.phase == phaseReview && !m.pending {
			m.quitAfterEnd = true
			m.pending = true
			return m, m.endCmd()
		}
		return m, tea.Quit
	}

	if m.phase == phaseSummary {
		return m, tea.Quit
	}
	if m.pending {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.pending = true
		return m, m.endCmd()
	case key.Matches(msg, m.keys.Reveal):
		if _, ok := m.Current(); ok {
			m.revealed = true
		}
		return m, nil
	case key.Matches(msg, m.keys.Good):
		return m.rate(progress.Good)
	case key.Matches(msg, m.keys.Normal):
		return m.rate(progress.Normal)
	case key.Matches(msg, m.keys.Bad):
		return m.rate(progress.Bad)
	}
	return m, nil
}

func (m Model) rate(r progress.Rating) (tea.Model, tea.Cmd) {
	item, ok := m.Current()
	if !ok {
		return m, nil
	}
	m.pending = true
	m.errMsg = ""
	id := item.Concept.ConceptID()
	sessionID := m.sess.ID
	return m, func() tea.Msg {
		rec, err := m.ctrl.Rate(m.ctx, sessionID, id, r)
		return ratedMsg{ID: id, Rating: r, Record: rec, Err: err}
	}
}

func (m Model) endCmd() tea.Cmd {
	sessionID := m.sess.ID
	return func() tea.Msg {
		s, err := m.ctrl.End(m.ctx, sessionID)
		return endedMsg{Session: s, Err: err}
	}
}

func (m Model) handleRated(msg ratedMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	if msg.Err != nil {
		m.logger.Error("rate concept", zap.String("concept_id", string(msg.ID)), zap.Error(msg.Err))
		if errors.Is(msg.Err, session.ErrClosed) {
			m.errMsg = "this session has already ended"
			m.pending = true
			return m, m.endCmd()
		}
		m.errMsg = fmt.Sprintf("could not save rating: %v", msg.Err)
		return m, nil
	}

	m.sess.Completed++
	switch msg.Rating {
	case progress.Good:
		m.sess.Good++
	case progress.Normal:
		m.sess.Normal++
	case progress.Bad:
		m.sess.Bad++
	}

	m.cursor++
	m.revealed = false
	if m.cursor >= len(m.items) {
		m.pending = true
		return m, m.endCmd()
	}
	return m, nil
}

func (m Model) handleEnded(msg endedMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	switch {
	case msg.Err == nil:
		m.sess = msg.Session
	case errors.Is(msg.Err, session.ErrClosed):
		// Closed elsewhere; summarize what this screen saw.
	default:
		m.logger.Error("end session", zap.String("session_id", m.sess.ID), zap.Error(msg.Err))
		m.errMsg = fmt.Sprintf("could not end session: %v", msg.Err)
		if m.quitAfterEnd {
			return m, tea.Quit
		}
		return m, nil
	}

	m.phase = phaseSummary
	m.summary = session.BuildSummary(m.sess, m.now())
	if m.quitAfterEnd {
		return m, tea.Quit
	}
	return m, nil
}

// Run shows the screen until the learner quits and returns the final model.
func Run(ctx context.Context, m Model) (Model, error) {
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return m, fmt.Errorf("run review: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("run review: unexpected model %T", final)
	}
	return fm, nil
}
