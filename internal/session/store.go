// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/util"
)

// ErrNoSuchSession is returned by SwitchToIndex for an out-of-range index.
var ErrNoSuchSession = errors.New("no such session")

// =============================================================================
// COLLABORATORS
// =============================================================================

// API is the subset of the backend client the store uses.
type API interface {
	ListSessions(ctx context.Context) ([]model.Session, error)
	CreateSession(ctx context.Context, name string) (string, error)
	RenameSession(ctx context.Context, id, name string) error
}

// HistoryLoader replays a session's history into a view and reports how
// many messages it replayed.
type HistoryLoader interface {
	LoadInto(ctx context.Context, sessionID string, view render.View) (int, error)
}

// Token identifies one activation of a session. It goes stale when another
// session becomes current or a new one is created.
type Token struct {
	SessionID string
	gen       uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// =============================================================================
// STORE
// =============================================================================

// Store owns the current session, the cached session list and the
// first-question flag. It is safe for concurrent use.
type Store struct {
	api    API
	loader HistoryLoader
	view   render.View
	logger *log.Logger

	mu         sync.Mutex
	current    model.Session
	hasCurrent bool
	gen        uint64
	sessions   []model.Session
	firstSeen  bool
	loadCancel context.CancelFunc
}

// NewStore creates a store that renders into view.
func NewStore(api API, loader HistoryLoader, view render.View, opts ...Option) *Store {
	s := &Store{api: api, loader: loader, view: view}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Or(s.logger).With("component", "session")
	return s
}

// Initialize lists sessions and activates the most recent one, loading its
// history. With no sessions (or a failed list) it creates a fresh one.
func (s *Store) Initialize(ctx context.Context) error {
	list, err := s.api.ListSessions(ctx)
	if err != nil {
		s.logger.Warn("session list failed, starting fresh", "err", err)
		list = nil
	}

	s.mu.Lock()
	s.sessions = list
	s.mu.Unlock()

	if len(list) == 0 {
		_, err := s.CreateSession(ctx, "")
		return err
	}
	return s.activate(ctx, list[0])
}

// CreateSession creates a session and makes it current. An empty name
// becomes model.DefaultSessionName. On failure the previous session (if any)
// stays current and an error notice is shown.
func (s *Store) CreateSession(ctx context.Context, name string) (model.Session, error) {
	if name == "" {
		name = model.DefaultSessionName
	}
	id, err := s.api.CreateSession(ctx, name)
	if err != nil {
		s.logger.Error("create session failed", "err", err)
		s.view.ShowError("Couldn't start a new chat. Please try again.")
		return model.Session{}, fmt.Errorf("create session: %w", err)
	}

	sess := model.Session{ID: id, Name: name}
	s.mu.Lock()
	s.cancelLoadLocked()
	s.current = sess
	s.hasCurrent = true
	s.gen++
	s.firstSeen = false
	s.sessions = append([]model.Session{sess}, removeSession(s.sessions, id)...)
	s.view.Clear()
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", id)
	return sess, nil
}

// SwitchTo makes sessionID current and replays its history. Switching to
// the current session does nothing.
func (s *Store) SwitchTo(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	if s.hasCurrent && s.current.ID == sessionID {
		s.mu.Unlock()
		return nil
	}
	sess := model.Session{ID: sessionID}
	for _, known := range s.sessions {
		if known.ID == sessionID {
			sess = known
			break
		}
	}
	s.mu.Unlock()

	return s.activate(ctx, sess)
}

// Reload reloads the history of sessionID when it is the current session,
// whatever its generation. It reports whether a reload ran.
func (s *Store) Reload(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	if !s.hasCurrent || s.current.ID != sessionID {
		s.mu.Unlock()
		return false, nil
	}
	sess := s.current
	s.mu.Unlock()
	return true, s.activate(ctx, sess)
}

// SwitchToIndex switches to the i-th cached session (0 = most recent).
func (s *Store) SwitchToIndex(ctx context.Context, i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.sessions) {
		n := len(s.sessions)
		s.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrNoSuchSession, i+1, n)
	}
	id := s.sessions[i].ID
	s.mu.Unlock()
	return s.SwitchTo(ctx, id)
}

// activate clears the view, makes sess current and loads its history.
func (s *Store) activate(ctx context.Context, sess model.Session) error {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancelLoadLocked()
	s.loadCancel = cancel
	s.current = sess
	s.hasCurrent = true
	s.gen++
	s.firstSeen = false
	tok := Token{SessionID: sess.ID, gen: s.gen}
	s.view.Clear()
	s.mu.Unlock()

	s.logger.Debug("session activated", "session_id", sess.ID)

	n, err := s.loader.LoadInto(loadCtx, sess.ID, s.ViewFor(tok))
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	// A session that already has messages keeps its name.
	s.mu.Lock()
	if n > 0 && s.isCurrentLocked(tok) {
		s.firstSeen = true
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) cancelLoadLocked() {
	if s.loadCancel != nil {
		s.loadCancel()
		s.loadCancel = nil
	}
}

// =============================================================================
// FIRST-MESSAGE RENAME
// =============================================================================

// RenameCurrentOnFirstMessage names the current session after text the first
// time it is called for this activation. It reports whether a rename was
// attempted. Later calls are suppressed even if the rename failed.
func (s *Store) RenameCurrentOnFirstMessage(ctx context.Context, text string) (bool, error) {
	run, ok := s.BeginFirstMessageRename(text)
	if !ok {
		return false, nil
	}
	return true, run(ctx)
}

// BeginFirstMessageRename claims the first-question flag synchronously and
// returns the rename call to run, possibly on another goroutine. The target
// session is fixed at claim time.
func (s *Store) BeginFirstMessageRename(text string) (func(ctx context.Context) error, bool) {
	s.mu.Lock()
	if !s.hasCurrent || s.firstSeen {
		s.mu.Unlock()
		return nil, false
	}
	s.firstSeen = true
	id := s.current.ID
	s.mu.Unlock()

	name := util.TruncateName(text, model.MaxSessionNameRunes)
	if name == "" {
		name = model.DefaultSessionName
	}

	return func(ctx context.Context) error {
		if err := s.api.RenameSession(ctx, id, name); err != nil {
			s.logger.Warn("rename failed", "session_id", id, "err", err)
			return fmt.Errorf("rename session: %w", err)
		}
		s.mu.Lock()
		if s.current.ID == id {
			s.current.Name = name
		}
		for i := range s.sessions {
			if s.sessions[i].ID == id {
				s.sessions[i].Name = name
			}
		}
		s.mu.Unlock()
		s.logger.Debug("session renamed", "session_id", id, "name", name)
		return nil
	}, true
}

// =============================================================================
// QUERIES
// =============================================================================

// Refresh re-reads the session list. On failure the cache is kept.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.api.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("refresh sessions: %w", err)
	}
	s.mu.Lock()
	s.sessions = list
	for _, sess := range list {
		if s.hasCurrent && sess.ID == s.current.ID {
			s.current.Name = sess.Name
		}
	}
	s.mu.Unlock()
	return nil
}

// Current returns the current session and its token.
func (s *Store) Current() (model.Session, Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, Token{SessionID: s.current.ID, gen: s.gen}, s.hasCurrent
}

// IsCurrent reports whether tok still names the active session.
func (s *Store) IsCurrent(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCurrentLocked(tok)
}

func (s *Store) isCurrentLocked(tok Token) bool {
	return s.hasCurrent && tok.gen == s.gen && tok.SessionID == s.current.ID
}

// Sessions returns a copy of the cached list, most recent first.
func (s *Store) Sessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Session(nil), s.sessions...)
}

func removeSession(list []model.Session, id string) []model.Session {
	out := make([]model.Session, 0, len(list))
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
