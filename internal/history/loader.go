// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history replays a session's persisted messages into a view.
package history

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
)

// DefaultInterval is the delay between replayed messages.
const DefaultInterval = 200 * time.Millisecond

// LoadErrorText is shown when history cannot be fetched.
const LoadErrorText = "Couldn't load chat history. Please try again."

// API fetches a session's history.
type API interface {
	History(ctx context.Context, sessionID string) ([]model.Message, error)
}

// Config configures a Loader.
type Config struct {
	// Interval between replayed messages. Zero replays immediately.
	Interval time.Duration

	Renderer *render.Renderer
	Logger   *log.Logger

	// Now stamps replayed entries (default time.Now).
	Now func() time.Time
}

// Loader fetches history and replays it through the renderer.
type Loader struct {
	api      API
	view     render.View
	interval atomic.Int64 // nanoseconds
	renderer *render.Renderer
	now      func() time.Time
	logger   *log.Logger
}

// NewLoader creates a loader writing to view by default.
func NewLoader(api API, view render.View, cfg Config) *Loader {
	l := &Loader{
		api:      api,
		view:     view,
		renderer: cfg.Renderer,
		now:      cfg.Now,
	}
	l.interval.Store(int64(cfg.Interval))
	if l.renderer == nil {
		l.renderer = render.NewRenderer()
	}
	if l.now == nil {
		l.now = time.Now
	}
	l.logger = logging.Or(cfg.Logger).With("component", "history")
	return l
}

// SetInterval changes the replay pacing for later loads.
func (l *Loader) SetInterval(d time.Duration) {
	l.interval.Store(int64(d))
}

// MapRole maps a server role to a display role: "assistant" becomes ai,
// anything else is the user.
func MapRole(r model.Role) render.Role {
	if r.IsAssistant() {
		return render.RoleAI
	}
	return render.RoleUser
}

// Load replays sessionID's history into the loader's view.
func (l *Loader) Load(ctx context.Context, sessionID string) (int, error) {
	return l.LoadInto(ctx, sessionID, l.view)
}

// LoadInto replays sessionID's history into view and returns how many
// messages were replayed. Empty history leaves the welcome screen up. A
// fetch failure shows an error notice; it is not retried.
//
// Replay is paced one message per interval, first message immediately. A
// cancelled ctx stops the replay and returns the count so far.
func (l *Loader) LoadInto(ctx context.Context, sessionID string, view render.View) (int, error) {
	msgs, err := l.api.History(ctx, sessionID)
	if err != nil {
		if ctx.Err() == nil {
			view.ShowError(LoadErrorText)
		}
		l.logger.Warn("history load failed", "session_id", sessionID, "err", err)
		return 0, fmt.Errorf("history for %s: %w", sessionID, err)
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	view.RemoveWelcome()

	var limiter *rate.Limiter
	if d := time.Duration(l.interval.Load()); d > 0 {
		limiter = rate.NewLimiter(rate.Every(d), 1)
	}
	for i, m := range msgs {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return i, err
			}
		} else if err := ctx.Err(); err != nil {
			return i, err
		}
		view.Append(l.renderer.Render(MapRole(m.Role), m.Content, l.now()))
	}

	l.logger.Debug("history replayed", "session_id", sessionID, "count", len(msgs))
	return len(msgs), nil
}
