// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/session"
)

// DefaultReplyDelay is the pause before a reply is shown.
const DefaultReplyDelay = 300 * time.Millisecond

// ErrorText replaces the reply when the chat call fails.
const ErrorText = "Sorry, I couldn't process your request. Please try again."

var (
	// ErrEmptyInput is returned for empty or whitespace-only input.
	ErrEmptyInput = errors.New("message is empty")

	// ErrNoSession is returned when no session is current.
	ErrNoSession = errors.New("no active session")
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// API sends one chat message.
type API interface {
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
}

// Sessions is the part of the session store the controller needs.
type Sessions interface {
	Current() (model.Session, session.Token, bool)
	IsCurrent(tok session.Token) bool
	ViewFor(tok session.Token) render.View
	BeginFirstMessageRename(text string) (func(ctx context.Context) error, bool)
	Refresh(ctx context.Context) error
	Reload(ctx context.Context, sessionID string) (bool, error)
}

// Persona supplies the active teacher instructions, if any.
type Persona interface {
	PromptPrefix() (string, bool)
}

// ApplyPersona prefixes msg with persona instructions.
func ApplyPersona(instructions, msg string) string {
	return instructions + "\n\nUser question: " + msg
}

// Config configures a Controller.
type Config struct {
	// ReplyDelay pauses before each reply is shown. Zero disables it.
	ReplyDelay time.Duration

	Persona  Persona
	Renderer *render.Renderer
	Logger   *log.Logger
	Now      func() time.Time

	// OnTransition observes every state change (tests, status bars).
	OnTransition func(Exchange)
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller sends messages and applies their results in order.
type Controller struct {
	api      API
	sessions Sessions
	persona  Persona
	renderer *render.Renderer
	logger   *log.Logger
	now      func() time.Time
	observe  func(Exchange)

	replyDelay  atomic.Int64
	sidebarOpen atomic.Bool

	mu   sync.Mutex
	seq  uint64
	tail chan struct{} // closed once the latest exchange has been applied

	wg sync.WaitGroup
}

// NewController creates a controller.
func NewController(client API, sessions Sessions, cfg Config) *Controller {
	c := &Controller{
		api:      client,
		sessions: sessions,
		persona:  cfg.Persona,
		renderer: cfg.Renderer,
		now:      cfg.Now,
		observe:  cfg.OnTransition,
	}
	if c.renderer == nil {
		c.renderer = render.NewRenderer()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.logger = logging.Or(cfg.Logger).With("component", "chat")
	c.replyDelay.Store(int64(cfg.ReplyDelay))

	done := make(chan struct{})
	close(done)
	c.tail = done
	return c
}

// SetReplyDelay changes the delay for later replies.
func (c *Controller) SetReplyDelay(d time.Duration) {
	c.replyDelay.Store(int64(d))
}

// SetSidebarOpen controls whether the session list is refreshed after
// each reply.
func (c *Controller) SetSidebarOpen(open bool) {
	c.sidebarOpen.Store(open)
}

// Pending is the handle for one in-flight exchange.
type Pending struct {
	done chan struct{}
	ex   Exchange
}

// Done is closed once the result has been applied to the view.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the exchange is applied or ctx ends.
func (p *Pending) Wait(ctx context.Context) (Exchange, error) {
	select {
	case <-p.done:
		return p.ex, nil
	case <-ctx.Done():
		return Exchange{}, ctx.Err()
	}
}

// Submit sends text. The user entry and typing indicator are on screen
// before Submit returns; the reply is applied later, in submission order.
// Empty input returns ErrEmptyInput and changes nothing.
func (c *Controller) Submit(ctx context.Context, text string) (*Pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	sess, tok, ok := c.sessions.Current()
	if !ok {
		return nil, ErrNoSession
	}
	view := c.sessions.ViewFor(tok)

	ex := Exchange{ID: uuid.NewString(), SessionID: sess.ID, Text: text, State: Composing}

	// Sent: optimistic render, then the once-per-session rename in the background.
	view.Append(c.renderer.Render(render.RoleUser, text, c.now()))
	c.transition(&ex, Sent)

	if rename, ok := c.sessions.BeginFirstMessageRename(text); ok {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			_ = rename(context.WithoutCancel(ctx))
		}()
	}

	// AwaitingReply.
	typing := view.ShowTyping()
	ex.Prompt = text
	if c.persona != nil {
		if instructions, active := c.persona.PromptPrefix(); active {
			ex.Prompt = ApplyPersona(instructions, text)
		}
	}

	c.mu.Lock()
	c.seq++
	ex.Seq = c.seq
	prev := c.tail
	done := make(chan struct{})
	c.tail = done
	c.mu.Unlock()

	c.transition(&ex, AwaitingReply)

	p := &Pending{done: done}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)

		reply, err := c.api.Chat(ctx, api.ChatRequest{Prompt: ex.Prompt, SessionID: sess.ID})

		// Apply strictly after the previous exchange.
		<-prev
		c.apply(ctx, &ex, tok, view, typing, reply, err)
		p.ex = ex
	}()
	return p, nil
}

// apply resolves or fails an exchange against its view.
func (c *Controller) apply(ctx context.Context, ex *Exchange, tok session.Token, view render.View, typing render.TypingID, reply string, err error) {
	view.RemoveTyping(typing)
	ex.Dropped = !c.sessions.IsCurrent(tok)

	if err != nil {
		ex.Err = err
		c.logger.Warn("chat failed", "session_id", ex.SessionID, "seq", ex.Seq, "err", err)
		view.ShowError(ErrorText)
		c.transition(ex, Failed)
		return
	}

	ex.Reply = reply
	if !ex.Dropped {
		sleepCtx(ctx, time.Duration(c.replyDelay.Load()))
	}
	view.Append(c.renderer.Render(render.RoleAI, reply, c.now()))

	// The user may have switched away and back; the history loaded on the
	// way back can predate this reply.
	if ex.Dropped {
		reloaded, err := c.sessions.Reload(context.WithoutCancel(ctx), ex.SessionID)
		switch {
		case err != nil:
			c.logger.Warn("history reload failed", "session_id", ex.SessionID, "err", err)
		case reloaded:
			c.logger.Debug("history reloaded for late reply", "session_id", ex.SessionID, "seq", ex.Seq)
		default:
			c.logger.Info("reply for inactive session dropped", "session_id", ex.SessionID, "seq", ex.Seq)
		}
	}
	c.transition(ex, Resolved)

	if c.sidebarOpen.Load() {
		if err := c.sessions.Refresh(context.WithoutCancel(ctx)); err != nil {
			c.logger.Debug("session refresh failed", "err", err)
		}
	}
}

func (c *Controller) transition(ex *Exchange, to State) {
	ex.State = to
	c.logger.Debug("exchange", "id", ex.ID, "seq", ex.Seq, "state", to)
	if c.observe != nil {
		c.observe(*ex)
	}
}

// Wait blocks until every in-flight exchange and background rename is done.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
