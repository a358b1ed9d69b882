// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app owns the application state: configuration, persisted prefs,
// the backend client, the transcript and every component that reads or
// writes them. Front ends (TUI, REPL, CLI commands) receive an *App instead
// of reaching for globals.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/chat"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/config"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/export"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/history"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/session"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/storage"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/theme"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/pdf"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/prompts"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/quiz"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/teacher"
)

// Options configures New. Only Config is required.
type Options struct {
	Config *config.Config

	// Prefs overrides the sqlite store (tests, --no-store).
	Prefs storage.Prefs

	// Logger overrides the file logger.
	Logger *log.Logger

	HTTPClient *http.Client

	// OnTransition observes chat exchanges (status bars).
	OnTransition func(chat.Exchange)
}

// App is the explicit application state.
type App struct {
	cfg atomic.Pointer[config.Config]

	Logger *log.Logger
	Prefs  storage.Prefs
	Theme  *theme.State
	Client *api.Client

	// Transcript is the single authoritative message list; views render it.
	Transcript *render.Transcript
	Renderer   *render.Renderer

	History  *history.Loader
	Sessions *session.Store
	Chat     *chat.Controller

	Tools    *tools.Registry
	PDF      *pdf.Converter
	Quiz     *quiz.Generator
	Teachers *teacher.Manager
	Prompts  *prompts.Library

	closers []func() error
}

// New wires every component. It does not touch the network; call Start.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	a := &App{}
	a.cfg.Store(cfg.Clone())

	a.Logger = opts.Logger
	if a.Logger == nil {
		path, err := cfg.LogPath()
		if err != nil {
			return nil, err
		}
		lf, err := logging.Open(logging.Options{Path: path, Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return nil, err
		}
		a.Logger = lf.Logger
		a.closers = append(a.closers, lf.Close)
	}

	a.Prefs = opts.Prefs
	if a.Prefs == nil {
		a.Prefs = a.openPrefs()
	}

	a.Theme = theme.Load(a.Prefs)
	a.Client = api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:        cfg.Server.BaseURL,
		Timeout:        cfg.Timeout(),
		LegacyFallback: cfg.Server.LegacyFallback,
		Logger:         a.Logger,
		HTTPClient:     opts.HTTPClient,
	})

	a.Renderer = render.NewRenderer()
	a.Transcript = render.NewTranscript(render.Welcome{Title: cfg.Chat.WelcomeTitle, Text: cfg.Chat.WelcomeText})

	a.History = history.NewLoader(a.Client, a.Transcript, history.Config{
		Interval: cfg.ReplayInterval(),
		Renderer: a.Renderer,
		Logger:   a.Logger,
	})
	a.Sessions = session.NewStore(a.Client, a.History, a.Transcript, session.WithLogger(a.Logger))

	a.Teachers = teacher.New(a.Client, a.Prefs, a.Logger)
	a.Prompts = prompts.New(a.Prefs, a.Logger)
	a.PDF = pdf.New(a.Client, a.Logger)
	a.Quiz = quiz.New(a.Client, a.Logger)
	a.Tools = tools.NewDefaultRegistry()

	a.Chat = chat.NewController(a.Client, a.Sessions, chat.Config{
		ReplyDelay:   cfg.ReplyDelay(),
		Persona:      a.Teachers,
		Renderer:     a.Renderer,
		Logger:       a.Logger,
		OnTransition: opts.OnTransition,
	})
	a.Chat.SetSidebarOpen(cfg.UI.SidebarOpen)

	a.Logger.Debug("app wired", "base_url", cfg.Server.BaseURL, "theme", a.Theme.Mode())
	return a, nil
}

// openPrefs opens the sqlite store, falling back to memory so a broken
// data directory never blocks chatting.
func (a *App) openPrefs() storage.Prefs {
	path, err := a.Config().DBPath()
	if err == nil {
		var store *storage.SQLiteStore
		store, err = storage.OpenSQLite(path)
		if err == nil {
			a.closers = append(a.closers, store.Close)
			return store
		}
	}
	a.Logger.Warn("prefs unavailable, using memory", "err", err)
	return storage.NewMemoryStore()
}

// Start loads sessions (creating one if needed) and the teacher list.
// A teacher list failure is logged, not returned.
func (a *App) Start(ctx context.Context) error {
	if err := a.Teachers.Refresh(ctx); err != nil {
		a.Logger.Warn("teacher list unavailable", "err", err)
	}
	return a.Sessions.Initialize(ctx)
}

// =============================================================================
// RUNTIME CHANGES
// =============================================================================

// ApplyConfig applies the settings that can change while running. Server
// settings take effect on restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Chat.SetReplyDelay(cfg.ReplyDelay())
	a.History.SetInterval(cfg.ReplayInterval())
	a.Chat.SetSidebarOpen(cfg.UI.SidebarOpen)
	a.Logger.SetLevel(logging.ParseLevel(cfg.Log.Level))
	a.Transcript.SetWelcome(render.Welcome{Title: cfg.Chat.WelcomeTitle, Text: cfg.Chat.WelcomeText})

	a.cfg.Store(cfg.Clone())
	a.Logger.Info("config applied")
}

// Config returns the configuration currently in effect.
func (a *App) Config() *config.Config {
	return a.cfg.Load()
}

// WatchConfig reloads path on change. onApplied runs after each successful
// reload; it may be nil.
func (a *App) WatchConfig(path string, onApplied func(*config.Config)) (*config.Watcher, error) {
	return config.Watch(path, config.DefaultDebounce,
		func(cfg *config.Config) {
			a.ApplyConfig(cfg)
			if onApplied != nil {
				onApplied(cfg)
			}
		},
		func(err error) {
			a.Logger.Warn("config reload failed", "err", err)
		},
	)
}

// SetSidebarOpen records the sidebar state used to decide whether the
// session list is refreshed after replies.
func (a *App) SetSidebarOpen(open bool) {
	a.Chat.SetSidebarOpen(open)
}

// =============================================================================
// SESSION HELPERS
// =============================================================================

// NewChat starts a new session. With legacy set, the server's single
// conversation is cleared first, as older backends expect.
func (a *App) NewChat(ctx context.Context, legacy bool) (model.Session, error) {
	if legacy {
		if err := a.Client.Clear(ctx); err != nil {
			a.Logger.Warn("legacy clear failed", "err", err)
		}
	}
	return a.Sessions.CreateSession(ctx, "")
}

// Conversation fetches a session's history for export. An empty id means
// the current session.
func (a *App) Conversation(ctx context.Context, sessionID string) (export.Conversation, error) {
	sess, err := a.resolveSession(ctx, sessionID)
	if err != nil {
		return export.Conversation{}, err
	}
	msgs, err := a.Client.History(ctx, sess.ID)
	if err != nil {
		return export.Conversation{}, fmt.Errorf("fetch history: %w", err)
	}
	return export.Conversation{Session: sess, Messages: msgs, ExportedAt: time.Now()}, nil
}

// Export writes a session's history in format under dir.
func (a *App) Export(ctx context.Context, sessionID, format, dir string) (string, error) {
	conv, err := a.Conversation(ctx, sessionID)
	if err != nil {
		return "", err
	}
	opts := export.DefaultOptions()
	opts.OutputDir = dir
	opts.Theme = string(a.Theme.Mode())
	path, err := export.ExportFormat(conv, format, opts)
	if err != nil {
		return "", err
	}
	a.Logger.Info("exported", "session_id", conv.Session.ID, "format", format, "path", path)
	return path, nil
}

func (a *App) resolveSession(ctx context.Context, id string) (model.Session, error) {
	if id == "" {
		cur, _, ok := a.Sessions.Current()
		if !ok {
			return model.Session{}, chat.ErrNoSession
		}
		return cur, nil
	}
	for _, s := range a.Sessions.Sessions() {
		if s.ID == id {
			return s, nil
		}
	}
	if err := a.Sessions.Refresh(ctx); err == nil {
		for _, s := range a.Sessions.Sessions() {
			if s.ID == id {
				return s, nil
			}
		}
	}
	return model.Session{ID: id}, nil
}

// =============================================================================
// SHUTDOWN
// =============================================================================

// Close waits for in-flight exchanges and releases files.
func (a *App) Close() error {
	a.Chat.Wait()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
