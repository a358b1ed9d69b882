// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/app"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/quiz"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	sidebarWidth = 28
	inputHeight  = 3
	headerHeight = 1
	footerHeight = 1
	minWidth     = 40

	typingText = "SAHPAATHI is typing"
)

// Options configures the TUI.
type Options struct {
	// Legacy clears the server conversation before each new chat.
	Legacy bool

	// OutputDir receives downloaded PDFs, question papers and exports.
	OutputDir string
}

// statusLevel picks the style of the status line.
type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusError
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	app  *app.App
	opts Options

	// ctx outlives individual operations; cancel ends in-flight requests on quit.
	ctx    context.Context
	cancel context.CancelFunc

	// Styling
	theme *styles.Theme
	term  *render.Terminal
	cache *entryCache

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	// Transcript change notifications, one slot deep.
	changes chan struct{}
	version uint64
	typing  int

	// Sidebar
	sidebarOpen   bool
	sidebarCursor int

	// Quiz attempt shown in the quiz panel.
	attempt *quiz.Attempt
	paper   string

	showHelp bool
	started  bool

	status      string
	statusLevel statusLevel

	quitting bool
}

// New creates the chat model. a must be wired but not yet started; Init
// starts it.
func New(a *app.App, opts Options) *Model {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	ctx, cancel := context.WithCancel(context.Background())

	ta := textarea.New()
	ta.Placeholder = "Ask SAHPAATHI anything... (/help for commands)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight - 1)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(styles.TypingSpinner))

	m := &Model{
		app:         a,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		input:       ta,
		spinner:     sp,
		changes:     make(chan struct{}, 1),
		sidebarOpen: a.Config().UI.SidebarOpen,
		cache:       newEntryCache(),
	}
	m.applyTheme()

	// Listeners may run under session locks: never block here.
	a.Transcript.OnChange(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	a.SetSidebarOpen(m.sidebarOpen)
	return m
}

// Init starts the session load and the background loops.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startCmd(),
		m.waitForChange(),
		textarea.Blink,
	)
}

// Close cancels in-flight work. The app is closed by its owner.
func (m *Model) Close() {
	m.cancel()
}

// =============================================================================
// THEME
// =============================================================================

// applyTheme rebuilds styles and the terminal renderer for the current mode
// and width, dropping cached entry renders.
func (m *Model) applyTheme() {
	mode := m.app.Theme.Mode()
	m.theme = styles.New(mode)
	m.term = render.NewTerminal(render.TerminalOptions{
		Mode:  mode,
		Width: m.transcriptWidth(),
	})
	m.cache.reset()
	m.spinner.Style = m.theme.Typing
	m.help.Styles.ShortKey = m.theme.ShortcutKey
	m.help.Styles.ShortDesc = m.theme.ShortcutDesc
	m.help.Styles.FullKey = m.theme.ShortcutKey
	m.help.Styles.FullDesc = m.theme.ShortcutDesc
}

// transcriptWidth is the wrap width for entries.
func (m *Model) transcriptWidth() int {
	w := m.width
	if m.sidebarOpen && w-sidebarWidth >= minWidth {
		w -= sidebarWidth
	}
	w -= 4
	if cfgWrap := m.app.Config().UI.WordWrap; cfgWrap > 0 && cfgWrap < w {
		w = cfgWrap
	}
	if w < 20 {
		w = 20
	}
	return w
}
