// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/chat"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// startCmd loads or creates the first session.
func (m *Model) startCmd() tea.Cmd {
	ctx := m.ctx
	a := m.app
	return func() tea.Msg {
		return StartedMsg{Err: a.Start(ctx)}
	}
}

// waitForChange blocks until the transcript changes. It is re-armed after
// every TranscriptChangedMsg.
func (m *Model) waitForChange() tea.Cmd {
	ctx, ch := m.ctx, m.changes
	return func() tea.Msg {
		select {
		case <-ch:
			return TranscriptChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// waitForExchange reports when p has been applied.
func (m *Model) waitForExchange(p *chat.Pending) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		ex, err := p.Wait(ctx)
		return ExchangeDoneMsg{Exchange: ex, Err: err}
	}
}

// run executes fn in the background and reports the outcome as OpDoneMsg.
// Every backend operation outside chat goes through here.
func (m *Model) run(op string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		status, err := fn(ctx)
		return OpDoneMsg{Op: op, Status: status, Err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}

	case StartedMsg:
		m.started = true
		if msg.Err != nil {
			m.setStatus(statusError, "Could not start a session: "+msg.Err.Error())
		}
		m.refresh()
		return m, nil

	case TranscriptChangedMsg:
		m.refresh()
		cmds = append(cmds, m.waitForChange())
		if m.typing > 0 {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.typing == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case ExchangeDoneMsg:
		if msg.Err == nil && msg.Exchange.State == chat.Failed {
			m.setStatus(statusError, "Message failed: "+msg.Exchange.Err.Error())
		}
		return m, nil

	case OpDoneMsg:
		if msg.Err != nil {
			m.setStatus(statusError, msg.Op+": "+msg.Err.Error())
		} else if msg.Status != "" {
			m.setStatus(statusSuccess, msg.Status)
		}
		m.clampSidebar()
		m.refresh()
		return m, nil

	case QuizReadyMsg:
		return m, m.handleQuizReady(msg)

	case PaperReadyMsg:
		return m, m.handlePaperReady(msg)

	case ConfigAppliedMsg:
		m.sidebarOpen = msg.Config.UI.SidebarOpen
		m.resize(m.width, m.height)
		m.setStatus(statusInfo, "Configuration reloaded")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey processes global shortcuts. Keys it does not claim fall through
// to the input and viewport.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Close):
		switch {
		case m.showHelp:
			m.showHelp = false
		case m.activePanel() != "":
			m.app.Tools.HideAll()
		default:
			m.status = ""
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Sidebar):
		m.toggleSidebar()
		return m, nil, true

	case key.Matches(msg, m.keys.SessionUp):
		m.moveSidebar(-1)
		return m, nil, true

	case key.Matches(msg, m.keys.SessionDown):
		m.moveSidebar(1)
		return m, nil, true

	case key.Matches(msg, m.keys.SessionOpen):
		return m, m.switchSession(m.sidebarCursor), true

	case key.Matches(msg, m.keys.NewChat):
		return m, m.newChat(), true

	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
		return m, nil, true

	case key.Matches(msg, m.keys.Copy):
		m.copyLastReply()
		return m, nil, true

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil, true

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil, true

	case key.Matches(msg, m.keys.Submit):
		return m, m.submit(), true
	}
	return m, nil, false
}

// submit routes the input: slash commands, quiz answers, then chat.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	m.input.Reset()

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}
	if m.answeringQuiz() {
		m.answerQuiz(text)
		return nil
	}

	p, err := m.app.Chat.Submit(m.ctx, text)
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return nil
	case err != nil:
		m.setStatus(statusError, err.Error())
		return nil
	}
	m.status = ""
	return m.waitForExchange(p)
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m *Model) newChat() tea.Cmd {
	legacy := m.opts.Legacy
	a := m.app
	m.sidebarCursor = 0
	return m.run("New chat", func(ctx context.Context) (string, error) {
		sess, err := a.NewChat(ctx, legacy)
		if err != nil {
			return "", err
		}
		return "Started " + sess.DisplayName(), nil
	})
}

// switchSession opens the session at index i of the sidebar list.
func (m *Model) switchSession(i int) tea.Cmd {
	a := m.app
	list := a.Sessions.Sessions()
	if i < 0 || i >= len(list) {
		m.setStatus(statusError, "No such session")
		return nil
	}
	name := list[i].DisplayName()
	return m.run("Switch session", func(ctx context.Context) (string, error) {
		if err := a.Sessions.SwitchToIndex(ctx, i); err != nil {
			return "", err
		}
		return "Opened " + name, nil
	})
}

func (m *Model) toggleSidebar() {
	m.sidebarOpen = !m.sidebarOpen
	m.app.SetSidebarOpen(m.sidebarOpen)
	if m.sidebarOpen {
		m.sidebarCursor = m.currentIndex()
	}
	m.resize(m.width, m.height)
}

func (m *Model) moveSidebar(delta int) {
	if !m.sidebarOpen {
		m.toggleSidebar()
		return
	}
	m.sidebarCursor += delta
	m.clampSidebar()
}

func (m *Model) clampSidebar() {
	n := len(m.app.Sessions.Sessions())
	if m.sidebarCursor >= n {
		m.sidebarCursor = n - 1
	}
	if m.sidebarCursor < 0 {
		m.sidebarCursor = 0
	}
}

// currentIndex is the sidebar position of the current session.
func (m *Model) currentIndex() int {
	cur, _, ok := m.app.Sessions.Current()
	if !ok {
		return 0
	}
	for i, s := range m.app.Sessions.Sessions() {
		if s.ID == cur.ID {
			return i
		}
	}
	return 0
}

func (m *Model) toggleTheme() {
	mode, err := m.app.Theme.Toggle()
	m.applyTheme()
	m.refresh()
	if err != nil {
		m.setStatus(statusError, "Theme not saved: "+err.Error())
		return
	}
	m.setStatus(statusInfo, "Theme: "+string(mode))
}

func (m *Model) copyLastReply() {
	text, ok := m.app.Transcript.LastText(render.KindAI)
	if !ok {
		m.setStatus(statusError, "Nothing to copy yet")
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus(statusError, "Copy failed: "+err.Error())
		return
	}
	m.setStatus(statusSuccess, "Copied last reply")
}

// showPanel opens a tool panel, closing help.
func (m *Model) showPanel(name string) {
	m.showHelp = false
	if !m.app.Tools.Show(name) {
		m.setStatus(statusError, "Unknown tool: "+name)
	}
}

func (m *Model) activePanel() string {
	name, _ := m.app.Tools.Active()
	return name
}

func (m *Model) answeringQuiz() bool {
	return m.attempt != nil && !m.attempt.Done() && m.app.Tools.IsActive(tools.Quiz)
}

func (m *Model) setStatus(level statusLevel, text string) {
	m.statusLevel = level
	m.status = text
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width, m.height = width, height

	m.input.SetWidth(m.width - 2)
	m.help.Width = m.width - 2
	vpHeight := m.height - headerHeight - footerHeight - inputHeight - 1
	if vpHeight < 3 {
		vpHeight = 3
	}
	vpWidth := m.width
	if m.showSidebar() {
		vpWidth -= sidebarWidth
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.applyTheme()
	m.refresh()
}

// showSidebar reports whether the sidebar fits and is open.
func (m *Model) showSidebar() bool {
	return m.sidebarOpen && m.width-sidebarWidth >= minWidth
}

// refresh re-renders the transcript into the viewport, keeping the bottom
// pinned when the user was already there.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	snap := m.app.Transcript.Snapshot()
	m.version = snap.Version
	m.typing = snap.Typing

	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(m.renderTranscript(snap))
	if atBottom || snap.Typing > 0 {
		m.viewport.GotoBottom()
	}
}
