// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/util"
)

// View renders the whole screen from current application state.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading SAHPAATHI..."
	}

	body := m.viewport.View()
	if overlay := m.renderOverlay(); overlay != "" {
		body = placeOverlay(body, overlay, m.viewport.Width)
	}
	if m.showSidebar() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.theme.InputContainer.Width(m.width).Render(m.input.View()),
		m.renderStatusBar(),
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("SAHPAATHI")
	if cur, _, ok := m.app.Sessions.Current(); ok {
		title += m.theme.HeaderMeta.Render("  " + util.TruncateWidth(cur.DisplayName(), m.width/2))
	}

	right := ""
	if p, ok := m.app.Teachers.Active(); ok && m.app.Teachers.Enabled() {
		right = m.theme.TeacherBadge.Render("teacher: " + util.TruncateWidth(p.Name, 20))
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderTranscript draws a snapshot. Entries are immutable once appended, so
// their renders are cached by id until the theme or width changes.
func (m *Model) renderTranscript(s render.Snapshot) string {
	width := m.viewport.Width - 2
	var parts []string

	if s.Welcome != nil {
		parts = append(parts, m.renderWelcome(*s.Welcome, width))
	}
	for _, e := range s.Entries {
		out, ok := m.cache.get(e.ID)
		if !ok {
			out = m.renderEntry(e, width)
			m.cache.put(e.ID, out)
		}
		parts = append(parts, out)
	}
	for i := 0; i < s.Typing; i++ {
		parts = append(parts, m.spinner.View()+m.theme.Typing.Render(" "+typingText))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderEntry(e render.Entry, width int) string {
	switch e.Kind {
	case render.KindUser:
		maxBubble := width * 3 / 4
		bubble := m.theme.UserBubble.Width(bubbleWidth(e.Text, maxBubble)).Render(e.Text)
		block := lipgloss.JoinVertical(lipgloss.Right, bubble, m.theme.Timestamp.Render(e.Time))
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	case render.KindAI:
		return m.term.Entry(e)
	default:
		return m.theme.ErrorBubble.Render(e.Text)
	}
}

// bubbleWidth fits a bubble to its longest line, capped at limit.
func bubbleWidth(text string, limit int) int {
	w := 0
	for _, line := range strings.Split(text, "\n") {
		if lw := lipgloss.Width(line); lw > w {
			w = lw
		}
	}
	w += 2 // padding
	if w > limit {
		w = limit
	}
	if w < 4 {
		w = 4
	}
	return w
}

func (m *Model) renderWelcome(w render.Welcome, width int) string {
	box := m.theme.WelcomeBox.Render(
		m.theme.WelcomeTitle.Render(w.Title) + "\n\n" + m.theme.WelcomeText.Render(w.Text),
	)
	height := m.viewport.Height - 1
	if height < lipgloss.Height(box) {
		height = lipgloss.Height(box)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m *Model) renderSidebar() string {
	inner := sidebarWidth - 3
	lines := []string{m.theme.SidebarTitle.Render("Sessions")}

	cur, _, hasCur := m.app.Sessions.Current()
	list := m.app.Sessions.Sessions()
	if len(list) == 0 {
		lines = append(lines, m.theme.Muted.Render("No sessions yet"))
	}
	for i, s := range list {
		marker := "  "
		if hasCur && s.ID == cur.ID {
			marker = "> "
		}
		name := util.PadWidth(marker+util.TruncateWidth(s.DisplayName(), inner-2), inner)
		if i == m.sidebarCursor {
			lines = append(lines, m.theme.SessionItemSelected.Render(name))
		} else {
			lines = append(lines, m.theme.SessionItem.Render(name))
		}
	}

	return m.theme.Sidebar.
		Width(sidebarWidth - 1).
		Height(m.viewport.Height).
		Render(strings.Join(lines, "\n"))
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m *Model) renderStatusBar() string {
	var left string
	switch {
	case m.status == "":
		left = m.help.ShortHelpView(m.keys.ShortHelp())
	case m.statusLevel == statusError:
		left = m.theme.RenderError(m.status)
	case m.statusLevel == statusSuccess:
		left = m.theme.RenderSuccess(m.status)
	default:
		left = m.theme.RenderInfo(m.status)
	}
	if !m.started {
		left = m.theme.Muted.Render("Connecting to " + m.app.Client.BaseURL() + "...")
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(1).Render(left)
}

// =============================================================================
// OVERLAYS
// =============================================================================

// renderOverlay returns the help or tool panel, or "" when none is open.
func (m *Model) renderOverlay() string {
	if m.showHelp {
		return m.renderHelp()
	}
	name := m.activePanel()
	if name == "" {
		return ""
	}
	return m.renderPanel(name)
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("Help") + "\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	for _, c := range commandList {
		fmt.Fprintf(&b, "%s %s\n", m.theme.PanelKey.Render(util.PadWidth(c.usage, 22)), m.theme.PanelItem.Render(c.desc))
	}
	return m.theme.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// placeOverlay draws overlay over the right side of base.
func placeOverlay(base, overlay string, width int) string {
	baseLines := strings.Split(base, "\n")
	ovLines := strings.Split(overlay, "\n")
	ovWidth := lipgloss.Width(overlay)
	if ovWidth >= width {
		return overlay
	}
	left := width - ovWidth
	for i, line := range ovLines {
		if i >= len(baseLines) {
			break
		}
		prefix := ansi.Truncate(baseLines[i], left, "")
		if pad := left - ansi.StringWidth(prefix); pad > 0 {
			prefix += strings.Repeat(" ", pad)
		}
		baseLines[i] = prefix + line
	}
	return strings.Join(baseLines, "\n")
}

// optionLine renders one quiz option.
func optionLine(i int, text string) string {
	return model.OptionLabel(i) + ") " + text
}
