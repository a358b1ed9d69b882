// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/quiz"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command. args excludes the command name.
type CommandHandler func(m *Model, args []string) tea.Cmd

type commandInfo struct {
	usage string
	desc  string
}

// commandHandlers maps command names to their handler functions.
var commandHandlers = map[string]CommandHandler{
	"new":      handleNewCommand,
	"switch":   handleSwitchCommand,
	"sessions": handleSessionsCommand,
	"theme":    handleThemeCommand,
	"teacher":  handleTeacherCommand,
	"prompts":  handlePromptsCommand,
	"prompt":   handlePromptCommand,
	"quiz":     handleQuizCommand,
	"pdf":      handlePDFCommand,
	"textpdf":  handleTextPDFCommand,
	"copy":     handleCopyCommand,
	"export":   handleExportCommand,
	"help":     handleHelpCommand,
	"?":        handleHelpCommand,
	"quit":     handleQuitCommand,
	"exit":     handleQuitCommand,
}

// commandList is shown by /help, in this order.
var commandList = []commandInfo{
	{"/new", "start a new chat"},
	{"/switch <n>", "open session n from the sidebar"},
	{"/sessions", "show or hide the sidebar"},
	{"/theme", "toggle light/dark"},
	{"/teacher [name|off]", "teacher mode"},
	{"/prompts", "prompt library"},
	{"/prompt <n|title>", "insert a saved prompt"},
	{"/quiz [n|syllabus|paper]", "quizzes and question papers"},
	{"/pdf <file>", "Markdown file to PDF"},
	{"/textpdf [text]", "text (or last reply) to PDF"},
	{"/copy", "copy the last reply"},
	{"/export [format]", "save this chat (markdown, html, json, yaml)"},
	{"/quit", "exit"},
}

// handleCommand parses and dispatches a slash command.
func (m *Model) handleCommand(content string) tea.Cmd {
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return nil
	}
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	handler, ok := commandHandlers[name]
	if !ok {
		m.setStatus(statusError, "Unknown command /"+name+" (try /help)")
		return nil
	}
	return handler(m, parts[1:])
}

// rest joins args back into free text.
func rest(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// =============================================================================
// SESSIONS
// =============================================================================

func handleNewCommand(m *Model, _ []string) tea.Cmd {
	return m.newChat()
}

func handleSwitchCommand(m *Model, args []string) tea.Cmd {
	if len(args) == 0 {
		m.setStatus(statusError, "Usage: /switch <n>")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		m.setStatus(statusError, "Session number must be 1 or more")
		return nil
	}
	m.sidebarCursor = n - 1
	return m.switchSession(n - 1)
}

func handleSessionsCommand(m *Model, _ []string) tea.Cmd {
	m.toggleSidebar()
	return nil
}

func handleThemeCommand(m *Model, _ []string) tea.Cmd {
	m.toggleTheme()
	return nil
}

// =============================================================================
// TOOLS
// =============================================================================

func handleTeacherCommand(m *Model, args []string) tea.Cmd {
	ref := rest(args)
	switch strings.ToLower(ref) {
	case "":
		m.showPanel(tools.Teacher)
		return nil
	case "off":
		if err := m.app.Teachers.Deactivate(); err != nil {
			m.setStatus(statusError, err.Error())
			return nil
		}
		m.setStatus(statusInfo, "Teacher mode off")
		return nil
	}

	p, err := m.app.Teachers.Activate(ref)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return nil
	}
	m.setStatus(statusSuccess, "Teacher mode: "+p.Name)
	return nil
}

func handlePromptsCommand(m *Model, _ []string) tea.Cmd {
	m.showPanel(tools.Prompts)
	return nil
}

func handlePromptCommand(m *Model, args []string) tea.Cmd {
	ref := rest(args)
	if ref == "" {
		m.showPanel(tools.Prompts)
		return nil
	}
	e, ok := m.app.Prompts.Find(ref)
	if !ok {
		m.setStatus(statusError, "No prompt "+strconv.Quote(ref))
		return nil
	}
	m.input.SetValue(e.Text)
	m.input.CursorEnd()
	m.app.Tools.Hide(tools.Prompts)
	m.setStatus(statusInfo, "Inserted "+e.Title)
	return nil
}

func handleQuizCommand(m *Model, args []string) tea.Cmd {
	a := m.app
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	switch sub {
	case "syllabus":
		text := rest(args[1:])
		m.setStatus(statusInfo, "Generating quiz...")
		return func() tea.Msg {
			qs, err := a.Quiz.FromSyllabus(m.ctx, text, quiz.DefaultCount)
			return QuizReadyMsg{Questions: qs, Err: err}
		}

	case "paper":
		args = args[1:]
		level := quiz.Medium
		if len(args) > 0 {
			if d, err := quiz.ParseDifficulty(args[0]); err == nil {
				level, args = d, args[1:]
			}
		}
		req := api.PaperRequest{Syllabus: rest(args), QuestionCount: 10, DifficultyLevel: level}
		if cur, _, ok := a.Sessions.Current(); ok {
			req.SessionID = cur.ID
		}
		m.setStatus(statusInfo, "Generating question paper...")
		return func() tea.Msg {
			text, err := a.Quiz.QuestionPaper(m.ctx, req)
			return PaperReadyMsg{Text: text, Err: err}
		}
	}

	count := 0
	if sub != "" {
		n, err := strconv.Atoi(sub)
		if err != nil {
			m.setStatus(statusError, "Usage: /quiz [n] | /quiz syllabus <text> | /quiz paper <syllabus>")
			return nil
		}
		count = n
	}
	cur, _, ok := a.Sessions.Current()
	if !ok {
		m.setStatus(statusError, quiz.ErrNoSession.Error())
		return nil
	}
	m.setStatus(statusInfo, "Generating quiz...")
	return func() tea.Msg {
		qs, err := a.Quiz.FromChat(m.ctx, cur.ID, count)
		return QuizReadyMsg{Questions: qs, Err: err}
	}
}

func handlePDFCommand(m *Model, args []string) tea.Cmd {
	path := rest(args)
	if path == "" {
		m.showPanel(tools.PDF)
		return nil
	}
	a, dir := m.app, m.opts.OutputDir
	m.setStatus(statusInfo, "Converting "+path+"...")
	return m.run("PDF", func(ctx context.Context) (string, error) {
		url, err := a.PDF.ConvertMarkdownFile(ctx, path)
		if err != nil {
			return "", err
		}
		saved, err := a.PDF.Download(ctx, url, dir)
		if err != nil {
			return "", err
		}
		return "PDF saved to " + saved, nil
	})
}

func handleTextPDFCommand(m *Model, args []string) tea.Cmd {
	text := rest(args)
	if text == "" {
		last, ok := m.app.Transcript.LastText(render.KindAI)
		if !ok {
			m.setStatus(statusError, "Nothing to convert yet")
			return nil
		}
		text = last
	}
	title := "SAHPAATHI"
	if cur, _, ok := m.app.Sessions.Current(); ok {
		title = cur.DisplayName()
	}

	a, dir := m.app, m.opts.OutputDir
	m.setStatus(statusInfo, "Converting text...")
	return m.run("PDF", func(ctx context.Context) (string, error) {
		url, err := a.PDF.ConvertText(ctx, text, title)
		if err != nil {
			return "", err
		}
		saved, err := a.PDF.Download(ctx, url, dir)
		if err != nil {
			return "", err
		}
		return "PDF saved to " + saved, nil
	})
}

// =============================================================================
// MISC
// =============================================================================

func handleCopyCommand(m *Model, _ []string) tea.Cmd {
	m.copyLastReply()
	return nil
}

func handleExportCommand(m *Model, args []string) tea.Cmd {
	format := "markdown"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	a, dir := m.app, m.opts.OutputDir
	return m.run("Export", func(ctx context.Context) (string, error) {
		path, err := a.Export(ctx, "", format, dir)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Exported to %s", path), nil
	})
}

func handleHelpCommand(m *Model, _ []string) tea.Cmd {
	m.app.Tools.HideAll()
	m.showHelp = true
	return nil
}

func handleQuitCommand(m *Model, _ []string) tea.Cmd {
	m.quitting = true
	m.cancel()
	return tea.Quit
}
