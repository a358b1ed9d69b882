// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/tools/quiz"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/util"
)

const (
	panelWidth        = 56
	paperPreviewLines = 12
)

// renderPanel draws the tool panel for name.
func (m *Model) renderPanel(name string) string {
	tool, ok := m.app.Tools.Get(name)
	if !ok {
		return ""
	}
	inner := panelWidth - 4
	if limit := m.viewport.Width - 6; inner > limit {
		inner = limit
	}

	var lines []string
	switch name {
	case tools.PDF:
		lines = m.pdfPanel()
	case tools.Quiz:
		lines = m.quizPanel(inner)
	case tools.Teacher:
		lines = m.teacherPanel(inner)
	case tools.Prompts:
		lines = m.promptsPanel(inner)
	}

	body := m.theme.PanelTitle.Render(tool.Title) + "\n" +
		m.theme.Muted.Render(tool.Description) + "\n\n" +
		strings.Join(lines, "\n") + "\n\n" +
		m.theme.Muted.Render("Esc to close")
	return m.theme.Panel.Width(inner + 2).Render(body)
}

func (m *Model) usage(cmd, desc string) string {
	return m.theme.PanelKey.Render(cmd) + "  " + m.theme.PanelItem.Render(desc)
}

func (m *Model) pdfPanel() []string {
	return []string{
		m.usage("/pdf <file.md>", "convert a Markdown or text file"),
		m.usage("/textpdf [text]", "convert text, or the last reply"),
		m.theme.Muted.Render("PDFs are saved to " + m.opts.OutputDir),
	}
}

func (m *Model) teacherPanel(width int) []string {
	active, hasActive := m.app.Teachers.Active()
	enabled := m.app.Teachers.Enabled()

	var lines []string
	personas := m.app.Teachers.List()
	if len(personas) == 0 {
		lines = append(lines, m.theme.Muted.Render("No teachers loaded"))
	}
	for _, p := range personas {
		marker := "  "
		if hasActive && enabled && p.ID == active.ID {
			marker = "* "
		}
		label := marker + p.Name
		if p.IsCustom {
			label += " (custom)"
		}
		lines = append(lines, m.theme.PanelItem.Render(util.TruncateWidth(label, width)))
	}
	lines = append(lines, "",
		m.usage("/teacher <name>", "answer as this teacher"),
		m.usage("/teacher off", "normal answers"),
	)
	return lines
}

func (m *Model) promptsPanel(width int) []string {
	var lines []string
	for i, e := range m.app.Prompts.List() {
		label := fmt.Sprintf("%2d. %s", i+1, e.Title)
		if e.Custom {
			label += " *"
		}
		lines = append(lines, m.theme.PanelItem.Render(util.TruncateWidth(label, width)))
	}
	lines = append(lines, "",
		m.usage("/prompt <n>", "put a prompt in the input"),
	)
	return lines
}

func (m *Model) quizPanel(width int) []string {
	if m.paper != "" && m.attempt == nil {
		lines := strings.Split(m.paper, "\n")
		if len(lines) > paperPreviewLines {
			lines = append(lines[:paperPreviewLines], "...")
		}
		for i := range lines {
			lines[i] = util.TruncateWidth(lines[i], width)
		}
		return lines
	}
	if m.attempt == nil {
		return []string{
			m.usage("/quiz [n]", "quiz on this chat"),
			m.usage("/quiz syllabus <text>", "quiz on a syllabus"),
			m.usage("/quiz paper [level] <syllabus>", "question paper"),
		}
	}

	score := m.attempt.Score()
	i, more := m.attempt.Next()
	if !more {
		return []string{
			m.theme.Success.Render("Finished: " + score.String()),
			"",
			m.usage("/quiz", "start another"),
		}
	}

	q := m.attempt.Questions[i]
	lines := []string{
		m.theme.Muted.Render(fmt.Sprintf("Question %d of %d  |  score %d", i+1, score.Total, score.Correct)),
		"",
		m.theme.PanelItem.Bold(true).Width(width).Render(q.Question),
		"",
	}
	for j, opt := range q.Options {
		lines = append(lines, m.theme.PanelItem.Width(width).Render(optionLine(j, opt)))
	}
	lines = append(lines, "", m.theme.Muted.Render("Type a letter, number or the answer"))
	return lines
}

// =============================================================================
// QUIZ FLOW
// =============================================================================

func (m *Model) handleQuizReady(msg QuizReadyMsg) tea.Cmd {
	if msg.Err != nil {
		m.setStatus(statusError, "Quiz: "+msg.Err.Error())
		return nil
	}
	m.attempt = quiz.NewAttempt(msg.Questions)
	m.paper = ""
	m.showPanel(tools.Quiz)
	m.setStatus(statusInfo, fmt.Sprintf("Quiz ready: %d questions", len(msg.Questions)))
	return nil
}

func (m *Model) handlePaperReady(msg PaperReadyMsg) tea.Cmd {
	if msg.Err != nil {
		m.setStatus(statusError, "Question paper: "+msg.Err.Error())
		return nil
	}
	m.attempt = nil
	m.paper = msg.Text
	m.showPanel(tools.Quiz)

	name := "question_paper_" + time.Now().Format("20060102_150405") + ".md"
	path := filepath.Join(m.opts.OutputDir, name)
	if err := util.AtomicWriteFile(path, []byte(msg.Text), 0o644); err != nil {
		m.setStatus(statusError, "Question paper not saved: "+err.Error())
		return nil
	}
	m.setStatus(statusSuccess, "Question paper saved to "+path)
	return nil
}

// answerQuiz records input as the answer to the next question.
func (m *Model) answerQuiz(input string) {
	i, more := m.attempt.Next()
	if !more {
		return
	}
	q := m.attempt.Questions[i]
	choice, err := quiz.ParseChoice(q, input)
	if err != nil {
		m.setStatus(statusError, "Pick one of the options")
		return
	}
	correct, err := m.attempt.Answer(i, choice)
	if err != nil {
		m.setStatus(statusError, err.Error())
		return
	}

	switch {
	case correct:
		m.setStatus(statusSuccess, "Correct!")
	case q.CorrectIndex() >= 0:
		ci := q.CorrectIndex()
		m.setStatus(statusError, "Not quite. Answer: "+optionLine(ci, q.Options[ci]))
	default:
		m.setStatus(statusInfo, "Answer recorded")
	}
	if m.attempt.Done() {
		m.setStatus(statusSuccess, "Quiz finished: "+m.attempt.Score().String())
	}
}
