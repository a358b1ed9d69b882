// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/app"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/apitest"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/config"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/storage"
)

// harness runs commands against a fake backend with an isolated home
// directory and a shared in-memory prefs store.
type harness struct {
	t     *testing.T
	srv   *apitest.Server
	home  string
	prefs *storage.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv("NO_COLOR", "1")
	return &harness{t: t, srv: apitest.New(t), home: home, prefs: storage.NewMemoryStore()}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	e := &env{
		build: BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2025-01-01"},
		newApp: func(o app.Options) (*app.App, error) {
			o.Logger = logging.Discard()
			o.Prefs = h.prefs
			return app.New(o)
		},
	}
	root := newRoot(e)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--base-url", h.srv.URL, "--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err, out)
	return out
}

func sampleQuestions() []model.Question {
	return []model.Question{
		{Question: "Powerhouse of the cell?", Options: []string{"Nucleus", "Mitochondria"}, Correct: model.Answer{Raw: "1"}},
		{Question: "H2O is?", Options: []string{"Water", "Salt"}, Correct: model.Answer{Raw: "A"}},
	}
}

// =============================================================================
// VERSION AND JSON
// =============================================================================

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("", "version")
	assert.Contains(t, out, "sahpaathi 1.2.3 (abc123, 2025-01-01)")
}

func TestVersion_JSON(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("", "--json", "version")

	var resp struct {
		Success bool      `json:"success"`
		Data    BuildInfo `json:"data"`
		Command string    `json:"command"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "1.2.3", resp.Data.Version)
	assert.Equal(t, "version", resp.Command)
}

func TestBuildInfo_String(t *testing.T) {
	assert.Equal(t, "dev", BuildInfo{}.String())
	assert.Equal(t, "0.1.0", BuildInfo{Version: "0.1.0"}.String())
}

// =============================================================================
// SESSIONS AND HISTORY
// =============================================================================

func TestSessionsList_MostRecentFirst(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSession("Biology")
	h.srv.AddSession("Physics")

	out := h.mustRun("", "sessions", "list")
	require.Contains(t, out, "Physics")
	require.Contains(t, out, "Biology")
	assert.Less(t, strings.Index(out, "Physics"), strings.Index(out, "Biology"))
}

func TestSessionsList_Empty(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("", "sessions", "list"), "No sessions.")
}

func TestSessionsNewAndRename(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("", "sessions", "new", "Chemistry")
	assert.Contains(t, out, "Created Chemistry")
	require.Len(t, h.srv.Sessions(), 1)

	out = h.mustRun("", "sessions", "rename", "1", "Organic chemistry")
	assert.Contains(t, out, "Renamed to Organic chemistry")
	assert.Equal(t, "Organic chemistry", h.srv.Sessions()[0].Name)
}

func TestSessionsRename_OutOfRange(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSession("Biology")
	_, err := h.run("", "sessions", "rename", "5", "x")
	assert.ErrorContains(t, err, "out of range")
}

func TestHistoryShow(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSession("Biology",
		model.NewUserMessage("What is a cell?"),
		model.NewAssistantMessage("The basic unit of life."),
	)

	out := h.mustRun("", "history", "show")
	assert.Contains(t, out, "Biology")
	assert.Contains(t, out, "You: What is a cell?")
	assert.Contains(t, out, "SAHPAATHI: The basic unit of life.")
}

func TestHistoryShow_NoSessions(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "history", "show")
	assert.ErrorIs(t, err, ErrNoSessions)
}

func TestHistoryClear(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun("", "history", "clear"), "History cleared")
	assert.Equal(t, 1, h.srv.Count("POST", "/api/clear"))
}

func TestPickSession(t *testing.T) {
	list := []model.Session{{ID: "a", Name: "One"}, {ID: "b", Name: "Two"}}

	s, err := pickSession(list, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", s.ID)

	s, err = pickSession(list, "a")
	require.NoError(t, err)
	assert.Equal(t, "One", s.Name)

	_, err = pickSession(list, "0")
	assert.Error(t, err)
	_, err = pickSession(list, "zzz")
	assert.Error(t, err)
}

// =============================================================================
// REPL
// =============================================================================

func TestREPL_PipedChat(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("What is osmosis?\n/quit\n", "chat", "--plain")

	assert.Contains(t, out, "Welcome to SAHPAATHI")
	assert.Contains(t, out, "Echo: What is osmosis?")
	assert.Equal(t, 1, h.srv.Count("POST", "/api/chat"))

	// The first question names the new session.
	sessions := h.srv.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "What is osmosis?", sessions[0].Name)
}

func TestREPL_ReplaysExistingSession(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSession("Biology",
		model.NewUserMessage("What is a cell?"),
		model.NewAssistantMessage("The basic unit of life."),
	)
	out := h.mustRun("", "chat", "--plain")
	assert.Contains(t, out, "What is a cell?")
	assert.Contains(t, out, "The basic unit of life.")
	assert.NotContains(t, out, "Welcome to SAHPAATHI")
}

func TestREPL_SlashCommands(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("/prompts\n/bogus\n/help\n/theme\n", "chat", "--plain")

	assert.Contains(t, out, "Explain simply")
	assert.Contains(t, out, "unknown command /bogus")
	assert.Contains(t, out, "/textpdf [text]")
	assert.Contains(t, out, "Theme: dark")
}

func TestREPL_NewAndSwitch(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSession("Biology", model.NewUserMessage("Q"), model.NewAssistantMessage("A"))

	out := h.mustRun("/new\n/sessions\n/switch 2\n", "chat", "--plain")
	assert.Contains(t, out, "Started New Chat")
	assert.Contains(t, out, "Switched to Biology")
	assert.Len(t, h.srv.Sessions(), 2)
}

func TestREPL_Quiz(t *testing.T) {
	h := newHarness(t)
	h.srv.SetQuestions(sampleQuestions()...)
	out := h.mustRun("/quiz\nb\na\n", "chat", "--plain")

	assert.Contains(t, out, "Powerhouse of the cell?")
	assert.Contains(t, out, "Score: 2/2 (100%)")
}

// =============================================================================
// TOOLS
// =============================================================================

func TestQuizSyllabus_Answers(t *testing.T) {
	h := newHarness(t)
	h.srv.SetQuestions(sampleQuestions()...)

	out := h.mustRun("", "quiz", "syllabus", "Cells", "and", "water", "--answers")
	assert.Contains(t, out, "Q1. Powerhouse of the cell?")
	assert.Contains(t, out, "B) Mitochondria  [correct]")
}

func TestQuizChat_Take(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSession("Biology", model.NewUserMessage("Q"), model.NewAssistantMessage("A"))
	h.srv.SetQuestions(sampleQuestions()...)

	out := h.mustRun("x\nb\nb\n", "quiz", "chat", "--take")
	assert.Contains(t, out, "Pick one of the options.")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Not quite. Answer: A) Water")
	assert.Contains(t, out, "Score: 1/2 (50%)")
}

func TestQuizPaper_SavesFile(t *testing.T) {
	h := newHarness(t)
	h.srv.SetPaper("# Biology paper\n\n1. Define osmosis.")
	dir := t.TempDir()

	out := h.mustRun("", "quiz", "paper", "Biology", "-d", "hard", "-o", dir)
	assert.Contains(t, out, "Question paper saved to")

	matches, err := filepath.Glob(filepath.Join(dir, "question_paper_*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Define osmosis")
}

func TestQuizPaper_BadDifficulty(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "quiz", "paper", "Biology", "-d", "impossible")
	assert.Error(t, err)
}

func TestPDFText_FromStdin(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	out := h.mustRun("Newton's laws", "pdf", "text", "-", "-o", dir)
	assert.Contains(t, out, "PDF saved to")
	data, err := os.ReadFile(filepath.Join(dir, "text.pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestPDFMarkdown_Validation(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "notes.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := h.run("", "pdf", "md", path)
	assert.Error(t, err)
	assert.Zero(t, h.srv.Count("POST", "/api/convert-md-to-pdf"))
}

func TestTeacherUseListOff(t *testing.T) {
	h := newHarness(t)
	h.srv.SetTeachers(
		model.Persona{ID: "t1", Name: "Socrates", Prompt: "Ask questions back."},
		model.Persona{ID: "t2", Name: "Feynman", Prompt: "Explain simply."},
	)

	assert.Contains(t, h.mustRun("", "teacher", "use", "Feynman"), "Teacher mode: Feynman")

	out := h.mustRun("", "teacher", "list")
	assert.Contains(t, out, "* ")
	assert.Contains(t, out, "Feynman")

	h.mustRun("", "teacher", "off")
	assert.NotContains(t, h.mustRun("", "teacher", "list"), "* ")
}

func TestTeacherUse_Unknown(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "teacher", "use", "Nobody")
	assert.Error(t, err)
}

func TestPromptsAddListRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "prompts", "add", "Flashcards", "Turn", "this", "into", "flashcards:")

	out := h.mustRun("", "prompts", "list")
	assert.Contains(t, out, "Flashcards (custom)")
	assert.Contains(t, out, "Turn this into flashcards:")

	h.mustRun("", "prompts", "rm", "Flashcards")
	assert.NotContains(t, h.mustRun("", "prompts", "list"), "Flashcards")

	_, err := h.run("", "prompts", "rm", "Explain simply")
	assert.Error(t, err)
}

func TestThemeToggle(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "light\n", h.mustRun("", "theme", "show"))
	assert.Contains(t, h.mustRun("", "theme", "toggle"), "Theme: dark")
	assert.Equal(t, "dark\n", h.mustRun("", "theme", "show"))
}

func TestExport_JSON(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSession("Biology", model.NewUserMessage("Q"), model.NewAssistantMessage("A"))
	dir := t.TempDir()

	out := h.mustRun("", "export", "-f", "json", "-o", dir)
	assert.Contains(t, out, "Exported to")

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigSetGet(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "config", "set", "chat.reply_delay_ms", "0")

	assert.FileExists(t, filepath.Join(h.home, "config.toml"))
	assert.Equal(t, "0\n", h.mustRun("", "config", "get", "chat.reply_delay_ms"))

	// --base-url is not written back.
	cfg, err := config.LoadFromPath(filepath.Join(h.home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.BaseURL, cfg.Server.BaseURL)
}

func TestConfigSet_Invalid(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "config", "set", "no.such_key", "1")
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, filepath.Join(h.home, "config.toml")+"\n", h.mustRun("", "config", "path"))
}
