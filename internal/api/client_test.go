// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/apitest"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

func newTestClient(t *testing.T, legacy bool) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL + "/", LegacyFallback: legacy})
	return c, srv
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, 60*time.Second, c.config.Timeout)

	c = NewClientWithConfig(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestNewClientWithConfig_TrimsTrailingSlash(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test///"})
	assert.Equal(t, "http://example.test", c.BaseURL())
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_SendsPromptAndSession(t *testing.T) {
	c, srv := newTestClient(t, false)
	id := srv.AddSession("Bio")

	reply, err := c.Chat(context.Background(), ChatRequest{Prompt: "What is a cell?", SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, "Echo: What is a cell?", reply)

	calls := srv.Calls(http.MethodPost, "/api/chat")
	require.Len(t, calls, 1)
	assert.Equal(t, "What is a cell?", calls[0].Body["prompt"])
	assert.Equal(t, id, calls[0].Body["session_id"])
}

func TestChat_ServerErrorIsClassified(t *testing.T) {
	c, srv := newTestClient(t, false)
	srv.Fail("POST /api/chat", http.StatusInternalServerError)

	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "hi"})
	require.Error(t, err)

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeServer, ce.Type)
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
	assert.Contains(t, ce.Error(), "injected failure")
	assert.True(t, errors.Is(err, ErrServer))
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/chat"), "no retry without legacy fallback")
}

func TestChat_LegacyFallbackRetriesOnceWithMessageKey(t *testing.T) {
	c, srv := newTestClient(t, true)
	srv.LegacyOnly = true

	reply, err := c.Chat(context.Background(), ChatRequest{Prompt: "hello", SessionID: "s"})
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello", reply)

	calls := srv.Calls(http.MethodPost, "/api/chat")
	require.Len(t, calls, 2)
	assert.Equal(t, "hello", calls[0].Body["prompt"])
	assert.Equal(t, "hello", calls[1].Body["message"])
}

func TestChat_LegacyFallbackBothFail(t *testing.T) {
	c, srv := newTestClient(t, true)
	srv.Fail("POST /api/chat", http.StatusBadGateway)

	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "hello"})
	require.Error(t, err)
	assert.Equal(t, 2, srv.Count(http.MethodPost, "/api/chat"))
	assert.True(t, errors.Is(err, ErrServer))
}

func TestChat_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url})
	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "hi"})
	assert.True(t, errors.Is(err, ErrConnection), "got %v", err)
}

func TestChat_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "hi"})
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestChat_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Chat(context.Background(), ChatRequest{Prompt: "hi"})
	assert.True(t, errors.Is(err, ErrInvalidResponse), "got %v", err)
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestSessions_CreateListRename(t *testing.T) {
	c, srv := newTestClient(t, false)
	ctx := context.Background()

	id, err := c.CreateSession(ctx, model.DefaultSessionName)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, c.RenameSession(ctx, id, "Photosynthesis"))

	list, err := c.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.Session{ID: id, Name: "Photosynthesis"}, list[0])
	assert.Equal(t, 1, srv.Count(http.MethodPut, "/api/sessions/"+id))
}

func TestRenameSession_NotFound(t *testing.T) {
	c, _ := newTestClient(t, false)
	err := c.RenameSession(context.Background(), "missing", "x")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestHistory_EncodesSessionID(t *testing.T) {
	c, srv := newTestClient(t, false)
	id := srv.AddSession("Chem",
		model.NewUserMessage("What is pH?"),
		model.NewAssistantMessage("A measure of acidity."))

	h, err := c.History(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, model.RoleAssistant, h[1].Role)

	calls := srv.Calls(http.MethodGet, "/api/history")
	require.Len(t, calls, 1)
	assert.Equal(t, "session_id="+id, calls[0].Query)
}

func TestClear(t *testing.T) {
	c, srv := newTestClient(t, false)
	require.NoError(t, c.Clear(context.Background()))
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/clear"))
}

// =============================================================================
// TOOL TESTS
// =============================================================================

func TestConvertMarkdownToPDF_UploadsAndResolvesURL(t *testing.T) {
	c, srv := newTestClient(t, false)

	u, err := c.ConvertMarkdownToPDF(context.Background(), "/tmp/notes.md", strings.NewReader("# Notes"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/static/pdfs/notes.md.pdf", u)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), u, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestConvertTextToPDF(t *testing.T) {
	c, srv := newTestClient(t, false)
	u, err := c.ConvertTextToPDF(context.Background(), "hello", "Greeting")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/static/pdfs/text.pdf", u)

	calls := srv.Calls(http.MethodPost, "/api/convert-text-to-pdf")
	require.Len(t, calls, 1)
	assert.Equal(t, "Greeting", calls[0].Body["title"])
}

func TestResolveURL(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://h:1/app"})
	assert.Equal(t, "http://h:1/static/x.pdf", c.ResolveURL("/static/x.pdf"))
	assert.Equal(t, "https://cdn/x.pdf", c.ResolveURL("https://cdn/x.pdf"))
	assert.Equal(t, "", c.ResolveURL(""))
}

func TestTeachers(t *testing.T) {
	c, srv := newTestClient(t, false)
	ctx := context.Background()
	srv.SetTeachers(model.Persona{ID: "t1", Name: "Socratic", Prompt: "Ask questions."})

	require.NoError(t, c.CreateTeacher(ctx, "Strict", "Be brief."))
	require.NoError(t, c.UpdateTeacher(ctx, "t1", "Socrates", "Only ask questions."))

	list, err := c.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Socrates", list[0].Name)
	assert.True(t, list[1].IsCustom)
}

func TestQuizEndpoints(t *testing.T) {
	c, srv := newTestClient(t, false)
	ctx := context.Background()
	srv.SetQuestions(
		model.Question{Question: "1+1?", Options: []string{"1", "2"}, Correct: model.Answer{Raw: "1", IsNumber: true}},
		model.Question{Question: "2+2?", Options: []string{"4", "5"}, Correct: model.Answer{Raw: "A"}},
	)

	qs, err := c.GenerateQuiz(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, 1, qs[0].CorrectIndex())
	assert.Equal(t, "count=1&session_id=s1", srv.Calls(http.MethodGet, "/generate-quiz")[0].Query)

	qs, err = c.GenerateSyllabusQuiz(ctx, "Unit 1: numbers", 5)
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	paper, err := c.GenerateQuestionPaper(ctx, PaperRequest{Syllabus: "cells", QuestionCount: 3, DifficultyLevel: "easy"})
	require.NoError(t, err)
	assert.Contains(t, paper, "osmosis")
	body := srv.Calls(http.MethodPost, "/api/generate-question-paper")[0].Body
	assert.EqualValues(t, 3, body["questionCount"])
	assert.Equal(t, "easy", body["difficultyLevel"])
}

func TestGenerateQuestionPaper_EmptyIsInvalid(t *testing.T) {
	c, srv := newTestClient(t, false)
	srv.SetPaper("  ")
	_, err := c.GenerateQuestionPaper(context.Background(), PaperRequest{Syllabus: "x", QuestionCount: 1})
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "timeout", ErrTypeTimeout.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
