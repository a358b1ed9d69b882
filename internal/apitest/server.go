// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest runs an in-process fake of the SAHPAATHI backend for tests.
// It keeps sessions, history and personas in memory, records every call,
// and can be told to fail specific routes.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// Server is a fake backend. Exported fields may be set before the first
// request; use the methods afterwards.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	sessions  []model.Session // most recent first
	history   map[string][]model.Message
	teachers  []model.Persona
	questions []model.Question
	paper     string
	failures  map[string]int
	calls     []Call

	// Reply computes the assistant text for a chat prompt. Defaults to
	// echoing "Echo: <prompt>".
	Reply func(prompt string) string

	// LegacyOnly makes /api/chat reject bodies without a "message" key.
	LegacyOnly bool
}

// New starts a fake backend that shuts down with the test.
func New(t testing.TB) *Server {
	s := &Server{
		history:  make(map[string][]model.Message),
		failures: make(map[string]int),
		paper:    "Q1. Define osmosis.",
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(api chi.Router) {
		api.Post("/chat", s.handleChat)
		api.Post("/clear", s.handleClear)
		api.Get("/history", s.handleHistory)

		api.Get("/sessions", s.handleListSessions)
		api.Post("/sessions", s.handleCreateSession)
		api.Put("/sessions/{id}", s.handleRenameSession)

		api.Post("/convert-md-to-pdf", s.handleMarkdownPDF)
		api.Post("/convert-text-to-pdf", s.handleTextPDF)

		api.Get("/teachers", s.handleListTeachers)
		api.Post("/teachers", s.handleCreateTeacher)
		api.Put("/teachers/{id}", s.handleUpdateTeacher)

		api.Post("/generate-question-paper", s.handlePaper)
	})
	r.Get("/generate-quiz", s.handleQuiz)
	r.Post("/generate-syllabus-quiz", s.handleSyllabusQuiz)
	r.Get("/static/pdfs/{name}", s.handleStaticPDF)
	return r
}

// =============================================================================
// TEST CONTROLS
// =============================================================================

// Fail makes requests matching "METHOD /path" answer with status.
// A status of 0 clears the failure.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = status
}

// AddSession seeds a session at the front of the list (most recent).
func (s *Server) AddSession(name string, history ...model.Message) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.sessions = append([]model.Session{{ID: id, Name: name}}, s.sessions...)
	s.history[id] = append([]model.Message(nil), history...)
	return id
}

// SetTeachers replaces the persona list.
func (s *Server) SetTeachers(p ...model.Persona) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teachers = append([]model.Persona(nil), p...)
}

// SetQuestions sets what the quiz endpoints return.
func (s *Server) SetQuestions(q ...model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append([]model.Question(nil), q...)
}

// SetPaper sets the question paper text.
func (s *Server) SetPaper(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paper = text
}

// Sessions returns a copy of the session list.
func (s *Server) Sessions() []model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Session(nil), s.sessions...)
}

// History returns a copy of a session's history.
func (s *Server) History(id string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Message(nil), s.history[id]...)
}

// Calls returns every recorded request matching method and path. An empty
// method or path matches anything.
func (s *Server) Calls(method, path string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if (method == "" || c.Method == method) && (path == "" || c.Path == path) {
			out = append(out, c)
		}
	}
	return out
}

// Count is len(Calls(method, path)).
func (s *Server) Count(method, path string) int {
	return len(s.Calls(method, path))
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// record stores the call and short-circuits configured failures. JSON bodies
// are decoded into Call.Body and replayed to the handler.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if r.Header.Get("Content-Type") == "application/json" {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &call.Body)
			r.Body = io.NopCloser(bytesReader(data))
		}

		s.mu.Lock()
		s.calls = append(s.calls, call)
		status, fail := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if fail {
			respondError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt    string `json:"prompt"`
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	text := body.Prompt
	if s.LegacyOnly {
		text = body.Message
	}
	if text == "" {
		respondError(w, http.StatusBadRequest, "No prompt provided")
		return
	}

	reply := "Echo: " + text
	if s.Reply != nil {
		reply = s.Reply(text)
	}

	s.mu.Lock()
	s.history[body.SessionID] = append(s.history[body.SessionID],
		model.NewUserMessage(text), model.NewAssistantMessage(reply))
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.history = make(map[string][]model.Message)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	s.mu.Lock()
	h := append([]model.Message{}, s.history[id]...)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{"history": h})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := append([]model.Session{}, s.sessions...)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{"sessions": list})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Name == "" {
		body.Name = model.DefaultSessionName
	}
	id := s.AddSession(body.Name)
	respondJSON(w, http.StatusOK, map[string]string{"session_id": id})
}

func (s *Server) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Name string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			s.sessions[i].Name = body.Name
			respondJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	respondError(w, http.StatusNotFound, "session not found")
}

func (s *Server) handleMarkdownPDF(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	f.Close()
	respondJSON(w, http.StatusOK, map[string]string{"pdf_url": "/static/pdfs/" + hdr.Filename + ".pdf"})
}

func (s *Server) handleTextPDF(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text  string `json:"text"`
		Title string `json:"title"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Text == "" {
		respondError(w, http.StatusBadRequest, "No text provided")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"pdf_url": "/static/pdfs/text.pdf"})
}

func (s *Server) handleStaticPDF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	_, _ = io.WriteString(w, "%PDF-1.4 "+chi.URLParam(r, "name"))
}

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := append([]model.Persona{}, s.teachers...)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]any{"teachers": list})
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name   string `json:"name"`
		Prompt string `json:"prompt"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	s.teachers = append(s.teachers, model.Persona{ID: uuid.NewString(), Name: body.Name, Prompt: body.Prompt, IsCustom: true})
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Name   string `json:"name"`
		Prompt string `json:"prompt"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.teachers {
		if s.teachers[i].ID == id {
			s.teachers[i].Name = body.Name
			s.teachers[i].Prompt = body.Prompt
			respondJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	respondError(w, http.StatusNotFound, "teacher not found")
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	s.respondQuestions(w, count)
}

func (s *Server) handleSyllabusQuiz(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text  string `json:"text"`
		Count int    `json:"count"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Text == "" {
		respondError(w, http.StatusBadRequest, "No syllabus text provided")
		return
	}
	s.respondQuestions(w, body.Count)
}

func (s *Server) respondQuestions(w http.ResponseWriter, count int) {
	s.mu.Lock()
	qs := append([]model.Question{}, s.questions...)
	s.mu.Unlock()
	if count > 0 && count < len(qs) {
		qs = qs[:count]
	}
	respondJSON(w, http.StatusOK, map[string]any{"questions": qs})
}

func (s *Server) handlePaper(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	paper := s.paper
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, map[string]string{"paperContent": paper})
}
