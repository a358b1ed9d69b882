// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id,omitempty"`
}

// legacyChatRequest is the alternate body older backends accept.
type legacyChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type sessionNameRequest struct {
	Name string `json:"name"`
}

// TextToPDFRequest is the body for POST /api/convert-text-to-pdf.
type TextToPDFRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// TeacherRequest is the body for creating or updating a persona.
type TeacherRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// SyllabusQuizRequest is the body for POST /generate-syllabus-quiz.
type SyllabusQuizRequest struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// PaperRequest is the body for POST /api/generate-question-paper.
type PaperRequest struct {
	Syllabus        string `json:"syllabus"`
	QuestionCount   int    `json:"questionCount"`
	DifficultyLevel string `json:"difficultyLevel"`
	SessionID       string `json:"sessionId,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ChatResponse is the response from POST /api/chat.
type ChatResponse struct {
	Response string `json:"response"`
}

type sessionsResponse struct {
	Sessions []model.Session `json:"sessions"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type historyResponse struct {
	History []model.Message `json:"history"`
}

// PDFResponse carries the location of a generated PDF.
type PDFResponse struct {
	PDFURL string `json:"pdf_url"`
}

type teachersResponse struct {
	Teachers []model.Persona `json:"teachers"`
}

type quizResponse struct {
	Questions []model.Question `json:"questions"`
}

// PaperResponse carries a generated question paper.
type PaperResponse struct {
	PaperContent string `json:"paperContent"`
}

// errorResponse is the backend's error body.
type errorResponse struct {
	Error string `json:"error"`
}
