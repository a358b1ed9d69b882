// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

// =============================================================================
// PDF CONVERSION
// =============================================================================

// ConvertMarkdownToPDF uploads a Markdown document as multipart field
// "file" and returns the generated PDF's URL.
func (c *Client) ConvertMarkdownToPDF(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build upload", Cause: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to read upload", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build upload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/convert-md-to-pdf", &buf)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp PDFResponse
	if err := c.do(req, "convert markdown", &resp); err != nil {
		return "", err
	}
	return c.ResolveURL(resp.PDFURL), nil
}

// ConvertTextToPDF renders plain text to a PDF and returns its URL.
func (c *Client) ConvertTextToPDF(ctx context.Context, text, title string) (string, error) {
	var resp PDFResponse
	if err := c.doJSON(ctx, "convert text", http.MethodPost, "/api/convert-text-to-pdf", TextToPDFRequest{Text: text, Title: title}, &resp); err != nil {
		return "", err
	}
	return c.ResolveURL(resp.PDFURL), nil
}

// Download streams the resource at rawURL into w. Relative URLs are
// resolved against the base URL.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveURL(rawURL), nil)
	if err != nil {
		return 0, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, transportError("download", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, statusError("download", resp.StatusCode, "")
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &ClientError{Type: ErrTypeConnection, Message: "download interrupted", Cause: err}
	}
	return n, nil
}

// ResolveURL turns a server-relative path ("/static/pdfs/x.pdf") into an
// absolute URL. Absolute URLs are returned unchanged.
func (c *Client) ResolveURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	base, err := url.Parse(c.config.BaseURL + "/")
	if err != nil {
		return raw
	}
	return base.ResolveReference(u).String()
}

// =============================================================================
// TEACHER PERSONAS
// =============================================================================

// ListTeachers returns built-in and custom teacher personas.
func (c *Client) ListTeachers(ctx context.Context) ([]model.Persona, error) {
	var resp teachersResponse
	if err := c.doJSON(ctx, "list teachers", http.MethodGet, "/api/teachers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Teachers, nil
}

// CreateTeacher adds a custom persona.
func (c *Client) CreateTeacher(ctx context.Context, name, prompt string) error {
	return c.doJSON(ctx, "create teacher", http.MethodPost, "/api/teachers", TeacherRequest{Name: name, Prompt: prompt}, nil)
}

// UpdateTeacher edits a persona.
func (c *Client) UpdateTeacher(ctx context.Context, id, name, prompt string) error {
	path := "/api/teachers/" + url.PathEscape(id)
	return c.doJSON(ctx, "update teacher", http.MethodPut, path, TeacherRequest{Name: name, Prompt: prompt}, nil)
}

// =============================================================================
// QUIZ GENERATION
// =============================================================================

// GenerateQuiz builds count questions from a session's conversation.
func (c *Client) GenerateQuiz(ctx context.Context, sessionID string, count int) ([]model.Question, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)
	q.Set("count", strconv.Itoa(count))
	var resp quizResponse
	if err := c.doJSON(ctx, "generate quiz", http.MethodGet, "/generate-quiz?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// GenerateSyllabusQuiz builds count questions from pasted syllabus text.
func (c *Client) GenerateSyllabusQuiz(ctx context.Context, text string, count int) ([]model.Question, error) {
	var resp quizResponse
	if err := c.doJSON(ctx, "generate syllabus quiz", http.MethodPost, "/generate-syllabus-quiz", SyllabusQuizRequest{Text: text, Count: count}, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// GenerateQuestionPaper builds a question paper and returns its text.
func (c *Client) GenerateQuestionPaper(ctx context.Context, req PaperRequest) (string, error) {
	var resp PaperResponse
	if err := c.doJSON(ctx, "generate question paper", http.MethodPost, "/api/generate-question-paper", req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.PaperContent) == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: fmt.Sprintf("generate question paper: empty paper for %d questions", req.QuestionCount)}
	}
	return resp.PaperContent, nil
}
