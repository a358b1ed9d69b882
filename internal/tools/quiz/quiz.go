// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quiz generates multiple-choice quizzes and question papers and
// scores attempts locally.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

const (
	DefaultCount = 5
	MaxCount     = 50
)

// Difficulty levels accepted by the question paper endpoint.
const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

var (
	ErrNoText            = errors.New("no syllabus text provided")
	ErrNoSession         = errors.New("no chat to quiz on")
	ErrInvalidCount      = fmt.Errorf("question count must be between 1 and %d", MaxCount)
	ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or hard")
	ErrNoQuestions       = errors.New("server returned no questions")
)

// API is the server side of the quiz tools.
type API interface {
	GenerateQuiz(ctx context.Context, sessionID string, count int) ([]model.Question, error)
	GenerateSyllabusQuiz(ctx context.Context, text string, count int) ([]model.Question, error)
	GenerateQuestionPaper(ctx context.Context, req api.PaperRequest) (string, error)
}

// Generator validates requests before calling the server.
type Generator struct {
	api    API
	logger *log.Logger
}

// New creates a generator. A nil logger discards.
func New(client API, logger *log.Logger) *Generator {
	return &Generator{api: client, logger: logging.Or(logger).With("component", "quiz")}
}

// FromChat builds a quiz from a session's conversation. count 0 means
// DefaultCount.
func (g *Generator) FromChat(ctx context.Context, sessionID string, count int) ([]model.Question, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrNoSession
	}
	count, err := normalizeCount(count)
	if err != nil {
		return nil, err
	}
	qs, err := g.api.GenerateQuiz(ctx, sessionID, count)
	return g.checked("chat", qs, err)
}

// FromSyllabus builds a quiz from pasted syllabus text.
func (g *Generator) FromSyllabus(ctx context.Context, text string, count int) ([]model.Question, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	count, err := normalizeCount(count)
	if err != nil {
		return nil, err
	}
	qs, err := g.api.GenerateSyllabusQuiz(ctx, text, count)
	return g.checked("syllabus", qs, err)
}

// QuestionPaper generates a printable paper. Difficulty defaults to medium.
func (g *Generator) QuestionPaper(ctx context.Context, req api.PaperRequest) (string, error) {
	if strings.TrimSpace(req.Syllabus) == "" {
		return "", ErrNoText
	}
	count, err := normalizeCount(req.QuestionCount)
	if err != nil {
		return "", err
	}
	req.QuestionCount = count

	level, err := ParseDifficulty(req.DifficultyLevel)
	if err != nil {
		return "", err
	}
	req.DifficultyLevel = level

	paper, err := g.api.GenerateQuestionPaper(ctx, req)
	if err != nil {
		g.logger.Warn("question paper failed", "err", err)
		return "", err
	}
	g.logger.Info("question paper generated", "questions", count, "difficulty", level)
	return paper, nil
}

func (g *Generator) checked(source string, qs []model.Question, err error) ([]model.Question, error) {
	if err != nil {
		g.logger.Warn("quiz generation failed", "source", source, "err", err)
		return nil, err
	}
	valid := qs[:0:0]
	for _, q := range qs {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) == 0 {
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, ErrNoQuestions
	}
	if dropped := len(qs) - len(valid); dropped > 0 {
		g.logger.Debug("dropped malformed questions", "count", dropped)
	}
	return valid, nil
}

// ParseDifficulty normalizes a difficulty level; empty means medium.
func ParseDifficulty(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Medium, nil
	case Easy:
		return Easy, nil
	case Medium:
		return Medium, nil
	case Hard:
		return Hard, nil
	default:
		return "", ErrInvalidDifficulty
	}
}

func normalizeCount(n int) (int, error) {
	if n == 0 {
		return DefaultCount, nil
	}
	if n < 1 || n > MaxCount {
		return 0, ErrInvalidCount
	}
	return n, nil
}
