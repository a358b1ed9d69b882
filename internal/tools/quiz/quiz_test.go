// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package quiz

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/apitest"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

func sampleQuestions() []model.Question {
	return []model.Question{
		{Question: "Powerhouse of the cell?", Options: []string{"Nucleus", "Mitochondria", "Ribosome"}, Correct: model.Answer{Raw: "1"}},
		{Question: "H2O is?", Options: []string{"Water", "Salt"}, Correct: model.Answer{Raw: "A"}},
		{Question: "Largest planet?", Options: []string{"Mars", "Jupiter"}, Correct: model.Answer{Raw: "Jupiter"}},
	}
}

func newGenerator(t *testing.T) (*Generator, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	srv.SetQuestions(sampleQuestions()...)
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	return New(client, nil), srv
}

func TestFromChat(t *testing.T) {
	g, srv := newGenerator(t)

	qs, err := g.FromChat(context.Background(), "s1", 2)
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	calls := srv.Calls(http.MethodGet, "/generate-quiz")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "session_id=s1")
	assert.Contains(t, calls[0].Query, "count=2")
}

func TestFromChat_DefaultCount(t *testing.T) {
	g, srv := newGenerator(t)
	_, err := g.FromChat(context.Background(), "s1", 0)
	require.NoError(t, err)
	assert.Contains(t, srv.Calls(http.MethodGet, "/generate-quiz")[0].Query, "count=5")
}

func TestValidationBeforeNetwork(t *testing.T) {
	g, srv := newGenerator(t)
	ctx := context.Background()

	_, err := g.FromChat(ctx, "", 5)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = g.FromChat(ctx, "s1", MaxCount+1)
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = g.FromSyllabus(ctx, "   ", 5)
	assert.ErrorIs(t, err, ErrNoText)
	_, err = g.FromSyllabus(ctx, "cells", -1)
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = g.QuestionPaper(ctx, api.PaperRequest{Syllabus: "cells", DifficultyLevel: "brutal"})
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
	_, err = g.QuestionPaper(ctx, api.PaperRequest{})
	assert.ErrorIs(t, err, ErrNoText)

	assert.Zero(t, srv.Count(http.MethodGet, "/generate-quiz"))
	assert.Zero(t, srv.Count(http.MethodPost, "/generate-syllabus-quiz"))
	assert.Zero(t, srv.Count(http.MethodPost, "/api/generate-question-paper"))
}

func TestFromSyllabus(t *testing.T) {
	g, srv := newGenerator(t)
	qs, err := g.FromSyllabus(context.Background(), "Unit 1: Cells", 3)
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	calls := srv.Calls(http.MethodPost, "/generate-syllabus-quiz")
	require.Len(t, calls, 1)
	assert.Equal(t, "Unit 1: Cells", calls[0].Body["text"])
	assert.EqualValues(t, 3, calls[0].Body["count"])
}

func TestFromSyllabus_NoQuestions(t *testing.T) {
	g, srv := newGenerator(t)
	srv.SetQuestions(model.Question{Question: "", Options: []string{"a"}})
	_, err := g.FromSyllabus(context.Background(), "x", 1)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestQuestionPaper(t *testing.T) {
	g, srv := newGenerator(t)
	paper, err := g.QuestionPaper(context.Background(), api.PaperRequest{Syllabus: "Osmosis", QuestionCount: 10, SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "Q1. Define osmosis.", paper)

	calls := srv.Calls(http.MethodPost, "/api/generate-question-paper")
	require.Len(t, calls, 1)
	assert.Equal(t, Medium, calls[0].Body["difficultyLevel"])
	assert.EqualValues(t, 10, calls[0].Body["questionCount"])
	assert.Equal(t, "s1", calls[0].Body["sessionId"])
}

func TestAttempt(t *testing.T) {
	a := NewAttempt(sampleQuestions())

	next, ok := a.Next()
	require.True(t, ok)
	assert.Equal(t, 0, next)

	correct, err := a.Answer(0, 1)
	require.NoError(t, err)
	assert.True(t, correct)

	_, err = a.Answer(0, 0)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	_, err = a.Answer(1, 5)
	assert.ErrorIs(t, err, ErrInvalidChoice)
	_, err = a.Answer(9, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	correct, err = a.Answer(1, 1)
	require.NoError(t, err)
	assert.False(t, correct)
	assert.False(t, a.Done())

	correct, err = a.Answer(2, 1)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.True(t, a.Done())

	s := a.Score()
	assert.Equal(t, Score{Correct: 2, Answered: 3, Total: 3}, s)
	assert.Equal(t, 66, s.Percent())
	assert.Equal(t, "2/3 (66%)", s.String())

	chosen, ok := a.Chosen(1)
	assert.True(t, ok)
	assert.Equal(t, 1, chosen)
}

func TestParseChoice(t *testing.T) {
	q := sampleQuestions()[0]
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"b", 1, true},
		{"C", 2, true},
		{"1", 0, true},
		{"mitochondria", 1, true},
		{"4", 0, false},
		{"z", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseChoice(q, tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidChoice, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDifficulty(t *testing.T) {
	got, err := ParseDifficulty(" HARD ")
	require.NoError(t, err)
	assert.Equal(t, Hard, got)
	got, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, Medium, got)
}
