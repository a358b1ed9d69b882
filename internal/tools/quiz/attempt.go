// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package quiz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

var (
	ErrOutOfRange      = errors.New("no such question")
	ErrInvalidChoice   = errors.New("not one of the options")
	ErrAlreadyAnswered = errors.New("question already answered")
)

// Attempt tracks one pass through a quiz. It is not safe for concurrent use.
type Attempt struct {
	Questions []model.Question
	answers   []int // -1 until answered
}

// Score is the tally of an attempt.
type Score struct {
	Correct  int
	Answered int
	Total    int
}

// Percent is the share of all questions answered correctly.
func (s Score) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Correct * 100 / s.Total
}

func (s Score) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", s.Correct, s.Total, s.Percent())
}

// NewAttempt starts an attempt on qs.
func NewAttempt(qs []model.Question) *Attempt {
	a := &Attempt{Questions: qs, answers: make([]int, len(qs))}
	for i := range a.answers {
		a.answers[i] = -1
	}
	return a
}

// Answer records choice for question i and reports whether it is correct.
// Questions whose correct answer cannot be resolved never score.
func (a *Attempt) Answer(i, choice int) (bool, error) {
	if i < 0 || i >= len(a.Questions) {
		return false, ErrOutOfRange
	}
	if choice < 0 || choice >= len(a.Questions[i].Options) {
		return false, ErrInvalidChoice
	}
	if a.answers[i] >= 0 {
		return false, ErrAlreadyAnswered
	}
	a.answers[i] = choice
	return a.Questions[i].CorrectIndex() == choice, nil
}

// Chosen returns the recorded choice for question i.
func (a *Attempt) Chosen(i int) (int, bool) {
	if i < 0 || i >= len(a.answers) || a.answers[i] < 0 {
		return 0, false
	}
	return a.answers[i], true
}

// Next returns the first unanswered question index.
func (a *Attempt) Next() (int, bool) {
	for i, c := range a.answers {
		if c < 0 {
			return i, true
		}
	}
	return 0, false
}

// Done reports whether every question has been answered.
func (a *Attempt) Done() bool {
	_, more := a.Next()
	return !more
}

// Score tallies the attempt so far.
func (a *Attempt) Score() Score {
	s := Score{Total: len(a.Questions)}
	for i, c := range a.answers {
		if c < 0 {
			continue
		}
		s.Answered++
		if a.Questions[i].CorrectIndex() == c {
			s.Correct++
		}
	}
	return s
}

// ParseChoice reads a typed answer: a letter ("b"), a 1-based number
// ("2") or the option text.
func ParseChoice(q model.Question, input string) (int, error) {
	in := strings.TrimSpace(input)
	if in == "" {
		return 0, ErrInvalidChoice
	}
	if n, err := strconv.Atoi(in); err == nil {
		if n >= 1 && n <= len(q.Options) {
			return n - 1, nil
		}
		return 0, ErrInvalidChoice
	}
	if len(in) == 1 {
		c := in[0] | 0x20
		if c >= 'a' && c <= 'z' && int(c-'a') < len(q.Options) {
			return int(c - 'a'), nil
		}
	}
	for i, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), in) {
			return i, nil
		}
	}
	return 0, ErrInvalidChoice
}
