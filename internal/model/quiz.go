// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// =============================================================================
// QUIZ TYPES
// =============================================================================

// Question is one generated multiple-choice question.
type Question struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Correct  Answer   `json:"correct" yaml:"correct"`
}

// Answer holds the "correct" field, which the backend sends either as an
// option index (number) or as a string: the option text itself, a numeric
// string ("1") or a letter ("B").
type Answer struct {
	Raw string

	// IsNumber is set when the JSON value was a number, which is always an
	// option index.
	IsNumber bool
}

// UnmarshalJSON accepts numbers and strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Answer{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Raw)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	a.Raw = n.String()
	a.IsNumber = true
	return nil
}

// MarshalJSON writes numeric answers back as numbers.
func (a Answer) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(a.Raw); err == nil && a.IsNumber {
		return []byte(a.Raw), nil
	}
	return json.Marshal(a.Raw)
}

// MarshalYAML writes the raw answer.
func (a Answer) MarshalYAML() (interface{}, error) {
	if n, err := strconv.Atoi(a.Raw); err == nil && a.IsNumber {
		return n, nil
	}
	return a.Raw, nil
}

// CorrectIndex resolves the answer to an option index, or -1 when it
// matches nothing. String answers match option text before they are read
// as an index or a letter, so options like "1".."4" or "A".."D" resolve
// to themselves.
func (q Question) CorrectIndex() int {
	raw := strings.TrimSpace(q.Correct.Raw)
	if raw == "" {
		return -1
	}
	if q.Correct.IsNumber {
		return q.index(raw)
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == raw {
			return i
		}
	}
	for i, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), raw) {
			return i
		}
	}
	if _, err := strconv.Atoi(raw); err == nil {
		return q.index(raw)
	}
	if len(raw) == 1 {
		c := raw[0] | 0x20 // lower-case ASCII
		if c >= 'a' && c <= 'z' {
			if idx := int(c - 'a'); idx < len(q.Options) {
				return idx
			}
		}
	}
	return -1
}

// index reads raw as a zero-based option index.
func (q Question) index(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n >= len(q.Options) {
		return -1
	}
	return n
}

// OptionLabel returns the letter shown next to option i ("A", "B", ...).
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}
