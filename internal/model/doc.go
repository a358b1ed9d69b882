// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the API client,
// the session store and the front ends.
//
// # Key Types
//
//   - Session: server-tracked conversation thread (opaque id + display name)
//   - Message: one persisted history entry (role + content)
//   - Role: server message role (user, assistant)
//   - Persona: a teacher persona whose prompt prefixes outgoing chat text
//   - Question: a generated quiz question with its options and answer
//   - Prompt: a reusable prompt from the prompt library
//
// # Usage
//
//	s := model.Session{ID: "abc", Name: model.DefaultSessionName}
//	q := model.Question{Question: "2+2?", Options: []string{"3", "4"}, Correct: model.Answer{Raw: "B"}}
//	idx := q.CorrectIndex() // 1
package model
