// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// DefaultSessionName is used when a session is created without a name.
const DefaultSessionName = "New Chat"

// MaxSessionNameRunes is the length a first question is cut to when it
// becomes the session name.
const MaxSessionNameRunes = 30

// Session is a server-tracked conversation thread. The list endpoint returns
// sessions most-recent first; the client keeps that order.
type Session struct {
	ID   string `json:"session_id" yaml:"session_id"`
	Name string `json:"name" yaml:"name"`
}

// DisplayName returns the name, or DefaultSessionName when it is blank.
func (s Session) DisplayName() string {
	if s.Name == "" {
		return DefaultSessionName
	}
	return s.Name
}
