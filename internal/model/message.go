// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role is the sender of a persisted message as reported by the backend.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsAssistant reports whether the backend attributes the message to the model.
// Any role other than "assistant" is treated as the user.
func (r Role) IsAssistant() bool {
	return r == RoleAssistant
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	if r.IsAssistant() {
		return "SAHPAATHI"
	}
	return "You"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one entry of a session's server-side history.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Preview returns a rune-safe preview of the content.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if maxLen <= 3 || len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}
