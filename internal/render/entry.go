// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"time"

	"github.com/google/uuid"
)

// Role is the display role of an entry.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Kind distinguishes chat entries from inline error notices.
type Kind int

const (
	KindUser Kind = iota
	KindAI
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAI:
		return "ai"
	default:
		return "error"
	}
}

// Entry is one render-ready item in the transcript.
type Entry struct {
	ID   string
	Kind Kind

	// Text is the content as received; terminal front ends render from it.
	Text string

	// Markup is the escaped (user, error) or formatted (ai) HTML.
	Markup string

	// Time is the display timestamp, 12-hour clock.
	Time string
	At   time.Time
}

// Role returns the display role; error notices count as ai.
func (e Entry) Role() Role {
	if e.Kind == KindUser {
		return RoleUser
	}
	return RoleAI
}

// Renderer builds entries. The zero value is usable.
type Renderer struct {
	newID func() string
}

// NewRenderer returns a renderer that assigns random entry ids.
func NewRenderer() *Renderer {
	return &Renderer{newID: uuid.NewString}
}

// Render converts a role and content into an entry. User content is never
// interpreted; anything that is not RoleUser is treated as assistant text.
func (r *Renderer) Render(role Role, content string, ts time.Time) Entry {
	e := Entry{
		ID:   r.id(),
		Text: content,
		Time: FormatTime(ts),
		At:   ts,
	}
	if role == RoleUser {
		e.Kind = KindUser
		e.Markup = Escape(content)
	} else {
		e.Kind = KindAI
		e.Markup = Format(content)
		if content == "" {
			e.Text = FallbackText
		}
	}
	return e
}

// Error builds an inline error notice.
func (r *Renderer) Error(msg string, ts time.Time) Entry {
	return Entry{
		ID:     r.id(),
		Kind:   KindError,
		Text:   msg,
		Markup: Escape(msg),
		Time:   FormatTime(ts),
		At:     ts,
	}
}

func (r *Renderer) id() string {
	if r == nil || r.newID == nil {
		return uuid.NewString()
	}
	return r.newID()
}

// FormatTime renders a wall-clock time as "h:MM AM/PM". Midnight and noon
// show as 12.
func FormatTime(t time.Time) string {
	return t.Format("3:04 PM")
}
