// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"sync"
	"time"
)

// =============================================================================
// VIEW INTERFACE
// =============================================================================

// TypingID identifies one typing indicator so overlapping sends remove only
// their own.
type TypingID uint64

// View is the surface controllers write to.
type View interface {
	// Append adds an entry at the end. It also dismisses the welcome screen.
	Append(e Entry)

	// ShowTyping adds a typing indicator and returns its id.
	ShowTyping() TypingID

	// RemoveTyping removes one indicator. Unknown ids are ignored.
	RemoveTyping(id TypingID)

	// ShowError appends an inline error notice.
	ShowError(msg string)

	// Clear empties the view and brings back the welcome screen.
	Clear()

	// RemoveWelcome dismisses the welcome screen.
	RemoveWelcome()
}

// Welcome is the placeholder shown on an empty chat.
type Welcome struct {
	Title string
	Text  string
}

// DefaultWelcome is shown when no welcome text is configured.
var DefaultWelcome = Welcome{
	Title: "Welcome to SAHPAATHI",
	Text:  "Ask me anything about your studies!",
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Snapshot is an immutable copy of the transcript state.
type Snapshot struct {
	Entries []Entry
	Welcome *Welcome // nil when dismissed
	Typing  int      // number of visible typing indicators
	Version uint64   // increments on every change
}

// Transcript is the single authoritative message list. Front ends never
// hold their own copy; they re-render from Snapshot when notified.
type Transcript struct {
	mu          sync.Mutex
	renderer    *Renderer
	now         func() time.Time
	welcome     Welcome
	showWelcome bool
	entries     []Entry
	typing      map[TypingID]struct{}
	nextTyping  TypingID
	version     uint64
	listeners   []func()
}

// NewTranscript returns an empty transcript showing w.
func NewTranscript(w Welcome) *Transcript {
	if w.Title == "" && w.Text == "" {
		w = DefaultWelcome
	}
	return &Transcript{
		renderer:    NewRenderer(),
		now:         time.Now,
		welcome:     w,
		showWelcome: true,
		typing:      make(map[TypingID]struct{}),
	}
}

// OnChange registers fn to run after every change. fn runs without the
// transcript lock held and may call Snapshot.
func (t *Transcript) OnChange(fn func()) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// mutate applies fn under the lock, bumps the version and notifies.
func (t *Transcript) mutate(fn func()) {
	t.mu.Lock()
	fn()
	t.version++
	listeners := append([]func(){}, t.listeners...)
	t.mu.Unlock()

	for _, l := range listeners {
		l()
	}
}

func (t *Transcript) Append(e Entry) {
	t.mutate(func() {
		t.showWelcome = false
		t.entries = append(t.entries, e)
	})
}

func (t *Transcript) ShowTyping() TypingID {
	var id TypingID
	t.mutate(func() {
		t.nextTyping++
		id = t.nextTyping
		t.typing[id] = struct{}{}
	})
	return id
}

func (t *Transcript) RemoveTyping(id TypingID) {
	t.mutate(func() {
		delete(t.typing, id)
	})
}

func (t *Transcript) ShowError(msg string) {
	e := t.renderer.Error(msg, t.now())
	t.mutate(func() {
		t.entries = append(t.entries, e)
	})
}

func (t *Transcript) Clear() {
	t.mutate(func() {
		t.entries = nil
		t.typing = make(map[TypingID]struct{})
		t.showWelcome = true
	})
}

func (t *Transcript) RemoveWelcome() {
	t.mutate(func() {
		t.showWelcome = false
	})
}

// Snapshot returns a copy of the current state.
func (t *Transcript) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		Entries: append([]Entry(nil), t.entries...),
		Typing:  len(t.typing),
		Version: t.version,
	}
	if t.showWelcome {
		w := t.welcome
		s.Welcome = &w
	}
	return s
}

// Entries returns a copy of the entries.
func (t *Transcript) Entries() []Entry {
	return t.Snapshot().Entries
}

// LastText returns the text of the most recent entry of kind k.
func (t *Transcript) LastText(k Kind) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind == k {
			return t.entries[i].Text, true
		}
	}
	return "", false
}

// SetWelcome replaces the welcome text.
func (t *Transcript) SetWelcome(w Welcome) {
	t.mutate(func() {
		t.welcome = w
	})
}
