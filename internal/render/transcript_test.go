// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/theme"
)

func TestTranscript_WelcomeLifecycle(t *testing.T) {
	tr := NewTranscript(Welcome{})
	s := tr.Snapshot()
	require.NotNil(t, s.Welcome)
	assert.Equal(t, DefaultWelcome, *s.Welcome)

	tr.Append(NewRenderer().Render(RoleUser, "hi", time.Now()))
	assert.Nil(t, tr.Snapshot().Welcome, "append dismisses welcome")

	tr.Clear()
	s = tr.Snapshot()
	assert.NotNil(t, s.Welcome)
	assert.Empty(t, s.Entries)

	tr.RemoveWelcome()
	assert.Nil(t, tr.Snapshot().Welcome)
}

func TestTranscript_TypingIsPerID(t *testing.T) {
	tr := NewTranscript(DefaultWelcome)
	a := tr.ShowTyping()
	b := tr.ShowTyping()
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, tr.Snapshot().Typing)

	tr.RemoveTyping(a)
	tr.RemoveTyping(a)
	assert.Equal(t, 1, tr.Snapshot().Typing)

	tr.Clear()
	assert.Equal(t, 0, tr.Snapshot().Typing)
	tr.RemoveTyping(b) // stale id after clear is harmless
}

func TestTranscript_ShowErrorAndLastText(t *testing.T) {
	tr := NewTranscript(DefaultWelcome)
	r := NewRenderer()
	tr.Append(r.Render(RoleAI, "first", time.Now()))
	tr.ShowError("Sorry, I couldn't process your request. Please try again.")
	tr.Append(r.Render(RoleAI, "second", time.Now()))

	entries := tr.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, KindError, entries[1].Kind)
	assert.Equal(t, RoleAI, entries[1].Role())

	last, ok := tr.LastText(KindAI)
	assert.True(t, ok)
	assert.Equal(t, "second", last)
	_, ok = tr.LastText(KindUser)
	assert.False(t, ok)
}

func TestTranscript_OnChangeAndVersion(t *testing.T) {
	tr := NewTranscript(DefaultWelcome)
	var calls atomic.Int32
	tr.OnChange(func() {
		calls.Add(1)
		_ = tr.Snapshot() // must not deadlock
	})

	v0 := tr.Snapshot().Version
	tr.ShowError("x")
	tr.SetWelcome(Welcome{Title: "Hi"})
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, v0+2, tr.Snapshot().Version)
}

func TestTranscript_ConcurrentAppendsKeepAll(t *testing.T) {
	tr := NewTranscript(DefaultWelcome)
	r := NewRenderer()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Append(r.Render(RoleUser, "m", time.Now()))
		}()
	}
	wg.Wait()
	assert.Len(t, tr.Entries(), 50)
}

func TestTerminal_PlainNoColor(t *testing.T) {
	term := NewTerminal(TerminalOptions{Mode: theme.Light, Plain: true, NoColor: true, Width: 40})
	r := NewRenderer()
	ts := time.Date(2025, 1, 1, 9, 5, 0, 0, time.Local)

	out := term.Entry(r.Render(RoleUser, "hello", ts))
	assert.True(t, strings.HasPrefix(out, "You · 9:05 AM"))
	assert.Contains(t, out, "hello")

	out = term.Entry(r.Error("boom", ts))
	assert.Equal(t, "✖ boom", out)

	snap := NewTranscript(DefaultWelcome).Snapshot()
	assert.Contains(t, term.Snapshot(snap, "…"), "Welcome to SAHPAATHI")
	assert.Equal(t, 40, term.Width())
}

func TestHighlight_FallsBackForUnknownLanguage(t *testing.T) {
	out := Highlight("plain words", "no-such-language")
	assert.Contains(t, out, "plain")
	assert.Contains(t, Highlight("package main", "go"), "main")
}
