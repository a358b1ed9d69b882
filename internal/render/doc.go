// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns (role, content) pairs into display entries and owns
// the transcript every front end draws from.
//
// # Key Types
//
//   - Renderer: pure (role, content, time) -> Entry transformation
//   - Entry: one render-ready chat entry (user, ai or error)
//   - View: what controllers write to (append, typing, error, clear)
//   - Transcript: the authoritative, thread-safe View implementation
//   - Terminal: draws entries for a terminal with glamour and chroma
//
// # Formatting
//
// Format applies a small markup transform to assistant text in a fixed
// order: fenced code, inline code, bold, italic, links, line breaks. Code is
// pulled out into placeholders first so markers inside code stay literal.
// Input is HTML-escaped before any markup is added, and user text is only
// ever escaped, never formatted.
//
// # Usage
//
//	r := render.NewRenderer()
//	t := render.NewTranscript(render.Welcome{Title: "Welcome"})
//	t.Append(r.Render(render.RoleUser, "hi", time.Now()))
//	snap := t.Snapshot()
package render
