// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"

// ViewFor returns a view that forwards writes only while tok is current.
// The check and the write happen under the store lock, so nothing can slip
// in between a switch's Clear and the new session's replay.
//
// Listeners on the underlying view run with the store lock held and must
// not call back into the Store.
func (s *Store) ViewFor(tok Token) render.View {
	return &guardedView{store: s, tok: tok}
}

type guardedView struct {
	store *Store
	tok   Token
}

func (g *guardedView) do(fn func(v render.View)) bool {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	if !g.store.isCurrentLocked(g.tok) {
		return false
	}
	fn(g.store.view)
	return true
}

func (g *guardedView) Append(e render.Entry) {
	if !g.do(func(v render.View) { v.Append(e) }) {
		g.store.logger.Debug("dropped entry for stale session", "session_id", g.tok.SessionID, "kind", e.Kind)
	}
}

// ShowTyping returns 0 when the session is stale; RemoveTyping ignores it.
func (g *guardedView) ShowTyping() render.TypingID {
	var id render.TypingID
	g.do(func(v render.View) { id = v.ShowTyping() })
	return id
}

// RemoveTyping always forwards: an indicator must never outlive its request.
// Clear already dropped it if the session changed, and unknown ids are ignored.
func (g *guardedView) RemoveTyping(id render.TypingID) {
	if id == 0 {
		return
	}
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.store.view.RemoveTyping(id)
}

func (g *guardedView) ShowError(msg string) {
	g.do(func(v render.View) { v.ShowError(msg) })
}

func (g *guardedView) Clear() {
	g.do(func(v render.View) { v.Clear() })
}

func (g *guardedView) RemoveWelcome() {
	g.do(func(v render.View) { v.RemoveWelcome() })
}
