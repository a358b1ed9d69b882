// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks which conversation is current and the cached list
// of known sessions.
//
// # Key Types
//
//   - Store: current session, cached session list, first-question flag
//   - Token: one activation of a session; goes stale on switch or create
//
// # Guarantees
//
//   - Initialize always ends with a current session unless creation fails:
//     a failed list call is treated as "no sessions".
//   - SwitchTo the current session is a no-op: no clear, no history fetch.
//   - The first-message rename fires at most once per activation.
//   - Writes through ViewFor(tok) are dropped once tok is stale, so a slow
//     reply or history replay never lands in a different session's view.
//
// # Usage
//
//	store := session.NewStore(client, loader, transcript)
//	if err := store.Initialize(ctx); err != nil { ... }
//	cur, tok, ok := store.Current()
//	store.ViewFor(tok).ShowError("...")
package session
