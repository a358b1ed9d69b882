// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives one request/response cycle per submitted message.
//
// Each exchange moves Composing -> Sent -> AwaitingReply -> Resolved|Failed:
//
//   - Sent: the user's message is appended immediately (optimistic) and the
//     first message of a session triggers a background rename.
//   - AwaitingReply: a typing indicator is shown and the chat call is made,
//     with the active persona's instructions prefixed when teacher mode is on.
//   - Resolved: the indicator goes away and, after a short delay, the reply
//     is appended.
//   - Failed: the indicator goes away and an error notice is appended. The
//     user's message stays; nothing is retried here.
//
// Overlapping sends are allowed. Network calls run concurrently but results
// are applied strictly in submission order, and results for a session that
// is no longer current are dropped.
package chat
