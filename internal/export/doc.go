// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a session's chat history to a file.
//
// # Formats
//
//   - markdown: headed transcript, readable anywhere
//   - html: standalone page styled like the chat, replies formatted the same
//     way as in the browser client
//   - json: the session and its messages
//   - yaml: the same shape as json
//
// # Usage
//
//	conv := export.Conversation{Session: sess, Messages: history}
//	path, err := export.ExportFormat(conv, "html", export.DefaultOptions())
package export
