// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the SAHPAATHI backend.
//
// Every endpoint is JSON over HTTP except the Markdown to PDF upload, which
// is multipart. Failures are returned as *ClientError so callers can branch
// on ErrorType without string matching.
//
// # Key Types
//
//   - Client: thread-safe HTTP client for all backend endpoints
//   - ClientConfig: base URL, timeout and the opt-in legacy chat fallback
//   - ClientError: categorised error with optional HTTP status and cause
//
// # Usage
//
//	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://127.0.0.1:5001"})
//	sessions, err := client.ListSessions(ctx)
//	reply, err := client.Chat(ctx, api.ChatRequest{Prompt: "What is osmosis?", SessionID: id})
//
// # Legacy Fallback
//
// Older backends read the chat text from a "message" key instead of
// "prompt". With LegacyFallback enabled, a failed chat call is retried once
// with the alternate key. No other call is ever retried.
package api
