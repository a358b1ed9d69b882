// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// ListSessions returns every session, most recent first.
func (c *Client) ListSessions(ctx context.Context) ([]model.Session, error) {
	var resp sessionsResponse
	if err := c.doJSON(ctx, "list sessions", http.MethodGet, "/api/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// CreateSession creates a session and returns its server-assigned id.
func (c *Client) CreateSession(ctx context.Context, name string) (string, error) {
	var resp createSessionResponse
	if err := c.doJSON(ctx, "create session", http.MethodPost, "/api/sessions", sessionNameRequest{Name: name}, &resp); err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "create session: response has no session_id"}
	}
	return resp.SessionID, nil
}

// RenameSession sets a session's display name.
func (c *Client) RenameSession(ctx context.Context, id, name string) error {
	path := "/api/sessions/" + url.PathEscape(id)
	return c.doJSON(ctx, "rename session", http.MethodPut, path, sessionNameRequest{Name: name}, nil)
}

// History returns a session's persisted messages in order.
func (c *Client) History(ctx context.Context, sessionID string) ([]model.Message, error) {
	q := url.Values{}
	q.Set("session_id", sessionID)
	var resp historyResponse
	if err := c.doJSON(ctx, "load history", http.MethodGet, "/api/history?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}
