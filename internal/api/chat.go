// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
)

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// Chat sends one prompt and returns the assistant's reply text.
//
// With LegacyFallback set, a failure is retried exactly once using the
// {"message": ...} body. A cancelled context is never retried.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var resp ChatResponse
	err := c.doJSON(ctx, "chat", http.MethodPost, "/api/chat", req, &resp)
	if err == nil {
		return resp.Response, nil
	}
	if !c.config.LegacyFallback || ctx.Err() != nil {
		return "", err
	}

	c.logger.Info("retrying chat with legacy body", "session_id", req.SessionID, "err", err)
	legacy := legacyChatRequest{Message: req.Prompt, SessionID: req.SessionID}
	var alt ChatResponse
	if altErr := c.doJSON(ctx, "chat (legacy)", http.MethodPost, "/api/chat", legacy, &alt); altErr != nil {
		return "", errors.Join(err, altErr)
	}
	return alt.Response, nil
}

// Clear wipes server-side history on backends that predate sessions.
func (c *Client) Clear(ctx context.Context) error {
	return c.doJSON(ctx, "clear history", http.MethodPost, "/api/clear", nil, nil)
}
