// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int // HTTP status, 0 for transport errors
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by type so errors.Is(err, api.ErrTimeout) works for
// any timeout, not just the sentinel value.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Message == "" && t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeNotFound
	ErrTypeInvalidResponse
	ErrTypeServer
	ErrTypeBadRequest
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeNotFound:
		return "not_found"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeServer:
		return "server"
	case ErrTypeBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking with errors.Is.
var (
	ErrConnection      = &ClientError{Type: ErrTypeConnection}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout}
	ErrNotFound        = &ClientError{Type: ErrTypeNotFound}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse}
	ErrServer          = &ClientError{Type: ErrTypeServer}
	ErrBadRequest      = &ClientError{Type: ErrTypeBadRequest}
)

// transportError classifies an error returned by http.Client.Do.
func transportError(op string, err error) *ClientError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ClientError{Type: ErrTypeTimeout, Message: op + " timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: op + ": backend unreachable", Cause: err}
}

// statusError builds a ClientError for a non-2xx response. detail is the
// backend's {"error": "..."} text when it sent one.
func statusError(op string, status int, detail string) *ClientError {
	msg := fmt.Sprintf("%s failed: HTTP %d", op, status)
	if detail != "" {
		msg = fmt.Sprintf("%s failed: %s", op, detail)
	}
	t := ErrTypeServer
	switch {
	case status == 404:
		t = ErrTypeNotFound
	case status >= 400 && status < 500:
		t = ErrTypeBadRequest
	}
	return &ClientError{Type: t, Message: msg, Status: status}
}
