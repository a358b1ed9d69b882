// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// State is the lifecycle position of one exchange.
type State int

const (
	Composing State = iota
	Sent
	AwaitingReply
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Composing:
		return "composing"
	case Sent:
		return "sent"
	case AwaitingReply:
		return "awaiting_reply"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Resolved || s == Failed
}

// Exchange is a snapshot of one message's round trip.
type Exchange struct {
	ID        string
	Seq       uint64 // submission order, starting at 1
	SessionID string
	Text      string // what the user typed, trimmed
	Prompt    string // what was sent, persona prefix included
	State     State
	Reply     string
	Err       error
	Dropped   bool // result arrived after the session changed
}
