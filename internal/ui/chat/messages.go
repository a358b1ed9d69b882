// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/chat"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/config"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
)

// =============================================================================
// STATE CHANGE MESSAGES
// =============================================================================

// TranscriptChangedMsg signals that the transcript has a new version.
type TranscriptChangedMsg struct{}

// StartedMsg reports the result of the initial session load.
type StartedMsg struct {
	Err error
}

// ExchangeDoneMsg reports that a sent message has been applied.
type ExchangeDoneMsg struct {
	Exchange chat.Exchange
	Err      error
}

// ConfigAppliedMsg reports a hot-reloaded configuration.
type ConfigAppliedMsg struct {
	Config *config.Config
}

// =============================================================================
// OPERATION MESSAGES
// =============================================================================

// OpDoneMsg reports the outcome of a background operation. Status is shown
// on success, Err on failure.
type OpDoneMsg struct {
	Op     string
	Status string
	Err    error
}

// QuizReadyMsg carries generated questions.
type QuizReadyMsg struct {
	Questions []model.Question
	Err       error
}

// PaperReadyMsg carries a generated question paper.
type PaperReadyMsg struct {
	Text string
	Err  error
}
