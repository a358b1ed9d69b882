// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Prompt is a reusable prompt template from the prompt library.
type Prompt struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}
