// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Persona is a teacher persona. When teacher mode is active its Prompt is
// prefixed to every outgoing chat message.
type Persona struct {
	ID       string `json:"teacher_id" yaml:"teacher_id"`
	Name     string `json:"name" yaml:"name"`
	Prompt   string `json:"prompt" yaml:"prompt"`
	IsCustom bool   `json:"is_custom" yaml:"is_custom"`
}
