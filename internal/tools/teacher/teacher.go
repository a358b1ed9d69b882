// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package teacher manages teacher personas. When teacher mode is on, the
// active persona's instructions prefix every outgoing chat prompt.
//
// The selection is a single state value (active id plus on/off flag) persisted
// under activeTeacherId and isTeacherModeGloballyActive.
package teacher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/logging"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/storage"
)

var (
	// ErrInvalid is returned when a persona has no name or no prompt.
	ErrInvalid = errors.New("teacher needs a name and a prompt")

	// ErrUnknown is returned for an id or name not in the list.
	ErrUnknown = errors.New("no such teacher")

	// ErrNotEditable is returned when updating a built-in persona.
	ErrNotEditable = errors.New("built-in teachers cannot be edited")
)

// API is the server side of teacher personas.
type API interface {
	ListTeachers(ctx context.Context) ([]model.Persona, error)
	CreateTeacher(ctx context.Context, name, prompt string) error
	UpdateTeacher(ctx context.Context, id, name, prompt string) error
}

// Manager holds the persona list and the active selection.
type Manager struct {
	api    API
	prefs  storage.Prefs
	logger *log.Logger

	mu       sync.RWMutex
	personas []model.Persona
	activeID string
	enabled  bool
}

// New creates a manager and restores the persisted selection. Unreadable
// prefs leave teacher mode off.
func New(api API, prefs storage.Prefs, logger *log.Logger) *Manager {
	m := &Manager{api: api, prefs: prefs, logger: logging.Or(logger).With("component", "teacher")}

	if id, ok, err := prefs.Get(storage.KeyActiveTeacherID); err == nil && ok {
		m.activeID = id
	}
	enabled, err := storage.GetBool(prefs, storage.KeyTeacherModeActive)
	if err != nil {
		m.logger.Warn("could not read teacher mode flag", "err", err)
	}
	m.enabled = enabled && m.activeID != ""
	return m
}

// =============================================================================
// LIST
// =============================================================================

// Refresh re-reads the persona list. On failure the cached list is kept.
func (m *Manager) Refresh(ctx context.Context) error {
	list, err := m.api.ListTeachers(ctx)
	if err != nil {
		return fmt.Errorf("list teachers: %w", err)
	}
	m.mu.Lock()
	m.personas = list
	m.mu.Unlock()
	return nil
}

// List returns the cached personas.
func (m *Manager) List() []model.Persona {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Persona(nil), m.personas...)
}

// Find looks a persona up by id, then by case-insensitive name.
func (m *Manager) Find(ref string) (model.Persona, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findLocked(ref)
}

func (m *Manager) findLocked(ref string) (model.Persona, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Persona{}, false
	}
	for _, p := range m.personas {
		if p.ID == ref {
			return p, true
		}
	}
	for _, p := range m.personas {
		if strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return model.Persona{}, false
}

// =============================================================================
// EDIT
// =============================================================================

// Create adds a custom persona and refreshes the list.
func (m *Manager) Create(ctx context.Context, name, prompt string) error {
	name, prompt, err := validate(name, prompt)
	if err != nil {
		return err
	}
	if err := m.api.CreateTeacher(ctx, name, prompt); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	m.logger.Info("teacher created", "name", name)
	return m.Refresh(ctx)
}

// Update edits a custom persona and refreshes the list.
func (m *Manager) Update(ctx context.Context, id, name, prompt string) error {
	name, prompt, err := validate(name, prompt)
	if err != nil {
		return err
	}
	if p, ok := m.Find(id); ok && !p.IsCustom {
		return ErrNotEditable
	}
	if err := m.api.UpdateTeacher(ctx, id, name, prompt); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return m.Refresh(ctx)
}

func validate(name, prompt string) (string, string, error) {
	name, prompt = strings.TrimSpace(name), strings.TrimSpace(prompt)
	if name == "" || prompt == "" {
		return "", "", ErrInvalid
	}
	return name, prompt, nil
}

// =============================================================================
// SELECTION
// =============================================================================

// Activate selects ref (id or name) and turns teacher mode on.
func (m *Manager) Activate(ref string) (model.Persona, error) {
	m.mu.Lock()
	p, ok := m.findLocked(ref)
	if !ok {
		m.mu.Unlock()
		return model.Persona{}, fmt.Errorf("%w: %q", ErrUnknown, ref)
	}
	m.activeID = p.ID
	m.enabled = true
	m.mu.Unlock()

	if err := m.prefs.Set(storage.KeyActiveTeacherID, p.ID); err != nil {
		return p, fmt.Errorf("save teacher: %w", err)
	}
	if err := storage.SetBool(m.prefs, storage.KeyTeacherModeActive, true); err != nil {
		return p, fmt.Errorf("save teacher mode: %w", err)
	}
	m.logger.Info("teacher mode on", "teacher", p.Name)
	return p, nil
}

// Deactivate turns teacher mode off. The last selection is remembered.
func (m *Manager) Deactivate() error {
	m.mu.Lock()
	m.enabled = false
	m.mu.Unlock()

	if err := storage.SetBool(m.prefs, storage.KeyTeacherModeActive, false); err != nil {
		return fmt.Errorf("save teacher mode: %w", err)
	}
	m.logger.Info("teacher mode off")
	return nil
}

// Enabled reports whether teacher mode is on.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Active returns the active persona. It is false when teacher mode is off
// or the selected persona is not in the list.
func (m *Manager) Active() (model.Persona, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.enabled {
		return model.Persona{}, false
	}
	for _, p := range m.personas {
		if p.ID == m.activeID {
			return p, true
		}
	}
	return model.Persona{}, false
}

// PromptPrefix returns the instructions to prepend to outgoing prompts.
func (m *Manager) PromptPrefix() (string, bool) {
	p, ok := m.Active()
	if !ok || strings.TrimSpace(p.Prompt) == "" {
		return "", false
	}
	return p.Prompt, true
}
