// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme holds the light/dark preference. It is a two-state flip
// persisted under storage.KeyTheme; the UI derives its styles from Mode.
package theme

import (
	"sync"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/storage"
)

// Mode is the colour scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Parse maps a stored value to a mode. Only "dark" selects Dark.
func Parse(s string) Mode {
	if s == string(Dark) {
		return Dark
	}
	return Light
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// State is the persisted theme preference.
type State struct {
	mu    sync.RWMutex
	mode  Mode
	prefs storage.Prefs
}

// Load reads the stored preference. A read error or missing key yields Light.
func Load(prefs storage.Prefs) *State {
	s := &State{mode: Light, prefs: prefs}
	if prefs == nil {
		return s
	}
	if v, ok, err := prefs.Get(storage.KeyTheme); err == nil && ok {
		s.mode = Parse(v)
	}
	return s
}

// Mode returns the current mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// IsDark reports whether the dark variant is active.
func (s *State) IsDark() bool {
	return s.Mode() == Dark
}

// Toggle flips the mode and persists it. The in-memory flip happens even if
// persisting fails; the error is returned for the caller to surface.
func (s *State) Toggle() (Mode, error) {
	s.mu.Lock()
	s.mode = s.mode.Opposite()
	m := s.mode
	s.mu.Unlock()

	if s.prefs == nil {
		return m, nil
	}
	return m, s.prefs.Set(storage.KeyTheme, string(m))
}
