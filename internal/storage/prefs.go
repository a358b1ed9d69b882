// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// Persisted keys.
const (
	KeyTheme             = "theme"
	KeyActiveTeacherID   = "activeTeacherId"
	KeyTeacherModeActive = "isTeacherModeGloballyActive"
	KeyCustomPrompts     = "customPrompts"
)

// Prefs is a string key/value store.
type Prefs interface {
	// Get returns the value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
}

// =============================================================================
// TYPED HELPERS
// =============================================================================

// GetBool reads a "true"/"false" value. Missing or unparsable keys read as false.
func GetBool(p Prefs, key string) (bool, error) {
	v, ok, err := p.Get(key)
	if err != nil || !ok {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, nil
	}
	return b, nil
}

// SetBool stores b as "true" or "false".
func SetBool(p Prefs, key string, b bool) error {
	return p.Set(key, strconv.FormatBool(b))
}

// GetJSON decodes a JSON value into out. A missing key leaves out untouched
// and returns false.
func GetJSON(p Prefs, key string, out any) (bool, error) {
	v, ok, err := p.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(v), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v encoded as JSON.
func SetJSON(p Prefs, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return p.Set(key, string(data))
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps prefs in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
