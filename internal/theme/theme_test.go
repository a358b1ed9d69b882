// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/storage"
)

func TestLoad_StoredDarkRendersDark(t *testing.T) {
	prefs := storage.NewMemoryStore()
	require.NoError(t, prefs.Set(storage.KeyTheme, "dark"))

	s := Load(prefs)
	assert.True(t, s.IsDark())
	assert.Equal(t, Dark, s.Mode())
}

func TestLoad_DefaultsToLight(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		set    bool
	}{
		{"missing", "", false},
		{"light", "light", true},
		{"unknown", "solarized", true},
		{"case sensitive", "DARK", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := storage.NewMemoryStore()
			if tt.set {
				require.NoError(t, prefs.Set(storage.KeyTheme, tt.stored))
			}
			assert.Equal(t, Light, Load(prefs).Mode())
		})
	}
}

func TestToggle_FlipsAndPersists(t *testing.T) {
	prefs := storage.NewMemoryStore()
	s := Load(prefs)

	m, err := s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, m)
	v, _, _ := prefs.Get(storage.KeyTheme)
	assert.Equal(t, "dark", v)

	m, err = s.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, m)
	v, _, _ = prefs.Get(storage.KeyTheme)
	assert.Equal(t, "light", v)

	// Reload sees the persisted value without another toggle.
	assert.Equal(t, Light, Load(prefs).Mode())
}

type failingPrefs struct{ *storage.MemoryStore }

func (f *failingPrefs) Set(string, string) error { return errors.New("disk full") }

func TestToggle_PersistErrorStillFlips(t *testing.T) {
	p := &failingPrefs{MemoryStore: storage.NewMemoryStore()}
	s := Load(p)

	m, err := s.Toggle()
	assert.Error(t, err)
	assert.Equal(t, Dark, m)
	assert.True(t, s.IsDark())
}

func TestLoad_NilPrefs(t *testing.T) {
	s := Load(nil)
	m, err := s.Toggle()
	assert.NoError(t, err)
	assert.Equal(t, Dark, m)
}
