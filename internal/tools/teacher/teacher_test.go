// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package teacher

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/apitest"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/storage"
)

var builtins = []model.Persona{
	{ID: "t1", Name: "Socrates", Prompt: "Answer only with questions."},
	{ID: "t2", Name: "Physics Tutor", Prompt: "Explain with everyday examples.", IsCustom: true},
}

func setup(t *testing.T) (*Manager, *apitest.Server, *storage.MemoryStore) {
	t.Helper()
	srv := apitest.New(t)
	srv.SetTeachers(builtins...)
	prefs := storage.NewMemoryStore()
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	m := New(client, prefs, nil)
	require.NoError(t, m.Refresh(context.Background()))
	return m, srv, prefs
}

func TestActivatePersistsAndPrefixes(t *testing.T) {
	m, _, prefs := setup(t)

	_, ok := m.PromptPrefix()
	assert.False(t, ok, "off by default")

	p, err := m.Activate("socrates")
	require.NoError(t, err)
	assert.Equal(t, "t1", p.ID)

	prefix, ok := m.PromptPrefix()
	require.True(t, ok)
	assert.Equal(t, "Answer only with questions.", prefix)

	id, _, _ := prefs.Get(storage.KeyActiveTeacherID)
	assert.Equal(t, "t1", id)
	flag, _, _ := prefs.Get(storage.KeyTeacherModeActive)
	assert.Equal(t, "true", flag)
}

func TestDeactivateRemembersSelection(t *testing.T) {
	m, _, prefs := setup(t)
	_, err := m.Activate("t2")
	require.NoError(t, err)
	require.NoError(t, m.Deactivate())

	_, ok := m.Active()
	assert.False(t, ok)
	assert.False(t, m.Enabled())
	flag, _, _ := prefs.Get(storage.KeyTeacherModeActive)
	assert.Equal(t, "false", flag)
	id, _, _ := prefs.Get(storage.KeyActiveTeacherID)
	assert.Equal(t, "t2", id)
}

func TestRestoreFromPrefs(t *testing.T) {
	srv := apitest.New(t)
	srv.SetTeachers(builtins...)
	prefs := storage.NewMemoryStore()
	require.NoError(t, prefs.Set(storage.KeyActiveTeacherID, "t2"))
	require.NoError(t, storage.SetBool(prefs, storage.KeyTeacherModeActive, true))

	m := New(api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL}), prefs, nil)
	assert.True(t, m.Enabled())
	_, ok := m.Active()
	assert.False(t, ok, "list not loaded yet")

	require.NoError(t, m.Refresh(context.Background()))
	p, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "Physics Tutor", p.Name)
}

func TestActivateUnknown(t *testing.T) {
	m, _, prefs := setup(t)
	_, err := m.Activate("Plato")
	assert.ErrorIs(t, err, ErrUnknown)
	_, ok, _ := prefs.Get(storage.KeyActiveTeacherID)
	assert.False(t, ok)
}

func TestCreateAndUpdate(t *testing.T) {
	m, srv, _ := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, m.Create(ctx, " ", "prompt"), ErrInvalid)
	assert.ErrorIs(t, m.Create(ctx, "Name", ""), ErrInvalid)
	assert.Zero(t, srv.Count(http.MethodPost, "/api/teachers"))

	require.NoError(t, m.Create(ctx, " Chem Coach ", "Use reactions as examples."))
	p, ok := m.Find("chem coach")
	require.True(t, ok)
	assert.True(t, p.IsCustom)

	require.NoError(t, m.Update(ctx, p.ID, "Chem Coach", "Balance every equation."))
	p, _ = m.Find(p.ID)
	assert.Equal(t, "Balance every equation.", p.Prompt)

	assert.ErrorIs(t, m.Update(ctx, "t1", "Socrates", "x"), ErrNotEditable)
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	m, srv, _ := setup(t)
	srv.Fail("GET /api/teachers", http.StatusBadGateway)
	assert.Error(t, m.Refresh(context.Background()))
	assert.Len(t, m.List(), 2)
}
