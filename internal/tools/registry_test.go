// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Builtins(t *testing.T) {
	r := NewDefaultRegistry()
	all := r.All()
	require.Len(t, all, 4)
	names := make([]string, len(all))
	for i, tool := range all {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{PDF, Quiz, Teacher, Prompts}, names)

	tool, ok := r.Get("QUIZ")
	require.True(t, ok)
	assert.Equal(t, "Quiz", tool.Title)
}

func TestRegistry_ShowIsMutuallyExclusive(t *testing.T) {
	r := NewDefaultRegistry()

	assert.True(t, r.Show(PDF))
	assert.True(t, r.IsActive(PDF))

	assert.True(t, r.Show(Quiz))
	assert.True(t, r.IsActive(Quiz))
	assert.False(t, r.IsActive(PDF))

	name, ok := r.Active()
	assert.True(t, ok)
	assert.Equal(t, Quiz, name)
}

func TestRegistry_UnknownNamesAreNoOps(t *testing.T) {
	r := NewDefaultRegistry()
	require.True(t, r.Show(Teacher))

	assert.False(t, r.Show("calculator"))
	assert.False(t, r.Hide("calculator"))
	assert.False(t, r.Toggle("calculator"))
	assert.False(t, r.IsActive("calculator"))
	assert.True(t, r.IsActive(Teacher), "unknown name leaves the active panel alone")
}

func TestRegistry_Hide(t *testing.T) {
	r := NewDefaultRegistry()

	assert.False(t, r.Hide(PDF), "nothing showing")
	r.Show(PDF)
	assert.False(t, r.Hide(Quiz), "quiz is not the active panel")
	assert.True(t, r.Hide(PDF))
	_, ok := r.Active()
	assert.False(t, ok)
}

func TestRegistry_Toggle(t *testing.T) {
	r := NewDefaultRegistry()
	assert.True(t, r.Toggle(Prompts))
	assert.True(t, r.IsActive(Prompts))
	assert.True(t, r.Toggle(Prompts))
	assert.False(t, r.IsActive(Prompts))
}

func TestRegistry_Hooks(t *testing.T) {
	r := NewRegistry()
	var events []string
	for _, name := range []string{"a", "b"} {
		name := name
		r.Register(&Tool{
			Name:   name,
			OnShow: func() { events = append(events, "show "+name) },
			OnHide: func() { events = append(events, "hide "+name) },
		})
	}

	r.Show("a")
	r.Show("a")
	r.Show("b")
	r.HideAll()

	assert.Equal(t, []string{"show a", "hide a", "show b", "hide b"}, events)
}

func TestRegistry_RegisterIgnoresInvalid(t *testing.T) {
	r := NewRegistry()
	r.Register(nil)
	r.Register(&Tool{})
	assert.Empty(t, r.All())
}
