// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
)

type fakeAPI struct {
	msgs  []model.Message
	err   error
	calls []string
}

func (f *fakeAPI) History(ctx context.Context, id string) ([]model.Message, error) {
	f.calls = append(f.calls, id)
	return f.msgs, f.err
}

func TestMapRole(t *testing.T) {
	assert.Equal(t, render.RoleAI, MapRole(model.RoleAssistant))
	assert.Equal(t, render.RoleUser, MapRole(model.RoleUser))
	assert.Equal(t, render.RoleUser, MapRole("system"))
	assert.Equal(t, render.RoleUser, MapRole(""))
}

func TestLoad_RoundTripPreservesOrderAndRoles(t *testing.T) {
	api := &fakeAPI{msgs: []model.Message{
		{Role: "user", Content: "What is **mass**?"},
		{Role: "assistant", Content: "Mass is **matter**."},
		{Role: "system", Content: "note"},
		{Role: "assistant", Content: ""},
	}}
	view := render.NewTranscript(render.DefaultWelcome)
	l := NewLoader(api, view, Config{})

	n, err := l.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"s1"}, api.calls)

	snap := view.Snapshot()
	assert.Nil(t, snap.Welcome)
	require.Len(t, snap.Entries, 4)

	r := render.NewRenderer()
	for i, m := range api.msgs {
		want := r.Render(MapRole(m.Role), m.Content, time.Now())
		assert.Equal(t, want.Kind, snap.Entries[i].Kind, "entry %d", i)
		assert.Equal(t, want.Markup, snap.Entries[i].Markup, "entry %d", i)
	}
	assert.Equal(t, "What is **mass**?", snap.Entries[0].Text, "user text is literal")
	assert.Equal(t, "Mass is <strong>matter</strong>.", snap.Entries[1].Markup)
}

func TestLoad_EmptyHistoryKeepsWelcome(t *testing.T) {
	view := render.NewTranscript(render.DefaultWelcome)
	n, err := NewLoader(&fakeAPI{}, view, Config{}).Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NotNil(t, view.Snapshot().Welcome)
}

func TestLoad_FailureShowsErrorNoRetry(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	view := render.NewTranscript(render.DefaultWelcome)

	_, err := NewLoader(api, view, Config{}).Load(context.Background(), "s1")
	require.Error(t, err)
	assert.Len(t, api.calls, 1)

	entries := view.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, render.KindError, entries[0].Kind)
	assert.Equal(t, LoadErrorText, entries[0].Text)
}

func TestLoad_StaggersReplay(t *testing.T) {
	api := &fakeAPI{msgs: []model.Message{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "user", Content: "c"},
	}}
	view := render.NewTranscript(render.DefaultWelcome)
	l := NewLoader(api, view, Config{Interval: 20 * time.Millisecond})

	start := time.Now()
	n, err := l.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	// First immediately, then two waits.
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestLoad_CancelStopsReplay(t *testing.T) {
	msgs := make([]model.Message, 10)
	for i := range msgs {
		msgs[i] = model.Message{Role: "user", Content: "m"}
	}
	view := render.NewTranscript(render.DefaultWelcome)
	l := NewLoader(&fakeAPI{msgs: msgs}, view, Config{Interval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	n, err := l.Load(ctx, "s1")
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, view.Entries(), 1)
}

func TestSetInterval(t *testing.T) {
	l := NewLoader(&fakeAPI{}, render.NewTranscript(render.DefaultWelcome), Config{Interval: time.Hour})
	l.SetInterval(0)
	assert.Equal(t, int64(0), l.interval.Load())
}
