// Copyright (c) 2025 Gurkirat Singh
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/api"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/apitest"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/history"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/model"
	"github.com/Gurkirat-Singh-bit/sahpaathi-tui/internal/render"
)

type fixture struct {
	srv   *apitest.Server
	view  *render.Transcript
	store *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New(t)
	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	view := render.NewTranscript(render.DefaultWelcome)
	loader := history.NewLoader(client, view, history.Config{})
	return &fixture{srv: srv, view: view, store: NewStore(client, loader, view)}
}

func (f *fixture) renames() int {
	n := 0
	for _, c := range f.srv.Calls(http.MethodPut, "") {
		if strings.HasPrefix(c.Path, "/api/sessions/") {
			n++
		}
	}
	return n
}

// =============================================================================
// INITIALIZE
// =============================================================================

func TestInitialize_EmptyListCreatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Initialize(ctx))

	assert.Equal(t, 1, f.srv.Count(http.MethodPost, "/api/sessions"))
	assert.Equal(t, 0, f.srv.Count(http.MethodGet, "/api/history"), "no history fetch for a new session")

	cur, _, ok := f.store.Current()
	require.True(t, ok)
	assert.Equal(t, model.DefaultSessionName, cur.Name)
	assert.Equal(t, "New Chat", f.srv.Calls(http.MethodPost, "/api/sessions")[0].Body["name"])
	assert.NotNil(t, f.view.Snapshot().Welcome)
}

func TestInitialize_ListFailureFallsBackToCreate(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail("GET /api/sessions", http.StatusInternalServerError)

	require.NoError(t, f.store.Initialize(context.Background()))
	assert.Equal(t, 1, f.srv.Count(http.MethodPost, "/api/sessions"))
	_, _, ok := f.store.Current()
	assert.True(t, ok)
}

func TestInitialize_PicksMostRecentAndLoadsHistory(t *testing.T) {
	f := newFixture(t)
	f.srv.AddSession("Older")
	recent := f.srv.AddSession("Cells",
		model.NewUserMessage("What is a cell?"),
		model.NewAssistantMessage("The basic unit of life."))

	require.NoError(t, f.store.Initialize(context.Background()))

	cur, _, _ := f.store.Current()
	assert.Equal(t, recent, cur.ID)
	assert.Equal(t, "Cells", cur.Name)
	assert.Equal(t, 0, f.srv.Count(http.MethodPost, "/api/sessions"))
	assert.Equal(t, 1, f.srv.Count(http.MethodGet, "/api/history"))

	snap := f.view.Snapshot()
	assert.Nil(t, snap.Welcome)
	assert.Len(t, snap.Entries, 2)
	assert.Len(t, f.store.Sessions(), 2)
}

func TestInitialize_CreateFailureLeavesSessionless(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail("POST /api/sessions", http.StatusServiceUnavailable)

	err := f.store.Initialize(context.Background())
	require.Error(t, err)
	_, _, ok := f.store.Current()
	assert.False(t, ok)

	entries := f.view.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, render.KindError, entries[0].Kind)
}

// =============================================================================
// CREATE / SWITCH
// =============================================================================

func TestCreateSession_FailureKeepsPrevious(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))
	before, _, _ := f.store.Current()

	f.srv.Fail("POST /api/sessions", http.StatusInternalServerError)
	_, err := f.store.CreateSession(ctx, "")
	require.Error(t, err)

	after, _, ok := f.store.Current()
	assert.True(t, ok)
	assert.Equal(t, before, after)
	assert.Len(t, f.view.Entries(), 1, "one error notice")
}

func TestCreateSession_ClearsViewAndPrependsToList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddSession("Old", model.NewUserMessage("hi"))
	require.NoError(t, f.store.Initialize(ctx))
	require.NotEmpty(t, f.view.Entries())

	sess, err := f.store.CreateSession(ctx, "Physics")
	require.NoError(t, err)
	assert.Equal(t, "Physics", sess.Name)
	assert.Empty(t, f.view.Entries())
	assert.NotNil(t, f.view.Snapshot().Welcome)
	assert.Equal(t, sess, f.store.Sessions()[0])
}

func TestSwitchTo_CurrentIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.srv.AddSession("Only", model.NewUserMessage("hi"))
	require.NoError(t, f.store.Initialize(ctx))

	version := f.view.Snapshot().Version
	fetches := f.srv.Count(http.MethodGet, "/api/history")

	require.NoError(t, f.store.SwitchTo(ctx, id))
	assert.Equal(t, fetches, f.srv.Count(http.MethodGet, "/api/history"))
	assert.Equal(t, version, f.view.Snapshot().Version, "no re-render")
}

func TestSwitchTo_ClearsAndLoadsOther(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.srv.AddSession("A", model.NewUserMessage("a1"), model.NewAssistantMessage("a2"))
	f.srv.AddSession("B", model.NewUserMessage("b1"))
	require.NoError(t, f.store.Initialize(ctx))
	require.Len(t, f.view.Entries(), 1)

	require.NoError(t, f.store.SwitchTo(ctx, a))
	cur, _, _ := f.store.Current()
	assert.Equal(t, "A", cur.Name)
	entries := f.view.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a1", entries[0].Text)
}

func TestSwitchToIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddSession("Older", model.NewUserMessage("o1"))
	f.srv.AddSession("Newer", model.NewUserMessage("n1"))
	require.NoError(t, f.store.Initialize(ctx))

	require.NoError(t, f.store.SwitchToIndex(ctx, 1))
	cur, _, _ := f.store.Current()
	assert.Equal(t, "Older", cur.Name)

	assert.ErrorIs(t, f.store.SwitchToIndex(ctx, 2), ErrNoSuchSession)
	assert.ErrorIs(t, f.store.SwitchToIndex(ctx, -1), ErrNoSuchSession)
}

func TestSwitchTo_HistoryFailureShowsError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))

	f.srv.Fail("GET /api/history", http.StatusInternalServerError)
	err := f.store.SwitchTo(ctx, "other")
	require.Error(t, err)
	cur, _, _ := f.store.Current()
	assert.Equal(t, "other", cur.ID)
	assert.Equal(t, history.LoadErrorText, f.view.Entries()[0].Text)
}

// =============================================================================
// FIRST-MESSAGE RENAME
// =============================================================================

func TestRename_OncePerSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))

	did, err := f.store.RenameCurrentOnFirstMessage(ctx, "What is photosynthesis in plants and algae?")
	require.NoError(t, err)
	assert.True(t, did)

	did, err = f.store.RenameCurrentOnFirstMessage(ctx, "second question")
	require.NoError(t, err)
	assert.False(t, did)
	assert.Equal(t, 1, f.renames())

	cur, _, _ := f.store.Current()
	assert.Equal(t, "What is photosynthesis in plan…", cur.Name)
	assert.Equal(t, cur.Name, f.srv.Sessions()[0].Name)

	// A new session gets its own rename.
	_, err = f.store.CreateSession(ctx, "")
	require.NoError(t, err)
	did, _ = f.store.RenameCurrentOnFirstMessage(ctx, "short")
	assert.True(t, did)
	assert.Equal(t, 2, f.renames())
}

func TestRename_FailureStillSuppressesLaterCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))
	cur, _, _ := f.store.Current()
	f.srv.Fail("PUT /api/sessions/"+cur.ID, http.StatusInternalServerError)

	did, err := f.store.RenameCurrentOnFirstMessage(ctx, "hello")
	assert.True(t, did)
	assert.Error(t, err)

	did, err = f.store.RenameCurrentOnFirstMessage(ctx, "again")
	assert.False(t, did)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.renames())
}

func TestRename_SkippedForSessionWithHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddSession("Named", model.NewUserMessage("old question"))
	require.NoError(t, f.store.Initialize(ctx))

	did, err := f.store.RenameCurrentOnFirstMessage(ctx, "new question")
	require.NoError(t, err)
	assert.False(t, did)
	assert.Equal(t, 0, f.renames())
}

func TestRename_NoCurrentSession(t *testing.T) {
	f := newFixture(t)
	_, ok := f.store.BeginFirstMessageRename("x")
	assert.False(t, ok)
}

func TestBeginFirstMessageRename_TargetsClaimedSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))
	first, _, _ := f.store.Current()

	run, ok := f.store.BeginFirstMessageRename("Biology basics")
	require.True(t, ok)

	_, err := f.store.CreateSession(ctx, "")
	require.NoError(t, err)
	require.NoError(t, run(ctx))

	assert.Equal(t, 1, f.srv.Count(http.MethodPut, "/api/sessions/"+first.ID))
	cur, _, _ := f.store.Current()
	assert.Equal(t, model.DefaultSessionName, cur.Name, "new session keeps its own name")
}

// =============================================================================
// TOKENS AND REFRESH
// =============================================================================

func TestViewFor_DropsWritesForStaleToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))
	_, tok, _ := f.store.Current()

	stale := f.store.ViewFor(tok)
	typing := stale.ShowTyping()
	assert.Equal(t, 1, f.view.Snapshot().Typing)

	_, err := f.store.CreateSession(ctx, "")
	require.NoError(t, err)
	assert.False(t, f.store.IsCurrent(tok))

	stale.Append(render.NewRenderer().Render(render.RoleAI, "late", time.Now()))
	stale.ShowError("late error")
	stale.RemoveTyping(typing)
	assert.Empty(t, f.view.Entries())
	assert.Zero(t, stale.ShowTyping())

	_, fresh, _ := f.store.Current()
	f.store.ViewFor(fresh).ShowError("current")
	assert.Len(t, f.view.Entries(), 1)
}

func TestRefresh_UpdatesCacheAndCurrentName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Initialize(ctx))
	cur, _, _ := f.store.Current()

	f.srv.AddSession("Elsewhere")
	require.NoError(t, f.store.Refresh(ctx))
	assert.Len(t, f.store.Sessions(), 2)

	f.srv.Fail("GET /api/sessions", http.StatusInternalServerError)
	assert.Error(t, f.store.Refresh(ctx))
	assert.Len(t, f.store.Sessions(), 2, "cache kept on failure")

	_, _, ok := f.store.Current()
	assert.True(t, ok)
	assert.NotEmpty(t, cur.ID)
}
