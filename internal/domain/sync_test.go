package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/groupsync/internal/model"
	"github.com/taskhive/groupsync/internal/repository"
	"github.com/taskhive/groupsync/pkg/errorx"
	"github.com/taskhive/groupsync/pkg/kv"
	"github.com/taskhive/groupsync/pkg/testutil"
)

func newSyncEngine(t *testing.T) (*MessageSyncEngine, *testutil.FakeWorkspaceCaller) {
	t.Helper()

	ctx := testutil.MockContext()
	caller := testutil.NewFakeWorkspaceCaller()
	tracker := NewUnreadTracker(ctx, kv.NewMemoryStore(), "unread-test")
	engine := NewMessageSyncEngine(caller, repository.NewMessageRepository(), tracker)
	t.Cleanup(engine.Close)

	return engine, caller
}

func Test_MessageSyncEngine_OpenAndSend(t *testing.T) {
	ctx := testutil.MockContext()
	engine, caller := newSyncEngine(t)

	caller.Messages["group1"] = []model.ChatMessage{
		{ID: "msg1", GroupID: "group1", Content: "hello", CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}

	transcript, err := engine.Open(ctx, "group1")
	require.NoError(t, err)
	require.Len(t, transcript, 1)
	require.Equal(t, SyncReady, engine.State())
	require.Equal(t, "group1", engine.GroupID())

	sent, err := engine.Send(ctx, "hi there")
	require.NoError(t, err)
	require.Equal(t, "hi there", sent.Content)

	transcript = engine.Transcript()
	require.Len(t, transcript, 2)
	require.Equal(t, sent.ID, transcript[1].ID)

	// The next poll replaces the transcript wholesale; the echoed
	// message is in the server list, so no duplicate survives.
	require.NoError(t, engine.Refresh(ctx))
	require.Len(t, engine.Transcript(), 2)
}

func Test_MessageSyncEngine_SendValidation(t *testing.T) {
	ctx := testutil.MockContext()
	engine, _ := newSyncEngine(t)

	_, err := engine.Send(ctx, "   ")
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = engine.Send(ctx, "hello")
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NoOpenGroup, errx.Code)
}

func Test_MessageSyncEngine_RefreshKeepsTranscriptOnFailure(t *testing.T) {
	ctx := testutil.MockContext()
	engine, caller := newSyncEngine(t)

	caller.Messages["group1"] = []model.ChatMessage{
		{ID: "msg1", GroupID: "group1", Content: "hello"},
	}

	_, err := engine.Open(ctx, "group1")
	require.NoError(t, err)

	caller.Fail("GetMessages", "group1", errorx.New(errorx.Unavailable, "down"))
	require.Error(t, engine.Refresh(ctx))
	require.Len(t, engine.Transcript(), 1)
}

func Test_MessageSyncEngine_SwitchDiscardsStaleGroup(t *testing.T) {
	ctx := testutil.MockContext()
	engine, caller := newSyncEngine(t)

	caller.Messages["group1"] = []model.ChatMessage{{ID: "msg1", GroupID: "group1", Content: "one"}}
	caller.Messages["group2"] = []model.ChatMessage{{ID: "msg2", GroupID: "group2", Content: "two"}}

	_, err := engine.Open(ctx, "group1")
	require.NoError(t, err)
	staleEpoch := engine.epoch

	_, err = engine.Open(ctx, "group2")
	require.NoError(t, err)

	// A late response of the previous group must not clobber the new
	// transcript.
	err = engine.refresh(ctx, staleEpoch, "group1", false)
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.StaleGroup, errx.Code)

	transcript := engine.Transcript()
	require.Len(t, transcript, 1)
	require.Equal(t, "msg2", transcript[0].ID)
}

func Test_MessageSyncEngine_Clear(t *testing.T) {
	ctx := testutil.MockContext()
	engine, caller := newSyncEngine(t)

	caller.Messages["group1"] = []model.ChatMessage{{ID: "msg1", GroupID: "group1", Content: "one"}}

	_, err := engine.Open(ctx, "group1")
	require.NoError(t, err)

	require.NoError(t, engine.Clear(ctx))
	require.Empty(t, engine.Transcript())
	require.Empty(t, caller.Messages["group1"])

	messages, err := repository.NewMessageRepository().GetListByGroupID(ctx, "group1")
	require.NoError(t, err)
	require.Empty(t, messages)
}

func Test_MessageSyncEngine_OpenFailureServesEmpty(t *testing.T) {
	ctx := testutil.MockContext()
	engine, caller := newSyncEngine(t)

	caller.Fail("GetMessages", "group1", errorx.New(errorx.Unavailable, "down"))

	transcript, err := engine.Open(ctx, "group1")
	require.Error(t, err)
	require.Empty(t, transcript)
	require.Equal(t, SyncReady, engine.State())

	// The engine stays on the group and recovers on a later tick.
	caller.Fail("GetMessages", "group1", nil)
	caller.Messages["group1"] = []model.ChatMessage{{ID: "msg1", GroupID: "group1", Content: "one"}}
	require.NoError(t, engine.Refresh(ctx))
	require.Len(t, engine.Transcript(), 1)
}

func Test_MessageSyncEngine_OnChange(t *testing.T) {
	ctx := testutil.MockContext()
	engine, caller := newSyncEngine(t)

	caller.Messages["group1"] = []model.ChatMessage{
		{ID: "msg1", GroupID: "group1", Content: "one"},
		{ID: "msg2", GroupID: "group1", Content: "two"},
	}

	// A consumer that prints from the callback must see the whole
	// transcript exactly once during Open, so the callback count and
	// the seen lengths pin that down.
	var seen []int
	engine.OnChange(func() {
		seen = append(seen, len(engine.Transcript()))
	})

	_, err := engine.Open(ctx, "group1")
	require.NoError(t, err)
	require.Equal(t, []int{2}, seen)

	_, err = engine.Send(ctx, "three")
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, seen)

	require.NoError(t, engine.Clear(ctx))
	require.Equal(t, []int{2, 3, 0}, seen)
}

func Test_MessageSyncEngine_LastMessage(t *testing.T) {
	ctx := testutil.MockContext()
	engine, caller := newSyncEngine(t)

	caller.Messages["group1"] = []model.ChatMessage{
		{ID: "msg1", GroupID: "group1", Content: "one"},
		{ID: "msg2", GroupID: "group1", Content: "two"},
	}

	last, err := engine.LastMessage(ctx, "group1")
	require.NoError(t, err)
	require.Equal(t, "msg2", last.ID)

	// The workspace going away serves the cached value.
	caller.Fail("GetMessages", "group1", errorx.New(errorx.Unavailable, "down"))
	last, err = engine.LastMessage(ctx, "group1")
	require.NoError(t, err)
	require.Equal(t, "msg2", last.ID)

	// An empty group has no preview.
	last, err = engine.LastMessage(ctx, "group2")
	require.NoError(t, err)
	require.Nil(t, last)
}
