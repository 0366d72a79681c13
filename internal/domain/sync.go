package domain

import (
	"context"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync"
	"github.com/taskhive/groupsync/internal/client"
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/internal/model"
	"github.com/taskhive/groupsync/internal/repository"
	"github.com/taskhive/groupsync/pkg/errorx"
	"github.com/taskhive/groupsync/pkg/poller"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

type SyncState int

const (
	SyncIdle SyncState = iota
	SyncLoading
	SyncReady
)

// MessageSyncEngine keeps the transcript of one open group mirrored
// against the workspace by polling. At most one group is open at a
// time; switching groups bumps an epoch counter so a fetch that
// started for the previous group can never clobber the new one.
type MessageSyncEngine struct {
	workspaceCaller client.WorkspaceCaller
	messageRepo     repository.MessageRepository
	tracker         *UnreadTracker
	poller          *poller.Poller

	// last message per group id, shared with the directory listing.
	lastMessages *xsync.MapOf[string, entity.Message]

	mutex      sync.Mutex
	groupID    string
	epoch      int64
	transcript []model.ChatMessage
	state      SyncState
	onChange   func()
}

func NewMessageSyncEngine(
	workspaceCaller client.WorkspaceCaller,
	messageRepo repository.MessageRepository,
	tracker *UnreadTracker,
) *MessageSyncEngine {
	return &MessageSyncEngine{
		workspaceCaller: workspaceCaller,
		messageRepo:     messageRepo,
		tracker:         tracker,
		poller:          poller.New(),
		lastMessages:    xsync.NewMapOf[entity.Message](),
		state:           SyncIdle,
	}
}

// OnChange registers a callback invoked after every transcript change.
// It must be set before Open and is called without the engine lock.
func (e *MessageSyncEngine) OnChange(fn func()) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.onChange = fn
}

// Open makes groupID the current group: it performs a blocking initial
// fetch, marks the latest message seen, then starts the poller. Any
// previously open group is closed first.
func (e *MessageSyncEngine) Open(ctx context.Context, groupID string) ([]model.ChatMessage, error) {
	if groupID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty group id")
	}

	e.mutex.Lock()
	e.epoch++
	epoch := e.epoch
	e.groupID = groupID
	e.transcript = nil
	e.state = SyncLoading
	e.mutex.Unlock()

	err := e.refresh(ctx, epoch, groupID, true)

	e.mutex.Lock()
	transcript := e.snapshotLocked()
	e.mutex.Unlock()

	if err == nil && len(transcript) > 0 {
		e.tracker.MarkSeen(ctx, groupID, transcript[len(transcript)-1].ID)
	}

	// The poller starts even after a failed initial fetch so a later
	// tick can recover the group.
	e.poller.Start(ctx, xcontext.Configs(ctx).Sync.PollInterval.Duration, func(tickCtx context.Context) {
		if err := e.refresh(tickCtx, epoch, groupID, false); err != nil {
			xcontext.Logger(tickCtx).Warnf("Cannot refresh group %s: %v", groupID, err)
		}
	})

	return transcript, err
}

// Refresh forces one synchronous fetch of the open group, outside the
// poll schedule.
func (e *MessageSyncEngine) Refresh(ctx context.Context) error {
	e.mutex.Lock()
	groupID, epoch := e.groupID, e.epoch
	e.mutex.Unlock()

	if groupID == "" {
		return errorx.New(errorx.NoOpenGroup, "No group is open")
	}

	return e.refresh(ctx, epoch, groupID, false)
}

// refresh fetches the authoritative transcript and fully replaces the
// local one. Results arriving after the epoch moved on are discarded.
func (e *MessageSyncEngine) refresh(ctx context.Context, epoch int64, groupID string, initial bool) error {
	messages, err := e.workspaceCaller.GetMessages(ctx, groupID)
	if err != nil {
		if !initial {
			// Transient read failure, the previous transcript stays.
			return err
		}

		e.mutex.Lock()
		if e.epoch == epoch {
			e.transcript = []model.ChatMessage{}
			e.state = SyncReady
		}
		e.mutex.Unlock()

		xcontext.Logger(ctx).Errorf("Cannot load messages of group %s: %v", groupID, err)
		return errorx.New(errorx.Unavailable, "Cannot load messages")
	}

	e.mutex.Lock()
	if e.epoch != epoch {
		e.mutex.Unlock()
		return errorx.New(errorx.StaleGroup, "Discarded a response of a closed group")
	}

	e.transcript = messages
	e.state = SyncReady
	onChange := e.onChange
	e.mutex.Unlock()

	entities := make([]entity.Message, 0, len(messages))
	for _, message := range messages {
		entities = append(entities, toMessageEntity(message))
	}

	if err := e.messageRepo.ReplaceForGroup(ctx, groupID, entities); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache messages of group %s: %v", groupID, err)
	}

	if len(entities) > 0 {
		e.lastMessages.Store(groupID, entities[len(entities)-1])
	} else {
		e.lastMessages.Delete(groupID)
	}

	if onChange != nil {
		onChange()
	}

	return nil
}

// Send posts text to the open group and appends the confirmed echo to
// the transcript. The next poll remains authoritative, so a duplicate
// between echo and poll resolves itself on replacement.
func (e *MessageSyncEngine) Send(ctx context.Context, text string) (*model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty message")
	}

	e.mutex.Lock()
	groupID, epoch := e.groupID, e.epoch
	e.mutex.Unlock()

	if groupID == "" {
		return nil, errorx.New(errorx.NoOpenGroup, "No group is open")
	}

	message, err := e.workspaceCaller.SendMessage(ctx, groupID, text)
	if err != nil {
		return nil, err
	}

	e.mutex.Lock()
	var onChange func()
	if e.epoch == epoch && !e.containsLocked(message.ID) {
		e.transcript = append(e.transcript, *message)
		onChange = e.onChange
	}
	e.mutex.Unlock()

	msgEntity := toMessageEntity(*message)
	if err := e.messageRepo.Append(ctx, &msgEntity); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache sent message: %v", err)
	}

	e.lastMessages.Store(groupID, msgEntity)
	e.tracker.MarkSeen(ctx, groupID, message.ID)

	if onChange != nil {
		onChange()
	}

	return message, nil
}

// Clear deletes every message of the open group remotely, then empties
// the transcript and the cached rows.
func (e *MessageSyncEngine) Clear(ctx context.Context) error {
	e.mutex.Lock()
	groupID, epoch := e.groupID, e.epoch
	e.mutex.Unlock()

	if groupID == "" {
		return errorx.New(errorx.NoOpenGroup, "No group is open")
	}

	if err := e.workspaceCaller.ClearMessages(ctx, groupID); err != nil {
		return err
	}

	e.mutex.Lock()
	var onChange func()
	if e.epoch == epoch {
		e.transcript = []model.ChatMessage{}
		onChange = e.onChange
	}
	e.mutex.Unlock()

	if err := e.messageRepo.DeleteByGroupID(ctx, groupID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot clear cached messages of group %s: %v", groupID, err)
	}

	e.lastMessages.Delete(groupID)
	e.tracker.Invalidate(ctx, groupID)

	if onChange != nil {
		onChange()
	}

	return nil
}

// Close stops polling and drops the open group. It is mandatory before
// opening another group on teardown paths that bypass Open.
func (e *MessageSyncEngine) Close() {
	e.poller.Stop()

	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.epoch++
	e.groupID = ""
	e.transcript = nil
	e.state = SyncIdle
}

func (e *MessageSyncEngine) Transcript() []model.ChatMessage {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.snapshotLocked()
}

func (e *MessageSyncEngine) State() SyncState {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.state
}

func (e *MessageSyncEngine) GroupID() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.groupID
}

// LastMessage is the one-shot variant used by the directory listing:
// it fetches the transcript of any group, refreshes the caches and
// returns the newest message (nil for an empty group). On a fetch
// failure it falls back to the cached value.
func (e *MessageSyncEngine) LastMessage(ctx context.Context, groupID string) (*model.ChatMessage, error) {
	messages, err := e.workspaceCaller.GetMessages(ctx, groupID)
	if err != nil {
		if cached, ok := e.lastMessages.Load(groupID); ok {
			converted := convertMessage(&cached)
			return &converted, nil
		}

		if last, repoErr := e.messageRepo.GetLastByGroupID(ctx, groupID); repoErr == nil && last != nil {
			converted := convertMessage(last)
			return &converted, nil
		}

		return nil, err
	}

	entities := make([]entity.Message, 0, len(messages))
	for _, message := range messages {
		entities = append(entities, toMessageEntity(message))
	}

	if err := e.messageRepo.ReplaceForGroup(ctx, groupID, entities); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache messages of group %s: %v", groupID, err)
	}

	if len(messages) == 0 {
		e.lastMessages.Delete(groupID)
		return nil, nil
	}

	last := messages[len(messages)-1]
	e.lastMessages.Store(groupID, toMessageEntity(last))
	return &last, nil
}

// CacheLastMessage records a just-sent message as the newest one of a
// group without a round trip.
func (e *MessageSyncEngine) CacheLastMessage(message model.ChatMessage) {
	e.lastMessages.Store(message.GroupID, toMessageEntity(message))
}

func (e *MessageSyncEngine) InvalidateLastMessage(groupID string) {
	e.lastMessages.Delete(groupID)
}

func (e *MessageSyncEngine) snapshotLocked() []model.ChatMessage {
	snapshot := make([]model.ChatMessage, len(e.transcript))
	copy(snapshot, e.transcript)
	return snapshot
}

func (e *MessageSyncEngine) containsLocked(messageID string) bool {
	for _, message := range e.transcript {
		if message.ID == messageID {
			return true
		}
	}

	return false
}
