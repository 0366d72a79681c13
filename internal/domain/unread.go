package domain

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/taskhive/groupsync/pkg/kv"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

// UnreadTracker keeps a per-group watermark of the last message id the
// user has seen. A group is unread when its latest message id differs
// from the recorded watermark. Markers only ever advance; they are
// never synthesized for groups that were never opened.
type UnreadTracker struct {
	mutex   sync.Mutex
	store   kv.Store
	key     string
	markers map[string]string
}

// NewUnreadTracker loads the persisted markers. A missing or corrupt
// record starts the tracker empty rather than failing the session.
func NewUnreadTracker(ctx context.Context, store kv.Store, key string) *UnreadTracker {
	tracker := &UnreadTracker{
		store:   store,
		key:     key,
		markers: make(map[string]string),
	}

	value, err := store.Get(ctx, key)
	if err != nil {
		if err != kv.ErrNotFound {
			xcontext.Logger(ctx).Warnf("Cannot load unread markers: %v", err)
		}
		return tracker
	}

	if err := json.Unmarshal([]byte(value), &tracker.markers); err != nil {
		xcontext.Logger(ctx).Warnf("Corrupt unread markers, starting empty: %v", err)
		tracker.markers = make(map[string]string)
	}

	return tracker
}

// MarkSeen records lastMessageID as the watermark of groupID. It is
// idempotent and persists best-effort; a store failure only warns.
func (t *UnreadTracker) MarkSeen(ctx context.Context, groupID, lastMessageID string) {
	if lastMessageID == "" {
		return
	}

	t.mutex.Lock()
	if t.markers[groupID] == lastMessageID {
		t.mutex.Unlock()
		return
	}

	t.markers[groupID] = lastMessageID
	value, err := json.Marshal(t.markers)
	t.mutex.Unlock()

	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot encode unread markers: %v", err)
		return
	}

	if err := t.store.Set(ctx, t.key, string(value)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot persist unread markers: %v", err)
	}
}

// IsUnread reports whether the latest known message of groupID has not
// been seen yet. A group with no messages is never unread, and a group
// never opened on this installation counts as unread once it has any
// message.
func (t *UnreadTracker) IsUnread(groupID, lastMessageID string) bool {
	if lastMessageID == "" {
		return false
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.markers[groupID] != lastMessageID
}

// Invalidate forgets the watermark of a group whose transcript no
// longer exists, so a future first message reads as unread again.
func (t *UnreadTracker) Invalidate(ctx context.Context, groupID string) {
	t.mutex.Lock()
	if _, ok := t.markers[groupID]; !ok {
		t.mutex.Unlock()
		return
	}

	delete(t.markers, groupID)
	value, err := json.Marshal(t.markers)
	t.mutex.Unlock()

	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot encode unread markers: %v", err)
		return
	}

	if err := t.store.Set(ctx, t.key, string(value)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot persist unread markers: %v", err)
	}
}
