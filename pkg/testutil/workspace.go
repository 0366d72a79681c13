package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskhive/groupsync/internal/model"
)

// FakeWorkspaceCaller is an in-memory stand-in for the workspace REST
// collaborator. Failures are injected per "method:groupID" key and
// every call is recorded for assertion.
type FakeWorkspaceCaller struct {
	mutex sync.Mutex

	Groups   map[string]*model.Group
	Order    []string
	Messages map[string][]model.ChatMessage
	Failures map[string]error
	Calls    []string

	nextID int
	now    time.Time
}

func NewFakeWorkspaceCaller() *FakeWorkspaceCaller {
	return &FakeWorkspaceCaller{
		Groups:   make(map[string]*model.Group),
		Messages: make(map[string][]model.ChatMessage),
		Failures: make(map[string]error),
		now:      time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
	}
}

func (f *FakeWorkspaceCaller) AddGroup(group model.Group) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	g := group
	f.Groups[group.ID] = &g
	f.Order = append(f.Order, group.ID)
}

func (f *FakeWorkspaceCaller) Fail(method, groupID string, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.Failures[method+":"+groupID] = err
}

// CallCount counts recorded calls matching "Method:id" exactly.
func (f *FakeWorkspaceCaller) CallCount(call string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	count := 0
	for _, recorded := range f.Calls {
		if recorded == call {
			count++
		}
	}

	return count
}

func (f *FakeWorkspaceCaller) GetGroups(ctx context.Context, workspaceID string) ([]model.Group, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Calls = append(f.Calls, "GetGroups:"+workspaceID)
	if err := f.Failures["GetGroups:"+workspaceID]; err != nil {
		return nil, err
	}

	groups := []model.Group{}
	for _, id := range f.Order {
		if group, ok := f.Groups[id]; ok && group.WorkspaceID == workspaceID {
			groups = append(groups, *group)
		}
	}

	return groups, nil
}

func (f *FakeWorkspaceCaller) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Calls = append(f.Calls, "GetGroup:"+id)
	if err := f.Failures["GetGroup:"+id]; err != nil {
		return nil, err
	}

	group, ok := f.Groups[id]
	if !ok {
		return nil, fmt.Errorf("not found group %s", id)
	}

	g := *group
	return &g, nil
}

func (f *FakeWorkspaceCaller) UpdateMembers(
	ctx context.Context, id string, delta model.MemberDelta,
) ([]model.Member, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Calls = append(f.Calls, "UpdateMembers:"+id)
	if err := f.Failures["UpdateMembers:"+id]; err != nil {
		return nil, err
	}

	group, ok := f.Groups[id]
	if !ok {
		return nil, fmt.Errorf("not found group %s", id)
	}

	removed := make(map[string]struct{}, len(delta.RemoveUserIDs))
	for _, userID := range delta.RemoveUserIDs {
		removed[userID] = struct{}{}
	}

	members := []model.Member{}
	for _, member := range group.Members {
		if _, ok := removed[member.UserID]; !ok {
			members = append(members, member)
		}
	}

	for _, userID := range delta.AddUserIDs {
		members = append(members, model.Member{
			UserID:  userID,
			GroupID: id,
			Name:    "User " + userID,
			Email:   userID + "@example.com",
		})
	}

	group.Members = members
	return members, nil
}

func (f *FakeWorkspaceCaller) GetMessages(ctx context.Context, groupID string) ([]model.ChatMessage, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Calls = append(f.Calls, "GetMessages:"+groupID)
	if err := f.Failures["GetMessages:"+groupID]; err != nil {
		return nil, err
	}

	return append([]model.ChatMessage{}, f.Messages[groupID]...), nil
}

func (f *FakeWorkspaceCaller) SendMessage(
	ctx context.Context, groupID, content string,
) (*model.ChatMessage, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Calls = append(f.Calls, "SendMessage:"+groupID)
	if err := f.Failures["SendMessage:"+groupID]; err != nil {
		return nil, err
	}

	f.nextID++
	f.now = f.now.Add(time.Second)
	message := model.ChatMessage{
		ID:         fmt.Sprintf("fake-msg%d", f.nextID),
		GroupID:    groupID,
		AuthorID:   "user1",
		AuthorName: "Ana",
		Content:    content,
		CreatedAt:  f.now,
	}

	f.Messages[groupID] = append(f.Messages[groupID], message)
	return &message, nil
}

func (f *FakeWorkspaceCaller) ClearMessages(ctx context.Context, groupID string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Calls = append(f.Calls, "ClearMessages:"+groupID)
	if err := f.Failures["ClearMessages:"+groupID]; err != nil {
		return err
	}

	delete(f.Messages, groupID)
	return nil
}

func (f *FakeWorkspaceCaller) DeleteGroup(ctx context.Context, id string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Calls = append(f.Calls, "DeleteGroup:"+id)
	if err := f.Failures["DeleteGroup:"+id]; err != nil {
		return err
	}

	delete(f.Groups, id)
	order := []string{}
	for _, groupID := range f.Order {
		if groupID != id {
			order = append(order, groupID)
		}
	}
	f.Order = order
	delete(f.Messages, id)

	return nil
}
