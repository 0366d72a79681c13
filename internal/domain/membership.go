package domain

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/taskhive/groupsync/internal/client"
	"github.com/taskhive/groupsync/internal/common"
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/internal/model"
	"github.com/taskhive/groupsync/internal/repository"
	"github.com/taskhive/groupsync/pkg/errorx"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

// MembershipEditor turns a freely edited member selection into the
// minimal add/remove delta and commits it in one round trip. The
// server stays authoritative: after a commit the group is refetched
// and the cache replaced with whatever the server accepted.
type MembershipEditor struct {
	workspaceCaller client.WorkspaceCaller
	groupRepo       repository.GroupRepository
}

func NewMembershipEditor(
	workspaceCaller client.WorkspaceCaller,
	groupRepo repository.GroupRepository,
) *MembershipEditor {
	return &MembershipEditor{
		workspaceCaller: workspaceCaller,
		groupRepo:       groupRepo,
	}
}

// BeginEdit loads the group and seeds a selection with its current
// member ids. Stale members are excluded so they drop off on the next
// commit unless explicitly re-added by id.
func (e *MembershipEditor) BeginEdit(ctx context.Context, groupID string) (*entity.Group, *common.Selection, error) {
	group, err := e.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load group %s: %v", groupID, err)
		return nil, nil, errorx.New(errorx.NotFound, "Not found group")
	}

	selection := common.NewSelection()
	selection.SelectAll(group.MemberIDs())
	return group, selection, nil
}

// MemberDiff computes the minimal delta from the original membership
// to the selection. Both sides come back sorted and never nil.
func MemberDiff(originalIDs []string, selection *common.Selection) model.MemberDelta {
	original := make(map[string]struct{}, len(originalIDs))
	for _, id := range originalIDs {
		original[id] = struct{}{}
	}

	delta := model.MemberDelta{AddUserIDs: []string{}, RemoveUserIDs: []string{}}
	for _, id := range selection.IDs() {
		if _, ok := original[id]; !ok {
			delta.AddUserIDs = append(delta.AddUserIDs, id)
		}
	}

	for _, id := range originalIDs {
		if !selection.Contains(id) {
			delta.RemoveUserIDs = append(delta.RemoveUserIDs, id)
		}
	}

	slices.Sort(delta.AddUserIDs)
	slices.Sort(delta.RemoveUserIDs)
	return delta
}

// Commit diffs the selection against the cached group and pushes the
// delta. An empty delta skips the network call entirely.
func (e *MembershipEditor) Commit(
	ctx context.Context, groupID string, selection *common.Selection,
) (*model.CommitMembershipResponse, error) {
	group, err := e.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load group %s: %v", groupID, err)
		return nil, errorx.New(errorx.NotFound, "Not found group")
	}

	delta := MemberDiff(group.MemberIDs(), selection)
	if delta.Empty() {
		return &model.CommitMembershipResponse{
			Delta: delta,
			Group: convertGroup(group),
		}, nil
	}

	if _, err := e.workspaceCaller.UpdateMembers(ctx, groupID, delta); err != nil {
		return nil, err
	}

	// The server may have rejected some ids, refetch the truth.
	refreshed, err := e.workspaceCaller.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	refreshedEntity := toGroupEntity(*refreshed)
	if err := e.groupRepo.Upsert(ctx, &refreshedEntity); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache group %s: %v", groupID, err)
	}

	return &model.CommitMembershipResponse{
		Delta: delta,
		Group: convertGroup(&refreshedEntity),
	}, nil
}
