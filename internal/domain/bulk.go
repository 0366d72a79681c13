package domain

import (
	"context"
	"strconv"
	"strings"

	"github.com/taskhive/groupsync/internal/client"
	"github.com/taskhive/groupsync/internal/common"
	"github.com/taskhive/groupsync/internal/model"
	"github.com/taskhive/groupsync/internal/repository"
	"github.com/taskhive/groupsync/pkg/errorx"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

// BulkRunner applies one action to every selected group, strictly
// sequentially. A failing group is logged and skipped; the run always
// visits every id exactly once and reports how many succeeded.
type BulkRunner struct {
	workspaceCaller client.WorkspaceCaller
	groupRepo       repository.GroupRepository
	messageRepo     repository.MessageRepository
	syncEngine      *MessageSyncEngine
	tracker         *UnreadTracker
}

func NewBulkRunner(
	workspaceCaller client.WorkspaceCaller,
	groupRepo repository.GroupRepository,
	messageRepo repository.MessageRepository,
	syncEngine *MessageSyncEngine,
	tracker *UnreadTracker,
) *BulkRunner {
	return &BulkRunner{
		workspaceCaller: workspaceCaller,
		groupRepo:       groupRepo,
		messageRepo:     messageRepo,
		syncEngine:      syncEngine,
		tracker:         tracker,
	}
}

// Run checks every precondition before the first network call; a
// violation performs zero attempts and leaves the selection intact.
// After a started run the selection is cleared regardless of outcome.
func (r *BulkRunner) Run(
	ctx context.Context, req *model.BulkActionRequest, selection *common.Selection,
) (*model.BulkActionResponse, error) {
	if selection.Empty() {
		return nil, errorx.New(errorx.PreconditionFailed, "Not allow an empty selection")
	}

	groupIDs := selection.IDs()

	switch req.Action {
	case model.BulkBroadcast:
		if strings.TrimSpace(req.Message) == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty broadcast message")
		}

	case model.BulkClearChat, model.BulkDeleteGroup:
		if !req.Confirmed {
			return nil, errorx.New(errorx.PreconditionFailed, "The action must be confirmed")
		}

		if req.Action == model.BulkDeleteGroup && req.ConfirmToken != strconv.Itoa(len(groupIDs)) {
			return nil, errorx.New(errorx.PreconditionFailed,
				"The confirmation token must be the number of selected groups")
		}

	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid action %s", req.Action)
	}

	defer selection.Clear()

	succeeded := 0
	for _, groupID := range groupIDs {
		if err := r.apply(ctx, req, groupID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot apply %s to group %s: %v", req.Action, groupID, err)
			continue
		}

		succeeded++
	}

	return &model.BulkActionResponse{Succeeded: succeeded, Total: len(groupIDs)}, nil
}

func (r *BulkRunner) apply(ctx context.Context, req *model.BulkActionRequest, groupID string) error {
	switch req.Action {
	case model.BulkBroadcast:
		message, err := r.workspaceCaller.SendMessage(ctx, groupID, req.Message)
		if err != nil {
			return err
		}

		msgEntity := toMessageEntity(*message)
		if err := r.messageRepo.Append(ctx, &msgEntity); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache broadcast message: %v", err)
		}

		r.syncEngine.CacheLastMessage(*message)
		return nil

	case model.BulkClearChat:
		if err := r.workspaceCaller.ClearMessages(ctx, groupID); err != nil {
			return err
		}

		if err := r.messageRepo.DeleteByGroupID(ctx, groupID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot clear cached messages of group %s: %v", groupID, err)
		}

		r.syncEngine.InvalidateLastMessage(groupID)
		r.tracker.Invalidate(ctx, groupID)
		return nil

	case model.BulkDeleteGroup:
		if err := r.workspaceCaller.DeleteGroup(ctx, groupID); err != nil {
			return err
		}

		if err := r.groupRepo.Delete(ctx, groupID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete cached group %s: %v", groupID, err)
		}

		if err := r.messageRepo.DeleteByGroupID(ctx, groupID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete cached messages of group %s: %v", groupID, err)
		}

		r.syncEngine.InvalidateLastMessage(groupID)
		r.tracker.Invalidate(ctx, groupID)
		return nil
	}

	return errorx.New(errorx.BadRequest, "Invalid action %s", req.Action)
}
