package domain

import (
	"context"
	"strings"
	"time"

	mathUtil "github.com/pkg/math"
	"golang.org/x/exp/slices"

	"github.com/taskhive/groupsync/internal/client"
	"github.com/taskhive/groupsync/internal/common"
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/internal/model"
	"github.com/taskhive/groupsync/internal/repository"
	"github.com/taskhive/groupsync/pkg/errorx"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

type DirectoryDomain interface {
	GetGroups(ctx context.Context, req *model.GetGroupsRequest) (*model.GetGroupsResponse, error)
}

// directoryDomain serves the group listing: remote fetch with a cache
// fallback, access filtering, search, sort, unread flags, last-message
// previews and fixed-size pagination.
type directoryDomain struct {
	workspaceCaller client.WorkspaceCaller
	groupRepo       repository.GroupRepository
	syncEngine      *MessageSyncEngine
	tracker         *UnreadTracker
}

func NewDirectoryDomain(
	workspaceCaller client.WorkspaceCaller,
	groupRepo repository.GroupRepository,
	syncEngine *MessageSyncEngine,
	tracker *UnreadTracker,
) *directoryDomain {
	return &directoryDomain{
		workspaceCaller: workspaceCaller,
		groupRepo:       groupRepo,
		syncEngine:      syncEngine,
		tracker:         tracker,
	}
}

func (d *directoryDomain) GetGroups(
	ctx context.Context, req *model.GetGroupsRequest,
) (*model.GetGroupsResponse, error) {
	workspaceID := req.WorkspaceID
	if workspaceID == "" {
		workspaceID = xcontext.Configs(ctx).Workspace.WorkspaceID
	}

	if workspaceID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty workspace id")
	}

	entities, err := d.loadGroups(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	user := xcontext.RequestUser(ctx)
	visible := common.VisibleGroups(entities, user)

	if query := strings.ToLower(strings.TrimSpace(req.Query)); query != "" {
		filtered := []entity.Group{}
		for _, group := range visible {
			if strings.Contains(strings.ToLower(group.Name), query) {
				filtered = append(filtered, group)
			}
		}
		visible = filtered
	}

	// Last-message previews are best effort, a failed group simply
	// has none.
	lasts := make(map[string]model.ChatMessage)
	for _, group := range visible {
		last, err := d.syncEngine.LastMessage(ctx, group.ID)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot load last message of group %s: %v", group.ID, err)
			continue
		}

		if last != nil {
			lasts[group.ID] = *last
		}
	}

	d.sortGroups(visible, lasts, req.SortBy)

	total := len(visible)
	pageSize := xcontext.Configs(ctx).Directory.PageSize
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	page := req.Page
	if page < 1 || page > pageCount {
		page = 1
	}

	begin := (page - 1) * pageSize
	end := mathUtil.MinInt(begin+pageSize, total)

	groups := []model.GroupItem{}
	for _, group := range visible[begin:end] {
		group := group
		item := model.GroupItem{
			Group:       convertGroup(&group),
			MemberCount: len(common.VisibleMembers(&group, user, nil)),
		}

		if last, ok := lasts[group.ID]; ok {
			item.LastMessage = &last
			item.Unread = d.tracker.IsUnread(group.ID, last.ID)
		}

		groups = append(groups, item)
	}

	return &model.GetGroupsResponse{
		Groups:    groups,
		Total:     total,
		Page:      page,
		PageCount: pageCount,
	}, nil
}

// loadGroups fetches the authoritative list and replaces the cache.
// When the workspace is unreachable the cache serves the listing
// instead; only an empty cache makes that an error.
func (d *directoryDomain) loadGroups(ctx context.Context, workspaceID string) ([]entity.Group, error) {
	groups, err := d.workspaceCaller.GetGroups(ctx, workspaceID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot fetch groups, serving the cache: %v", err)

		cached, cacheErr := d.groupRepo.GetList(ctx, workspaceID)
		if cacheErr != nil || len(cached) == 0 {
			return nil, errorx.New(errorx.Unavailable, "Cannot load groups")
		}

		return cached, nil
	}

	entities := make([]entity.Group, 0, len(groups))
	for _, group := range groups {
		entities = append(entities, toGroupEntity(group))
	}

	if err := d.groupRepo.ReplaceAll(ctx, workspaceID, entities); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache groups: %v", err)
	}

	return entities, nil
}

func (d *directoryDomain) sortGroups(
	groups []entity.Group, lasts map[string]model.ChatMessage, sortBy string,
) {
	switch sortBy {
	case model.SortByLastMessage:
		slices.SortStableFunc(groups, func(a, b entity.Group) bool {
			var at, bt time.Time
			if last, ok := lasts[a.ID]; ok {
				at = last.CreatedAt
			}
			if last, ok := lasts[b.ID]; ok {
				bt = last.CreatedAt
			}
			return at.After(bt)
		})

	default:
		slices.SortStableFunc(groups, func(a, b entity.Group) bool {
			return a.CreatedAt.After(b.CreatedAt)
		})
	}
}
