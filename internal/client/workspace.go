package client

import (
	"context"
	"net/http"

	"github.com/taskhive/groupsync/internal/model"
	"github.com/taskhive/groupsync/pkg/api"
	"github.com/taskhive/groupsync/pkg/errorx"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

// WorkspaceCaller is the REST surface of the workspace collaborator.
// The engine only ever reads, diffs and replaces what it serves; no
// group or message id is originated locally.
type WorkspaceCaller interface {
	GetGroups(ctx context.Context, workspaceID string) ([]model.Group, error)
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	UpdateMembers(ctx context.Context, id string, delta model.MemberDelta) ([]model.Member, error)
	GetMessages(ctx context.Context, groupID string) ([]model.ChatMessage, error)
	SendMessage(ctx context.Context, groupID, content string) (*model.ChatMessage, error)
	ClearMessages(ctx context.Context, groupID string) error
	DeleteGroup(ctx context.Context, id string) error
}

type workspaceCaller struct {
	generator api.Generator
}

func NewWorkspaceCaller(generator api.Generator) *workspaceCaller {
	return &workspaceCaller{generator: generator}
}

func (c *workspaceCaller) GetGroups(ctx context.Context, workspaceID string) ([]model.Group, error) {
	client, err := c.authed(ctx, c.generator.New("/groups"))
	if err != nil {
		return nil, err
	}

	resp, err := client.Query(api.Parameter{"workspaceId": workspaceID}).GET(ctx, api.OptRequestID())
	if err != nil {
		return nil, err
	}

	if resp.Code != http.StatusOK {
		return nil, statusError(resp.Code, "list groups")
	}

	var groups []model.Group
	if err := decode(resp.Body, &groups); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Cannot decode group list: %v", err)
	}

	return groups, nil
}

func (c *workspaceCaller) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	client, err := c.authed(ctx, c.generator.New("/groups/%s", id))
	if err != nil {
		return nil, err
	}

	resp, err := client.GET(ctx, api.OptRequestID())
	if err != nil {
		return nil, err
	}

	if resp.Code != http.StatusOK {
		return nil, statusError(resp.Code, "get group")
	}

	var group model.Group
	if err := decode(resp.Body, &group); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Cannot decode group: %v", err)
	}

	return &group, nil
}

func (c *workspaceCaller) UpdateMembers(ctx context.Context, id string, delta model.MemberDelta) ([]model.Member, error) {
	client, err := c.authed(ctx, c.generator.New("/groups/%s/members", id))
	if err != nil {
		return nil, err
	}

	resp, err := client.Body(api.JSON{
		"addUserIds":    delta.AddUserIDs,
		"removeUserIds": delta.RemoveUserIDs,
	}).PUT(ctx, api.OptRequestID())
	if err != nil {
		return nil, err
	}

	if resp.Code != http.StatusOK {
		return nil, statusError(resp.Code, "update members")
	}

	var members []model.Member
	if err := decode(resp.Body, &members); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Cannot decode members: %v", err)
	}

	return members, nil
}

func (c *workspaceCaller) GetMessages(ctx context.Context, groupID string) ([]model.ChatMessage, error) {
	client, err := c.authed(ctx, c.generator.New("/groups/%s/messages", groupID))
	if err != nil {
		return nil, err
	}

	resp, err := client.GET(ctx, api.OptRequestID())
	if err != nil {
		return nil, err
	}

	if resp.Code != http.StatusOK {
		return nil, statusError(resp.Code, "list messages")
	}

	var messages []model.ChatMessage
	if err := decode(resp.Body, &messages); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Cannot decode messages: %v", err)
	}

	return messages, nil
}

func (c *workspaceCaller) SendMessage(ctx context.Context, groupID, content string) (*model.ChatMessage, error) {
	client, err := c.authed(ctx, c.generator.New("/groups/%s/messages", groupID))
	if err != nil {
		return nil, err
	}

	resp, err := client.Body(api.JSON{"content": content}).POST(ctx, api.OptRequestID())
	if err != nil {
		return nil, err
	}

	if resp.Code != http.StatusOK && resp.Code != http.StatusCreated {
		return nil, statusError(resp.Code, "send message")
	}

	var message model.ChatMessage
	if err := decode(resp.Body, &message); err != nil {
		return nil, errorx.New(errorx.BadResponse, "Cannot decode created message: %v", err)
	}

	return &message, nil
}

func (c *workspaceCaller) ClearMessages(ctx context.Context, groupID string) error {
	client, err := c.authed(ctx, c.generator.New("/groups/%s/messages", groupID))
	if err != nil {
		return err
	}

	resp, err := client.DELETE(ctx, api.OptRequestID())
	if err != nil {
		return err
	}

	if resp.Code != http.StatusOK && resp.Code != http.StatusNoContent {
		return statusError(resp.Code, "clear messages")
	}

	return nil
}

func (c *workspaceCaller) DeleteGroup(ctx context.Context, id string) error {
	client, err := c.authed(ctx, c.generator.New("/groups/%s", id))
	if err != nil {
		return err
	}

	resp, err := client.DELETE(ctx, api.OptRequestID())
	if err != nil {
		return err
	}

	if resp.Code != http.StatusOK && resp.Code != http.StatusNoContent {
		return statusError(resp.Code, "delete group")
	}

	return nil
}

func (c *workspaceCaller) authed(ctx context.Context, client api.Client) (api.Client, error) {
	source := xcontext.TokenSource(ctx)
	if source == nil {
		return nil, errorx.New(errorx.Unauthenticated, "No token source configured")
	}

	token, err := source.AccessToken(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot acquire access token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Cannot acquire access token")
	}

	return client.Header("Authorization", "Bearer "+token), nil
}

func statusError(code int, action string) error {
	switch code {
	case http.StatusNotFound:
		return errorx.New(errorx.NotFound, "Cannot %s: not found", action)
	case http.StatusUnauthorized:
		return errorx.New(errorx.Unauthenticated, "Cannot %s: unauthenticated", action)
	case http.StatusForbidden:
		return errorx.New(errorx.PermissionDenied, "Cannot %s: permission denied", action)
	default:
		return errorx.New(errorx.Unavailable, "Cannot %s: status %d", action, code)
	}
}
