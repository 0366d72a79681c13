package model

const (
	SortByCreatedAt   = "created_at"
	SortByLastMessage = "last_message_at"
)

type GetGroupsRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Query       string `json:"query"`
	SortBy      string `json:"sort_by"`
	Page        int    `json:"page"`
}

type GroupItem struct {
	Group       Group        `json:"group"`
	LastMessage *ChatMessage `json:"last_message,omitempty"`
	Unread      bool         `json:"unread"`
	MemberCount int          `json:"member_count"`
}

type GetGroupsResponse struct {
	Groups    []GroupItem `json:"groups"`
	Total     int         `json:"total"`
	Page      int         `json:"page"`
	PageCount int         `json:"page_count"`
}
