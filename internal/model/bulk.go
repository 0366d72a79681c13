package model

type BulkAction string

const (
	BulkBroadcast   BulkAction = "broadcast"
	BulkClearChat   BulkAction = "clear_chat"
	BulkDeleteGroup BulkAction = "delete_group"
)

type BulkActionRequest struct {
	Action  BulkAction `json:"action"`
	Message string     `json:"message,omitempty"`

	// Confirmed acknowledges a destructive action. ConfirmToken must
	// additionally spell out the selection size for delete_group.
	Confirmed    bool   `json:"confirmed"`
	ConfirmToken string `json:"confirm_token,omitempty"`
}

type BulkActionResponse struct {
	Succeeded int `json:"succeeded"`
	Total     int `json:"total"`
}
