package model

import "time"

type Group struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	Members     []Member  `json:"members"`
}

type Member struct {
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}
