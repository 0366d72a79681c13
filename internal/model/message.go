package model

import "time"

type ChatMessage struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"groupId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
