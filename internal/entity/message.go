package entity

import "time"

type Message struct {
	ID      string `gorm:"primarykey"`
	GroupID string `gorm:"index"`

	AuthorID   string
	AuthorName string
	Content    string

	CreatedAt time.Time
}

func (m *Message) TableName() string {
	return "messages"
}
