package entity

import "time"

// Base carries the identity and timestamps every remote-owned record
// has. Ids are always originated by the workspace API, never locally.
type Base struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
