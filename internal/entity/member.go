package entity

// Member is a (user, group) association with a denormalized snapshot
// of the user's display fields.
type Member struct {
	UserID  string `gorm:"primarykey"`
	GroupID string `gorm:"primarykey"`

	UserName  string
	UserEmail string
}

func (m *Member) TableName() string {
	return "group_members"
}

// Stale reports a member whose user is no longer part of the
// workspace: the API serves those without any user snapshot. They are
// filtered out wherever membership is displayed or counted.
func (m Member) Stale() bool {
	return m.UserName == "" && m.UserEmail == ""
}
