package entity

type Group struct {
	Base
	WorkspaceID string `gorm:"index"`
	Name        string

	Members []Member `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

func (g *Group) TableName() string {
	return "groups"
}

// MemberIDs returns the user ids of all non-stale members.
func (g *Group) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m.Stale() {
			continue
		}
		ids = append(ids, m.UserID)
	}

	return ids
}

func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}

	return false
}
