package model

// MemberDelta is the minimal add/remove set between a group's prior
// membership and a newly chosen one. The wire names follow the
// collaborator's PUT groups/{id}/members contract.
type MemberDelta struct {
	AddUserIDs    []string `json:"addUserIds"`
	RemoveUserIDs []string `json:"removeUserIds"`
}

func (d MemberDelta) Empty() bool {
	return len(d.AddUserIDs) == 0 && len(d.RemoveUserIDs) == 0
}

type CommitMembershipResponse struct {
	Delta MemberDelta `json:"delta"`
	Group Group       `json:"group"`
}
