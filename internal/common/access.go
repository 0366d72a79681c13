package common

import (
	"github.com/taskhive/groupsync/internal/entity"
)

// VisibleGroups narrows a group list to what the given user may see.
// Admins see everything; regular users only the groups they belong to.
func VisibleGroups(groups []entity.Group, user entity.User) []entity.Group {
	if user.IsAdmin() {
		return groups
	}

	visible := []entity.Group{}
	for _, group := range groups {
		if group.HasMember(user.ID) {
			visible = append(visible, group)
		}
	}

	return visible
}

// VisibleMembers filters a group's member rows down to the ones worth
// showing: stale rows (user deleted upstream, snapshot emptied) are
// dropped, and non-admin viewers only see members they can reach
// through some shared group. A nil reachable set means unrestricted.
func VisibleMembers(group *entity.Group, user entity.User, reachable map[string]struct{}) []entity.Member {
	visible := []entity.Member{}
	for _, member := range group.Members {
		if member.Stale() {
			continue
		}

		if !user.IsAdmin() && reachable != nil {
			if _, ok := reachable[member.UserID]; !ok {
				continue
			}
		}

		visible = append(visible, member)
	}

	return visible
}

// VisibleUsers narrows a workspace user list the same way: non-admin
// viewers only see users they share at least one group with.
func VisibleUsers(users []entity.User, groups []entity.Group, viewer entity.User) []entity.User {
	reachable := ReachableUserIDs(groups, viewer)
	if reachable == nil {
		return users
	}

	visible := []entity.User{}
	for _, user := range users {
		if _, ok := reachable[user.ID]; ok {
			visible = append(visible, user)
		}
	}

	return visible
}

// ReachableUserIDs collects every user id that shares at least one
// group with the given user. Admins get a nil set (unrestricted).
func ReachableUserIDs(groups []entity.Group, user entity.User) map[string]struct{} {
	if user.IsAdmin() {
		return nil
	}

	reachable := map[string]struct{}{user.ID: {}}
	for _, group := range groups {
		if !group.HasMember(user.ID) {
			continue
		}

		for _, member := range group.Members {
			if member.Stale() {
				continue
			}
			reachable[member.UserID] = struct{}{}
		}
	}

	return reachable
}
