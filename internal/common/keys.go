package common

import "fmt"

// UnreadStoreKey scopes unread markers to one installation and user so
// that a shared store never mixes watermarks across accounts.
func UnreadStoreKey(installID, userID string) string {
	return fmt.Sprintf("groupsync:%s:unread:%s", installID, userID)
}

func InstallIDKey() string {
	return "groupsync:install_id"
}
