package testutil

import (
	"context"
	"time"

	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/internal/repository"
)

const WorkspaceID = "workspace1"

var (
	User1 = entity.User{ID: "user1", Name: "Ana", Email: "ana@example.com", Role: entity.AdminRole}
	User2 = entity.User{ID: "user2", Name: "Ben", Email: "ben@example.com", Role: entity.UserRole}
	User3 = entity.User{ID: "user3", Name: "Cai", Email: "cai@example.com", Role: entity.UserRole}

	Group1 = entity.Group{
		Base:        entity.Base{ID: "group1", CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		WorkspaceID: WorkspaceID,
		Name:        "Design",
		Members: []entity.Member{
			{UserID: User1.ID, GroupID: "group1", UserName: User1.Name, UserEmail: User1.Email},
			{UserID: User2.ID, GroupID: "group1", UserName: User2.Name, UserEmail: User2.Email},
			// A stale row: the user was deleted upstream, the
			// denormalized snapshot came back empty.
			{UserID: "ghost", GroupID: "group1"},
		},
	}

	Group2 = entity.Group{
		Base:        entity.Base{ID: "group2", CreatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},
		WorkspaceID: WorkspaceID,
		Name:        "Backend",
		Members: []entity.Member{
			{UserID: User2.ID, GroupID: "group2", UserName: User2.Name, UserEmail: User2.Email},
		},
	}

	Group3 = entity.Group{
		Base:        entity.Base{ID: "group3", CreatedAt: time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)},
		WorkspaceID: WorkspaceID,
		Name:        "Design Review",
		Members: []entity.Member{
			{UserID: User1.ID, GroupID: "group3", UserName: User1.Name, UserEmail: User1.Email},
			{UserID: User3.ID, GroupID: "group3", UserName: User3.Name, UserEmail: User3.Email},
		},
	}

	Message1 = entity.Message{
		ID: "msg1", GroupID: "group1", AuthorID: User1.ID, AuthorName: User1.Name,
		Content: "kickoff at ten", CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	Message2 = entity.Message{
		ID: "msg2", GroupID: "group1", AuthorID: User2.ID, AuthorName: User2.Name,
		Content: "on my way", CreatedAt: time.Date(2024, 3, 1, 10, 1, 0, 0, time.UTC),
	}
	Message3 = entity.Message{
		ID: "msg3", GroupID: "group3", AuthorID: User3.ID, AuthorName: User3.Name,
		Content: "uploaded the mockups", CreatedAt: time.Date(2024, 3, 3, 11, 0, 0, 0, time.UTC),
	}
)

// CreateFixtureDb seeds the cache database of ctx through the
// repositories, the same write path production uses.
func CreateFixtureDb(ctx context.Context) {
	groupRepo := repository.NewGroupRepository()
	messageRepo := repository.NewMessageRepository()

	groups := []entity.Group{Group1, Group2, Group3}
	if err := groupRepo.ReplaceAll(ctx, WorkspaceID, groups); err != nil {
		panic(err)
	}

	if err := messageRepo.ReplaceForGroup(ctx, "group1", []entity.Message{Message1, Message2}); err != nil {
		panic(err)
	}

	if err := messageRepo.ReplaceForGroup(ctx, "group3", []entity.Message{Message3}); err != nil {
		panic(err)
	}
}
