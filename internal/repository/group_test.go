package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/internal/repository"
	"github.com/taskhive/groupsync/pkg/testutil"
)

func Test_groupRepository_ReplaceAll(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewGroupRepository()

	// The authoritative list no longer contains group2 and renames
	// group1; replacement must mirror that exactly.
	err := repo.ReplaceAll(ctx, testutil.WorkspaceID, []entity.Group{
		{
			Base:        entity.Base{ID: "group1", CreatedAt: testutil.Group1.CreatedAt},
			WorkspaceID: testutil.WorkspaceID,
			Name:        "Design 2.0",
			Members: []entity.Member{
				{UserID: "user1", GroupID: "group1", UserName: "Ana", UserEmail: "ana@example.com"},
			},
		},
		testutil.Group3,
	})
	require.NoError(t, err)

	groups, err := repo.GetList(ctx, testutil.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	group1, err := repo.GetByID(ctx, "group1")
	require.NoError(t, err)
	require.Equal(t, "Design 2.0", group1.Name)
	require.Len(t, group1.Members, 1)

	_, err = repo.GetByID(ctx, "group2")
	require.Error(t, err)
}

func Test_groupRepository_Upsert(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewGroupRepository()

	updated := testutil.Group2
	updated.Name = "Backend Guild"
	updated.Members = []entity.Member{
		{UserID: "user2", GroupID: "group2", UserName: "Ben", UserEmail: "ben@example.com"},
		{UserID: "user3", GroupID: "group2", UserName: "Cai", UserEmail: "cai@example.com"},
	}
	require.NoError(t, repo.Upsert(ctx, &updated))

	group, err := repo.GetByID(ctx, "group2")
	require.NoError(t, err)
	require.Equal(t, "Backend Guild", group.Name)
	require.ElementsMatch(t, []string{"user2", "user3"}, group.MemberIDs())
}

func Test_groupRepository_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewGroupRepository()
	require.NoError(t, repo.Delete(ctx, "group1"))

	_, err := repo.GetByID(ctx, "group1")
	require.Error(t, err)

	groups, err := repo.GetList(ctx, testutil.WorkspaceID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
}

func Test_groupRepository_GetList_order(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	groups, err := repository.NewGroupRepository().GetList(ctx, testutil.WorkspaceID)
	require.NoError(t, err)

	// Newest created first.
	require.Equal(t, "group3", groups[0].ID)
	require.Equal(t, "group2", groups[1].ID)
	require.Equal(t, "group1", groups[2].ID)
}
