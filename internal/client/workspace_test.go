package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/groupsync/internal/model"
	"github.com/taskhive/groupsync/pkg/api"
	"github.com/taskhive/groupsync/pkg/authenticator"
	"github.com/taskhive/groupsync/pkg/errorx"
	"github.com/taskhive/groupsync/pkg/xcontext"
)

func testContext(token string) context.Context {
	ctx := context.Background()
	return xcontext.WithTokenSource(ctx, authenticator.NewStaticTokenSource(token))
}

func Test_workspaceCaller_GetGroups(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/groups", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("workspaceId")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":          "group1",
				"workspaceId": "workspace1",
				"name":        "Design",
				"createdAt":   "2024-03-01T10:00:00Z",
				"members": []map[string]any{
					{"userId": "user1", "groupId": "group1", "name": "Ana", "email": "ana@example.com"},
				},
			},
		})
	}))
	defer server.Close()

	caller := NewWorkspaceCaller(api.NewGenerator(server.URL))
	groups, err := caller.GetGroups(testContext("token-abc"), "workspace1")
	require.NoError(t, err)

	require.Equal(t, "Bearer token-abc", gotAuth)
	require.Equal(t, "workspace1", gotQuery)
	require.Len(t, groups, 1)
	require.Equal(t, "group1", groups[0].ID)
	require.Equal(t, "Design", groups[0].Name)
	require.Equal(t, 2024, groups[0].CreatedAt.Year())
	require.Len(t, groups[0].Members, 1)
	require.Equal(t, "Ana", groups[0].Members[0].Name)
}

func Test_workspaceCaller_SendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/groups/group1/messages", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hello", body["content"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":         "msg9",
			"groupId":    "group1",
			"authorId":   "user1",
			"authorName": "Ana",
			"content":    "hello",
			"createdAt":  "2024-03-01T10:05:00Z",
		})
	}))
	defer server.Close()

	caller := NewWorkspaceCaller(api.NewGenerator(server.URL))
	message, err := caller.SendMessage(testContext("token-abc"), "group1", "hello")
	require.NoError(t, err)
	require.Equal(t, "msg9", message.ID)
	require.Equal(t, "hello", message.Content)
}

func Test_workspaceCaller_UpdateMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/groups/group1/members", r.URL.Path)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []string{"user3"}, body["addUserIds"])
		require.Equal(t, []string{"user2"}, body["removeUserIds"])

		json.NewEncoder(w).Encode([]map[string]any{
			{"userId": "user1", "groupId": "group1", "name": "Ana", "email": "ana@example.com"},
			{"userId": "user3", "groupId": "group1", "name": "Cai", "email": "cai@example.com"},
		})
	}))
	defer server.Close()

	caller := NewWorkspaceCaller(api.NewGenerator(server.URL))
	members, err := caller.UpdateMembers(testContext("token-abc"), "group1", model.MemberDelta{
		AddUserIDs:    []string{"user3"},
		RemoveUserIDs: []string{"user2"},
	})
	require.NoError(t, err)
	require.Len(t, members, 2)
	require.Equal(t, "user3", members[1].UserID)
}

func Test_workspaceCaller_statusMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "no such group"})
	}))
	defer server.Close()

	caller := NewWorkspaceCaller(api.NewGenerator(server.URL))
	_, err := caller.GetGroup(testContext("token-abc"), "missing")
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_workspaceCaller_noTokenSource(t *testing.T) {
	caller := NewWorkspaceCaller(api.NewGenerator("http://localhost:1"))
	_, err := caller.GetGroups(context.Background(), "workspace1")
	require.Error(t, err)

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unauthenticated, errx.Code)
}
