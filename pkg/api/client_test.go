package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientMethodsAndBody(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-type")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	generator := NewGenerator(server.URL)
	ctx := context.Background()

	resp, err := generator.New("/groups/%s/messages", "g1").
		Body(JSON{"content": "hello"}).
		POST(ctx)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/groups/g1/messages", gotPath)
	require.Equal(t, "application/json", gotContentType)

	resp, err = generator.New("/groups").
		Query(Parameter{"workspaceId": "w 1"}).
		GET(ctx)
	require.NoError(t, err)
	require.Equal(t, "workspaceId=w%201", gotQuery)

	body, ok := resp.Body.(JSON)
	require.True(t, ok)
	okValue, err := body.Get("ok")
	require.NoError(t, err)
	require.Equal(t, true, okValue)

	_, err = generator.New("/groups/%s", "g1").DELETE(ctx)
	require.NoError(t, err)
	require.Equal(t, http.MethodDelete, gotMethod)
}

func TestClientArrayBodyAndRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "m1"}, {"id": "m2"}]`))
	}))
	defer server.Close()

	resp, err := NewGenerator(server.URL).New("/groups/g1/messages").GET(context.Background())
	require.NoError(t, err)

	array, ok := resp.Body.(Array)
	require.True(t, ok)
	require.Len(t, array, 2)
	require.Equal(t, "m1", array[0]["id"])
	require.NotEmpty(t, resp.RawBody)
}

func TestClientFailoverResendsBody(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	dead.Close()

	var bodies []string
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		bodies = append(bodies, string(raw))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer live.Close()

	// The endpoint order is randomized, so enough rounds guarantee the
	// dead endpoint gets tried first at least once. Whichever attempt
	// reaches the live endpoint must carry the full body.
	generator := NewGenerator(dead.URL, live.URL)
	for i := 0; i < 20; i++ {
		resp, err := generator.New("/groups/g1/messages").
			Body(JSON{"content": "hello"}).
			POST(context.Background())
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	require.Len(t, bodies, 20)
	for _, body := range bodies {
		require.JSONEq(t, `{"content": "hello"}`, body)
	}
}

func TestClientAllEndpointsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := NewGenerator(server.URL).New("/groups").GET(context.Background())
	require.Error(t, err)
}
