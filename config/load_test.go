package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groupsync.toml")
	content := `
env = "local"

[log]
level = "DEBUG"

[workspace]
endpoints = ["https://api.example.com", "https://api-fallback.example.com"]
workspace_id = "workspace1"

[auth]
token = "file-token"
user_id = "user1"

[sync]
poll_interval = "3s"

[unread]
backend = "file"
path = "/tmp/groupsync-unread.json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Env)
	require.Len(t, cfg.Workspace.Endpoints, 2)
	require.Equal(t, "workspace1", cfg.Workspace.WorkspaceID)
	require.Equal(t, "file-token", cfg.Auth.Token)
	require.Equal(t, 3*time.Second, cfg.Sync.PollInterval.Duration)

	// Unset knobs fall back to defaults.
	require.Equal(t, DefaultPageSize, cfg.Directory.PageSize)
	require.Equal(t, ":memory:", cfg.Cache.Database)
}

func Test_Load_tokenFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groupsync.toml")
	require.NoError(t, os.WriteFile(path, []byte("[auth]\ntoken = \"file-token\"\n"), 0644))

	t.Setenv("GROUPSYNC_TOKEN", "env-token")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.Auth.Token)
}

func Test_ApplyDefaults(t *testing.T) {
	var cfg Configs
	cfg.ApplyDefaults()

	require.Equal(t, DefaultPollInterval, cfg.Sync.PollInterval.Duration)
	require.Equal(t, DefaultPageSize, cfg.Directory.PageSize)
	require.Equal(t, "memory", cfg.Unread.Backend)
}
