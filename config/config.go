package config

import "time"

type Configs struct {
	Env string `toml:"env"`

	Log       LogConfigs       `toml:"log"`
	Workspace WorkspaceConfigs `toml:"workspace"`
	Auth      AuthConfigs      `toml:"auth"`
	Cache     CacheConfigs     `toml:"cache"`
	Sync      SyncConfigs      `toml:"sync"`
	Directory DirectoryConfigs `toml:"directory"`
	Unread    UnreadConfigs    `toml:"unread"`
	Redis     RedisConfigs     `toml:"redis"`
}

type LogConfigs struct {
	Level string `toml:"level"`
}

type WorkspaceConfigs struct {
	// Endpoints are the base URLs of the workspace REST collaborator.
	// More than one entry gives client-side failover.
	Endpoints   []string `toml:"endpoints"`
	WorkspaceID string   `toml:"workspace_id"`
}

type AuthConfigs struct {
	// Token is the bearer credential issued by the auth collaborator.
	Token    string `toml:"token"`
	UserID   string `toml:"user_id"`
	UserName string `toml:"user_name"`
	Role     string `toml:"role"`
}

type CacheConfigs struct {
	// Database is the sqlite DSN of the local cache.
	Database string `toml:"database"`
}

type SyncConfigs struct {
	PollInterval Duration `toml:"poll_interval"`
}

type DirectoryConfigs struct {
	PageSize int `toml:"page_size"`
}

type UnreadConfigs struct {
	// Backend selects the marker store: "file", "redis" or "memory".
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

// Duration lets toml decode values like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

const (
	DefaultPollInterval = 10 * time.Second
	DefaultPageSize     = 20
)

// ApplyDefaults fills in the zero-valued knobs that have a reference
// behavior attached to them.
func (c *Configs) ApplyDefaults() {
	if c.Sync.PollInterval.Duration == 0 {
		c.Sync.PollInterval.Duration = DefaultPollInterval
	}

	if c.Directory.PageSize == 0 {
		c.Directory.PageSize = DefaultPageSize
	}

	if c.Cache.Database == "" {
		c.Cache.Database = ":memory:"
	}

	if c.Unread.Backend == "" {
		c.Unread.Backend = "memory"
	}
}
