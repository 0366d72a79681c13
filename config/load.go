package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads a toml config file and applies defaults. The bearer token
// may also come from the GROUPSYNC_TOKEN environment variable, which
// wins over the file so credentials can stay out of it.
func Load(path string) (*Configs, error) {
	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	if token := os.Getenv("GROUPSYNC_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}
