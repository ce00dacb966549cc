package config

import (
	"github.com/kkyr/fig"
)

const EnvPrefix = "SIGNALHOP"

// LoadConfig loads a configuration file into the given struct.
// The path param specifies a custom directory with the configuration file.
// Environment variables with the SIGNALHOP_ prefix override file values.
func LoadConfig(config any, path string) error {
	dirs := []string{path}
	if path == "" {
		dirs = append(dirs, ".", "configs", "../../configs")
	}
	return fig.Load(config, fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
}

// LoadConfigEnv loads the configuration from the environment only.
func LoadConfigEnv(config any) error {
	return fig.Load(config, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
}
