package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	Session       string        `mapstructure:"session" yaml:"session"`
	Socket        string        `mapstructure:"socket" yaml:"socket"`
	Command       CommandConfig `mapstructure:"command" yaml:"command"`
	Watch         WatchConfig   `mapstructure:"watch" yaml:"watch"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// CommandConfig controls the synchronous command path.
type CommandConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// WatchConfig controls the watch subcommand.
type WatchConfig struct {
	Stats    bool `mapstructure:"stats" yaml:"stats"`
	Segments bool `mapstructure:"segments" yaml:"segments"`
}

// DefaultConfig returns a config with sensible defaults. Session selects
// the daemon socket; an explicit socket path overrides it.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Session:       "default",
		Socket:        "",
		Command: CommandConfig{
			TimeoutSeconds: 30,
		},
		Watch: WatchConfig{
			Stats:    true,
			Segments: true,
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".multipane", "config.yaml"), nil
}
