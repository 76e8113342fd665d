package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Overrides are tool-level settings taken from the process environment. They
// take precedence over the profile file so operators can redirect paths
// without editing it.
type Overrides struct {
	ConfigPath  string `env:"READYPROBE_CONFIG"`
	EnvFile     string `env:"READYPROBE_ENV_FILE"`
	StoragePath string `env:"READYPROBE_DB"`
	ServerAddr  string `env:"READYPROBE_ADDR"`
}

// ParseOverrides reads READYPROBE_* variables from the environment.
func ParseOverrides() (Overrides, error) {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return Overrides{}, fmt.Errorf("parse env overrides: %w", err)
	}
	return o, nil
}

// Apply folds the overrides into the profile.
func (cfg *Config) Apply(o Overrides) {
	if o.EnvFile != "" {
		cfg.EnvFile.Path = o.EnvFile
	}
	if o.StoragePath != "" {
		cfg.Storage.Path = o.StoragePath
	}
	if o.ServerAddr != "" {
		cfg.Server.Address = o.ServerAddr
	}
}
