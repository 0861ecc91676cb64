package dbregistry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConnectionConfig is one named connection record from the configuration
// file. Records are immutable once loaded.
type ConnectionConfig struct {
	// Name is the unique key callers use to address this connection.
	Name string `mapstructure:"name"`

	// Driver is the dialect prefix, e.g. "sqlite://" or "postgres://".
	Driver string `mapstructure:"driver"`

	// Connection is the DSN body that follows the driver prefix.
	Connection string `mapstructure:"connection"`

	// URLEscape percent-encodes the connection body before it is joined
	// with the driver prefix. Needed for ODBC-style pass-through strings.
	URLEscape bool `mapstructure:"url_escape"`
}

// Config is the loaded configuration document.
type Config struct {
	Connections []ConnectionConfig `mapstructure:"connections"`
}

// DefaultConfigPaths are the directories scanned, in priority order, for a
// .connections.yaml file when no explicit config file is given.
var DefaultConfigPaths = []string{".", "$HOME", "/etc/dbregistry"}

const defaultConfigName = ".connections"

// LoadConfig reads and decodes the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigLoad, path, err)
	}
	cfg, err := decodeConfig(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigLoad, path, err)
	}
	slog.Debug("loaded connection config", "path", path, "connections", len(cfg.Connections))
	return cfg, nil
}

// findDefaultConfig tries each default location in priority order and uses
// the first one that loads. A location that exists but is malformed or
// unreadable is skipped like a missing one; the scan fails only when every
// location fails.
func findDefaultConfig() (*Config, error) {
	var failures []error
	for _, dir := range DefaultConfigPaths {
		path := filepath.Join(os.ExpandEnv(dir), defaultConfigName+".yaml")
		cfg, err := LoadConfig(path)
		if err != nil {
			slog.Debug("skipping default config location", "path", path, "error", err)
			failures = append(failures, err)
			continue
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNoConfigFound, errors.Join(failures...))
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Connections))
	for i, cc := range c.Connections {
		if cc.Name == "" {
			return fmt.Errorf("connection %d has no name", i)
		}
		if cc.Driver == "" {
			return fmt.Errorf("connection %q has no driver", cc.Name)
		}
		if _, ok := seen[cc.Name]; ok {
			return fmt.Errorf("duplicate connection name %q", cc.Name)
		}
		seen[cc.Name] = struct{}{}
	}
	return nil
}
