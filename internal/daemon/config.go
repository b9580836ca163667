// Package daemon holds the server configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full daemon configuration, loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Notify  NotifyConfig  `toml:"notify"`
	Metrics MetricsConfig `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig locates the database and the document directory.
type StorageConfig struct {
	DatabasePath string `toml:"database_path"`
	DocumentsDir string `toml:"documents_dir"`
}

// NotifyConfig controls member notifications.
type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	home := dataDir()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(home, "somiti.db"),
			DocumentsDir: filepath.Join(home, "documents"),
		},
		Notify:  NotifyConfig{Enabled: true},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads configuration from path. A missing file is not an error:
// the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the host:port the API listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// dataDir picks the daemon's state directory, SOMITI_HOME overriding
// the per-user default.
func dataDir() string {
	if dir := os.Getenv("SOMITI_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".somiti"
	}
	return filepath.Join(home, ".somiti")
}
