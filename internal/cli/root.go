// Package cli implements the somitid command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/daemon"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/infra/sqlite"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "somitid",
	Short: "Cooperative savings society ledger daemon",
	Long: `somitid runs the ledger and accrual engine for a cooperative
savings society: member share deposits, treasury accounts, investments,
and time-weighted late fines. All state lives in one SQLite database.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the TOML config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "somiti.toml"
	}
	return filepath.Join(home, ".somiti", "somiti.toml")
}

// loadConfig reads the config named by --config.
func loadConfig() (daemon.Config, error) {
	return daemon.Load(configPath)
}

// openDB opens the configured database, creating its directory first.
func openDB(cfg daemon.Config) (*sqlite.DB, error) {
	if dir := filepath.Dir(cfg.Storage.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return sqlite.Open(cfg.Storage.DatabasePath)
}
