// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kevinjqiu/silverstrike/internal/config"
	"github.com/kevinjqiu/silverstrike/internal/csvimport"
	"github.com/kevinjqiu/silverstrike/internal/fireflyimport"
	"github.com/kevinjqiu/silverstrike/internal/ledger"
	"github.com/kevinjqiu/silverstrike/internal/ofximport"
	"github.com/kevinjqiu/silverstrike/internal/resolver"
	"github.com/kevinjqiu/silverstrike/internal/store"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available to all commands
	// after PersistentPreRun.
	Cfg *config.Config

	// DatabasePath overrides the configured ledger database path when set.
	DatabasePath string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "silverstrike",
		Short: "Import external transaction records into a double-entry ledger.",
		Long: `silverstrike imports financial data exports (generic CSV, OFX/QFX bank
statements and Firefly CSV exports) into a normalized double-entry ledger.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available import commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg

			// Set the configured logger for all packages
			store.SetLogger(Log)
			resolver.SetLogger(Log)
			ledger.SetLogger(Log)
			csvimport.SetLogger(Log)
			ofximport.SetLogger(Log)
			fireflyimport.SetLogger(Log)
			return nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&DatabasePath, "database", "d", "",
		"Path to the ledger database (overrides configuration)")
}

// OpenStore opens the ledger database configured for this run.
func OpenStore() (*store.SQLiteStore, error) {
	path := DatabasePath
	if path == "" {
		path = Cfg.Database.Path
	}
	return store.Open(path)
}
