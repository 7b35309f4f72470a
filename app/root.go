// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/mailfort/mailfort-admin/internal/config"
	"github.com/mailfort/mailfort-admin/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "mailfort-admin",
	Short: "Mailfort-Admin is a management backend for mail and groupware accounts",
	Long: `Mailfort-Admin is a management backend for mail and groupware accounts
that manages organizations, domains, users and aliases, and synchronizes
accounts from an LDAP directory.`,
	Args: cobra.OnlyValidArgs,
}

var (
	configPath string // Path to the configuration directory
	cfg        config.Config
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration and initializes logging. Commands touching
// the database or the directory call it from their PreRunE.
func setup(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if err = logger.Init(cfg.Log); err != nil {
		return err
	}

	return nil
}
