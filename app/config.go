package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mailfort/mailfort-admin/internal/config"
)

var dumpJSON bool

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON instead of TOML")

	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
	Args:  cobra.OnlyValidArgs,
}

var configDumpCmd = &cobra.Command{
	Use:     "dump",
	Short:   "Print the effective configuration after defaults and environment overrides",
	PreRunE: setup,
	RunE: func(_ *cobra.Command, _ []string) error {
		dump := config.DumpConfig
		if dumpJSON {
			dump = config.DumpConfigJSON
		}

		out, err := dump(cfg)
		if err != nil {
			return err
		}

		fmt.Print(out)

		return nil
	},
}
