package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// backendVersion is set at build time via -ldflags.
var backendVersion = "dev"

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the backend version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(backendVersion)
	},
}
