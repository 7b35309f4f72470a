package app

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mailfort/mailfort-admin/internal/db"
	"github.com/mailfort/mailfort-admin/internal/db/controller/user"
	"github.com/mailfort/mailfort-admin/internal/directory"
)

var (
	searchLimit   int
	searchDomains []string

	dirService *directory.Service
)

func init() { //nolint: gochecknoinits
	ldapSearchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (0 for default)")
	ldapSearchCmd.Flags().StringSliceVar(&searchDomains, "domains", nil, "Restrict results to these mail domains")

	ldapCmd.AddCommand(
		ldapCheckCmd,
		ldapSearchCmd,
		ldapInfoCmd,
		ldapDownsyncCmd,
		ldapDumpCmd,
		ldapTemplatesCmd,
	)
	rootCmd.AddCommand(ldapCmd)
}

var ldapCmd = &cobra.Command{
	Use:   "ldap",
	Short: "Inspect and synchronize the LDAP directory",
	Args:  cobra.OnlyValidArgs,
}

// setupDirectory loads the configuration and connects the directory service.
func setupDirectory(cmd *cobra.Command, args []string) error {
	if err := setup(cmd, args); err != nil {
		return err
	}

	dirService = directory.NewService(&cfg.LDAP)
	if !dirService.Available() {
		return errors.New("directory service is not available - check the ldap configuration")
	}

	return nil
}

var ldapCheckCmd = &cobra.Command{
	Use:     "check",
	Short:   "Verify the directory connection",
	PreRunE: setupDirectory,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("directory connection ok")
	},
}

var ldapSearchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search the directory for matching users",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDirectory,
	Run: func(_ *cobra.Command, args []string) {
		results := dirService.SearchUsers(args[0], searchDomains, searchLimit)
		for _, result := range results {
			fmt.Printf("%s\t%s\t%s\n", hex.EncodeToString(result.ID), result.Username, result.Name)
		}
		fmt.Printf("%d users found\n", len(results))
	},
}

var ldapInfoCmd = &cobra.Command{
	Use:     "info <id>",
	Short:   "Show the normalized directory record of a user",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDirectory,
	RunE: func(_ *cobra.Command, args []string) error {
		info := dirService.GetUserInfo(args[0])
		if info == nil {
			return errors.Errorf("no user found for ID %q", args[0])
		}

		fmt.Printf("ID:       %s\n", hex.EncodeToString(info.ID))
		fmt.Printf("Username: %s\n", info.Username)
		fmt.Printf("Name:     %s\n", info.Name)
		fmt.Printf("E-Mail:   %s\n", info.Email)

		return nil
	},
}

var ldapDownsyncCmd = &cobra.Command{
	Use:     "downsync <id>...",
	Short:   "Import or update directory users in the local database",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: setupDirectory,
	RunE: func(_ *cobra.Command, args []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		for _, id := range args {
			record, err := dirService.DownsyncUser(id, nil)
			if err != nil {
				return errors.Wrapf(err, "downsync of %q failed", id)
			}
			if record == nil {
				return errors.Errorf("no user found for ID %q", id)
			}

			info := dirService.GetUserInfo(id)
			if info == nil {
				return errors.Errorf("no user found for ID %q", id)
			}

			imported, err := user.ImportFromDirectory(conn, info.ID, record)
			if err != nil {
				return errors.Wrapf(err, "import of %q failed", record.Username)
			}

			fmt.Printf("imported %s\n", imported.Username)
		}

		return nil
	},
}

var ldapDumpCmd = &cobra.Command{
	Use:     "dump <id>",
	Short:   "Print the raw directory entry of a user",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDirectory,
	RunE: func(_ *cobra.Command, args []string) error {
		entry := dirService.DumpUser(args[0])
		if entry == nil {
			return errors.Errorf("no user found for ID %q", args[0])
		}

		fmt.Printf("dn: %s\n", entry.DN)
		for _, attr := range entry.Attributes {
			fmt.Printf("%s: %s\n", attr.Name, strings.Join(attr.Values, ", "))
		}

		return nil
	},
}

var ldapTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the bundled attribute mapping templates",
	Run: func(_ *cobra.Command, _ []string) {
		for _, name := range directory.KnownTemplates() {
			fmt.Println(name)
		}
	},
}
