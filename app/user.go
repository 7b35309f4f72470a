package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mailfort/mailfort-admin/internal/auth"
	"github.com/mailfort/mailfort-admin/internal/db"
	"github.com/mailfort/mailfort-admin/internal/db/controller/user"
	"github.com/mailfort/mailfort-admin/internal/db/models"
)

func init() { //nolint: gochecknoinits
	userCmd.AddCommand(
		userListCmd,
		userCreateCmd,
		userDeleteCmd,
		userGrantCmd,
		userRevokeCmd,
	)
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage local user accounts",
	Args:  cobra.OnlyValidArgs,
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all user accounts",
	PreRunE: setup,
	RunE: func(_ *cobra.Command, _ []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		users, err := user.GetAll(conn)
		if err != nil {
			return err
		}

		for _, u := range users {
			fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.Username, u.AuthSource, u.DisplayName)
		}

		return nil
	},
}

var userCreateCmd = &cobra.Command{
	Use:     "create <username>",
	Short:   "Create a local user account",
	Args:    cobra.ExactArgs(1),
	PreRunE: setup,
	RunE: func(_ *cobra.Command, args []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}

		created, err := user.Create(conn, args[0], models.HashPassword(strings.TrimSpace(string(password))))
		if err != nil {
			return err
		}

		fmt.Printf("created user %s (ID %d)\n", created.Username, created.ID)

		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:     "delete <username>",
	Short:   "Delete a user account and its aliases",
	Args:    cobra.ExactArgs(1),
	PreRunE: setup,
	RunE: func(_ *cobra.Command, args []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		return user.Delete(conn, args[0])
	},
}

var userGrantCmd = &cobra.Command{
	Use:     "grant <username> <permission> [param]",
	Short:   "Grant a permission to a user",
	Long: `Grant a permission to a user.

Known permissions: ` + strings.Join(auth.KnownPermissions(), ", ") + `.
DomainAdmin and OrgAdmin take a domain/organization ID or '*' as parameter.`,
	Args:    cobra.RangeArgs(2, 3),
	PreRunE: setup,
	RunE: func(_ *cobra.Command, args []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		target, err := user.Get(conn, args[0])
		if err != nil {
			return err
		}

		params := ""
		if len(args) == 3 {
			params = args[2]
		}

		return auth.NewService(conn, nil).Grant(target.ID, args[1], params)
	},
}

var userRevokeCmd = &cobra.Command{
	Use:     "revoke <username> <permission>",
	Short:   "Revoke a permission from a user",
	Args:    cobra.ExactArgs(2),
	PreRunE: setup,
	RunE: func(_ *cobra.Command, args []string) error {
		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		target, err := user.Get(conn, args[0])
		if err != nil {
			return err
		}

		return auth.NewService(conn, nil).Revoke(target.ID, args[1])
	},
}
