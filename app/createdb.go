package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mailfort/mailfort-admin/internal/auth"
	"github.com/mailfort/mailfort-admin/internal/db"
	"github.com/mailfort/mailfort-admin/internal/db/controller/user"
	"github.com/mailfort/mailfort-admin/internal/db/models"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(createDBCmd)
}

var createDBCmd = &cobra.Command{
	Use:     "create-db",
	Short:   "Create or update the database schema",
	PreRunE: setup,
	RunE: func(_ *cobra.Command, _ []string) error {
		log.Info().Msg("setting up database")

		conn, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		if err := db.Migrate(conn); err != nil {
			return err
		}

		seed(conn)
		log.Info().Msg("database setup complete")

		return nil
	},
}

// seed creates the initial admin account when the user table is empty. The
// password must be changed after the first login.
func seed(conn *gorm.DB) {
	var count int64
	conn.Model(&models.User{}).Count(&count)
	if count != 0 {
		return
	}

	admin, err := user.Create(conn, "admin", models.HashPassword("changeme"))
	if err != nil {
		log.Error().Msgf("failed to seed admin user: %v", err)
		return
	}

	authService := auth.NewService(conn, nil)
	if err := authService.Grant(admin.ID, auth.PermSystemAdmin, ""); err != nil {
		log.Error().Msgf("failed to grant admin permissions: %v", err)
		return
	}

	log.Info().Msg("created admin user with default password")
}
