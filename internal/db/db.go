// Package db opens the relational store and keeps its schema current.
package db

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mailfort/mailfort-admin/internal/config"
	"github.com/mailfort/mailfort-admin/internal/db/dsn"
	"github.com/mailfort/mailfort-admin/internal/db/models"
	"github.com/mailfort/mailfort-admin/internal/logger/adapter/gormlogger"
)

// ErrUnsupportedDBType is returned when the configured database type has no driver.
var ErrUnsupportedDBType = errors.New("unsupported database type")

// Open connects to the database selected by the configuration.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.Type {
	case config.DBTypeSQLite:
		dialector = sqlite.Open(cfg.DB.Path)
	case config.DBTypeMySQL:
		dialector = gormmysql.Open(dsn.MySQL(cfg))
	case config.DBTypePostgres:
		dialector = gormpostgres.Open(dsn.Postgres(cfg))
	default:
		return nil, errors.Wrap(ErrUnsupportedDBType, cfg.DB.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.New()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	return db, nil
}

// Migrate brings the schema up to date for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserPermission{},
		&models.Org{},
		&models.Domain{},
		&models.Alias{},
	)
}
