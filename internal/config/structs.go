package config

import (
	"github.com/mailfort/mailfort-admin/internal/directory"
	"github.com/mailfort/mailfort-admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode bool // enable dev mode for development
	Title   string
	DB      DB
	Log     logger.Log
	LDAP    directory.Config `mapstructure:"ldap" toml:"ldap"`
}

// DB holds the database configuration settings.
type DB struct {
	Type     string // sqlite, mysql or postgres
	Path     string // database file path (sqlite only)
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Extras   string // extra DSN parameters, appended verbatim
}
