package config

import (
	"errors"
)

var (
	// ErrUnsupportedDBType is returned when db.type is not sqlite, mysql or postgres.
	ErrUnsupportedDBType = errors.New("toml config db.type must be sqlite, mysql or postgres")

	// ErrDBHostEmpty is returned when a server-based database is configured without a host.
	ErrDBHostEmpty = errors.New("toml config db.host can not be empty")

	// ErrDBNameEmpty is returned when a server-based database is configured without a database name.
	ErrDBNameEmpty = errors.New("toml config db.name can not be empty")
)
