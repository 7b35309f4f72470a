// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/BurntSushi/toml"
)

// Supported database engines. SQLite is the default and needs no server settings.
const (
	DBTypeSQLite   = "sqlite"
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"
)

// ReadConfig reads main.toml from the given directory (./etc/ when empty).
// Any value can be overridden through the environment, e.g. MAILFORT_DB_HOST
// or MAILFORT_LDAP_BASEDN.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("mailfort")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings for mailfort-admin. The directory section
// validates itself on reload; only the storage settings are checked here.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	switch c.DB.Type {
	case "":
		c.DB.Type = DBTypeSQLite
	case DBTypeSQLite:
	case DBTypeMySQL, DBTypePostgres:
		if c.DB.Host == "" {
			return errors.Wrap(ErrDBHostEmpty, invalidErrMessage)
		}

		if c.DB.Name == "" {
			return errors.Wrap(ErrDBNameEmpty, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnsupportedDBType, invalidErrMessage)
	}

	if c.DB.Type == DBTypeSQLite && c.DB.Path == "" {
		c.DB.Path = "./mailfort.db"
	}

	return nil
}
