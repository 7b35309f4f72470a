package directory

import (
	"strings"

	"github.com/pkg/errors"
)

// ConnectionConfig holds the settings used to establish the service connection.
type ConnectionConfig struct {
	// Server is a whitespace-separated list of candidate directory servers
	// (host, host:port or ldap://... URL). The first reachable one is used.
	Server string `mapstructure:"server" toml:"server"`
	// BindUser is the distinguished name of the service account used for searches.
	BindUser string `mapstructure:"bindUser" toml:"bindUser"`
	// BindPass is the password of the service account.
	BindPass string `mapstructure:"bindPass" toml:"bindPass"`
	// StartTLS upgrades the connection to TLS before binding. Negotiation
	// failure is logged but not fatal; the server may still accept the session.
	StartTLS bool `mapstructure:"starttls" toml:"starttls"`
}

// UsersConfig holds the settings governing user searches and attribute mapping.
type UsersConfig struct {
	// Username is the attribute holding the login/e-mail address (e.g. "mail").
	Username string `mapstructure:"username" toml:"username"`
	// DisplayName is the attribute holding the human-readable name (e.g. "cn").
	DisplayName string `mapstructure:"displayName" toml:"displayName"`
	// SearchAttributes are the attributes matched by substring searches.
	SearchAttributes []string `mapstructure:"searchAttributes" toml:"searchAttributes"`
	// Filters are mandatory filter clauses ANDed into every query. The clause
	// text is operator-supplied and trusted verbatim.
	Filters []string `mapstructure:"filters" toml:"filters"`
	// Filter is an optional additional clause ANDed into every query.
	Filter string `mapstructure:"filter" toml:"filter"`
	// Subtree optionally narrows the search base below the base DN.
	Subtree string `mapstructure:"subtree" toml:"subtree"`
	// Aliases is the attribute holding alias addresses, if any.
	Aliases string `mapstructure:"aliases" toml:"aliases"`
	// Templates lists bundled attribute templates to apply, in order.
	Templates []string `mapstructure:"templates" toml:"templates"`
	// Attributes are explicit attribute-to-property overrides, applied after
	// all templates.
	Attributes map[string]string `mapstructure:"attributes" toml:"attributes"`
	// DefaultQuota is the storage quota seeded into downsynced users.
	DefaultQuota uint64 `mapstructure:"defaultQuota" toml:"defaultQuota"`
}

// Config is the directory service configuration. It is treated as immutable
// once validated; Reload replaces it as a whole.
type Config struct {
	// BaseDN is the directory name all searches start from.
	BaseDN string `mapstructure:"baseDn" toml:"baseDn"`
	// ObjectID is the attribute uniquely identifying a directory object.
	ObjectID string `mapstructure:"objectID" toml:"objectID"`
	// Disabled turns the directory service off without removing the configuration.
	Disabled bool `mapstructure:"disabled" toml:"disabled"`

	Connection ConnectionConfig `mapstructure:"connection" toml:"connection"`
	Users      UsersConfig      `mapstructure:"users" toml:"users"`
}

// AttributeMap maps external attribute names to internal property names.
type AttributeMap map[string]string

// missingField wraps ErrMissingField with the configuration key that is absent.
func missingField(name string) error {
	return errors.Wrap(ErrMissingField, "ldap."+name)
}

// Validate checks that every field required by the filter builders and record
// normalizers is present and resolves the enabled attribute templates plus
// explicit overrides into a flat attribute map. Later templates win over
// earlier ones and explicit overrides always win. Validate is pure: it does
// not touch the network and does not modify the configuration.
func (c *Config) Validate() (AttributeMap, error) {
	if c.BaseDN == "" {
		return nil, missingField("baseDn")
	}

	if c.ObjectID == "" {
		return nil, missingField("objectID")
	}

	if len(c.Servers()) == 0 {
		return nil, missingField("connection.server")
	}

	if c.Users.Username == "" {
		return nil, missingField("users.username")
	}

	if len(c.Users.SearchAttributes) == 0 {
		return nil, missingField("users.searchAttributes")
	}

	if c.Users.DisplayName == "" {
		return nil, missingField("users.displayName")
	}

	attrMap := AttributeMap{}

	for _, name := range c.Users.Templates {
		template, ok := templateTable[name]
		if !ok {
			return nil, errors.Wrap(ErrUnknownTemplate, name)
		}

		for attr, prop := range template {
			attrMap[attr] = prop
		}
	}

	for attr, prop := range c.Users.Attributes {
		attrMap[attr] = prop
	}

	return attrMap, nil
}

// Servers splits the configured server value into the candidate pool.
func (c *Config) Servers() []string {
	return strings.Fields(c.Connection.Server)
}

// searchBase returns the directory name user searches start from, prepending
// the configured subtree to the base DN when set.
func (c *Config) searchBase() string {
	if c.Users.Subtree != "" {
		return c.Users.Subtree + "," + c.BaseDN
	}

	return c.BaseDN
}

// userFilter returns the optional single filter clause, parenthesized unless
// it already is. An empty clause stays empty.
func (c *Config) userFilter() string {
	f := c.Users.Filter
	if f == "" || strings.HasPrefix(f, "(") {
		return f
	}

	return "(" + f + ")"
}

// defaultProperties returns the property seed for downsync records.
func (c *Config) defaultProperties() map[string]any {
	return map[string]any{"storagequotalimit": c.Users.DefaultQuota}
}
