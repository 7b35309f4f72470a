package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		BaseDN:   "dc=example,dc=com",
		ObjectID: "uid",
		Connection: ConnectionConfig{
			Server: "ldap://localhost",
		},
		Users: UsersConfig{
			Username:         "mail",
			DisplayName:      "cn",
			SearchAttributes: []string{"cn", "mail"},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(*Config)
		expectedError error
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:          "missing baseDn",
			mutate:        func(c *Config) { c.BaseDN = "" },
			expectedError: ErrMissingField,
		},
		{
			name:          "missing objectID",
			mutate:        func(c *Config) { c.ObjectID = "" },
			expectedError: ErrMissingField,
		},
		{
			name:          "missing server",
			mutate:        func(c *Config) { c.Connection.Server = "" },
			expectedError: ErrMissingField,
		},
		{
			name:          "blank server",
			mutate:        func(c *Config) { c.Connection.Server = "   " },
			expectedError: ErrMissingField,
		},
		{
			name:          "missing username attribute",
			mutate:        func(c *Config) { c.Users.Username = "" },
			expectedError: ErrMissingField,
		},
		{
			name:          "missing search attributes",
			mutate:        func(c *Config) { c.Users.SearchAttributes = nil },
			expectedError: ErrMissingField,
		},
		{
			name:          "missing display name",
			mutate:        func(c *Config) { c.Users.DisplayName = "" },
			expectedError: ErrMissingField,
		},
		{
			name:          "unknown template",
			mutate:        func(c *Config) { c.Users.Templates = []string{"NoSuchDirectory"} },
			expectedError: ErrUnknownTemplate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			_, err := cfg.Validate()
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidateTemplateMerge(t *testing.T) {
	cfg := validConfig()
	cfg.Users.Templates = []string{"common", "ActiveDirectory"}
	cfg.Users.Attributes = map[string]string{
		"sn":            "nachname", // explicit override wins over templates
		"employeeID":    "employeeid",
		"postalAddress": "streetaddress",
	}

	attrMap, err := cfg.Validate()
	require.NoError(t, err)

	// from the common template
	assert.Equal(t, "givenname", attrMap["givenName"])
	// from the ActiveDirectory template
	assert.Equal(t, "mobiletelephonenumber", attrMap["mobile"])
	// explicit override beats the ActiveDirectory template's sn mapping
	assert.Equal(t, "nachname", attrMap["sn"])
	// plain explicit entries survive
	assert.Equal(t, "employeeid", attrMap["employeeID"])
}

func TestConfigValidateTemplateOrder(t *testing.T) {
	templateTable["orderTestA"] = AttributeMap{"description": "first"}
	templateTable["orderTestB"] = AttributeMap{"description": "second"}

	defer func() {
		delete(templateTable, "orderTestA")
		delete(templateTable, "orderTestB")
	}()

	cfg := validConfig()
	cfg.Users.Templates = []string{"orderTestA", "orderTestB"}

	attrMap, err := cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, "second", attrMap["description"])

	cfg.Users.Templates = []string{"orderTestB", "orderTestA"}

	attrMap, err = cfg.Validate()
	require.NoError(t, err)
	assert.Equal(t, "first", attrMap["description"])
}

func TestConfigUserFilter(t *testing.T) {
	cfg := validConfig()

	assert.Empty(t, cfg.userFilter())

	cfg.Users.Filter = "objectClass=person"
	assert.Equal(t, "(objectClass=person)", cfg.userFilter())

	cfg.Users.Filter = "(objectClass=person)"
	assert.Equal(t, "(objectClass=person)", cfg.userFilter())
}

func TestConfigSearchBase(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "dc=example,dc=com", cfg.searchBase())

	cfg.Users.Subtree = "ou=people"
	assert.Equal(t, "ou=people,dc=example,dc=com", cfg.searchBase())
}

func TestKnownTemplates(t *testing.T) {
	names := KnownTemplates()
	assert.Contains(t, names, "common")
	assert.Contains(t, names, "ActiveDirectory")
	assert.Contains(t, names, "OpenLDAP")
}
