package directory

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
)

func TestMatchFilter(t *testing.T) {
	cfg := validConfig()
	cfg.Users.Filters = []string{"objectClass=person", "mailEnabled=TRUE"}
	cfg.Users.Filter = "ou=sales"

	// object-ID term first, mandatory clauses in configured order, single clause last
	assert.Equal(t,
		"(&(uid=abc)(objectClass=person)(mailEnabled=TRUE)(ou=sales))",
		cfg.matchFilter("abc"))
}

func TestMatchFilterEscapesID(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, `(&(uid=a\2ab\28c\29))`, cfg.matchFilter("a*b(c)"))
}

func TestMatchFilterNoClauses(t *testing.T) {
	cfg := validConfig()

	// no mandatory or optional clauses means no empty groups
	assert.Equal(t, "(&(uid=abc))", cfg.matchFilter("abc"))
}

func TestMatchFilterMulti(t *testing.T) {
	cfg := validConfig()
	cfg.Users.Filters = []string{"objectClass=person"}

	assert.Equal(t,
		"(&(objectClass=person)(|(uid=a)(uid=b)))",
		cfg.matchFilterMulti([]string{"a", "b"}))

	assert.Equal(t,
		"(&(objectClass=person))",
		cfg.matchFilterMulti(nil))
}

func TestSearchFilter(t *testing.T) {
	cfg := validConfig()
	cfg.Users.Filters = []string{"objectClass=person"}
	cfg.Users.Filter = "(ou=sales)"

	testCases := []struct {
		name     string
		query    string
		domains  []string
		expected string
	}{
		{
			name:     "query only",
			query:    "doe",
			expected: "(&(objectClass=person)(|(cn=*doe*)(mail=*doe*))(ou=sales))",
		},
		{
			name:     "query with domains",
			query:    "doe",
			domains:  []string{"x.com", "y.com"},
			expected: "(&(objectClass=person)(|(cn=*doe*)(mail=*doe*))(|(mail=*@x.com)(mail=*@y.com))(ou=sales))",
		},
		{
			name:     "no query",
			expected: "(&(objectClass=person)(ou=sales))",
		},
		{
			name:     "empty domain list contributes nothing",
			domains:  []string{},
			expected: "(&(objectClass=person)(ou=sales))",
		},
		{
			name:     "query is escaped",
			query:    "d*e",
			expected: `(&(objectClass=person)(|(cn=*d\2ae*)(mail=*d\2ae*))(ou=sales))`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cfg.searchFilter(tc.query, tc.domains))
		})
	}
}

func TestUnescapeFilterRoundTrip(t *testing.T) {
	for _, s := range []string{
		"plain",
		"with (parens) and *stars*",
		`back\slash`,
		"nul\x00byte",
		"unicode äöü 漢字",
		"",
	} {
		assert.Equal(t, []byte(s), UnescapeFilter(ldap.EscapeFilter(s)), "round trip of %q", s)
	}
}

func TestUnescapeFilterMalformed(t *testing.T) {
	// malformed escape sequences pass through verbatim
	assert.Equal(t, []byte(`a\zz`), UnescapeFilter(`a\zz`))
	assert.Equal(t, []byte(`trailing\4`), UnescapeFilter(`trailing\4`))
	assert.Equal(t, []byte(`trailing\`), UnescapeFilter(`trailing\`))
}
