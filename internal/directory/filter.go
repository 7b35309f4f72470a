package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// The filter builders compile LDAP search expressions from configuration plus
// caller input. Caller-supplied values (object IDs, search text) are escaped
// with ldap.EscapeFilter before interpolation; clause text coming from the
// configuration is operator-supplied and trusted verbatim. Absent optional
// clauses contribute nothing, so no expression ever contains an empty group.

// matchFilter builds the filter matching a single object ID: the object-ID
// equality term first, then each mandatory clause in configured order, then
// the optional single clause.
func (c *Config) matchFilter(id string) string {
	var b strings.Builder

	b.WriteString("(&(")
	b.WriteString(c.ObjectID)
	b.WriteString("=")
	b.WriteString(ldap.EscapeFilter(id))
	b.WriteString(")")

	for _, f := range c.Users.Filters {
		b.WriteString("(" + f + ")")
	}

	b.WriteString(c.userFilter())
	b.WriteString(")")

	return b.String()
}

// matchFilterMulti builds the filter matching any of the given object IDs.
func (c *Config) matchFilterMulti(ids []string) string {
	var b strings.Builder

	b.WriteString("(&")

	for _, f := range c.Users.Filters {
		b.WriteString("(" + f + ")")
	}

	b.WriteString(c.userFilter())

	if len(ids) > 0 {
		b.WriteString("(|")

		for _, id := range ids {
			b.WriteString("(" + c.ObjectID + "=" + ldap.EscapeFilter(id) + ")")
		}

		b.WriteString(")")
	}

	b.WriteString(")")

	return b.String()
}

// searchFilter builds the free-text search filter: the mandatory clauses, a
// substring term per configured search attribute (only when query is
// non-empty), a "username ends with @domain" term per allowed domain (only
// when a domain restriction is supplied), and the optional single clause.
func (c *Config) searchFilter(query string, domains []string) string {
	var b strings.Builder

	b.WriteString("(&")

	for _, f := range c.Users.Filters {
		b.WriteString("(" + f + ")")
	}

	if query != "" {
		escaped := ldap.EscapeFilter(query)

		b.WriteString("(|")

		for _, attr := range c.Users.SearchAttributes {
			b.WriteString("(" + attr + "=*" + escaped + "*)")
		}

		b.WriteString(")")
	}

	if len(domains) > 0 {
		b.WriteString("(|")

		for _, domain := range domains {
			b.WriteString("(" + c.Users.Username + "=*@" + domain + ")")
		}

		b.WriteString(")")
	}

	b.WriteString(c.userFilter())
	b.WriteString(")")

	return b.String()
}

// UnescapeFilter reverses ldap.EscapeFilter: every \xx two-hex-digit sequence
// is decoded to a single byte, everything else passes through unchanged. It is
// used to derive an exact-match lookup from already-escaped search input.
// Malformed escape sequences pass through verbatim.
func UnescapeFilter(s string) []byte {
	out := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])

			if okHi && okLo {
				out = append(out, hi<<4|lo)
				i += 2

				continue
			}
		}

		out = append(out, s[i])
	}

	return out
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
