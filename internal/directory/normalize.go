package directory

import (
	"github.com/go-ldap/ldap/v3"
)

// UserInfo is the normalized search/lookup shape of a directory user.
type UserInfo struct {
	// ID is the raw object ID value as stored in the directory.
	ID []byte
	// Username is the login/e-mail attribute value.
	Username string
	// Name is the display name.
	Name string
	// Email is derived from the username attribute.
	Email string
}

// DownsyncRecord is the full synchronization shape of a directory user. It can
// be applied to the relational user store to create or update an account.
type DownsyncRecord struct {
	// Username is the login/e-mail attribute value.
	Username string
	// Properties maps internal property names to values, seeded from the
	// configured defaults and overwritten by mapped attributes present on the
	// entry.
	Properties map[string]any
	// Aliases holds the alias attribute values. It is an empty list when an
	// alias attribute is configured but absent from the entry, and nil when no
	// alias attribute is configured at all.
	Aliases []string
}

// requiredAttributes returns the default completeness set: object ID, username
// and display name.
func (c *Config) requiredAttributes() []string {
	return []string{c.ObjectID, c.Users.Username, c.Users.DisplayName}
}

// entryComplete reports whether every required attribute is present on the
// entry with a non-empty value. Entries failing the check are semantically
// unusable (e.g. disabled accounts without a display name) and are silently
// dropped rather than surfaced as partial records. Adding attributes to an
// entry can only turn a failing check into a passing one.
func entryComplete(entry *ldap.Entry, required []string) bool {
	for _, attr := range required {
		values := entry.GetEqualFoldAttributeValues(attr)
		if len(values) == 0 || values[0] == "" {
			return false
		}
	}

	return true
}

// userInfoFromEntry shapes a complete entry into the normalized lookup result.
// Callers must have checked completeness first.
func (c *Config) userInfoFromEntry(entry *ldap.Entry) *UserInfo {
	username := entry.GetEqualFoldAttributeValue(c.Users.Username)

	return &UserInfo{
		ID:       entry.GetEqualFoldRawAttributeValue(c.ObjectID),
		Username: username,
		Name:     entry.GetEqualFoldAttributeValue(c.Users.DisplayName),
		Email:    username,
	}
}

// downsyncFromEntry builds the synchronization record for an entry. The
// property map is seeded from defaults (copied, never mutated in place), then
// every mapped attribute present on the entry overwrites its property.
// Single-valued attributes map to a string, multi-valued ones to a string
// slice.
func (c *Config) downsyncFromEntry(entry *ldap.Entry, attrMap AttributeMap, defaults map[string]any) *DownsyncRecord {
	rec := DownsyncRecord{
		Username:   entry.GetEqualFoldAttributeValue(c.Users.Username),
		Properties: make(map[string]any, len(defaults)+len(attrMap)),
	}

	for prop, value := range defaults {
		rec.Properties[prop] = value
	}

	for attr, prop := range attrMap {
		values := entry.GetEqualFoldAttributeValues(attr)

		switch len(values) {
		case 0:
		case 1:
			rec.Properties[prop] = values[0]
		default:
			rec.Properties[prop] = append([]string{}, values...)
		}
	}

	if c.Users.Aliases != "" {
		rec.Aliases = append([]string{}, entry.GetEqualFoldAttributeValues(c.Users.Aliases)...)
	}

	return &rec
}
