package auth

import (
	"sort"
	"strconv"
)

// Permission names accepted by Create and stored in permission grants.
const (
	PermSystemAdmin = "SystemAdmin"
	PermDomainAdmin = "DomainAdmin"
	PermOrgAdmin    = "OrgAdmin"
	PermDomainPurge = "DomainPurge"
)

// wildcardParam matches any ID when used as a grant parameter.
const wildcardParam = "*"

// Permission is a single granted capability, possibly parameterized.
type Permission interface {
	// Permits reports whether the requested permission is covered by this one.
	Permits(requested Permission) bool
	// Capabilities lists the capability names this permission provides.
	Capabilities() []string
}

// Permissions is the set of permissions held by a user.
type Permissions []Permission

// Has reports whether the requested permission is covered by any permission in the set.
func (p Permissions) Has(requested Permission) bool {
	for _, perm := range p {
		if perm.Permits(requested) {
			return true
		}
	}

	return false
}

// Capabilities returns the sorted union of capabilities of all permissions in the set.
func (p Permissions) Capabilities() []string {
	seen := map[string]struct{}{}
	for _, perm := range p {
		for _, capability := range perm.Capabilities() {
			seen[capability] = struct{}{}
		}
	}

	caps := make([]string, 0, len(seen))
	for capability := range seen {
		caps = append(caps, capability)
	}
	sort.Strings(caps)

	return caps
}

// Sysadmin returns a permission set holding full system admin permissions.
func Sysadmin() Permissions {
	return Permissions{SystemAdminPermission{}}
}

// SystemAdminPermission permits every action.
type SystemAdminPermission struct{}

// Permits always returns true.
func (SystemAdminPermission) Permits(Permission) bool { return true }

// Capabilities returns the SystemAdmin capability.
func (SystemAdminPermission) Capabilities() []string { return []string{PermSystemAdmin} }

// DomainAdminPermission represents admin permissions for a specific mail
// domain, or for all domains when constructed with AnyDomainAdmin.
//
// The wildcard is permissive in both directions: requesting AnyDomainAdmin()
// from a specific grant and requesting a specific domain from a wildcard
// grant both succeed.
type DomainAdminPermission struct {
	domainID uint64
	wildcard bool
}

// DomainAdmin returns the admin permission for a single domain.
func DomainAdmin(domainID uint64) DomainAdminPermission {
	return DomainAdminPermission{domainID: domainID}
}

// AnyDomainAdmin returns the admin permission matching every domain.
func AnyDomainAdmin() DomainAdminPermission {
	return DomainAdminPermission{wildcard: true}
}

// Permits reports whether the requested domain admin permission is covered.
func (p DomainAdminPermission) Permits(requested Permission) bool {
	req, ok := requested.(DomainAdminPermission)
	if !ok {
		return false
	}

	return p.wildcard || req.wildcard || p.domainID == req.domainID
}

// Capabilities returns the DomainAdmin capability.
func (DomainAdminPermission) Capabilities() []string { return []string{PermDomainAdmin} }

// DomainID returns the domain parameter and whether it is the wildcard.
func (p DomainAdminPermission) DomainID() (uint64, bool) { return p.domainID, p.wildcard }

// OrgAdminPermission represents admin permissions for an organization.
//
// An organization admin automatically holds DomainAdminPermission for each
// domain belonging to the organization; the domain list is resolved when the
// grant is loaded from the database. Additionally, an organization admin can
// modify and delete domains.
type OrgAdminPermission struct {
	orgID    uint64
	wildcard bool
	domains  []uint64
}

// OrgAdmin returns the admin permission for a single organization.
func OrgAdmin(orgID uint64) OrgAdminPermission {
	return OrgAdminPermission{orgID: orgID}
}

// AnyOrgAdmin returns the admin permission matching every organization.
func AnyOrgAdmin() OrgAdminPermission {
	return OrgAdminPermission{wildcard: true}
}

// WithDomains returns a copy of the permission that also covers the given
// domain IDs.
func (p OrgAdminPermission) WithDomains(domainIDs []uint64) OrgAdminPermission {
	p.domains = domainIDs
	return p
}

// Permits reports whether the requested org or domain admin permission is covered.
func (p OrgAdminPermission) Permits(requested Permission) bool {
	switch req := requested.(type) {
	case OrgAdminPermission:
		return p.wildcard || req.wildcard || p.orgID == req.orgID
	case DomainAdminPermission:
		if p.wildcard || req.wildcard {
			return true
		}
		for _, id := range p.domains {
			if id == req.domainID {
				return true
			}
		}
	}

	return false
}

// Capabilities returns the DomainAdmin and OrgAdmin capabilities.
func (OrgAdminPermission) Capabilities() []string {
	return []string{PermDomainAdmin, PermOrgAdmin}
}

// OrgID returns the organization parameter and whether it is the wildcard.
func (p OrgAdminPermission) OrgID() (uint64, bool) { return p.orgID, p.wildcard }

// DomainPurgePermission allows purging domain data. It does not grant
// permission to delete a domain on its own and is only effective combined
// with an org admin permission.
type DomainPurgePermission struct{}

// Permits reports whether the requested permission is a domain purge permission.
func (DomainPurgePermission) Permits(requested Permission) bool {
	_, ok := requested.(DomainPurgePermission)
	return ok
}

// Capabilities returns the DomainPurge capability.
func (DomainPurgePermission) Capabilities() []string { return []string{PermDomainPurge} }

// KnownPermissions lists the permission names accepted by Create.
func KnownPermissions() []string {
	return []string{PermSystemAdmin, PermDomainAdmin, PermOrgAdmin, PermDomainPurge}
}

// Create builds a permission from its stored name and parameter.
func Create(name, params string) (Permission, error) {
	switch name {
	case PermSystemAdmin:
		return SystemAdminPermission{}, nil
	case PermDomainAdmin:
		if params == wildcardParam {
			return AnyDomainAdmin(), nil
		}
		id, err := strconv.ParseUint(params, 10, 64)
		if err != nil {
			return nil, ErrInvalidParameter
		}
		return DomainAdmin(id), nil
	case PermOrgAdmin:
		if params == wildcardParam {
			return AnyOrgAdmin(), nil
		}
		id, err := strconv.ParseUint(params, 10, 64)
		if err != nil {
			return nil, ErrInvalidParameter
		}
		return OrgAdmin(id), nil
	case PermDomainPurge:
		return DomainPurgePermission{}, nil
	default:
		return nil, ErrUnknownPermission
	}
}
