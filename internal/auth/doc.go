// Package auth provides authentication and authorization functionality for the application.
//
// Authentication dispatches on the account's auth source: local accounts are
// verified against their Argon2id password hash, directory accounts are bound
// against the LDAP service.
//
// Authorization uses parameterized permissions instead of static roles. A
// grant is a named permission plus an optional parameter (a domain or
// organization ID, or "*" for all). Grants are stored per user and assembled
// into a Permissions set:
//   - SystemAdmin permits everything
//   - DomainAdmin(id|*) permits administration of one or all mail domains
//   - OrgAdmin(id|*) implies DomainAdmin for every domain of the organization
//   - DomainPurge allows purging domain data, effective only combined with
//     an admin permission
//
// Checks are expressed as "does this set permit that permission":
//
//	perms, _ := authService.UserPermissions(userID)
//	if !perms.Has(auth.DomainAdmin(domainID)) { ... }
package auth
