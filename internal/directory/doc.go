// Package directory implements the resilient LDAP client and synchronization
// layer that connects the user-management backend to an external identity store.
//
// The package is built from five cooperating parts:
//
//   - Config carries the directory connection and query settings and validates
//     itself into a flat attribute map, resolving bundled attribute templates.
//   - The filter builders compile LDAP filter expressions from configuration
//     plus caller input, escaping all externally supplied values.
//   - The connection guard wraps the live *ldap.Conn behind a small interface,
//     lazily connects against a pool of candidate servers and transparently
//     reconnects exactly once when a transport-level fault interrupts a search.
//   - The record normalizers check raw entries for completeness and shape them
//     into search results and downsync records.
//   - Service composes the above into the public operation set (Authenticate,
//     GetUserInfo, GetAll, SearchUsers, DownsyncUser, DumpUser) with an explicit
//     Reload/Disable lifecycle and atomic configuration swap semantics.
//
// When the service is administratively disabled every operation returns an
// empty result rather than an error, so the backend keeps working without a
// directory configured.
//
// Example:
//
//	svc := directory.NewService(&cfg.LDAP)
//	if err := svc.Authenticate("jdoe", password); err != nil {
//	    // invalid credentials, ambiguous account, or service not configured
//	}
//	rec, err := svc.DownsyncUser(objectID, nil)
package directory
