package directory

import "errors"

var (
	// ErrMissingField is returned when the directory configuration lacks a mandatory field.
	// The error is wrapped with the name of the offending field.
	ErrMissingField = errors.New("incomplete directory configuration")

	// ErrUnknownTemplate is returned when the configuration enables an attribute
	// template that is not present in the bundled template table.
	ErrUnknownTemplate = errors.New("unknown attribute template")

	// ErrNotConfigured is returned by Authenticate when the directory service is
	// disabled or was never configured. All other operations return empty results
	// instead, so callers do not need to branch on availability separately.
	ErrNotConfigured = errors.New("directory service not configured")

	// ErrBindFailed is returned when the directory server rejects the service bind.
	// The server's description and message are included in the wrapped error.
	ErrBindFailed = errors.New("directory bind failed")

	// ErrPoolExhausted is returned when no server in the configured pool is reachable.
	ErrPoolExhausted = errors.New("no directory server reachable")

	// ErrInvalidCredentials is returned when authentication fails because the user
	// does not exist or the supplied password is wrong. The two cases are deliberately
	// indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMultipleEntries is returned when a query for a single object ID matched
	// more than one directory entry. This indicates a data integrity problem in the
	// directory and warrants operator attention.
	ErrMultipleEntries = errors.New("multiple entries found")
)
