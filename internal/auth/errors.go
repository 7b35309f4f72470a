package auth

import "errors"

var (
	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnknownPermission is returned when creating a permission with an unregistered name.
	ErrUnknownPermission = errors.New("unknown permission")

	// ErrInvalidParameter is returned when a permission parameter is neither an ID nor "*".
	ErrInvalidParameter = errors.New("permission parameter must be an ID or '*'")

	// ErrDirectoryUnavailable is returned when a directory account is authenticated
	// while the directory service is not configured.
	ErrDirectoryUnavailable = errors.New("directory service unavailable")
)
