package models

// UserPermission stores a single permission grant for a user.
// Permission names and parameter semantics are defined by the auth package.
type UserPermission struct {
	// ID is the unique identifier for the grant.
	ID uint64 `gorm:"primaryKey"`
	// UserID is the ID of the user the permission is granted to.
	UserID uint64 `gorm:"column:user_id;not null;index"`
	// Permission is the registered name of the permission.
	Permission string `gorm:"size:64;not null"`
	// Params is the permission parameter ("*", a numeric ID, or empty).
	Params string `gorm:"size:64"`
}
