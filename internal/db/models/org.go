package models

// Org represents an organization grouping one or more mail domains.
type Org struct {
	// ID is the unique identifier for the organization.
	ID uint64 `gorm:"primaryKey"`
	// Memo is a free-form description of the organization.
	Memo string `gorm:"size:128;not null;default:''"`
}
