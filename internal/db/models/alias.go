package models

// Alias maps an alternative e-mail address to a main address.
type Alias struct {
	// ID is the unique identifier for the alias.
	ID uint64 `gorm:"primaryKey"`
	// AliasName is the alternative e-mail address.
	AliasName string `gorm:"column:aliasname;size:128;not null;unique"`
	// MainName is the e-mail address the alias resolves to.
	MainName string `gorm:"column:mainname;size:128;not null;index"`
}
