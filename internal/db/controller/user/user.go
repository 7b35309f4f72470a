// Package user provides CRUD operations for managing mail user accounts.
package user

import (
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	"github.com/mailfort/mailfort-admin/internal/db/models"
	"github.com/mailfort/mailfort-admin/internal/directory"
)

const (
	usernameQueryPattern = "username = ?"
	mainNameQueryPattern = "mainname = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameEmpty is returned when attempting to create/update a user with an empty username.
	ErrUsernameEmpty = errors.New("username cannot be empty")
	// ErrUserAlreadyExists is returned when attempting to create a user that already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a user by username.
func Get(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	var user models.User
	result := db.Where(usernameQueryPattern, username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetByID retrieves a user by ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetAll retrieves all users from the database.
func GetAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	result := db.Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Create creates a new local user with the given hashed password.
func Create(db *gorm.DB, username, hashedPassword string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	var existing models.User
	result := db.Where(usernameQueryPattern, username).First(&existing)
	if result.Error == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	user := &models.User{
		Username:   username,
		Password:   hashedPassword,
		AuthSource: models.AuthSourceLocal,
	}

	result = db.Create(user)
	if result.Error != nil {
		return nil, result.Error
	}

	return user, nil
}

// Delete removes a user by username, along with any aliases pointing at it.
func Delete(db *gorm.DB, username string) error {
	if db == nil {
		return ErrDBNil
	}
	if username == "" {
		return ErrUsernameEmpty
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where(usernameQueryPattern, username).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return tx.Where(mainNameQueryPattern, username).Delete(&models.Alias{}).Error
	})
}

// ImportFromDirectory creates or updates a user from a directory record.
// The external object ID ties the account to its directory entry, so a
// renamed entry updates the existing account instead of creating a second
// one. Aliases are replaced when the record carries an alias list and left
// untouched when it does not.
func ImportFromDirectory(db *gorm.DB, externalID []byte, record *directory.DownsyncRecord) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if record == nil || record.Username == "" {
		return nil, ErrUsernameEmpty
	}

	extID := hex.EncodeToString(externalID)

	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("external_id = ?", extID).First(&user)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			result = tx.Where(usernameQueryPattern, record.Username).First(&user)
		}
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		user.Username = record.Username
		user.AuthSource = models.AuthSourceLDAP
		user.ExternalID = extID
		user.Properties = record.Properties
		if name, ok := record.Properties["displayname"].(string); ok {
			user.DisplayName = name
		}

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		if record.Aliases == nil {
			return nil
		}

		if err := tx.Where(mainNameQueryPattern, user.Username).Delete(&models.Alias{}).Error; err != nil {
			return err
		}
		for _, alias := range record.Aliases {
			if err := tx.Create(&models.Alias{AliasName: alias, MainName: user.Username}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Aliases returns the alias addresses registered for a username.
func Aliases(db *gorm.DB, username string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []models.Alias
	if err := db.Where(mainNameQueryPattern, username).Order("aliasname").Find(&rows).Error; err != nil {
		return nil, err
	}

	aliases := make([]string, 0, len(rows))
	for _, row := range rows {
		aliases = append(aliases, row.AliasName)
	}

	return aliases, nil
}
