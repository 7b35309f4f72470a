package user

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mailfort/mailfort-admin/internal/db/models"
	"github.com/mailfort/mailfort-admin/internal/directory"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	// Migrate the schema
	err = db.AutoMigrate(&models.User{}, &models.Alias{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedUsers inserts test data into the database.
func seedUsers(t *testing.T, db *gorm.DB, users []models.User) {
	t.Helper()
	for _, user := range users {
		err := db.Create(&user).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		username      string
		seedData      []models.User
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			username:      "jdoe@example.com",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty username",
			dbParam:       db,
			username:      "",
			expectedError: ErrUsernameEmpty,
		},
		{
			name:          "not found",
			dbParam:       db,
			username:      "nobody@example.com",
			expectedError: ErrUserNotFound,
		},
		{
			name:     "existing user",
			dbParam:  db,
			username: "jdoe@example.com",
			seedData: []models.User{
				{Username: "jdoe@example.com", DisplayName: "John Doe"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seedUsers(t, db, tc.seedData)

			user, err := Get(tc.dbParam, tc.username)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, user)
			assert.Equal(t, tc.username, user.Username)
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	user, err := Create(db, "admin@example.com", models.HashPassword("changeme"))
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.AuthSourceLocal, user.AuthSource)
	assert.True(t, user.VerifyPassword("changeme"))
	assert.False(t, user.VerifyPassword("wrong"))

	_, err = Create(db, "admin@example.com", models.HashPassword("other"))
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = Create(db, "", "")
	assert.ErrorIs(t, err, ErrUsernameEmpty)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	seedUsers(t, db, []models.User{{Username: "jdoe@example.com"}})
	require.NoError(t, db.Create(&models.Alias{AliasName: "john@example.com", MainName: "jdoe@example.com"}).Error)

	require.NoError(t, Delete(db, "jdoe@example.com"))

	_, err := Get(db, "jdoe@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	aliases, err := Aliases(db, "jdoe@example.com")
	require.NoError(t, err)
	assert.Empty(t, aliases)

	assert.ErrorIs(t, Delete(db, "jdoe@example.com"), ErrUserNotFound)
}

func TestImportFromDirectoryCreates(t *testing.T) {
	db := setupTestDB(t)

	record := &directory.DownsyncRecord{
		Username: "jdoe@example.com",
		Properties: map[string]any{
			"storagequotalimit": "1024",
			"displayname":       "John Doe",
		},
		Aliases: []string{"john@example.com", "j.doe@example.com"},
	}

	user, err := ImportFromDirectory(db, []byte{0xde, 0xad, 0xbe, 0xef}, record)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.AuthSourceLDAP, user.AuthSource)
	assert.Equal(t, "deadbeef", user.ExternalID)
	assert.Equal(t, "John Doe", user.DisplayName)
	assert.Equal(t, "1024", user.Properties["storagequotalimit"])

	aliases, err := Aliases(db, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"j.doe@example.com", "john@example.com"}, aliases)
}

func TestImportFromDirectoryUpdatesByExternalID(t *testing.T) {
	db := setupTestDB(t)

	first := &directory.DownsyncRecord{
		Username:   "jdoe@example.com",
		Properties: map[string]any{"storagequotalimit": "1024"},
		Aliases:    []string{"john@example.com"},
	}
	_, err := ImportFromDirectory(db, []byte{0x01}, first)
	require.NoError(t, err)

	// The directory entry was renamed; the same object ID must update the
	// existing account instead of creating a second one.
	renamed := &directory.DownsyncRecord{
		Username:   "john.doe@example.com",
		Properties: map[string]any{"storagequotalimit": "2048"},
		Aliases:    []string{},
	}
	user, err := ImportFromDirectory(db, []byte{0x01}, renamed)
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", user.Username)
	assert.Equal(t, "2048", user.Properties["storagequotalimit"])

	users, err := GetAll(db)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	// An empty alias list replaces the previous aliases.
	aliases, err := Aliases(db, "john.doe@example.com")
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestImportFromDirectoryKeepsAliasesWhenUnconfigured(t *testing.T) {
	db := setupTestDB(t)

	seeded := &directory.DownsyncRecord{
		Username:   "jdoe@example.com",
		Properties: map[string]any{},
		Aliases:    []string{"john@example.com"},
	}
	_, err := ImportFromDirectory(db, []byte{0x02}, seeded)
	require.NoError(t, err)

	// A nil alias list means no alias attribute is configured; existing
	// aliases stay untouched.
	update := &directory.DownsyncRecord{
		Username:   "jdoe@example.com",
		Properties: map[string]any{},
	}
	_, err = ImportFromDirectory(db, []byte{0x02}, update)
	require.NoError(t, err)

	aliases, err := Aliases(db, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"john@example.com"}, aliases)
}

func TestImportFromDirectoryValidation(t *testing.T) {
	db := setupTestDB(t)

	_, err := ImportFromDirectory(nil, nil, &directory.DownsyncRecord{Username: "x"})
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = ImportFromDirectory(db, nil, nil)
	assert.ErrorIs(t, err, ErrUsernameEmpty)

	_, err = ImportFromDirectory(db, nil, &directory.DownsyncRecord{})
	assert.ErrorIs(t, err, ErrUsernameEmpty)
}
