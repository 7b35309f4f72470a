package auth

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mailfort/mailfort-admin/internal/db/models"
	"github.com/mailfort/mailfort-admin/internal/directory"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db  *gorm.DB
	dir *directory.Service
}

// NewService creates a new auth service. The directory service may be nil when
// no directory is configured; directory accounts then fail to authenticate.
func NewService(db *gorm.DB, dir *directory.Service) *Service {
	return &Service{db: db, dir: dir}
}

// Authenticate verifies a user's credentials, dispatching on the account's
// auth source.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	switch user.AuthSource {
	case models.AuthSourceLDAP:
		if s.dir == nil {
			return nil, ErrDirectoryUnavailable
		}
		externalID, err := hex.DecodeString(user.ExternalID)
		if err != nil || len(externalID) == 0 {
			return nil, ErrDirectoryUnavailable
		}
		if err := s.dir.Authenticate(string(externalID), password); err != nil {
			return nil, fmt.Errorf("directory authentication failed: %w", err)
		}
	default:
		if !user.VerifyPassword(password) {
			return nil, ErrInvalidPassword
		}
	}

	return &user, nil
}

// UserPermissions assembles the permission set of a user from its stored
// grants. Grants with unknown names or malformed parameters are skipped with
// a warning so one bad row cannot lock out the account entirely.
func (s *Service) UserPermissions(userID uint64) (Permissions, error) {
	var grants []models.UserPermission
	if err := s.db.Where("user_id = ?", userID).Find(&grants).Error; err != nil {
		return nil, fmt.Errorf("failed to load permission grants: %w", err)
	}

	perms := make(Permissions, 0, len(grants))
	for _, grant := range grants {
		perm, err := Create(grant.Permission, grant.Params)
		if err != nil {
			log.Warn().Uint64("user", userID).Str("permission", grant.Permission).
				Msgf("skipping permission grant: %v", err)
			continue
		}

		if orgAdmin, ok := perm.(OrgAdminPermission); ok {
			perm, err = s.resolveOrgDomains(orgAdmin)
			if err != nil {
				return nil, err
			}
		}

		perms = append(perms, perm)
	}

	return perms, nil
}

// resolveOrgDomains attaches the organization's domain IDs to an org admin
// grant so domain-level checks work without further queries.
func (s *Service) resolveOrgDomains(perm OrgAdminPermission) (Permission, error) {
	orgID, wildcard := perm.OrgID()
	if wildcard {
		return perm, nil
	}

	var domainIDs []uint64
	err := s.db.Model(&models.Domain{}).Where("org_id = ?", orgID).Pluck("id", &domainIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve organization domains: %w", err)
	}

	return perm.WithDomains(domainIDs), nil
}

// Grant stores a permission grant for a user after validating it.
func (s *Service) Grant(userID uint64, name, params string) error {
	if _, err := Create(name, params); err != nil {
		return err
	}

	grant := models.UserPermission{UserID: userID, Permission: name, Params: params}

	return s.db.Create(&grant).Error
}

// Revoke removes all grants of the named permission from a user.
func (s *Service) Revoke(userID uint64, name string) error {
	return s.db.Where("user_id = ? AND permission = ?", userID, name).
		Delete(&models.UserPermission{}).Error
}
