package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rbac-backend/internal/apperror"
	"rbac-backend/internal/model"
)

// Action names one of the four flags of a permission domain.
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionRemove Action = "remove"
	ActionView   Action = "view"
)

// Required is one (permission domain, action) pair a route demands.
type Required struct {
	Permission string
	Action     Action
}

// ScopeEntry is a role's flag set for one permission domain; the shape
// embedded into issued tokens.
type ScopeEntry struct {
	Permission string `json:"permission"`
	Add        int    `json:"add"`
	Edit       int    `json:"edit"`
	Remove     int    `json:"remove"`
	View       int    `json:"view"`
}

// RolePermissionInput is one row of a replacement permission set.
type RolePermissionInput struct {
	PermissionID uint `json:"permissionId"`
	Add          int  `json:"add"`
	Edit         int  `json:"edit"`
	Remove       int  `json:"remove"`
	View         int  `json:"view"`
}

// PermissionService decides whether a user's role grants the actions a
// route requires, and maintains role permission sets.
type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// Check verifies that the user's role grants every entry of required.
// The list is all-or-nothing: one missing domain or one flag not equal
// to 1 denies the whole request with Forbidden. A missing user is
// NotFound, never Forbidden.
func (s *PermissionService) Check(ctx context.Context, userID uint, required []Required) error {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("user not found")
	}
	if err != nil {
		return apperror.Internal(err)
	}

	scope, err := s.ScopeForRole(ctx, user.RoleID)
	if err != nil {
		return err
	}
	byName := make(map[string]ScopeEntry, len(scope))
	for _, entry := range scope {
		byName[entry.Permission] = entry
	}

	for _, req := range required {
		entry, ok := byName[req.Permission]
		if !ok || entry.flag(req.Action) != 1 {
			return apperror.Forbidden("not authorized for this action")
		}
	}
	return nil
}

func (e ScopeEntry) flag(a Action) int {
	switch a {
	case ActionAdd:
		return e.Add
	case ActionEdit:
		return e.Edit
	case ActionRemove:
		return e.Remove
	case ActionView:
		return e.View
	}
	return 0
}

// ScopeForRole returns the role's live permission rows joined with
// their domain names.
func (s *PermissionService) ScopeForRole(ctx context.Context, roleID uint) ([]ScopeEntry, error) {
	var rows []model.RolePermission
	err := s.db.WithContext(ctx).
		Preload("Permission").
		Where("role_id = ?", roleID).
		Find(&rows).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}

	scope := make([]ScopeEntry, 0, len(rows))
	for _, rp := range rows {
		name := ""
		if rp.Permission != nil {
			name = rp.Permission.Name
		}
		scope = append(scope, ScopeEntry{
			Permission: name,
			Add:        rp.Add,
			Edit:       rp.Edit,
			Remove:     rp.Remove,
			View:       rp.View,
		})
	}
	return scope, nil
}

// ReplaceForRole writes a role's full permission set: every existing
// row for the role is removed (soft-deleted rows included) and the new
// set inserted as one batch, inside a single transaction. No diffing.
func (s *PermissionService) ReplaceForRole(ctx context.Context, roleID uint, perms []RolePermissionInput) error {
	var role model.Role
	err := s.db.WithContext(ctx).First(&role, "id = ?", roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("role not found")
	}
	if err != nil {
		return apperror.Internal(err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("role_id = ?", roleID).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		if len(perms) == 0 {
			return nil
		}
		rows := make([]model.RolePermission, 0, len(perms))
		for _, p := range perms {
			rows = append(rows, model.RolePermission{
				RoleID:       roleID,
				PermissionID: p.PermissionID,
				Add:          p.Add,
				Edit:         p.Edit,
				Remove:       p.Remove,
				View:         p.View,
			})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return apperror.Internal(fmt.Errorf("replace permissions for role %d: %w", roleID, err))
	}
	return nil
}

// ClearForRole removes a role's whole permission set.
func (s *PermissionService) ClearForRole(ctx context.Context, roleID uint) error {
	return s.ReplaceForRole(ctx, roleID, nil)
}
