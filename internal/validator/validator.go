// Package validator performs the field-level input checks that run
// before the service layer: required fields, length limits, and
// uniqueness among non-deleted rows. Failures are aggregated into one
// BadRequest carrying a field-message list.
package validator

import (
	"context"

	"gorm.io/gorm"

	"rbac-backend/internal/apperror"
	"rbac-backend/internal/model"
	"rbac-backend/internal/service"
)

const maxNameLen = 190

type Role struct {
	DB *gorm.DB
}

// Create checks a new role's name: required, bounded, unique among
// live roles.
func (v Role) Create(ctx context.Context, name string) error {
	var fields []apperror.FieldError
	switch {
	case name == "":
		fields = append(fields, apperror.FieldError{Field: "name", Message: "role name is required"})
	case len(name) > maxNameLen:
		fields = append(fields, apperror.FieldError{Field: "name", Message: "role name must be at most 190 characters"})
	default:
		taken, err := v.nameTaken(ctx, name, 0)
		if err != nil {
			return err
		}
		if taken {
			fields = append(fields, apperror.FieldError{Field: "name", Message: "role name must be unique"})
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

// Update checks an updated role name when one is supplied; the row
// being updated does not collide with itself.
func (v Role) Update(ctx context.Context, id uint, name *string) error {
	if name == nil {
		return nil
	}
	var fields []apperror.FieldError
	switch {
	case *name == "":
		fields = append(fields, apperror.FieldError{Field: "name", Message: "role name is required"})
	case len(*name) > maxNameLen:
		fields = append(fields, apperror.FieldError{Field: "name", Message: "role name must be at most 190 characters"})
	default:
		taken, err := v.nameTaken(ctx, *name, id)
		if err != nil {
			return err
		}
		if taken {
			fields = append(fields, apperror.FieldError{Field: "name", Message: "role name must be unique"})
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

func (v Role) nameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := v.DB.WithContext(ctx).Model(&model.Role{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, apperror.Internal(err)
	}
	return count > 0, nil
}

type User struct {
	DB *gorm.DB
}

// RegisterInput mirrors the register payload for validation.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Phone     string
	Password  string
	RoleID    uint
}

// Register collects every field failure of a registration payload
// before returning, so the client sees the complete list at once.
func (v User) Register(ctx context.Context, in RegisterInput) error {
	var fields []apperror.FieldError
	if in.FirstName == "" {
		fields = append(fields, apperror.FieldError{Field: "firstName", Message: "first name is required"})
	} else if len(in.FirstName) > maxNameLen {
		fields = append(fields, apperror.FieldError{Field: "firstName", Message: "first name must be at most 190 characters"})
	}
	if in.LastName == "" {
		fields = append(fields, apperror.FieldError{Field: "lastName", Message: "last name is required"})
	} else if len(in.LastName) > maxNameLen {
		fields = append(fields, apperror.FieldError{Field: "lastName", Message: "last name must be at most 190 characters"})
	}
	if in.Username == "" {
		fields = append(fields, apperror.FieldError{Field: "username", Message: "username is required"})
	} else {
		taken, err := v.usernameTaken(ctx, in.Username, 0)
		if err != nil {
			return err
		}
		if taken {
			fields = append(fields, apperror.FieldError{Field: "username", Message: "username already taken"})
		}
	}
	if in.Phone == "" {
		fields = append(fields, apperror.FieldError{Field: "phone", Message: "phone number is required"})
	}
	if len(in.Password) < 6 {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "password must be at least 6 characters long"})
	}
	if in.RoleID == 0 {
		fields = append(fields, apperror.FieldError{Field: "roleId", Message: "role is required"})
	} else {
		var count int64
		if err := v.DB.WithContext(ctx).Model(&model.Role{}).Where("id = ?", in.RoleID).Count(&count).Error; err != nil {
			return apperror.Internal(err)
		}
		if count == 0 {
			fields = append(fields, apperror.FieldError{Field: "roleId", Message: "role does not exist"})
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}

// Update checks a partial user update for username collisions.
func (v User) Update(ctx context.Context, id uint, username *string) error {
	if username == nil {
		return nil
	}
	if *username == "" {
		return apperror.Validation([]apperror.FieldError{{Field: "username", Message: "username is required"}})
	}
	taken, err := v.usernameTaken(ctx, *username, id)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Validation([]apperror.FieldError{{Field: "username", Message: "username already taken"}})
	}
	return nil
}

func (v User) usernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	q := v.DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", username)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, apperror.Internal(err)
	}
	return count > 0, nil
}

type RolePermissions struct {
	DB *gorm.DB
}

// Replace checks a replacement permission set: a real role, at least
// one entry, known permission ids, and 0/1 flags only.
func (v RolePermissions) Replace(ctx context.Context, roleID uint, perms []service.RolePermissionInput) error {
	var fields []apperror.FieldError
	if roleID == 0 {
		fields = append(fields, apperror.FieldError{Field: "roleId", Message: "roleId must be a positive number"})
	}
	if len(perms) == 0 {
		fields = append(fields, apperror.FieldError{Field: "permissions", Message: "permissions must be a non-empty array"})
	}
	for _, p := range perms {
		if p.PermissionID == 0 {
			fields = append(fields, apperror.FieldError{Field: "permissions.permissionId", Message: "permissionId must be a positive number"})
			continue
		}
		var count int64
		if err := v.DB.WithContext(ctx).Model(&model.Permission{}).Where("id = ?", p.PermissionID).Count(&count).Error; err != nil {
			return apperror.Internal(err)
		}
		if count == 0 {
			fields = append(fields, apperror.FieldError{Field: "permissions.permissionId", Message: "permission does not exist"})
		}
		for _, flag := range []int{p.Add, p.Edit, p.Remove, p.View} {
			if flag != 0 && flag != 1 {
				fields = append(fields, apperror.FieldError{Field: "permissions", Message: "action flags must be 0 or 1"})
				break
			}
		}
	}
	if len(fields) > 0 {
		return apperror.Validation(fields)
	}
	return nil
}
