package service

import (
	"time"

	"gorm.io/gorm"

	"rbac-backend/internal/model"
	"rbac-backend/internal/repository"
)

// Registry holds every service instance. It is built once at startup
// and read-only afterwards; handlers receive it explicitly.
type Registry struct {
	Roles       *Entity[model.Role]
	Users       *Entity[model.User]
	Permissions *PermissionService
	Auth        *AuthService
	UserRepo    repository.UserRepository
}

func NewRegistry(db *gorm.DB, jwtSecret []byte, jwtIssuer string, tokenTTL time.Duration) *Registry {
	userRepo := repository.NewUserRepository(db)
	perms := NewPermissionService(db)

	roles := NewEntity[model.Role](db, Descriptor{
		Insertable: []string{"name", "status"},
		Updatable:  []string{"name", "status"},
		Filterable: []string{"id", "name", "status"},
		Guards: []Guard{
			{Model: &model.User{}, ForeignKey: "role_id"},
			{Model: &model.RolePermission{}, ForeignKey: "role_id"},
		},
	})

	// User create goes through the register flow (password hashing), so
	// the insertable list stays empty here.
	users := NewEntity[model.User](db, Descriptor{
		Updatable:  []string{"firstName", "lastName", "username", "phone", "status", "roleId"},
		Filterable: []string{"id", "firstName", "lastName", "username", "phone", "status", "roleId"},
	})

	return &Registry{
		Roles:       roles,
		Users:       users,
		Permissions: perms,
		Auth:        NewAuthService(userRepo, perms, jwtSecret, jwtIssuer, tokenTTL),
		UserRepo:    userRepo,
	}
}
