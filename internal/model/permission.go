package model

import (
	"time"

	"gorm.io/gorm"
)

// Permission names a capability domain ("Users", "Roles", "Permissions").
// The action flags live on RolePermission, not here.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// RolePermission grants a role the four action flags for one permission
// domain. 1 means allowed. Rows are never edited in place: updating a
// role's permissions deletes the old set and inserts the new one, so at
// most one live row exists per (RoleID, PermissionID).
type RolePermission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RoleID       uint           `gorm:"not null;index" json:"roleId"`
	PermissionID uint           `gorm:"not null;index" json:"permissionId"`
	Permission   *Permission    `gorm:"foreignKey:PermissionID" json:"permission,omitempty"`
	Add          int            `gorm:"not null;default:0" json:"add"`
	Edit         int            `gorm:"not null;default:0" json:"edit"`
	Remove       int            `gorm:"not null;default:0" json:"remove"`
	View         int            `gorm:"not null;default:0" json:"view"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
