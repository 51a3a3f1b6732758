package model

import (
	"time"

	"gorm.io/gorm"
)

// Role groups users under a permission matrix. Deleting a role is a soft
// delete, and is blocked while live users or role-permission rows still
// reference it.
type Role struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(191);uniqueIndex;not null" json:"name"`
	Status    int            `gorm:"not null;default:1" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
