package model

import (
	"time"
)

// User represents an account that can authenticate and hold a role.
// Unlike the other entities, users are hard-deleted: there is no
// DeletedAt column, so a delete removes the row.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"type:varchar(191);not null" json:"firstName"`
	LastName  string    `gorm:"type:varchar(191);not null" json:"lastName"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"username"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	Status    int       `gorm:"not null;default:1" json:"status"`
	RoleID    uint      `gorm:"not null;index" json:"roleId"`
	Role      *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Token     *string   `gorm:"type:text" json:"-"` // current session token; nil when logged out
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
