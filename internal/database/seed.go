package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rbac-backend/internal/model"
)

// Seed provisions the capability domains, an Admin role with the full
// permission matrix, and an initial admin account. It is idempotent:
// existing rows are left untouched.
func Seed(db *gorm.DB) error {
	domains := []string{"Users", "Roles", "Permissions"}
	perms := make([]model.Permission, 0, len(domains))
	for _, name := range domains {
		p := model.Permission{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("seed permission %q: %w", name, err)
		}
		perms = append(perms, p)
	}

	admin := model.Role{Name: "Admin", Status: 1}
	if err := db.Where("name = ?", admin.Name).FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("seed admin role: %w", err)
	}

	for _, p := range perms {
		rp := model.RolePermission{
			RoleID:       admin.ID,
			PermissionID: p.ID,
			Add:          1,
			Edit:         1,
			Remove:       1,
			View:         1,
		}
		err := db.Where("role_id = ? AND permission_id = ?", admin.ID, p.ID).
			FirstOrCreate(&rp).Error
		if err != nil {
			return fmt.Errorf("seed role permission %q: %w", p.Name, err)
		}
	}

	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := model.User{
			FirstName: "System",
			LastName:  "Admin",
			Username:  "admin",
			Password:  string(hash),
			Status:    1,
			RoleID:    admin.ID,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
	}
	return nil
}
