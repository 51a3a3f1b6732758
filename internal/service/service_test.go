package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rbac-backend/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.Role{}, &model.Permission{}, &model.RolePermission{}, &model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedRole(t *testing.T, db *gorm.DB, name string) model.Role {
	t.Helper()
	role := model.Role{Name: name, Status: 1}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("seed role %q: %v", name, err)
	}
	return role
}

func seedPermission(t *testing.T, db *gorm.DB, name string) model.Permission {
	t.Helper()
	perm := model.Permission{Name: name}
	if err := db.Create(&perm).Error; err != nil {
		t.Fatalf("seed permission %q: %v", name, err)
	}
	return perm
}

func seedUser(t *testing.T, db *gorm.DB, username string, roleID uint) model.User {
	t.Helper()
	user := model.User{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Password:  "irrelevant",
		Status:    1,
		RoleID:    roleID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return user
}

func roleDescriptor() Descriptor {
	return Descriptor{
		Insertable: []string{"name", "status"},
		Updatable:  []string{"name", "status"},
		Filterable: []string{"id", "name", "status"},
		Guards: []Guard{
			{Model: &model.User{}, ForeignKey: "role_id"},
			{Model: &model.RolePermission{}, ForeignKey: "role_id"},
		},
	}
}
