package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"rbac-backend/internal/model"
)

func TestRoleCreate(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPost, "/api/v1/role/create", token, gin.H{"name": "Manager"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	result, _ := body["result"].(map[string]any)
	if result["name"] != "Manager" {
		t.Fatalf("result = %v", result)
	}
	// Status defaults to active when the payload omits it.
	if result["status"] != float64(1) {
		t.Fatalf("status = %v, want 1", result["status"])
	}
	if result["id"] == nil || result["id"] == float64(0) {
		t.Fatal("expected generated id in result")
	}
}

func TestRoleCreateDuplicateName(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPost, "/api/v1/role/create", token, gin.H{"name": "Admin"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if body["status"] != "fail" {
		t.Fatalf("envelope status = %v", body["status"])
	}
	if body["errors"] == nil {
		t.Fatal("expected field errors")
	}

	var count int64
	if err := env.db.Model(&model.Role{}).Where("name = ?", "Admin").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate create must not add a row, count = %d", count)
	}
}

func TestRoleCreateMissingName(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPost, "/api/v1/role/create", token, gin.H{"status": 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRoleListPaginated(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")
	for _, name := range []string{"A", "B", "C"} {
		if err := env.db.Create(&model.Role{Name: name, Status: 1}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/v1/role/all?page=1&limit=2&orderBy=name:asc", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	result, _ := body["result"].(map[string]any)
	items, _ := result["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	page, _ := result["pagination"].(map[string]any)
	if page["totalRecords"] != float64(4) || page["totalPages"] != float64(2) {
		t.Fatalf("pagination = %v", page)
	}
	if page["currentPage"] != float64(1) || page["recordsPerPage"] != float64(2) {
		t.Fatalf("pagination echo = %v", page)
	}
}

func TestRoleListFilterByName(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")
	if err := env.db.Create(&model.Role{Name: "Warehouse Manager", Status: 1}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/role/all?name=manag", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	result, _ := body["result"].(map[string]any)
	items, _ := result["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
}

func TestRoleUpdate(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")
	role := model.Role{Name: "Before", Status: 1}
	if err := env.db.Create(&role).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := env.do(t, http.MethodPut, "/api/v1/role/2", token, gin.H{"name": "After", "status": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	result, _ := body["result"].(map[string]any)
	if result["name"] != "After" || result["status"] != float64(0) {
		t.Fatalf("result = %v", result)
	}
}

func TestRoleUpdateMissing(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPut, "/api/v1/role/999", token, gin.H{"name": "Ghost"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestRoleDeleteConflictWhenReferenced(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")

	// The seeded Admin role carries the admin user and permission rows.
	rec := env.do(t, http.MethodDelete, "/api/v1/role/1", token, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	var role model.Role
	if err := env.db.First(&role, 1).Error; err != nil {
		t.Fatalf("guarded role must still be live: %v", err)
	}
}

func TestRoleDeleteEmptyRole(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")
	role := model.Role{Name: "Disposable", Status: 1}
	if err := env.db.Create(&role).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := env.do(t, http.MethodDelete, "/api/v1/role/2", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, "/api/v1/role/2", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted role fetch: status %d", rec.Code)
	}
}

func TestRoleRoutesRequireAuth(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/role/all", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/v1/role/all", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", rec.Code)
	}
}
