package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rbac-backend/internal/model"
	"rbac-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	reg    *service.Registry
	router *gin.Engine
}

// setupEnv builds a full router over an in-memory database seeded with
// the three permission domains, an Admin role with every flag, and an
// admin user (admin/admin123).
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.Role{}, &model.Permission{}, &model.RolePermission{}, &model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	admin := model.Role{Name: "Admin", Status: 1}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed role: %v", err)
	}
	for _, name := range []string{"Users", "Roles", "Permissions"} {
		perm := model.Permission{Name: name}
		if err := db.Create(&perm).Error; err != nil {
			t.Fatalf("seed permission: %v", err)
		}
		rp := model.RolePermission{RoleID: admin.ID, PermissionID: perm.ID, Add: 1, Edit: 1, Remove: 1, View: 1}
		if err := db.Create(&rp).Error; err != nil {
			t.Fatalf("seed role permission: %v", err)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := model.User{
		FirstName: "System",
		LastName:  "Admin",
		Username:  "admin",
		Phone:     "0000000000",
		Password:  string(hash),
		Status:    1,
		RoleID:    admin.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	reg := service.NewRegistry(db, []byte("test-secret"), "rbac-backend", time.Hour)
	return &testEnv{db: db, reg: reg, router: NewRouter(zap.NewNop(), db, reg)}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login as %q: status %d, body %s", username, rec.Code, rec.Body.String())
	}
	var body struct {
		Result struct {
			Token string `json:"token"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if body.Result.Token == "" {
		t.Fatal("login response missing token")
	}
	return body.Result.Token
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}
