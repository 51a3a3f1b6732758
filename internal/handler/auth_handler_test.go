package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLoginSuccess(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "admin",
		"password": "admin123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	result, _ := body["result"].(map[string]any)
	if result["username"] != "admin" {
		t.Fatalf("result = %v", result)
	}
	if result["token"] == "" || result["token"] == nil {
		t.Fatal("expected token in login result")
	}
	if _, leaked := result["password"]; leaked {
		t.Fatal("password leaked into login result")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := setupEnv(t)

	for name, payload := range map[string]gin.H{
		"wrong password": {"username": "admin", "password": "wrong"},
		"unknown user":   {"username": "ghost", "password": "admin123"},
	} {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", payload)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status %d, body %s", name, rec.Code, rec.Body.String())
		}
		body := decodeEnvelope(t, rec)
		if body["message"] != "authentication failed" {
			t.Fatalf("%s: message = %v", name, body["message"])
		}
	}
}

func TestLoginMissingFields(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "admin"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := setupEnv(t)
	token := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/role/all", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("token must be dead after logout, status %d", rec.Code)
	}
}

func TestSecondLoginEvictsFirstSession(t *testing.T) {
	env := setupEnv(t)
	first := env.login(t, "admin", "admin123")

	// Tokens signed within the same second are byte-identical; wait so
	// the second login really rotates the stored token.
	time.Sleep(1100 * time.Millisecond)
	second := env.login(t, "admin", "admin123")

	rec := env.do(t, http.MethodGet, "/api/v1/role/all", second, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fresh session: status %d, body %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodGet, "/api/v1/role/all", first, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("evicted session: status %d", rec.Code)
	}
}

func TestHealthAndMetricsOpen(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status %d", rec.Code)
	}
}
