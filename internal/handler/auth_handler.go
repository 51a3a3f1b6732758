package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rbac-backend/internal/middleware"
	"rbac-backend/internal/service"
	"rbac-backend/pkg/response"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/auth")
	group.POST("/login", h.Login)
	group.POST("/logout", middleware.Authenticate(h.auth), h.Logout)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResult struct {
	service.UserSnapshot
	Token string `json:"token"`
}

// Login authenticates by username and password and returns the user
// with a fresh session token. Any previous session token stops working.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload"))
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, response.Fail("username and password are required"))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.OK("logged in successfully", loginResult{
		UserSnapshot: service.Snapshot(user),
		Token:        token,
	}))
}

// Logout clears the stored session token for the authenticated user.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Fail("unauthorized"))
		return
	}
	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("logged out successfully", nil))
}
