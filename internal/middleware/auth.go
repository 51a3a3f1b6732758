package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rbac-backend/internal/service"
	"rbac-backend/pkg/response"
)

const ctxUserKey = "authUser"

// Authenticate verifies the bearer token against its signature and the
// token stored on the user row, then puts the user on the context.
// Every failure is a plain 401.
func Authenticate(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("no token provided"))
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		user, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("unauthorized"))
			return
		}
		c.Set(ctxUserKey, user.ID)
		c.Set("token", token)
		c.Next()
	}
}

// RequirePermission gates the route on the authenticated user's role
// granting every required (domain, action) pair.
func RequirePermission(perms *service.PermissionService, required ...service.Required) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Fail("unauthorized"))
			return
		}
		if err := perms.Check(c.Request.Context(), userID, required); err != nil {
			status, body := response.FromError(err)
			c.AbortWithStatusJSON(status, body)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id set by Authenticate.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
