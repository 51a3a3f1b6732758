package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"rbac-backend/internal/middleware"
	"rbac-backend/internal/service"
	"rbac-backend/internal/validator"
)

// NewRouter wires middleware and mounts every handler under /api/v1.
func NewRouter(log *zap.Logger, db *gorm.DB, reg *service.Registry) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(cors.Default())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(rate.Limit(100), 200))
	r.Use(middleware.ConcurrencyLimit(256))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	NewAuthHandler(reg.Auth).RegisterRoutes(v1)
	NewRoleHandler(reg, validator.Role{DB: db}).RegisterRoutes(v1)
	NewUserHandler(reg, validator.User{DB: db}).RegisterRoutes(v1)
	NewPermissionHandler(reg, validator.RolePermissions{DB: db}).RegisterRoutes(v1)

	return r
}
