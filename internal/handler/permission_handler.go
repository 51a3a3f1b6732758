package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rbac-backend/internal/middleware"
	"rbac-backend/internal/service"
	"rbac-backend/internal/validator"
	"rbac-backend/pkg/response"
)

type PermissionHandler struct {
	reg       *service.Registry
	validator validator.RolePermissions
}

func NewPermissionHandler(reg *service.Registry, v validator.RolePermissions) *PermissionHandler {
	return &PermissionHandler{reg: reg, validator: v}
}

func (h *PermissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/permission")
	group.Use(middleware.Authenticate(h.reg.Auth))

	perms := h.reg.Permissions
	group.POST("/create", middleware.RequirePermission(perms, service.Required{Permission: "Permissions", Action: service.ActionAdd}), h.Replace)
	group.GET("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Permissions", Action: service.ActionView}), h.GetByRole)
	group.DELETE("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Permissions", Action: service.ActionRemove}), h.Clear)
}

type replacePermissionsRequest struct {
	RoleID      uint                          `json:"roleId"`
	Permissions []service.RolePermissionInput `json:"permissions"`
}

// Replace writes a role's full permission set: the prior set is deleted
// and the posted one inserted as a batch, never merged.
func (h *PermissionHandler) Replace(c *gin.Context) {
	var req replacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload"))
		return
	}
	if err := h.validator.Replace(c.Request.Context(), req.RoleID, req.Permissions); err != nil {
		writeErr(c, err)
		return
	}
	if err := h.reg.Permissions.ReplaceForRole(c.Request.Context(), req.RoleID, req.Permissions); err != nil {
		writeErr(c, err)
		return
	}

	scope, err := h.reg.Permissions.ScopeForRole(c.Request.Context(), req.RoleID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK("created successfully", scope))
}

// GetByRole returns the permission scope of the role named by :id.
func (h *PermissionHandler) GetByRole(c *gin.Context) {
	roleID, err := pathID(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	scope, err := h.reg.Permissions.ScopeForRole(c.Request.Context(), roleID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("fetched successfully", scope))
}

// Clear empties the permission set of the role named by :id.
func (h *PermissionHandler) Clear(c *gin.Context) {
	roleID, err := pathID(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	if err := h.reg.Permissions.ClearForRole(c.Request.Context(), roleID); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
