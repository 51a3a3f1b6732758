package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rbac-backend/internal/middleware"
	"rbac-backend/internal/service"
	"rbac-backend/internal/validator"
	"rbac-backend/pkg/pagination"
	"rbac-backend/pkg/response"
)

type RoleHandler struct {
	reg       *service.Registry
	validator validator.Role
}

func NewRoleHandler(reg *service.Registry, v validator.Role) *RoleHandler {
	return &RoleHandler{reg: reg, validator: v}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/role")
	group.Use(middleware.Authenticate(h.reg.Auth))

	perms := h.reg.Permissions
	group.POST("/create", middleware.RequirePermission(perms, service.Required{Permission: "Roles", Action: service.ActionAdd}), h.Create)
	group.GET("/all", middleware.RequirePermission(perms, service.Required{Permission: "Roles", Action: service.ActionView}), h.List)
	group.GET("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Roles", Action: service.ActionView}), h.GetByID)
	group.PUT("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Roles", Action: service.ActionEdit}), h.Update)
	group.DELETE("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Roles", Action: service.ActionRemove}), h.Delete)
}

// Create adds a role. Status defaults to active when omitted.
func (h *RoleHandler) Create(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload"))
		return
	}
	name, _ := body["name"].(string)
	if err := h.validator.Create(c.Request.Context(), name); err != nil {
		writeErr(c, err)
		return
	}
	if _, ok := body["status"]; !ok {
		body["status"] = 1
	}

	role, err := h.reg.Roles.Create(c.Request.Context(), body)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK("created successfully", role))
}

// List returns roles filtered by id, name, or status, paginated.
func (h *RoleHandler) List(c *gin.Context) {
	items, summary, err := h.reg.Roles.List(
		c.Request.Context(),
		buildFilters(c),
		pagination.Parse(c),
		c.Query("orderBy"),
	)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("fetched successfully", listResult{Items: items, Pagination: summary}))
}

func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	role, err := h.reg.Roles.GetByID(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("fetched successfully", role))
}

// Update applies a partial role change; unknown fields are dropped.
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload"))
		return
	}
	var name *string
	if raw, ok := body["name"]; ok {
		if s, isStr := raw.(string); isStr {
			name = &s
		}
	}
	if err := h.validator.Update(c.Request.Context(), id, name); err != nil {
		writeErr(c, err)
		return
	}

	role, err := h.reg.Roles.Update(c.Request.Context(), id, body)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("updated successfully", role))
}

// Delete soft-deletes a role unless live users or permission rows still
// reference it, in which case it answers 409.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	if err := h.reg.Roles.Delete(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
