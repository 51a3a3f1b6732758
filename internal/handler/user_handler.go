package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"rbac-backend/internal/apperror"
	"rbac-backend/internal/middleware"
	"rbac-backend/internal/model"
	"rbac-backend/internal/service"
	"rbac-backend/internal/validator"
	"rbac-backend/pkg/pagination"
	"rbac-backend/pkg/response"
)

type UserHandler struct {
	reg       *service.Registry
	validator validator.User
}

func NewUserHandler(reg *service.Registry, v validator.User) *UserHandler {
	return &UserHandler{reg: reg, validator: v}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/user")
	group.Use(middleware.Authenticate(h.reg.Auth))

	perms := h.reg.Permissions
	group.POST("/register", middleware.RequirePermission(perms, service.Required{Permission: "Users", Action: service.ActionAdd}), h.Register)
	group.GET("/all", middleware.RequirePermission(perms, service.Required{Permission: "Users", Action: service.ActionView}), h.List)
	group.GET("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Users", Action: service.ActionView}), h.GetByID)
	group.PUT("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Users", Action: service.ActionEdit}), h.Update)
	group.DELETE("/:id", middleware.RequirePermission(perms, service.Required{Permission: "Users", Action: service.ActionRemove}), h.Delete)
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	RoleID    uint   `json:"roleId"`
	Status    *int   `json:"status"`
}

// Register creates a user with a hashed password. This is the one
// create path that bypasses the generic service, since the password
// never travels through the field allow-list.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail("invalid request payload"))
		return
	}
	err := h.validator.Register(c.Request.Context(), validator.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Phone:     req.Phone,
		Password:  req.Password,
		RoleID:    req.RoleID,
	})
	if err != nil {
		writeErr(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeErr(c, apperror.Internal(err))
		return
	}
	status := 1
	if req.Status != nil {
		status = *req.Status
	}
	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Phone:     req.Phone,
		Password:  string(hash),
		Status:    status,
		RoleID:    req.RoleID,
	}
	if err := h.reg.UserRepo.Create(c.Request.Context(), user); err != nil {
		writeErr(c, apperror.Internal(err))
		return
	}
	c.JSON(http.StatusCreated, response.OK("created successfully", service.Snapshot(user)))
}

// List returns users filtered by id, name fields, phone, or status.
func (h *UserHandler) List(c *gin.Context) {
	items, summary, err := h.reg.Users.List(
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

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	user, err := h.reg.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("fetched successfully", user))
}

// Update applies a partial profile change. Password changes are not
// part of this endpoint.
func (h *UserHandler) Update(c *gin.Context) {
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
	var username *string
	if raw, ok := body["username"]; ok {
		if s, isStr := raw.(string); isStr {
			username = &s
		}
	}
	if err := h.validator.Update(c.Request.Context(), id, username); err != nil {
		writeErr(c, err)
		return
	}

	user, err := h.reg.Users.Update(c.Request.Context(), id, body)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("updated successfully", user))
}

// Delete removes the user row. Users carry no soft-delete marker.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeErr(c, err)
		return
	}
	if err := h.reg.Users.Delete(c.Request.Context(), id); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
