package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/hrms/backend/internal/application/identity"
)

// RoleHandler handles role management endpoints
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// CreateRoleRequest is the role creation request body
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest is the role update request body
type UpdateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions"`
}

// Create creates a role within the caller's company
func (h *RoleHandler) Create(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), identityapp.CreateRoleInput{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, role)
}

// List lists the caller's company roles, system roles included
func (h *RoleHandler) List(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.roleService.ListRoles(c.Request.Context(), companyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// GetByID retrieves a role
func (h *RoleHandler) GetByID(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	roleID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	role, err := h.roleService.GetRole(c.Request.Context(), companyID, roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Update updates a role
func (h *RoleHandler) Update(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	roleID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), identityapp.UpdateRoleInput{
		CompanyID:   companyID,
		RoleID:      roleID,
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, role)
}

// Delete removes a role
func (h *RoleHandler) Delete(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	roleID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), companyID, roleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers role endpoints
func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/identity/roles")
	{
		roles.POST("", h.Create)
		roles.GET("", h.List)
		roles.GET("/:id", h.GetByID)
		roles.PUT("/:id", h.Update)
		roles.DELETE("/:id", h.Delete)
	}
}
