package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/hrms/backend/internal/application/identity"
)

// UserHandler handles user management endpoints. Company users operate
// within their own company; superusers may target any company by passing
// company_id explicitly.
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the user creation request body. CompanyID is only
// honoured for superuser callers.
type CreateUserRequest struct {
	CompanyID string   `json:"company_id" binding:"omitempty,uuid"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8,max=72"`
	FullName  string   `json:"full_name" binding:"required,max=200"`
	RoleIDs   []string `json:"role_ids" binding:"omitempty,dive,uuid"`
}

// UpdateUserRequest is the user profile update request body
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required,max=200"`
}

// AssignRolesRequest replaces a user's role assignments
type AssignRolesRequest struct {
	RoleIDs []string `json:"role_ids" binding:"required,dive,uuid"`
}

// targetCompany resolves the company a user operation applies to. Company
// callers are pinned to their own company; superusers may name one.
func (h *UserHandler) targetCompany(c *gin.Context, requested string) (*uuid.UUID, bool) {
	cl := claims(c)
	if cl == nil {
		return nil, false
	}
	if cl.Superuser {
		if requested == "" {
			return nil, true
		}
		id, err := uuid.Parse(requested)
		if err != nil {
			return nil, false
		}
		return &id, true
	}
	id, err := uuid.Parse(cl.CompanyID)
	if err != nil {
		return nil, false
	}
	return &id, true
}

func parseRoleIDs(raw []string) ([]uuid.UUID, error) {
	roleIDs := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		roleIDs = append(roleIDs, id)
	}
	return roleIDs, nil
}

// Create creates a user
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	companyID, ok := h.targetCompany(c, req.CompanyID)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if companyID == nil {
		h.BadRequest(c, "company_id is required when creating users as a superuser")
		return
	}

	roleIDs, err := parseRoleIDs(req.RoleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), identityapp.CreateUserInput{
		CompanyID: *companyID,
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		RoleIDs:   roleIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// List lists users within the caller's company scope
func (h *UserHandler) List(c *gin.Context) {
	companyID, ok := h.targetCompany(c, c.Query("company_id"))
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), identityapp.ListUsersInput{
		CompanyID: companyID,
		Filter:    filter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// GetByID retrieves a user
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	companyID, err := companyScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), identityapp.GetUserInput{
		CompanyID: companyID,
		UserID:    userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Update updates a user's profile
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	companyID, err := companyScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), identityapp.UpdateUserInput{
		CompanyID: companyID,
		UserID:    userID,
		Email:     req.Email,
		FullName:  req.FullName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// AssignRoles replaces a user's role assignments
func (h *UserHandler) AssignRoles(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	companyID, err := companyScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	roleIDs, err := parseRoleIDs(req.RoleIDs)
	if err != nil {
		h.BadRequest(c, "Invalid role ID format")
		return
	}

	user, err := h.userService.AssignRoles(c.Request.Context(), identityapp.AssignRolesInput{
		CompanyID: companyID,
		UserID:    userID,
		RoleIDs:   roleIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// SetStatus activates or deactivates a user
func (h *UserHandler) SetStatus(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	companyID, err := companyScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.SetUserStatus(c.Request.Context(), identityapp.SetUserStatusInput{
		CompanyID: companyID,
		UserID:    userID,
		Active:    *req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete removes a user
func (h *UserHandler) Delete(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	companyID, err := companyScope(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.userService.DeleteUser(c.Request.Context(), identityapp.DeleteUserInput{
		CompanyID: companyID,
		UserID:    userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers user endpoints
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/identity/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/:id", h.GetByID)
		users.PUT("/:id", h.Update)
		users.PUT("/:id/roles", h.AssignRoles)
		users.PUT("/:id/status", h.SetStatus)
		users.DELETE("/:id", h.Delete)
	}
}
