package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role management operations
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// CreateRoleInput contains input for creating a company role
type CreateRoleInput struct {
	CompanyID   uuid.UUID
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleInput contains input for updating a role
type UpdateRoleInput struct {
	CompanyID   uuid.UUID
	RoleID      uuid.UUID
	Name        string
	Description string
	Permissions []string
}

// RoleDTO represents role data returned to callers
type RoleDTO struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Permissions []string   `json:"permissions"`
	System      bool       `json:"system"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func roleToDTO(role *identity.Role) RoleDTO {
	permissions := make([]string, len(role.Permissions))
	for i, p := range role.Permissions {
		permissions[i] = string(p)
	}
	return RoleDTO{
		ID:          role.ID,
		CompanyID:   role.CompanyID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: permissions,
		System:      role.System,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func parsePermissions(raw []string) ([]identity.Permission, error) {
	permissions := make([]identity.Permission, 0, len(raw))
	for _, value := range raw {
		permission := identity.Permission(value)
		if permission.Resource() == "" || permission.Action() == "" {
			return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission must be resource:action: "+value)
		}
		permissions = append(permissions, permission)
	}
	return permissions, nil
}

// CreateRole creates a new role scoped to a company. Role names are unique
// within a company.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	exists, err := s.roleRepo.ExistsByName(ctx, input.CompanyID, input.Name)
	if err != nil {
		s.logger.Error("Failed to check role name uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify role name")
	}
	if exists {
		return nil, shared.NewDomainError("ROLE_EXISTS", "A role with this name already exists")
	}

	permissions, err := parsePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	role, err := identity.NewRole(input.Name, input.CompanyID)
	if err != nil {
		return nil, err
	}
	role.Description = input.Description
	role.SetPermissions(permissions)

	if err := s.roleRepo.Create(ctx, role); err != nil {
		s.logger.Error("Failed to create role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create role")
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("company_id", input.CompanyID.String()),
		zap.String("name", role.Name))

	dto := roleToDTO(role)
	return &dto, nil
}

// GetRole retrieves a role visible to the company. Global system roles are
// visible to every company.
func (s *RoleService) GetRole(ctx context.Context, companyID, roleID uuid.UUID) (*RoleDTO, error) {
	role, err := s.findScopedRole(ctx, companyID, roleID)
	if err != nil {
		return nil, err
	}
	dto := roleToDTO(role)
	return &dto, nil
}

// ListRoles lists the roles visible to a company, including global roles
func (s *RoleService) ListRoles(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[RoleDTO], error) {
	normalized := filter.Normalize()

	roles, total, err := s.roleRepo.FindForCompany(ctx, companyID, normalized)
	if err != nil {
		s.logger.Error("Failed to list roles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list roles")
	}

	dtos := make([]RoleDTO, len(roles))
	for i, role := range roles {
		dtos[i] = roleToDTO(role)
	}

	result := shared.NewPaginated(dtos, total, normalized.Page, normalized.PageSize)
	return &result, nil
}

// UpdateRole updates a role's name, description and permissions
func (s *RoleService) UpdateRole(ctx context.Context, input UpdateRoleInput) (*RoleDTO, error) {
	role, err := s.findScopedRole(ctx, input.CompanyID, input.RoleID)
	if err != nil {
		return nil, err
	}

	if input.Name != role.Name {
		exists, err := s.roleRepo.ExistsByName(ctx, input.CompanyID, input.Name)
		if err != nil {
			s.logger.Error("Failed to check role name uniqueness", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify role name")
		}
		if exists {
			return nil, shared.NewDomainError("ROLE_EXISTS", "A role with this name already exists")
		}
	}

	permissions, err := parsePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	if err := role.UpdateDetails(input.Name, input.Description, permissions); err != nil {
		return nil, err
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Role was modified concurrently")
		}
		s.logger.Error("Failed to update role", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update role")
	}

	dto := roleToDTO(role)
	return &dto, nil
}

// DeleteRole removes a company role. System roles cannot be deleted.
func (s *RoleService) DeleteRole(ctx context.Context, companyID, roleID uuid.UUID) error {
	role, err := s.findScopedRole(ctx, companyID, roleID)
	if err != nil {
		return err
	}
	if role.System {
		return shared.NewDomainError("SYSTEM_ROLE_IMMUTABLE", "System roles cannot be deleted")
	}

	if err := s.roleRepo.Delete(ctx, role.ID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
		}
		s.logger.Error("Failed to delete role", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete role")
	}

	s.logger.Info("Role deleted",
		zap.String("role_id", roleID.String()),
		zap.String("company_id", companyID.String()))
	return nil
}

// findScopedRole loads a role and hides roles owned by other companies
func (s *RoleService) findScopedRole(ctx context.Context, companyID, roleID uuid.UUID) (*identity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
		}
		return nil, err
	}
	if !role.IsGlobal() && *role.CompanyID != companyID {
		return nil, shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
	}
	return role, nil
}
