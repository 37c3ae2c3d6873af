package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// Permission is a "resource:action" value object
type Permission string

// Resource names used in permissions
const (
	ResourceCompany   = "company"
	ResourceUser      = "user"
	ResourceRole      = "role"
	ResourceClient    = "client"
	ResourceCandidate = "candidate"
	ResourceInvoice   = "invoice"
)

// Action names used in permissions
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage" // implies all other actions
)

// NewPermission builds a permission from resource and action
func NewPermission(resource, action string) (Permission, error) {
	resource = strings.TrimSpace(resource)
	action = strings.TrimSpace(action)
	if resource == "" || action == "" {
		return "", shared.NewDomainError("INVALID_PERMISSION", "Permission resource and action are required")
	}
	return Permission(fmt.Sprintf("%s:%s", resource, action)), nil
}

// Resource returns the resource part of the permission
func (p Permission) Resource() string {
	parts := strings.SplitN(string(p), ":", 2)
	return parts[0]
}

// Action returns the action part of the permission
func (p Permission) Action() string {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Implies reports whether this permission satisfies the required one.
// "resource:manage" satisfies every action on the same resource.
func (p Permission) Implies(required Permission) bool {
	if p == required {
		return true
	}
	return p.Resource() == required.Resource() && p.Action() == ActionManage
}

// Role is a named permission set. Roles with a nil CompanyID are global
// system roles shared across tenants; company roles are scoped to one tenant.
type Role struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	CompanyID   *uuid.UUID
	Permissions []Permission
	System      bool
}

// Well-known role names seeded for every company
const (
	RoleCompanyAdmin = "company_admin"
	RoleEmployee     = "employee"
)

// NewRole creates a company-scoped role
func NewRole(name string, companyID uuid.UUID) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CompanyID:         &companyID,
		Permissions:       make([]Permission, 0),
	}, nil
}

// NewSystemRole creates a global role not owned by any company
func NewSystemRole(name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Permissions:       make([]Permission, 0),
		System:            true,
	}, nil
}

// DefaultCompanyRoles returns the roles seeded when a company is created
func DefaultCompanyRoles(companyID uuid.UUID) []*Role {
	admin, _ := NewRole(RoleCompanyAdmin, companyID)
	admin.Description = "Full access to all company resources"
	admin.SetPermissions([]Permission{
		Permission(ResourceCompany + ":" + ActionManage),
		Permission(ResourceUser + ":" + ActionManage),
		Permission(ResourceRole + ":" + ActionManage),
		Permission(ResourceClient + ":" + ActionManage),
		Permission(ResourceCandidate + ":" + ActionManage),
		Permission(ResourceInvoice + ":" + ActionManage),
	})

	employee, _ := NewRole(RoleEmployee, companyID)
	employee.Description = "Read access to staffing records"
	employee.SetPermissions([]Permission{
		Permission(ResourceClient + ":" + ActionRead),
		Permission(ResourceCandidate + ":" + ActionRead),
	})

	return []*Role{admin, employee}
}

// UpdateDetails updates name, description and permissions together.
// System roles are immutable.
func (r *Role) UpdateDetails(name, description string, permissions []Permission) error {
	if r.System {
		return shared.NewDomainError("SYSTEM_ROLE_IMMUTABLE", "System roles cannot be modified")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	r.Name = name
	r.Description = description
	r.Permissions = permissions
	r.IncrementVersion()
	return nil
}

// GrantPermission adds a permission if not already granted
func (r *Role) GrantPermission(permission Permission) error {
	if r.System {
		return shared.NewDomainError("SYSTEM_ROLE_IMMUTABLE", "System roles cannot be modified")
	}
	for _, p := range r.Permissions {
		if p == permission {
			return nil
		}
	}
	r.Permissions = append(r.Permissions, permission)
	r.IncrementVersion()
	return nil
}

// RevokePermission removes a permission
func (r *Role) RevokePermission(permission Permission) error {
	if r.System {
		return shared.NewDomainError("SYSTEM_ROLE_IMMUTABLE", "System roles cannot be modified")
	}
	for i, p := range r.Permissions {
		if p == permission {
			r.Permissions = append(r.Permissions[:i], r.Permissions[i+1:]...)
			r.IncrementVersion()
			return nil
		}
	}
	return nil
}

// SetPermissions replaces the permission set
func (r *Role) SetPermissions(permissions []Permission) {
	r.Permissions = permissions
	r.IncrementVersion()
}

// HasPermission reports whether the role satisfies the required permission
func (r *Role) HasPermission(required Permission) bool {
	for _, p := range r.Permissions {
		if p.Implies(required) {
			return true
		}
	}
	return false
}

// IsGlobal reports whether the role is shared across companies
func (r *Role) IsGlobal() bool {
	return r.CompanyID == nil
}
