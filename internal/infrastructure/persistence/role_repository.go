package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/persistence/company"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// Create persists a new role
func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	permissionsJSON, err := marshalPermissions(role.Permissions)
	if err != nil {
		return err
	}
	model := models.RoleModelFromDomain(role, permissionsJSON)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update saves changes to an existing role with optimistic locking
func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	permissionsJSON, err := marshalPermissions(role.Permissions)
	if err != nil {
		return err
	}
	model := models.RoleModelFromDomain(role, permissionsJSON)
	result := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Where("id = ? AND version = ?", role.ID, role.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a role and any assignments pointing at it
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.UserRoleModel{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.RoleModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a role by its ID
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// FindByName finds a role by name within a company
func (r *GormRoleRepository) FindByName(ctx context.Context, companyID uuid.UUID, name string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// FindByIDs finds multiple roles by their IDs
func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return []*identity.Role{}, nil
	}

	var roleModels []models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&roleModels).Error; err != nil {
		return nil, err
	}

	roles := make([]*identity.Role, 0, len(roleModels))
	for i := range roleModels {
		role, err := r.toDomain(&roleModels[i])
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// FindForCompany finds a company's roles along with the total count
func (r *GormRoleRepository) FindForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*identity.Role, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Scopes(company.Scope(companyID)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := filter.Normalize()
	orderBy := ValidateSortField(normalized.OrderBy, RoleSortFields, "name")
	var roleModels []models.RoleModel
	if err := r.db.WithContext(ctx).
		Scopes(company.Scope(companyID)).
		Order(orderBy + " " + ValidateSortOrder(normalized.OrderDir)).
		Offset(normalized.Offset()).
		Limit(normalized.PageSize).
		Find(&roleModels).Error; err != nil {
		return nil, 0, err
	}

	roles := make([]*identity.Role, 0, len(roleModels))
	for i := range roleModels {
		role, err := r.toDomain(&roleModels[i])
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, role)
	}
	return roles, total, nil
}

// ExistsByName checks if a role with the given name exists in the company
func (r *GormRoleRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Where("company_id = ? AND name = ?", companyID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRoleRepository) toDomain(model *models.RoleModel) (*identity.Role, error) {
	role := model.ToDomain()
	permissions, err := unmarshalPermissions(model.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to decode permissions for role %s: %w", model.ID, err)
	}
	role.Permissions = permissions
	return role, nil
}

func marshalPermissions(permissions []identity.Permission) (string, error) {
	if len(permissions) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(permissions)
	if err != nil {
		return "", fmt.Errorf("failed to encode permissions: %w", err)
	}
	return string(data), nil
}

func unmarshalPermissions(permissionsJSON string) ([]identity.Permission, error) {
	if permissionsJSON == "" {
		return []identity.Permission{}, nil
	}
	var permissions []identity.Permission
	if err := json.Unmarshal([]byte(permissionsJSON), &permissions); err != nil {
		return nil, err
	}
	if permissions == nil {
		permissions = []identity.Permission{}
	}
	return permissions, nil
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
