package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/staffing"
	"github.com/hrms/backend/internal/infrastructure/persistence/company"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM.
// Every read and write is scoped by company id so one tenant can never
// touch another tenant's clients.
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Create persists a new client
func (r *GormClientRepository) Create(ctx context.Context, client *staffing.Client) error {
	model := models.ClientModelFromDomain(client)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update saves changes to an existing client with optimistic locking
func (r *GormClientRepository) Update(ctx context.Context, client *staffing.Client) error {
	model := models.ClientModelFromDomain(client)
	result := r.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("company_id = ? AND id = ? AND version = ?", client.CompanyID, client.ID, client.Version-1).
		Select("*").
		Omit("id", "company_id", "created_at", "deleted_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete soft deletes a client within a company
func (r *GormClientRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientModel{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a client by ID within a company
func (r *GormClientRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*staffing.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds a company's clients matching the filter along with the total count
func (r *GormClientRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*staffing.Client, int64, error) {
	normalized := filter.Normalize()

	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientModel{}).Scopes(company.Scope(companyID)), normalized)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(normalized.OrderBy, ClientSortFields, "created_at")
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ClientModel{}).Scopes(company.Scope(companyID)), normalized).
		Order(orderBy + " " + ValidateSortOrder(normalized.OrderDir)).
		Offset(normalized.Offset()).
		Limit(normalized.PageSize)

	var clientModels []models.ClientModel
	if err := query.Find(&clientModels).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]*staffing.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = clientModels[i].ToDomain()
	}
	return clients, total, nil
}

// ExistsByName checks if a client with the given name exists in the company
func (r *GormClientRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("company_id = ? AND name = ?", companyID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies search and field filters without pagination
func (r *GormClientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR contact_name ILIKE ? OR contact_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormClientRepository implements ClientRepository
var _ staffing.ClientRepository = (*GormClientRepository)(nil)
