package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/billing"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/persistence/company"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Invoice numbers are unique per company; cross-company collisions are fine.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create persists a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model, err := r.toModel(invoice)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Update saves changes to an existing invoice with optimistic locking
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	model, err := r.toModel(invoice)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("company_id = ? AND id = ? AND version = ?", invoice.CompanyID, invoice.ID, invoice.Version-1).
		Select("*").
		Omit("id", "company_id", "created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes an invoice within a company
func (r *GormInvoiceRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an invoice by ID within a company
func (r *GormInvoiceRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// FindByNumber finds an invoice by its number within a company
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND number = ?", companyID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// FindAll finds a company's invoices matching the filter along with the total count
func (r *GormInvoiceRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	normalized := filter.Filter.Normalize()

	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(company.Scope(companyID)), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(normalized.OrderBy, InvoiceSortFields, "issue_date")
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(company.Scope(companyID)), filter).
		Order(orderBy + " " + ValidateSortOrder(normalized.OrderDir)).
		Offset(normalized.Offset()).
		Limit(normalized.PageSize)

	var invoiceModels []models.InvoiceModel
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*billing.Invoice, 0, len(invoiceModels))
	for i := range invoiceModels {
		invoice, err := r.toDomain(&invoiceModels[i])
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, total, nil
}

// FindLatestByClient finds the most recently issued invoice for a client.
// Ties on issue date fall back to creation time.
func (r *GormInvoiceRepository) FindLatestByClient(ctx context.Context, companyID, clientID uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND client_id = ?", companyID, clientID).
		Order("issue_date DESC, created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

// ExistsByNumber checks if an invoice with the given number exists in the company
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, companyID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("company_id = ? AND number = ?", companyID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies invoice-specific filters without pagination
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func (r *GormInvoiceRepository) toModel(invoice *billing.Invoice) (*models.InvoiceModel, error) {
	candidateIDsJSON, err := json.Marshal(invoice.CandidateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate ids: %w", err)
	}
	model := &models.InvoiceModel{}
	model.FromDomain(invoice, string(candidateIDsJSON), string(invoice.ClientSnapshot))
	return model, nil
}

func (r *GormInvoiceRepository) toDomain(model *models.InvoiceModel) (*billing.Invoice, error) {
	invoice := model.ToDomain()
	if model.CandidateIDs != "" {
		var candidateIDs []uuid.UUID
		if err := json.Unmarshal([]byte(model.CandidateIDs), &candidateIDs); err != nil {
			return nil, fmt.Errorf("failed to decode candidate ids for invoice %s: %w", model.ID, err)
		}
		if candidateIDs == nil {
			candidateIDs = make([]uuid.UUID, 0)
		}
		invoice.CandidateIDs = candidateIDs
	}
	if model.ClientSnapshot != "" {
		invoice.ClientSnapshot = json.RawMessage(model.ClientSnapshot)
	}
	return invoice, nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
