package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/staffing"
	"github.com/hrms/backend/internal/infrastructure/persistence/company"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCandidateRepository implements CandidateRepository using GORM.
// The candidate payload lives in a JSON column; name search uses the
// candidate_name key inside it.
type GormCandidateRepository struct {
	db *gorm.DB
}

// NewGormCandidateRepository creates a new GormCandidateRepository
func NewGormCandidateRepository(db *gorm.DB) *GormCandidateRepository {
	return &GormCandidateRepository{db: db}
}

// Create persists a new candidate
func (r *GormCandidateRepository) Create(ctx context.Context, candidate *staffing.Candidate) error {
	model, err := r.toModel(candidate)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Update saves changes to an existing candidate with optimistic locking
func (r *GormCandidateRepository) Update(ctx context.Context, candidate *staffing.Candidate) error {
	model, err := r.toModel(candidate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.CandidateModel{}).
		Where("company_id = ? AND id = ? AND version = ?", candidate.CompanyID, candidate.ID, candidate.Version-1).
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

// Delete removes a candidate within a company
func (r *GormCandidateRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CandidateModel{}, "company_id = ? AND id = ?", companyID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a candidate by ID within a company
func (r *GormCandidateRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*staffing.Candidate, error) {
	var model models.CandidateModel
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

// FindAll finds a company's candidates matching the filter along with the total count
func (r *GormCandidateRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter staffing.CandidateFilter) ([]*staffing.Candidate, int64, error) {
	normalized := filter.Filter.Normalize()

	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.CandidateModel{}).Scopes(company.Scope(companyID)), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(normalized.OrderBy, CandidateSortFields, "created_at")
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CandidateModel{}).Scopes(company.Scope(companyID)), filter).
		Order(orderBy + " " + ValidateSortOrder(normalized.OrderDir)).
		Offset(normalized.Offset()).
		Limit(normalized.PageSize)

	var candidateModels []models.CandidateModel
	if err := query.Find(&candidateModels).Error; err != nil {
		return nil, 0, err
	}

	candidates := make([]*staffing.Candidate, 0, len(candidateModels))
	for i := range candidateModels {
		candidate, err := r.toDomain(&candidateModels[i])
		if err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, total, nil
}

// FindByIDs finds multiple candidates by their IDs within a company
func (r *GormCandidateRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*staffing.Candidate, error) {
	if len(ids) == 0 {
		return []*staffing.Candidate{}, nil
	}

	var candidateModels []models.CandidateModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&candidateModels).Error; err != nil {
		return nil, err
	}

	candidates := make([]*staffing.Candidate, 0, len(candidateModels))
	for i := range candidateModels {
		candidate, err := r.toDomain(&candidateModels[i])
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// applyFilter applies candidate-specific filters without pagination
func (r *GormCandidateRepository) applyFilter(query *gorm.DB, filter staffing.CandidateFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		query = query.Where("data->>'candidate_name' ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func (r *GormCandidateRepository) toModel(candidate *staffing.Candidate) (*models.CandidateModel, error) {
	dataJSON, err := json.Marshal(candidate.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate data: %w", err)
	}
	model := &models.CandidateModel{}
	model.FromDomain(candidate, string(dataJSON))
	return model, nil
}

func (r *GormCandidateRepository) toDomain(model *models.CandidateModel) (*staffing.Candidate, error) {
	candidate := model.ToDomain()
	if model.Data != "" {
		var data staffing.CandidateData
		if err := json.Unmarshal([]byte(model.Data), &data); err != nil {
			return nil, fmt.Errorf("failed to decode data for candidate %s: %w", model.ID, err)
		}
		candidate.Data = data
	}
	return candidate, nil
}

// Ensure GormCandidateRepository implements CandidateRepository
var _ staffing.CandidateRepository = (*GormCandidateRepository)(nil)
