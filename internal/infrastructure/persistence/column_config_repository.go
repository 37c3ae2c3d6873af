package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/staffing"
	"github.com/hrms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormColumnConfigRepository implements ColumnConfigRepository using GORM
type GormColumnConfigRepository struct {
	db *gorm.DB
}

// NewGormColumnConfigRepository creates a new GormColumnConfigRepository
func NewGormColumnConfigRepository(db *gorm.DB) *GormColumnConfigRepository {
	return &GormColumnConfigRepository{db: db}
}

// Upsert creates the config for a client or replaces the existing one.
// The unique index on client_id keeps one config per client.
func (r *GormColumnConfigRepository) Upsert(ctx context.Context, config *staffing.ColumnConfig) error {
	columnsJSON, err := json.Marshal(config.Columns)
	if err != nil {
		return fmt.Errorf("failed to encode column definitions: %w", err)
	}

	model := &models.ColumnConfigModel{}
	model.FromDomain(config, string(columnsJSON))

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"columns", "version", "updated_at"}),
	}).Create(model).Error
}

// FindByClientID finds the column config for a client within a company
func (r *GormColumnConfigRepository) FindByClientID(ctx context.Context, companyID, clientID uuid.UUID) (*staffing.ColumnConfig, error) {
	var model models.ColumnConfigModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND client_id = ?", companyID, clientID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	config := model.ToDomain()
	if model.Columns != "" {
		var columns []staffing.ColumnDefinition
		if err := json.Unmarshal([]byte(model.Columns), &columns); err != nil {
			return nil, fmt.Errorf("failed to decode columns for client %s: %w", clientID, err)
		}
		config.Columns = columns
	}
	return config, nil
}

// DeleteByClientID removes the column config for a client within a company.
// Deleting a missing config is not an error; the client just falls back to
// the default columns.
func (r *GormColumnConfigRepository) DeleteByClientID(ctx context.Context, companyID, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.ColumnConfigModel{}, "company_id = ? AND client_id = ?", companyID, clientID).Error
}

// Ensure GormColumnConfigRepository implements ColumnConfigRepository
var _ staffing.ColumnConfigRepository = (*GormColumnConfigRepository)(nil)
