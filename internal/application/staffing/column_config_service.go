package staffing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/staffing"
	"go.uber.org/zap"
)

// ColumnConfigService manages per-client candidate sheet layouts
type ColumnConfigService struct {
	columnRepo staffing.ColumnConfigRepository
	clientRepo staffing.ClientRepository
	logger     *zap.Logger
}

// NewColumnConfigService creates a new column config service
func NewColumnConfigService(
	columnRepo staffing.ColumnConfigRepository,
	clientRepo staffing.ClientRepository,
	logger *zap.Logger,
) *ColumnConfigService {
	return &ColumnConfigService{
		columnRepo: columnRepo,
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// ColumnInput carries one column definition in its transport shape
type ColumnInput struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// SetColumnsInput replaces a client's column configuration
type SetColumnsInput struct {
	CompanyID uuid.UUID
	ClientID  uuid.UUID
	Columns   []ColumnInput
}

// ColumnConfigDTO represents a client's column configuration. Default is
// true when the client has no stored configuration of its own.
type ColumnConfigDTO struct {
	ClientID uuid.UUID     `json:"client_id"`
	Columns  []ColumnInput `json:"columns"`
	Default  bool          `json:"default"`
}

func columnConfigToDTO(clientID uuid.UUID, columns []staffing.ColumnDefinition, isDefault bool) ColumnConfigDTO {
	out := make([]ColumnInput, len(columns))
	for i, col := range columns {
		out[i] = ColumnInput{
			Key:      col.Key,
			Label:    col.Label,
			Type:     string(col.Type),
			Required: col.Required,
		}
	}
	return ColumnConfigDTO{ClientID: clientID, Columns: out, Default: isDefault}
}

// GetColumns returns the client's column configuration, falling back to the
// default layout when none has been stored.
func (s *ColumnConfigService) GetColumns(ctx context.Context, companyID, clientID uuid.UUID) (*ColumnConfigDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, companyID, clientID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}

	config, err := s.columnRepo.FindByClientID(ctx, companyID, clientID)
	if err != nil {
		if err == shared.ErrNotFound {
			dto := columnConfigToDTO(clientID, staffing.DefaultColumnDefinitions(), true)
			return &dto, nil
		}
		s.logger.Error("Failed to load column config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load column config")
	}

	dto := columnConfigToDTO(clientID, config.Columns, false)
	return &dto, nil
}

// SetColumns replaces the client's column configuration. The reserved
// candidate_name and amount columns are kept required regardless of input.
func (s *ColumnConfigService) SetColumns(ctx context.Context, input SetColumnsInput) (*ColumnConfigDTO, error) {
	if _, err := s.clientRepo.FindByID(ctx, input.CompanyID, input.ClientID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}

	columns := make([]staffing.ColumnDefinition, len(input.Columns))
	for i, col := range input.Columns {
		columns[i] = staffing.ColumnDefinition{
			Key:      col.Key,
			Label:    col.Label,
			Type:     staffing.ColumnType(col.Type),
			Required: col.Required,
		}
	}

	config, err := staffing.NewColumnConfig(input.CompanyID, input.ClientID, columns)
	if err != nil {
		return nil, err
	}

	if err := s.columnRepo.Upsert(ctx, config); err != nil {
		s.logger.Error("Failed to save column config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save column config")
	}

	s.logger.Info("Column config updated",
		zap.String("client_id", input.ClientID.String()),
		zap.Int("columns", len(config.Columns)))

	dto := columnConfigToDTO(input.ClientID, config.Columns, false)
	return &dto, nil
}

// resolveColumns returns the column definitions used to validate candidate
// payloads for a client.
func resolveColumns(ctx context.Context, columnRepo staffing.ColumnConfigRepository, companyID, clientID uuid.UUID) ([]staffing.ColumnDefinition, error) {
	config, err := columnRepo.FindByClientID(ctx, companyID, clientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return staffing.DefaultColumnDefinitions(), nil
		}
		return nil, err
	}
	return config.Columns, nil
}
