package staffing

import (
	"context"

	"github.com/google/uuid"
)

// ColumnConfigRepository defines persistence operations for column configs
type ColumnConfigRepository interface {
	// Upsert creates the config for a client or replaces the existing one
	Upsert(ctx context.Context, config *ColumnConfig) error
	FindByClientID(ctx context.Context, companyID, clientID uuid.UUID) (*ColumnConfig, error)
	DeleteByClientID(ctx context.Context, companyID, clientID uuid.UUID) error
}
