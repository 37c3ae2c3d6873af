package staffing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// ClientRepository defines persistence operations for clients.
// All reads are scoped by company id; Delete performs a soft delete.
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*Client, int64, error)
	ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error)
}
