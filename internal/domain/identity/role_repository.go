package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// RoleRepository defines persistence operations for roles
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByName(ctx context.Context, companyID uuid.UUID, name string) (*Role, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Role, error)
	FindForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*Role, int64, error)
	ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error)
}
