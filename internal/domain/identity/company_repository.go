package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// CompanyRepository defines persistence operations for companies
type CompanyRepository interface {
	Save(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*Company, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Company, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
}
