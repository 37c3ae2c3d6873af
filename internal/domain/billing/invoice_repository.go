package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice list queries
type InvoiceFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   *InvoiceStatus
}

// InvoiceRepository defines persistence operations for invoices.
// All reads are scoped by company id.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*Invoice, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]*Invoice, int64, error)
	FindLatestByClient(ctx context.Context, companyID, clientID uuid.UUID) (*Invoice, error)
	ExistsByNumber(ctx context.Context, companyID uuid.UUID, number string) (bool, error)
}
