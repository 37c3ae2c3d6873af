package staffing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
)

// CandidateFilter narrows candidate list queries
type CandidateFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Active   *bool
}

// CandidateRepository defines persistence operations for candidates.
// All reads are scoped by company id; Search matches the candidate name.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	Update(ctx context.Context, candidate *Candidate) error
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Candidate, error)
	FindAll(ctx context.Context, companyID uuid.UUID, filter CandidateFilter) ([]*Candidate, int64, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*Candidate, error)
}
