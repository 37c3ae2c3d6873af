package staffing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/staffing"
	"go.uber.org/zap"
)

// CandidateService handles candidate record operations. Payloads are
// validated against the owning client's column configuration.
type CandidateService struct {
	candidateRepo staffing.CandidateRepository
	clientRepo    staffing.ClientRepository
	columnRepo    staffing.ColumnConfigRepository
	logger        *zap.Logger
}

// NewCandidateService creates a new candidate service
func NewCandidateService(
	candidateRepo staffing.CandidateRepository,
	clientRepo staffing.ClientRepository,
	columnRepo staffing.ColumnConfigRepository,
	logger *zap.Logger,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		clientRepo:    clientRepo,
		columnRepo:    columnRepo,
		logger:        logger,
	}
}

// CreateCandidateInput contains input for creating a candidate
type CreateCandidateInput struct {
	CompanyID uuid.UUID
	ClientID  uuid.UUID
	Data      map[string]any
}

// UpdateCandidateInput contains input for updating a candidate payload
type UpdateCandidateInput struct {
	CompanyID   uuid.UUID
	CandidateID uuid.UUID
	Data        map[string]any
}

// ListCandidatesInput contains input for listing candidates
type ListCandidatesInput struct {
	CompanyID uuid.UUID
	ClientID  *uuid.UUID
	Active    *bool
	Filter    shared.Filter
}

// SetCandidateStatusInput activates or deactivates a candidate record
type SetCandidateStatusInput struct {
	CompanyID   uuid.UUID
	CandidateID uuid.UUID
	Active      bool
}

// CandidateDTO represents candidate data returned to callers
type CandidateDTO struct {
	ID        uuid.UUID      `json:"id"`
	CompanyID uuid.UUID      `json:"company_id"`
	ClientID  uuid.UUID      `json:"client_id"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func candidateToDTO(candidate *staffing.Candidate) CandidateDTO {
	return CandidateDTO{
		ID:        candidate.ID,
		CompanyID: candidate.CompanyID,
		ClientID:  candidate.ClientID,
		Name:      candidate.Name(),
		Data:      candidate.Data,
		Active:    candidate.Active,
		CreatedAt: candidate.CreatedAt,
		UpdatedAt: candidate.UpdatedAt,
	}
}

// CreateCandidate creates a candidate under a client after validating the
// payload against the client's column configuration
func (s *CandidateService) CreateCandidate(ctx context.Context, input CreateCandidateInput) (*CandidateDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, input.CompanyID, input.ClientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}
	if !client.Active {
		return nil, shared.NewDomainError("CLIENT_INACTIVE", "Cannot add candidates to an inactive client")
	}

	columns, err := resolveColumns(ctx, s.columnRepo, input.CompanyID, input.ClientID)
	if err != nil {
		s.logger.Error("Failed to load column config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load column config")
	}

	candidate, err := staffing.NewCandidate(input.CompanyID, input.ClientID, input.Data, columns)
	if err != nil {
		return nil, err
	}

	if err := s.candidateRepo.Create(ctx, candidate); err != nil {
		s.logger.Error("Failed to create candidate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create candidate")
	}

	s.logger.Info("Candidate created",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("client_id", input.ClientID.String()),
		zap.String("name", candidate.Name()))

	dto := candidateToDTO(candidate)
	return &dto, nil
}

// GetCandidate retrieves a candidate within the company scope
func (s *CandidateService) GetCandidate(ctx context.Context, companyID, candidateID uuid.UUID) (*CandidateDTO, error) {
	candidate, err := s.candidateRepo.FindByID(ctx, companyID, candidateID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CANDIDATE_NOT_FOUND", "Candidate not found")
		}
		return nil, err
	}
	dto := candidateToDTO(candidate)
	return &dto, nil
}

// ListCandidates lists candidates matching the filter
func (s *CandidateService) ListCandidates(ctx context.Context, input ListCandidatesInput) (*shared.Paginated[CandidateDTO], error) {
	filter := staffing.CandidateFilter{
		Filter:   input.Filter.Normalize(),
		ClientID: input.ClientID,
		Active:   input.Active,
	}

	candidates, total, err := s.candidateRepo.FindAll(ctx, input.CompanyID, filter)
	if err != nil {
		s.logger.Error("Failed to list candidates", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list candidates")
	}

	dtos := make([]CandidateDTO, len(candidates))
	for i, candidate := range candidates {
		dtos[i] = candidateToDTO(candidate)
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCandidate replaces a candidate's payload after validation
func (s *CandidateService) UpdateCandidate(ctx context.Context, input UpdateCandidateInput) (*CandidateDTO, error) {
	candidate, err := s.candidateRepo.FindByID(ctx, input.CompanyID, input.CandidateID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CANDIDATE_NOT_FOUND", "Candidate not found")
		}
		return nil, err
	}

	columns, err := resolveColumns(ctx, s.columnRepo, input.CompanyID, candidate.ClientID)
	if err != nil {
		s.logger.Error("Failed to load column config", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load column config")
	}

	if err := candidate.UpdateData(input.Data, columns); err != nil {
		return nil, err
	}

	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Candidate was modified concurrently")
		}
		s.logger.Error("Failed to update candidate", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update candidate")
	}

	dto := candidateToDTO(candidate)
	return &dto, nil
}

// SetCandidateStatus activates or deactivates a candidate record
func (s *CandidateService) SetCandidateStatus(ctx context.Context, input SetCandidateStatusInput) (*CandidateDTO, error) {
	candidate, err := s.candidateRepo.FindByID(ctx, input.CompanyID, input.CandidateID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CANDIDATE_NOT_FOUND", "Candidate not found")
		}
		return nil, err
	}

	// No state change, nothing to persist
	if input.Active == candidate.Active {
		dto := candidateToDTO(candidate)
		return &dto, nil
	}

	if input.Active {
		candidate.Activate()
	} else {
		candidate.Deactivate()
	}

	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Candidate was modified concurrently")
		}
		return nil, err
	}

	dto := candidateToDTO(candidate)
	return &dto, nil
}

// DeleteCandidate soft deletes a candidate record
func (s *CandidateService) DeleteCandidate(ctx context.Context, companyID, candidateID uuid.UUID) error {
	if err := s.candidateRepo.Delete(ctx, companyID, candidateID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("CANDIDATE_NOT_FOUND", "Candidate not found")
		}
		s.logger.Error("Failed to delete candidate", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete candidate")
	}

	s.logger.Info("Candidate deleted",
		zap.String("candidate_id", candidateID.String()),
		zap.String("company_id", companyID.String()))
	return nil
}
