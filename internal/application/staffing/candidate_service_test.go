package staffing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/staffing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createCandidateService(
	candidateRepo *MockCandidateRepository,
	clientRepo *MockClientRepository,
	columnRepo *MockColumnConfigRepository,
) *CandidateService {
	return NewCandidateService(candidateRepo, clientRepo, columnRepo, zap.NewNop())
}

func TestCandidateService_CreateCandidate(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)
	clientRepo := new(MockClientRepository)
	columnRepo := new(MockColumnConfigRepository)

	companyID := uuid.New()
	client := createTestClient(t, companyID, "Bob Industries")

	clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)
	columnRepo.On("FindByClientID", ctx, companyID, client.ID).Return(nil, shared.ErrNotFound)
	candidateRepo.On("Create", ctx, mock.AnythingOfType("*staffing.Candidate")).Return(nil)

	service := createCandidateService(candidateRepo, clientRepo, columnRepo)

	result, err := service.CreateCandidate(ctx, CreateCandidateInput{
		CompanyID: companyID,
		ClientID:  client.ID,
		Data: map[string]any{
			"candidate_name": "Priya Sharma",
			"designation":    "Backend Engineer",
			"amount":         "55000",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", result.Name)
	assert.Equal(t, client.ID, result.ClientID)
	assert.True(t, result.Active)
	candidateRepo.AssertExpectations(t)
}

func TestCandidateService_CreateCandidate_InactiveClient(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)
	clientRepo := new(MockClientRepository)
	columnRepo := new(MockColumnConfigRepository)

	companyID := uuid.New()
	client := createTestClient(t, companyID, "Bob Industries")
	client.Deactivate()

	clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)

	service := createCandidateService(candidateRepo, clientRepo, columnRepo)

	_, err := service.CreateCandidate(ctx, CreateCandidateInput{
		CompanyID: companyID,
		ClientID:  client.ID,
		Data: map[string]any{
			"candidate_name": "Priya Sharma",
			"amount":         "55000",
		},
	})

	assertDomainErrorCode(t, err, "CLIENT_INACTIVE")
	candidateRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCandidateService_CreateCandidate_InvalidPayload(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)
	clientRepo := new(MockClientRepository)
	columnRepo := new(MockColumnConfigRepository)

	companyID := uuid.New()
	client := createTestClient(t, companyID, "Bob Industries")

	clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)
	columnRepo.On("FindByClientID", ctx, companyID, client.ID).Return(nil, shared.ErrNotFound)

	service := createCandidateService(candidateRepo, clientRepo, columnRepo)

	t.Run("missing candidate name", func(t *testing.T) {
		_, err := service.CreateCandidate(ctx, CreateCandidateInput{
			CompanyID: companyID,
			ClientID:  client.ID,
			Data:      map[string]any{"amount": "55000"},
		})
		assertDomainErrorCode(t, err, "INVALID_CANDIDATE_DATA")
	})

	t.Run("non-numeric amount", func(t *testing.T) {
		_, err := service.CreateCandidate(ctx, CreateCandidateInput{
			CompanyID: companyID,
			ClientID:  client.ID,
			Data: map[string]any{
				"candidate_name": "Priya Sharma",
				"amount":         "fifty-five",
			},
		})
		assertDomainErrorCode(t, err, "INVALID_CANDIDATE_DATA")
	})

	candidateRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCandidateService_CreateCandidate_CustomRequiredColumn(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)
	clientRepo := new(MockClientRepository)
	columnRepo := new(MockColumnConfigRepository)

	companyID := uuid.New()
	client := createTestClient(t, companyID, "Bob Industries")

	config, err := staffing.NewColumnConfig(companyID, client.ID, []staffing.ColumnDefinition{
		{Key: "joining_date", Label: "Joining Date", Type: staffing.ColumnTypeDate, Required: true},
	})
	require.NoError(t, err)

	clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)
	columnRepo.On("FindByClientID", ctx, companyID, client.ID).Return(config, nil)

	service := createCandidateService(candidateRepo, clientRepo, columnRepo)

	_, err = service.CreateCandidate(ctx, CreateCandidateInput{
		CompanyID: companyID,
		ClientID:  client.ID,
		Data: map[string]any{
			"candidate_name": "Priya Sharma",
			"amount":         "55000",
		},
	})

	assertDomainErrorCode(t, err, "INVALID_CANDIDATE_DATA")
}

func TestCandidateService_UpdateCandidate(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)
	clientRepo := new(MockClientRepository)
	columnRepo := new(MockColumnConfigRepository)

	companyID := uuid.New()
	clientID := uuid.New()

	candidate, err := staffing.NewCandidate(companyID, clientID, staffing.CandidateData{
		"candidate_name": "Priya Sharma",
		"amount":         "55000",
	}, staffing.DefaultColumnDefinitions())
	require.NoError(t, err)

	candidateRepo.On("FindByID", ctx, companyID, candidate.ID).Return(candidate, nil)
	columnRepo.On("FindByClientID", ctx, companyID, clientID).Return(nil, shared.ErrNotFound)
	candidateRepo.On("Update", ctx, candidate).Return(nil)

	service := createCandidateService(candidateRepo, clientRepo, columnRepo)

	result, err := service.UpdateCandidate(ctx, UpdateCandidateInput{
		CompanyID:   companyID,
		CandidateID: candidate.ID,
		Data: map[string]any{
			"candidate_name": "Priya Sharma",
			"amount":         "60000",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "60000", result.Data["amount"])
	candidateRepo.AssertExpectations(t)
}

func TestCandidateService_ListCandidates(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)

	companyID := uuid.New()
	clientID := uuid.New()

	candidate, err := staffing.NewCandidate(companyID, clientID, staffing.CandidateData{
		"candidate_name": "Priya Sharma",
		"amount":         "55000",
	}, staffing.DefaultColumnDefinitions())
	require.NoError(t, err)

	candidateRepo.On("FindAll", ctx, companyID, mock.AnythingOfType("staffing.CandidateFilter")).
		Return([]*staffing.Candidate{candidate}, int64(1), nil)

	service := createCandidateService(candidateRepo, new(MockClientRepository), new(MockColumnConfigRepository))

	result, err := service.ListCandidates(ctx, ListCandidatesInput{
		CompanyID: companyID,
		ClientID:  &clientID,
		Filter:    shared.DefaultFilter(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Priya Sharma", result.Items[0].Name)
}

func TestCandidateService_SetCandidateStatus_NoOp(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)

	companyID := uuid.New()
	candidate, err := staffing.NewCandidate(companyID, uuid.New(), staffing.CandidateData{
		"candidate_name": "Priya Sharma",
		"amount":         "55000",
	}, staffing.DefaultColumnDefinitions())
	require.NoError(t, err)

	candidateRepo.On("FindByID", ctx, companyID, candidate.ID).Return(candidate, nil)

	service := createCandidateService(candidateRepo, new(MockClientRepository), new(MockColumnConfigRepository))

	result, err := service.SetCandidateStatus(ctx, SetCandidateStatusInput{
		CompanyID:   companyID,
		CandidateID: candidate.ID,
		Active:      true,
	})

	require.NoError(t, err)
	assert.True(t, result.Active)
	candidateRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCandidateService_DeleteCandidate(t *testing.T) {
	ctx := context.Background()
	candidateRepo := new(MockCandidateRepository)

	companyID := uuid.New()
	candidateID := uuid.New()

	candidateRepo.On("Delete", ctx, companyID, candidateID).Return(nil)

	service := createCandidateService(candidateRepo, new(MockClientRepository), new(MockColumnConfigRepository))

	require.NoError(t, service.DeleteCandidate(ctx, companyID, candidateID))
	candidateRepo.AssertExpectations(t)
}
