package staffing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/staffing"
	"github.com/hrms/backend/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockClientRepository is a mock implementation of staffing.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *staffing.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Update(ctx context.Context, client *staffing.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*staffing.Client, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffing.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]*staffing.Client, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]*staffing.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, companyID, name)
	return args.Bool(0), args.Error(1)
}

// MockColumnConfigRepository is a mock implementation of staffing.ColumnConfigRepository
type MockColumnConfigRepository struct {
	mock.Mock
}

func (m *MockColumnConfigRepository) Upsert(ctx context.Context, config *staffing.ColumnConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockColumnConfigRepository) FindByClientID(ctx context.Context, companyID, clientID uuid.UUID) (*staffing.ColumnConfig, error) {
	args := m.Called(ctx, companyID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffing.ColumnConfig), args.Error(1)
}

func (m *MockColumnConfigRepository) DeleteByClientID(ctx context.Context, companyID, clientID uuid.UUID) error {
	args := m.Called(ctx, companyID, clientID)
	return args.Error(0)
}

// MockCandidateRepository is a mock implementation of staffing.CandidateRepository
type MockCandidateRepository struct {
	mock.Mock
}

func (m *MockCandidateRepository) Create(ctx context.Context, candidate *staffing.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *MockCandidateRepository) Update(ctx context.Context, candidate *staffing.Candidate) error {
	args := m.Called(ctx, candidate)
	return args.Error(0)
}

func (m *MockCandidateRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockCandidateRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*staffing.Candidate, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffing.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter staffing.CandidateFilter) ([]*staffing.Candidate, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]*staffing.Candidate), args.Get(1).(int64), args.Error(2)
}

func (m *MockCandidateRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*staffing.Candidate, error) {
	args := m.Called(ctx, companyID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*staffing.Candidate), args.Error(1)
}

func createClientService(clientRepo *MockClientRepository, columnRepo *MockColumnConfigRepository) *ClientService {
	return NewClientService(
		clientRepo,
		columnRepo,
		event.NewInMemoryEventBus(zap.NewNop()),
		zap.NewNop(),
	)
}

func createTestClient(t *testing.T, companyID uuid.UUID, name string) *staffing.Client {
	t.Helper()
	client, err := staffing.NewClient(companyID, name)
	require.NoError(t, err)
	client.ClearDomainEvents()
	return client
}

func assertDomainErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestClientService_CreateClient(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	companyID := uuid.New()

	clientRepo.On("ExistsByName", ctx, companyID, "Bob Industries").Return(false, nil)
	clientRepo.On("Create", ctx, mock.AnythingOfType("*staffing.Client")).Return(nil)

	service := createClientService(clientRepo, new(MockColumnConfigRepository))

	result, err := service.CreateClient(ctx, CreateClientInput{
		CompanyID: companyID,
		Name:      "Bob Industries",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bob Industries", result.Name)
	assert.Equal(t, companyID, result.CompanyID)
	assert.True(t, result.Active)
	clientRepo.AssertExpectations(t)
}

func TestClientService_CreateClient_DuplicateName(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	companyID := uuid.New()

	clientRepo.On("ExistsByName", ctx, companyID, "Bob Industries").Return(true, nil)

	service := createClientService(clientRepo, new(MockColumnConfigRepository))

	_, err := service.CreateClient(ctx, CreateClientInput{
		CompanyID: companyID,
		Name:      "Bob Industries",
	})

	assertDomainErrorCode(t, err, "CLIENT_EXISTS")
	clientRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClientService_GetClient_NotFound(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	companyID := uuid.New()
	clientID := uuid.New()

	clientRepo.On("FindByID", ctx, companyID, clientID).Return(nil, shared.ErrNotFound)

	service := createClientService(clientRepo, new(MockColumnConfigRepository))

	_, err := service.GetClient(ctx, companyID, clientID)
	assertDomainErrorCode(t, err, "CLIENT_NOT_FOUND")
}

func TestClientService_ListClients(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	companyID := uuid.New()

	clients := []*staffing.Client{
		createTestClient(t, companyID, "Bob Industries"),
		createTestClient(t, companyID, "Initech"),
	}

	clientRepo.On("FindAll", ctx, companyID, mock.AnythingOfType("shared.Filter")).
		Return(clients, int64(2), nil)

	service := createClientService(clientRepo, new(MockColumnConfigRepository))

	result, err := service.ListClients(ctx, ListClientsInput{
		CompanyID: companyID,
		Filter:    shared.DefaultFilter(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Bob Industries", result.Items[0].Name)
}

func TestClientService_UpdateClient(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	companyID := uuid.New()
	client := createTestClient(t, companyID, "Bob Industries")

	clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)
	clientRepo.On("Update", ctx, client).Return(nil)

	service := createClientService(clientRepo, new(MockColumnConfigRepository))

	result, err := service.UpdateClient(ctx, UpdateClientInput{
		CompanyID: companyID,
		ClientID:  client.ID,
		Name:      "Bob Industries",
		Address: &AddressInput{
			Line:    "44 Industrial Estate",
			City:    "Pune",
			State:   "Maharashtra",
			Pincode: "411001",
		},
		GSTIN:        "27aabcb1234c1z5",
		PAN:          "aabcb1234c",
		ContactName:  "Bob Waters",
		ContactEmail: "Bob@BobIndustries.test",
		ContactPhone: "+919900000000",
	})

	require.NoError(t, err)
	// GSTIN and PAN are stored uppercased, emails lowercased
	assert.Equal(t, "27AABCB1234C1Z5", result.GSTIN)
	assert.Equal(t, "AABCB1234C", result.PAN)
	assert.Equal(t, "bob@bobindustries.test", result.ContactEmail)
	assert.Equal(t, "Pune", result.Address.City)
	clientRepo.AssertExpectations(t)
}

func TestClientService_UpdateClient_InvalidGSTIN(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	companyID := uuid.New()
	client := createTestClient(t, companyID, "Bob Industries")

	clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)

	service := createClientService(clientRepo, new(MockColumnConfigRepository))

	_, err := service.UpdateClient(ctx, UpdateClientInput{
		CompanyID: companyID,
		ClientID:  client.ID,
		Name:      "Bob Industries",
		GSTIN:     "too-short",
	})

	assertDomainErrorCode(t, err, "INVALID_GSTIN")
	clientRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestClientService_SetClientStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates an active client", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		companyID := uuid.New()
		client := createTestClient(t, companyID, "Bob Industries")

		clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)
		clientRepo.On("Update", ctx, client).Return(nil)

		service := createClientService(clientRepo, new(MockColumnConfigRepository))

		result, err := service.SetClientStatus(ctx, SetClientStatusInput{
			CompanyID: companyID,
			ClientID:  client.ID,
			Active:    false,
		})

		require.NoError(t, err)
		assert.False(t, result.Active)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		companyID := uuid.New()
		client := createTestClient(t, companyID, "Bob Industries")

		clientRepo.On("FindByID", ctx, companyID, client.ID).Return(client, nil)

		service := createClientService(clientRepo, new(MockColumnConfigRepository))

		result, err := service.SetClientStatus(ctx, SetClientStatusInput{
			CompanyID: companyID,
			ClientID:  client.ID,
			Active:    true,
		})

		require.NoError(t, err)
		assert.True(t, result.Active)
		clientRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestClientService_DeleteClient(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	columnRepo := new(MockColumnConfigRepository)
	companyID := uuid.New()
	clientID := uuid.New()

	clientRepo.On("Delete", ctx, companyID, clientID).Return(nil)
	columnRepo.On("DeleteByClientID", ctx, companyID, clientID).Return(nil)

	service := createClientService(clientRepo, columnRepo)

	err := service.DeleteClient(ctx, companyID, clientID)

	require.NoError(t, err)
	clientRepo.AssertExpectations(t)
	columnRepo.AssertExpectations(t)
}

func TestClientService_DeleteClient_NotFound(t *testing.T) {
	ctx := context.Background()
	clientRepo := new(MockClientRepository)
	companyID := uuid.New()
	clientID := uuid.New()

	clientRepo.On("Delete", ctx, companyID, clientID).Return(shared.ErrNotFound)

	service := createClientService(clientRepo, new(MockColumnConfigRepository))

	err := service.DeleteClient(ctx, companyID, clientID)
	assertDomainErrorCode(t, err, "CLIENT_NOT_FOUND")
}
