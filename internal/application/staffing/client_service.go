package staffing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/domain/staffing"
	"go.uber.org/zap"
)

// ClientService handles client management operations. Every operation is
// scoped to the calling user's company.
type ClientService struct {
	clientRepo staffing.ClientRepository
	columnRepo staffing.ColumnConfigRepository
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo staffing.ClientRepository,
	columnRepo staffing.ColumnConfigRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		columnRepo: columnRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// AddressInput carries a postal address in its transport shape
type AddressInput struct {
	Line    string `json:"line"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// CreateClientInput contains input for creating a client
type CreateClientInput struct {
	CompanyID uuid.UUID
	Name      string
}

// UpdateClientInput contains input for updating a client's details
type UpdateClientInput struct {
	CompanyID    uuid.UUID
	ClientID     uuid.UUID
	Name         string
	Address      *AddressInput
	GSTIN        string
	PAN          string
	ContactName  string
	ContactEmail string
	ContactPhone string
}

// ListClientsInput contains input for listing clients
type ListClientsInput struct {
	CompanyID uuid.UUID
	Filter    shared.Filter
}

// SetClientStatusInput activates or deactivates a client
type SetClientStatusInput struct {
	CompanyID uuid.UUID
	ClientID  uuid.UUID
	Active    bool
}

// ClientDTO represents client data returned to callers
type ClientDTO struct {
	ID           uuid.UUID    `json:"id"`
	CompanyID    uuid.UUID    `json:"company_id"`
	Name         string       `json:"name"`
	Address      AddressInput `json:"address"`
	GSTIN        string       `json:"gstin,omitempty"`
	PAN          string       `json:"pan,omitempty"`
	ContactName  string       `json:"contact_name,omitempty"`
	ContactEmail string       `json:"contact_email,omitempty"`
	ContactPhone string       `json:"contact_phone,omitempty"`
	Active       bool         `json:"active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func clientToDTO(client *staffing.Client) ClientDTO {
	return ClientDTO{
		ID:        client.ID,
		CompanyID: client.CompanyID,
		Name:      client.Name,
		Address: AddressInput{
			Line:    client.Address.Line(),
			City:    client.Address.City(),
			State:   client.Address.State(),
			Pincode: client.Address.Pincode(),
		},
		GSTIN:        client.GSTIN,
		PAN:          client.PAN,
		ContactName:  client.ContactName,
		ContactEmail: client.ContactEmail,
		ContactPhone: client.ContactPhone,
		Active:       client.Active,
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
	}
}

// CreateClient creates a new client for the company. Client names are
// unique within a company.
func (s *ClientService) CreateClient(ctx context.Context, input CreateClientInput) (*ClientDTO, error) {
	exists, err := s.clientRepo.ExistsByName(ctx, input.CompanyID, input.Name)
	if err != nil {
		s.logger.Error("Failed to check client name uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify client name")
	}
	if exists {
		return nil, shared.NewDomainError("CLIENT_EXISTS", "A client with this name already exists")
	}

	client, err := staffing.NewClient(input.CompanyID, input.Name)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		s.logger.Error("Failed to create client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create client")
	}

	if err := s.eventBus.Publish(ctx, client.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish client events", zap.Error(err))
	}
	client.ClearDomainEvents()

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("company_id", input.CompanyID.String()),
		zap.String("name", client.Name))

	dto := clientToDTO(client)
	return &dto, nil
}

// GetClient retrieves a client within the company scope
func (s *ClientService) GetClient(ctx context.Context, companyID, clientID uuid.UUID) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, companyID, clientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}
	dto := clientToDTO(client)
	return &dto, nil
}

// ListClients lists the company's clients matching the filter
func (s *ClientService) ListClients(ctx context.Context, input ListClientsInput) (*shared.Paginated[ClientDTO], error) {
	normalized := input.Filter.Normalize()

	clients, total, err := s.clientRepo.FindAll(ctx, input.CompanyID, normalized)
	if err != nil {
		s.logger.Error("Failed to list clients", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list clients")
	}

	dtos := make([]ClientDTO, len(clients))
	for i, client := range clients {
		dtos[i] = clientToDTO(client)
	}

	result := shared.NewPaginated(dtos, total, normalized.Page, normalized.PageSize)
	return &result, nil
}

// UpdateClient updates a client's descriptive details
func (s *ClientService) UpdateClient(ctx context.Context, input UpdateClientInput) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, input.CompanyID, input.ClientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}

	if input.Name != client.Name {
		exists, err := s.clientRepo.ExistsByName(ctx, input.CompanyID, input.Name)
		if err != nil {
			s.logger.Error("Failed to check client name uniqueness", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify client name")
		}
		if exists {
			return nil, shared.NewDomainError("CLIENT_EXISTS", "A client with this name already exists")
		}
	}

	address := client.Address
	if input.Address != nil {
		address, err = valueobject.NewAddress(input.Address.Line, input.Address.City, input.Address.State, input.Address.Pincode)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
	}

	if err := client.UpdateDetails(staffing.ClientDetailsInput{
		Name:         input.Name,
		Address:      address,
		GSTIN:        input.GSTIN,
		PAN:          input.PAN,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Client was modified concurrently")
		}
		s.logger.Error("Failed to update client", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update client")
	}

	if err := s.eventBus.Publish(ctx, client.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish client events", zap.Error(err))
	}
	client.ClearDomainEvents()

	dto := clientToDTO(client)
	return &dto, nil
}

// SetClientStatus activates or deactivates a client
func (s *ClientService) SetClientStatus(ctx context.Context, input SetClientStatusInput) (*ClientDTO, error) {
	client, err := s.clientRepo.FindByID(ctx, input.CompanyID, input.ClientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}

	// No state change, nothing to persist
	if input.Active == client.Active {
		dto := clientToDTO(client)
		return &dto, nil
	}

	if input.Active {
		client.Activate()
	} else {
		client.Deactivate()
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Client was modified concurrently")
		}
		return nil, err
	}

	dto := clientToDTO(client)
	return &dto, nil
}

// DeleteClient soft deletes a client and removes its column configuration.
// Candidate records survive the soft delete for audit purposes.
func (s *ClientService) DeleteClient(ctx context.Context, companyID, clientID uuid.UUID) error {
	if err := s.clientRepo.Delete(ctx, companyID, clientID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		s.logger.Error("Failed to delete client", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete client")
	}

	if err := s.columnRepo.DeleteByClientID(ctx, companyID, clientID); err != nil {
		s.logger.Warn("Failed to delete client column config",
			zap.String("client_id", clientID.String()), zap.Error(err))
	}

	s.logger.Info("Client deleted",
		zap.String("client_id", clientID.String()),
		zap.String("company_id", companyID.String()))
	return nil
}
