package staffing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
)

// Client is a customer organization the company places candidates with and
// invoices. Clients are scoped to exactly one company.
type Client struct {
	shared.CompanyAggregateRoot
	Name         string
	Address      valueobject.Address
	GSTIN        string
	PAN          string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Active       bool
}

// NewClient creates a new active client for a company
func NewClient(companyID uuid.UUID, name string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot exceed 200 characters")
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Client must belong to a company")
	}

	client := &Client{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Active:               true,
	}
	client.AddDomainEvent(NewClientCreatedEvent(client))
	return client, nil
}

// ClientDetailsInput carries the updatable client fields
type ClientDetailsInput struct {
	Name         string
	Address      valueobject.Address
	GSTIN        string
	PAN          string
	ContactName  string
	ContactEmail string
	ContactPhone string
}

// UpdateDetails replaces the client's descriptive fields after validation
func (c *Client) UpdateDetails(input ClientDetailsInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	gstin := strings.ToUpper(strings.TrimSpace(input.GSTIN))
	if gstin != "" && len(gstin) != 15 {
		return shared.NewDomainError("INVALID_GSTIN", "GSTIN must be 15 characters")
	}
	pan := strings.ToUpper(strings.TrimSpace(input.PAN))
	if pan != "" && len(pan) != 10 {
		return shared.NewDomainError("INVALID_PAN", "PAN must be 10 characters")
	}

	c.Name = name
	c.Address = input.Address
	c.GSTIN = gstin
	c.PAN = pan
	c.ContactName = strings.TrimSpace(input.ContactName)
	c.ContactEmail = strings.ToLower(strings.TrimSpace(input.ContactEmail))
	c.ContactPhone = strings.TrimSpace(input.ContactPhone)

	c.IncrementVersion()
	c.AddDomainEvent(NewClientUpdatedEvent(c))
	return nil
}

// Activate enables the client
func (c *Client) Activate() {
	if c.Active {
		return
	}
	c.Active = true
	c.IncrementVersion()
}

// Deactivate disables the client without deleting its records
func (c *Client) Deactivate() {
	if !c.Active {
		return
	}
	c.Active = false
	c.IncrementVersion()
}
