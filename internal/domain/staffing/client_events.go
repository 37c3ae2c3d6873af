package staffing

import (
	"github.com/hrms/backend/internal/domain/shared"
)

// Client event types
const (
	EventClientCreated = "staffing.client.created"
	EventClientUpdated = "staffing.client.updated"
	EventClientDeleted = "staffing.client.deleted"
)

// ClientCreatedEvent is published when a client is registered
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientCreatedEvent creates a new client created event
func NewClientCreatedEvent(client *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientCreated, "Client", client.ID, client.CompanyID),
		Name:            client.Name,
	}
}

// ClientUpdatedEvent is published when client details change
type ClientUpdatedEvent struct {
	shared.BaseDomainEvent
}

// NewClientUpdatedEvent creates a new client updated event
func NewClientUpdatedEvent(client *Client) *ClientUpdatedEvent {
	return &ClientUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientUpdated, "Client", client.ID, client.CompanyID),
	}
}

// ClientDeletedEvent is published when a client is soft deleted
type ClientDeletedEvent struct {
	shared.BaseDomainEvent
}

// NewClientDeletedEvent creates a new client deleted event
func NewClientDeletedEvent(client *Client) *ClientDeletedEvent {
	return &ClientDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientDeleted, "Client", client.ID, client.CompanyID),
	}
}
