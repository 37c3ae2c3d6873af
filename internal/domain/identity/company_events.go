package identity

import (
	"github.com/hrms/backend/internal/domain/shared"
)

// Company event types
const (
	EventCompanyCreated        = "identity.company.created"
	EventCompanyProfileUpdated = "identity.company.profile_updated"
	EventCompanyStatusChanged  = "identity.company.status_changed"
)

// CompanyCreatedEvent is published when a new company is registered.
// Subscribers seed the default roles for the new tenant.
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

// NewCompanyCreatedEvent creates a new company created event
func NewCompanyCreatedEvent(company *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCompanyCreated, "Company", company.ID, company.ID),
		Name:            company.Name,
		Subdomain:       company.Subdomain,
	}
}

// CompanyProfileUpdatedEvent is published when the company profile changes
type CompanyProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	ProfileComplete bool `json:"profile_complete"`
}

// NewCompanyProfileUpdatedEvent creates a new profile updated event
func NewCompanyProfileUpdatedEvent(company *Company) *CompanyProfileUpdatedEvent {
	return &CompanyProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCompanyProfileUpdated, "Company", company.ID, company.ID),
		ProfileComplete: company.ProfileComplete(),
	}
}

// CompanyStatusChangedEvent is published when a company is activated or deactivated
type CompanyStatusChangedEvent struct {
	shared.BaseDomainEvent
	Status CompanyStatus `json:"status"`
}

// NewCompanyStatusChangedEvent creates a new status changed event
func NewCompanyStatusChangedEvent(company *Company) *CompanyStatusChangedEvent {
	return &CompanyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCompanyStatusChanged, "Company", company.ID, company.ID),
		Status:          company.Status,
	}
}
