package models

import (
	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/domain/staffing"
	"gorm.io/gorm"
)

// ClientModel is the persistence model for the Client aggregate.
// Deletion is soft so invoices keep a valid client reference.
type ClientModel struct {
	CompanyAggregateModel
	Name         string              `gorm:"type:varchar(200);not null"`
	Address      valueobject.Address `gorm:"type:jsonb"`
	GSTIN        string              `gorm:"type:varchar(15)"`
	PAN          string              `gorm:"type:varchar(10)"`
	ContactName  string              `gorm:"type:varchar(200)"`
	ContactEmail string              `gorm:"type:varchar(254)"`
	ContactPhone string              `gorm:"type:varchar(50)"`
	Active       bool                `gorm:"not null;default:true"`
	DeletedAt    gorm.DeletedAt      `gorm:"index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *staffing.Client {
	client := &staffing.Client{
		Name:         m.Name,
		Address:      m.Address,
		GSTIN:        m.GSTIN,
		PAN:          m.PAN,
		ContactName:  m.ContactName,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		Active:       m.Active,
	}
	m.PopulateCompanyAggregateRoot(&client.CompanyAggregateRoot)
	return client
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *staffing.Client) {
	m.FromDomainCompanyAggregateRoot(c.CompanyAggregateRoot)
	m.Name = c.Name
	m.Address = c.Address
	m.GSTIN = c.GSTIN
	m.PAN = c.PAN
	m.ContactName = c.ContactName
	m.ContactEmail = c.ContactEmail
	m.ContactPhone = c.ContactPhone
	m.Active = c.Active
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *staffing.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// ColumnConfigModel is the persistence model for per-client column configs.
// At most one row exists per client.
type ColumnConfigModel struct {
	CompanyAggregateModel
	ClientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Columns  string    `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (ColumnConfigModel) TableName() string {
	return "column_configs"
}

// ToDomain converts the persistence model to a domain ColumnConfig.
// Note: Columns JSON parsing must be handled by the repository.
func (m *ColumnConfigModel) ToDomain() *staffing.ColumnConfig {
	cfg := &staffing.ColumnConfig{
		ClientID: m.ClientID,
		Columns:  make([]staffing.ColumnDefinition, 0), // Parsed from JSON by repository
	}
	m.PopulateCompanyAggregateRoot(&cfg.CompanyAggregateRoot)
	return cfg
}

// FromDomain populates the persistence model from a domain ColumnConfig.
// Note: Columns must be JSON-encoded by the repository.
func (m *ColumnConfigModel) FromDomain(c *staffing.ColumnConfig, columnsJSON string) {
	m.FromDomainCompanyAggregateRoot(c.CompanyAggregateRoot)
	m.ClientID = c.ClientID
	m.Columns = columnsJSON
}

// CandidateModel is the persistence model for the Candidate aggregate.
// The Data column holds the schemaless payload as JSON.
type CandidateModel struct {
	CompanyAggregateModel
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Data     string    `gorm:"type:jsonb;not null;default:'{}'"`
	Active   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CandidateModel) TableName() string {
	return "candidates"
}

// ToDomain converts the persistence model to a domain Candidate.
// Note: Data JSON parsing must be handled by the repository.
func (m *CandidateModel) ToDomain() *staffing.Candidate {
	candidate := &staffing.Candidate{
		ClientID: m.ClientID,
		Data:     make(staffing.CandidateData), // Parsed from JSON by repository
		Active:   m.Active,
	}
	m.PopulateCompanyAggregateRoot(&candidate.CompanyAggregateRoot)
	return candidate
}

// FromDomain populates the persistence model from a domain Candidate.
// Note: Data must be JSON-encoded by the repository.
func (m *CandidateModel) FromDomain(c *staffing.Candidate, dataJSON string) {
	m.FromDomainCompanyAggregateRoot(c.CompanyAggregateRoot)
	m.ClientID = c.ClientID
	m.Data = dataJSON
	m.Active = c.Active
}
