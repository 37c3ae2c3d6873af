package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/billing"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Invoice numbers are unique per company, enforced by a composite index.
type InvoiceModel struct {
	CompanyAggregateModel
	Number    string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_company_number,priority:2"`
	ClientID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	IssueDate time.Time             `gorm:"not null;index"`
	Status    billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`

	Subtotal   valueobject.Money `gorm:"type:decimal(18,2);not null"`
	CGSTRate   decimal.Decimal   `gorm:"column:cgst_rate;type:decimal(5,2);not null;default:0"`
	SGSTRate   decimal.Decimal   `gorm:"column:sgst_rate;type:decimal(5,2);not null;default:0"`
	IGSTRate   decimal.Decimal   `gorm:"column:igst_rate;type:decimal(5,2);not null;default:0"`
	CGSTAmount valueobject.Money `gorm:"column:cgst_amount;type:decimal(18,2);not null"`
	SGSTAmount valueobject.Money `gorm:"column:sgst_amount;type:decimal(18,2);not null"`
	IGSTAmount valueobject.Money `gorm:"column:igst_amount;type:decimal(18,2);not null"`
	GrandTotal valueobject.Money `gorm:"type:decimal(18,2);not null"`

	CandidateIDs   string `gorm:"type:jsonb;default:'[]'"`
	ClientSnapshot string `gorm:"type:jsonb"`

	DocumentURL string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
// Note: CandidateIDs and ClientSnapshot JSON parsing must be handled by the repository.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	invoice := &billing.Invoice{
		Number:       m.Number,
		ClientID:     m.ClientID,
		IssueDate:    m.IssueDate,
		Status:       m.Status,
		Subtotal:     m.Subtotal,
		CGSTRate:     m.CGSTRate,
		SGSTRate:     m.SGSTRate,
		IGSTRate:     m.IGSTRate,
		CGSTAmount:   m.CGSTAmount,
		SGSTAmount:   m.SGSTAmount,
		IGSTAmount:   m.IGSTAmount,
		GrandTotal:   m.GrandTotal,
		CandidateIDs: make([]uuid.UUID, 0), // Parsed from JSON by repository
		DocumentURL:  m.DocumentURL,
	}
	m.PopulateCompanyAggregateRoot(&invoice.CompanyAggregateRoot)
	return invoice
}

// FromDomain populates the persistence model from a domain Invoice entity.
// Note: CandidateIDs and ClientSnapshot must be JSON-encoded by the repository.
func (m *InvoiceModel) FromDomain(i *billing.Invoice, candidateIDsJSON, clientSnapshotJSON string) {
	m.FromDomainCompanyAggregateRoot(i.CompanyAggregateRoot)
	m.Number = i.Number
	m.ClientID = i.ClientID
	m.IssueDate = i.IssueDate
	m.Status = i.Status
	m.Subtotal = i.Subtotal
	m.CGSTRate = i.CGSTRate
	m.SGSTRate = i.SGSTRate
	m.IGSTRate = i.IGSTRate
	m.CGSTAmount = i.CGSTAmount
	m.SGSTAmount = i.SGSTAmount
	m.IGSTAmount = i.IGSTAmount
	m.GrandTotal = i.GrandTotal
	m.CandidateIDs = candidateIDsJSON
	m.ClientSnapshot = clientSnapshotJSON
	m.DocumentURL = i.DocumentURL
}
