package billing

import (
	"github.com/hrms/backend/internal/domain/shared"
)

// Invoice event types
const (
	EventInvoiceCreated   = "billing.invoice.created"
	EventInvoiceGenerated = "billing.invoice.generated"
	EventInvoiceSent      = "billing.invoice.sent"
)

// InvoiceCreatedEvent is published when a draft invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceCreatedEvent creates a new invoice created event
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceCreated, "Invoice", invoice.ID, invoice.CompanyID),
		Number:          invoice.Number,
	}
}

// InvoiceGeneratedEvent is published when the invoice document is rendered
type InvoiceGeneratedEvent struct {
	shared.BaseDomainEvent
	Number      string `json:"number"`
	DocumentURL string `json:"document_url"`
}

// NewInvoiceGeneratedEvent creates a new invoice generated event
func NewInvoiceGeneratedEvent(invoice *Invoice) *InvoiceGeneratedEvent {
	return &InvoiceGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceGenerated, "Invoice", invoice.ID, invoice.CompanyID),
		Number:          invoice.Number,
		DocumentURL:     invoice.DocumentURL,
	}
}

// InvoiceSentEvent is published the first time an invoice is sent
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceSentEvent creates a new invoice sent event
func NewInvoiceSentEvent(invoice *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoiceSent, "Invoice", invoice.ID, invoice.CompanyID),
		Number:          invoice.Number,
	}
}
