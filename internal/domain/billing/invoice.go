package billing

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the invoice lifecycle state
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusGenerated InvoiceStatus = "GENERATED"
	InvoiceStatusSent      InvoiceStatus = "SENT"
)

// Invoice is a company-scoped billing document for a client. Amounts are
// entered manually; GST amounts derive from the rates applied to the
// subtotal. Only draft invoices may be edited or deleted.
type Invoice struct {
	shared.CompanyAggregateRoot
	Number    string
	ClientID  uuid.UUID
	IssueDate time.Time
	Status    InvoiceStatus

	Subtotal   valueobject.Money
	CGSTRate   decimal.Decimal
	SGSTRate   decimal.Decimal
	IGSTRate   decimal.Decimal
	CGSTAmount valueobject.Money
	SGSTAmount valueobject.Money
	IGSTAmount valueobject.Money
	GrandTotal valueobject.Money

	// CandidateIDs and ClientSnapshot freeze what the invoice was issued
	// for; later edits to clients or candidates do not rewrite history.
	CandidateIDs   []uuid.UUID
	ClientSnapshot json.RawMessage

	DocumentURL string
}

// InvoiceAmountsInput carries the manually entered amounts and rates
type InvoiceAmountsInput struct {
	Subtotal valueobject.Money
	CGSTRate decimal.Decimal
	SGSTRate decimal.Decimal
	IGSTRate decimal.Decimal
}

// NewInvoice creates a draft invoice
func NewInvoice(companyID uuid.UUID, number string, clientID uuid.UUID, issueDate time.Time, amounts InvoiceAmountsInput) (*Invoice, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Invoice must reference a client")
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	invoice := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		ClientID:             clientID,
		IssueDate:            issueDate,
		Status:               InvoiceStatusDraft,
		CandidateIDs:         make([]uuid.UUID, 0),
	}
	if err := invoice.applyAmounts(amounts); err != nil {
		return nil, err
	}
	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))
	return invoice, nil
}

func (i *Invoice) applyAmounts(amounts InvoiceAmountsInput) error {
	if amounts.Subtotal.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Subtotal cannot be negative")
	}
	for _, rate := range []decimal.Decimal{amounts.CGSTRate, amounts.SGSTRate, amounts.IGSTRate} {
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_TAX_RATE", "Tax rates must be between 0 and 100")
		}
	}

	i.Subtotal = amounts.Subtotal.Round(2)
	i.CGSTRate = amounts.CGSTRate
	i.SGSTRate = amounts.SGSTRate
	i.IGSTRate = amounts.IGSTRate
	i.CGSTAmount = amounts.Subtotal.CalculatePercentage(amounts.CGSTRate).Round(2)
	i.SGSTAmount = amounts.Subtotal.CalculatePercentage(amounts.SGSTRate).Round(2)
	i.IGSTAmount = amounts.Subtotal.CalculatePercentage(amounts.IGSTRate).Round(2)

	total := i.Subtotal.
		MustAdd(i.CGSTAmount).
		MustAdd(i.SGSTAmount).
		MustAdd(i.IGSTAmount)
	i.GrandTotal = total.Round(2)
	return nil
}

// UpdateAmounts replaces the invoice amounts; draft only
func (i *Invoice) UpdateAmounts(amounts InvoiceAmountsInput) error {
	if !i.IsEditable() {
		return shared.NewDomainError("INVOICE_NOT_EDITABLE", "Only draft invoices can be edited")
	}
	if err := i.applyAmounts(amounts); err != nil {
		return err
	}
	i.IncrementVersion()
	return nil
}

// SetIssueDate changes the issue date; draft only
func (i *Invoice) SetIssueDate(date time.Time) error {
	if !i.IsEditable() {
		return shared.NewDomainError("INVOICE_NOT_EDITABLE", "Only draft invoices can be edited")
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_ISSUE_DATE", "Issue date cannot be empty")
	}
	i.IssueDate = date
	i.IncrementVersion()
	return nil
}

// SetCandidates freezes the billed candidate ids; draft only
func (i *Invoice) SetCandidates(candidateIDs []uuid.UUID) error {
	if !i.IsEditable() {
		return shared.NewDomainError("INVOICE_NOT_EDITABLE", "Only draft invoices can be edited")
	}
	i.CandidateIDs = candidateIDs
	i.IncrementVersion()
	return nil
}

// SetClientSnapshot freezes the client details as billed. It does not bump
// the version on its own; it is persisted together with a lifecycle
// transition such as MarkGenerated.
func (i *Invoice) SetClientSnapshot(snapshot json.RawMessage) {
	i.ClientSnapshot = snapshot
}

// UpdateDraft applies amounts, issue date and billed candidates in one
// step; draft only
func (i *Invoice) UpdateDraft(amounts InvoiceAmountsInput, issueDate time.Time, candidateIDs []uuid.UUID) error {
	if !i.IsEditable() {
		return shared.NewDomainError("INVOICE_NOT_EDITABLE", "Only draft invoices can be edited")
	}
	if issueDate.IsZero() {
		return shared.NewDomainError("INVALID_ISSUE_DATE", "Issue date cannot be empty")
	}
	if err := i.applyAmounts(amounts); err != nil {
		return err
	}
	i.IssueDate = issueDate
	if candidateIDs == nil {
		candidateIDs = make([]uuid.UUID, 0)
	}
	i.CandidateIDs = candidateIDs
	i.IncrementVersion()
	return nil
}

// MarkGenerated records the rendered document and moves the invoice to
// GENERATED. Regenerating an already generated invoice replaces the document.
func (i *Invoice) MarkGenerated(documentURL string) error {
	if i.Status == InvoiceStatusSent {
		return shared.NewDomainError("INVOICE_ALREADY_SENT", "Sent invoices cannot be regenerated")
	}
	if strings.TrimSpace(documentURL) == "" {
		return shared.NewDomainError("INVALID_DOCUMENT_URL", "Document URL cannot be empty")
	}
	i.DocumentURL = documentURL
	i.Status = InvoiceStatusGenerated
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceGeneratedEvent(i))
	return nil
}

// MarkSent moves a generated invoice to SENT. Sending an already sent
// invoice is a no-op so retries stay safe.
func (i *Invoice) MarkSent() error {
	switch i.Status {
	case InvoiceStatusSent:
		return nil
	case InvoiceStatusGenerated:
		i.Status = InvoiceStatusSent
		i.IncrementVersion()
		i.AddDomainEvent(NewInvoiceSentEvent(i))
		return nil
	default:
		return shared.NewDomainError("INVOICE_NOT_GENERATED", "Invoice must be generated before it can be sent")
	}
}

// IsEditable reports whether the invoice may still be modified
func (i *Invoice) IsEditable() bool {
	return i.Status == InvoiceStatusDraft
}

// IsDeletable reports whether the invoice may be deleted
func (i *Invoice) IsDeletable() bool {
	return i.Status == InvoiceStatusDraft
}
