package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/domain/billing"
	"github.com/hrms/backend/internal/domain/identity"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/domain/shared/valueobject"
	"github.com/hrms/backend/internal/domain/staffing"
	"github.com/hrms/backend/internal/infrastructure/printing"
	"github.com/hrms/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles invoice lifecycle operations: drafting, document
// generation and sending. Every operation is scoped to the calling user's
// company.
type InvoiceService struct {
	invoiceRepo   billing.InvoiceRepository
	clientRepo    staffing.ClientRepository
	candidateRepo staffing.CandidateRepository
	columnRepo    staffing.ColumnConfigRepository
	companyRepo   identity.CompanyRepository
	renderer      printing.PDFRenderer
	fileStorage   storage.FileStorage
	eventBus      shared.EventPublisher
	logger        *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	clientRepo staffing.ClientRepository,
	candidateRepo staffing.CandidateRepository,
	columnRepo staffing.ColumnConfigRepository,
	companyRepo identity.CompanyRepository,
	renderer printing.PDFRenderer,
	fileStorage storage.FileStorage,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		candidateRepo: candidateRepo,
		columnRepo:    columnRepo,
		companyRepo:   companyRepo,
		renderer:      renderer,
		fileStorage:   fileStorage,
		eventBus:      eventBus,
		logger:        logger,
	}
}

// InvoiceAmounts carries the manually entered amounts in transport shape.
// The subtotal and rates are decimal strings.
type InvoiceAmounts struct {
	Subtotal string `json:"subtotal"`
	CGSTRate string `json:"cgst_rate"`
	SGSTRate string `json:"sgst_rate"`
	IGSTRate string `json:"igst_rate"`
}

// CreateInvoiceInput contains input for creating a draft invoice
type CreateInvoiceInput struct {
	CompanyID    uuid.UUID
	Number       string
	ClientID     uuid.UUID
	IssueDate    time.Time
	Amounts      InvoiceAmounts
	CandidateIDs []uuid.UUID
}

// UpdateInvoiceInput contains input for updating a draft invoice
type UpdateInvoiceInput struct {
	CompanyID    uuid.UUID
	InvoiceID    uuid.UUID
	IssueDate    time.Time
	Amounts      InvoiceAmounts
	CandidateIDs []uuid.UUID
}

// ListInvoicesInput contains input for listing invoices
type ListInvoicesInput struct {
	CompanyID uuid.UUID
	ClientID  *uuid.UUID
	Status    *string
	Filter    shared.Filter
}

// InvoiceDTO represents invoice data returned to callers
type InvoiceDTO struct {
	ID             uuid.UUID       `json:"id"`
	CompanyID      uuid.UUID       `json:"company_id"`
	Number         string          `json:"number"`
	ClientID       uuid.UUID       `json:"client_id"`
	IssueDate      time.Time       `json:"issue_date"`
	Status         string          `json:"status"`
	Subtotal       string          `json:"subtotal"`
	CGSTRate       string          `json:"cgst_rate"`
	SGSTRate       string          `json:"sgst_rate"`
	IGSTRate       string          `json:"igst_rate"`
	CGSTAmount     string          `json:"cgst_amount"`
	SGSTAmount     string          `json:"sgst_amount"`
	IGSTAmount     string          `json:"igst_amount"`
	GrandTotal     string          `json:"grand_total"`
	CandidateIDs   []uuid.UUID     `json:"candidate_ids"`
	ClientSnapshot json.RawMessage `json:"client_snapshot,omitempty"`
	DocumentURL    string          `json:"document_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func invoiceToDTO(invoice *billing.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:             invoice.ID,
		CompanyID:      invoice.CompanyID,
		Number:         invoice.Number,
		ClientID:       invoice.ClientID,
		IssueDate:      invoice.IssueDate,
		Status:         string(invoice.Status),
		Subtotal:       invoice.Subtotal.StringFixed(2),
		CGSTRate:       invoice.CGSTRate.String(),
		SGSTRate:       invoice.SGSTRate.String(),
		IGSTRate:       invoice.IGSTRate.String(),
		CGSTAmount:     invoice.CGSTAmount.StringFixed(2),
		SGSTAmount:     invoice.SGSTAmount.StringFixed(2),
		IGSTAmount:     invoice.IGSTAmount.StringFixed(2),
		GrandTotal:     invoice.GrandTotal.StringFixed(2),
		CandidateIDs:   invoice.CandidateIDs,
		ClientSnapshot: invoice.ClientSnapshot,
		DocumentURL:    invoice.DocumentURL,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}

func parseInvoiceAmounts(input InvoiceAmounts) (billing.InvoiceAmountsInput, error) {
	subtotal, err := valueobject.NewMoneyINRFromString(strings.TrimSpace(input.Subtotal))
	if err != nil {
		return billing.InvoiceAmountsInput{}, shared.NewDomainError("INVALID_AMOUNT", "Subtotal must be a decimal number")
	}

	parseRate := func(raw string) (decimal.Decimal, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return decimal.Zero, nil
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, shared.NewDomainError("INVALID_TAX_RATE", "Tax rates must be decimal numbers")
		}
		return rate, nil
	}

	cgst, err := parseRate(input.CGSTRate)
	if err != nil {
		return billing.InvoiceAmountsInput{}, err
	}
	sgst, err := parseRate(input.SGSTRate)
	if err != nil {
		return billing.InvoiceAmountsInput{}, err
	}
	igst, err := parseRate(input.IGSTRate)
	if err != nil {
		return billing.InvoiceAmountsInput{}, err
	}

	return billing.InvoiceAmountsInput{
		Subtotal: subtotal,
		CGSTRate: cgst,
		SGSTRate: sgst,
		IGSTRate: igst,
	}, nil
}

// CreateInvoice creates a draft invoice. Invoice numbers are unique within
// a company.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*InvoiceDTO, error) {
	exists, err := s.invoiceRepo.ExistsByNumber(ctx, input.CompanyID, strings.TrimSpace(input.Number))
	if err != nil {
		s.logger.Error("Failed to check invoice number uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify invoice number")
	}
	if exists {
		return nil, shared.NewDomainError("INVOICE_NUMBER_TAKEN", "An invoice with this number already exists")
	}

	if _, err := s.clientRepo.FindByID(ctx, input.CompanyID, input.ClientID); err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}

	if err := s.validateCandidates(ctx, input.CompanyID, input.ClientID, input.CandidateIDs); err != nil {
		return nil, err
	}

	amounts, err := parseInvoiceAmounts(input.Amounts)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(input.CompanyID, input.Number, input.ClientID, input.IssueDate, amounts)
	if err != nil {
		return nil, err
	}
	if len(input.CandidateIDs) > 0 {
		if err := invoice.SetCandidates(input.CandidateIDs); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.logger.Error("Failed to create invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create invoice")
	}

	if err := s.eventBus.Publish(ctx, invoice.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish invoice events", zap.Error(err))
	}
	invoice.ClearDomainEvents()

	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("company_id", input.CompanyID.String()))

	dto := invoiceToDTO(invoice)
	return &dto, nil
}

// GetInvoice retrieves an invoice within the company scope
func (s *InvoiceService) GetInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.findInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	dto := invoiceToDTO(invoice)
	return &dto, nil
}

// GetLatestInvoiceForClient returns the client's most recent invoice by
// issue date
func (s *InvoiceService) GetLatestInvoiceForClient(ctx context.Context, companyID, clientID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.FindLatestByClient(ctx, companyID, clientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVOICE_NOT_FOUND", "No invoices exist for this client")
		}
		return nil, err
	}
	dto := invoiceToDTO(invoice)
	return &dto, nil
}

// ListInvoices lists invoices matching the filter
func (s *InvoiceService) ListInvoices(ctx context.Context, input ListInvoicesInput) (*shared.Paginated[InvoiceDTO], error) {
	filter := billing.InvoiceFilter{
		Filter:   input.Filter.Normalize(),
		ClientID: input.ClientID,
	}
	if input.Status != nil {
		status := billing.InvoiceStatus(strings.ToUpper(*input.Status))
		filter.Status = &status
	}

	invoices, total, err := s.invoiceRepo.FindAll(ctx, input.CompanyID, filter)
	if err != nil {
		s.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list invoices")
	}

	dtos := make([]InvoiceDTO, len(invoices))
	for i, invoice := range invoices {
		dtos[i] = invoiceToDTO(invoice)
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateInvoice replaces a draft invoice's amounts, issue date and billed
// candidates
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input UpdateInvoiceInput) (*InvoiceDTO, error) {
	invoice, err := s.findInvoice(ctx, input.CompanyID, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.validateCandidates(ctx, input.CompanyID, invoice.ClientID, input.CandidateIDs); err != nil {
		return nil, err
	}

	amounts, err := parseInvoiceAmounts(input.Amounts)
	if err != nil {
		return nil, err
	}

	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = invoice.IssueDate
	}

	if err := invoice.UpdateDraft(amounts, issueDate, input.CandidateIDs); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Invoice was modified concurrently")
		}
		s.logger.Error("Failed to update invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update invoice")
	}

	dto := invoiceToDTO(invoice)
	return &dto, nil
}

// DeleteInvoice removes a draft invoice and any stored document
func (s *InvoiceService) DeleteInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) error {
	invoice, err := s.findInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	if !invoice.IsDeletable() {
		return shared.NewDomainError("INVOICE_NOT_DELETABLE", "Only draft invoices can be deleted")
	}

	if invoice.DocumentURL != "" {
		key := storage.InvoiceKey(companyID, invoiceID)
		if err := s.fileStorage.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete invoice document",
				zap.String("key", key), zap.Error(err))
		}
	}

	if err := s.invoiceRepo.Delete(ctx, companyID, invoiceID); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
		}
		s.logger.Error("Failed to delete invoice", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete invoice")
	}

	s.logger.Info("Invoice deleted",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("company_id", companyID.String()))
	return nil
}

// GenerateInvoice renders the invoice PDF, stores it and moves the invoice
// to GENERATED. Regenerating replaces the stored document and refreshes the
// client snapshot. The company profile must be complete before anything is
// rendered.
func (s *InvoiceService) GenerateInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.findInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == billing.InvoiceStatusSent {
		return nil, shared.NewDomainError("INVOICE_ALREADY_SENT", "Sent invoices cannot be regenerated")
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to load company for invoice generation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load company")
	}
	if !company.ProfileComplete() {
		return nil, shared.NewDomainError("PROFILE_INCOMPLETE", "Complete the company profile before generating invoices")
	}

	client, err := s.clientRepo.FindByID(ctx, companyID, invoice.ClientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
		}
		return nil, err
	}

	data, snapshot, err := s.buildDocumentData(ctx, company, client, invoice)
	if err != nil {
		return nil, err
	}

	html, err := printing.RenderInvoiceHTML(data)
	if err != nil {
		s.logger.Error("Failed to render invoice HTML", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render invoice")
	}

	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		s.logger.Error("Failed to render invoice PDF", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render invoice document")
	}

	key := storage.InvoiceKey(companyID, invoiceID)
	url, err := s.fileStorage.Save(ctx, key, pdf, "application/pdf")
	if err != nil {
		s.logger.Error("Failed to store invoice document", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store invoice document")
	}

	invoice.SetClientSnapshot(snapshot)
	if err := invoice.MarkGenerated(url); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Invoice was modified concurrently")
		}
		s.logger.Error("Failed to update invoice after generation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update invoice")
	}

	if err := s.eventBus.Publish(ctx, invoice.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish invoice events", zap.Error(err))
	}
	invoice.ClearDomainEvents()

	s.logger.Info("Invoice generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("document", key))

	dto := invoiceToDTO(invoice)
	return &dto, nil
}

// SendInvoice marks a generated invoice as sent. Sending an already sent
// invoice is a no-op so retries stay safe.
func (s *InvoiceService) SendInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.findInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	// Already sent, nothing to persist
	if invoice.Status == billing.InvoiceStatusSent {
		dto := invoiceToDTO(invoice)
		return &dto, nil
	}

	if err := invoice.MarkSent(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		if err == shared.ErrConcurrencyConflict {
			return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Invoice was modified concurrently")
		}
		s.logger.Error("Failed to update invoice after send", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update invoice")
	}

	if err := s.eventBus.Publish(ctx, invoice.GetDomainEvents()...); err != nil {
		s.logger.Error("Failed to publish invoice events", zap.Error(err))
	}
	invoice.ClearDomainEvents()

	s.logger.Info("Invoice sent",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number))

	dto := invoiceToDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) findInvoice(ctx context.Context, companyID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, companyID, invoiceID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
		}
		return nil, err
	}
	return invoice, nil
}

// validateCandidates checks that every billed candidate exists under the
// invoice's client within the company
func (s *InvoiceService) validateCandidates(ctx context.Context, companyID, clientID uuid.UUID, candidateIDs []uuid.UUID) error {
	if len(candidateIDs) == 0 {
		return nil
	}

	candidates, err := s.candidateRepo.FindByIDs(ctx, companyID, candidateIDs)
	if err != nil {
		s.logger.Error("Failed to load candidates", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load candidates")
	}

	found := make(map[uuid.UUID]*staffing.Candidate, len(candidates))
	for _, candidate := range candidates {
		found[candidate.ID] = candidate
	}
	for _, id := range candidateIDs {
		candidate, ok := found[id]
		if !ok {
			return shared.NewDomainError("CANDIDATE_NOT_FOUND", "Candidate not found: "+id.String())
		}
		if candidate.ClientID != clientID {
			return shared.NewDomainError("CANDIDATE_NOT_FOUND", "Candidate does not belong to the invoiced client: "+id.String())
		}
	}
	return nil
}

// clientSnapshot is the frozen client detail block embedded in an invoice
type clientSnapshot struct {
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	GSTIN        string `json:"gstin,omitempty"`
	PAN          string `json:"pan,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

func (s *InvoiceService) buildDocumentData(ctx context.Context, company *identity.Company, client *staffing.Client, invoice *billing.Invoice) (printing.InvoiceDocumentData, json.RawMessage, error) {
	columns, err := s.resolveColumns(ctx, invoice.CompanyID, invoice.ClientID)
	if err != nil {
		s.logger.Error("Failed to load column config", zap.Error(err))
		return printing.InvoiceDocumentData{}, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load column config")
	}

	var candidates []*staffing.Candidate
	if len(invoice.CandidateIDs) > 0 {
		candidates, err = s.candidateRepo.FindByIDs(ctx, invoice.CompanyID, invoice.CandidateIDs)
		if err != nil {
			s.logger.Error("Failed to load candidates", zap.Error(err))
			return printing.InvoiceDocumentData{}, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load candidates")
		}
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		label := col.Label
		if label == "" {
			label = printing.ColumnDisplayLabel(col.Key)
		}
		headers[i] = label
	}

	rows := make([][]string, len(candidates))
	for i, candidate := range candidates {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = formatCellValue(candidate.Data[col.Key])
		}
		rows[i] = row
	}

	snapshot := clientSnapshot{
		Name:         client.Name,
		Address:      client.Address.String(),
		GSTIN:        client.GSTIN,
		PAN:          client.PAN,
		ContactName:  client.ContactName,
		ContactEmail: client.ContactEmail,
		ContactPhone: client.ContactPhone,
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return printing.InvoiceDocumentData{}, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to snapshot client details")
	}

	data := printing.InvoiceDocumentData{
		Number:    invoice.Number,
		IssueDate: invoice.IssueDate.Format("02 Jan 2006"),
		Company: printing.InvoiceParty{
			Name:    company.Name,
			Address: company.Address.String(),
			GSTIN:   company.GSTIN,
			PAN:     company.PAN,
			Email:   company.ContactEmail,
			Phone:   company.ContactPhone,
		},
		Client: printing.InvoiceParty{
			Name:    client.Name,
			Address: client.Address.String(),
			GSTIN:   client.GSTIN,
			PAN:     client.PAN,
			Email:   client.ContactEmail,
			Phone:   client.ContactPhone,
		},
		LogoURL:      company.LogoURL,
		SignatureURL: company.SignatureURL,
		Columns:      headers,
		Rows:         rows,
		Subtotal:     invoice.Subtotal.StringFixed(2),
		CGSTRate:     invoice.CGSTRate.String(),
		CGSTAmount:   invoice.CGSTAmount.StringFixed(2),
		SGSTRate:     invoice.SGSTRate.String(),
		SGSTAmount:   invoice.SGSTAmount.StringFixed(2),
		IGSTRate:     invoice.IGSTRate.String(),
		IGSTAmount:   invoice.IGSTAmount.StringFixed(2),
		GrandTotal:   invoice.GrandTotal.StringFixed(2),
		Bank: printing.InvoiceBankDetails{
			AccountName:   company.BankAccountName,
			AccountNumber: company.BankAccountNumber,
			IFSC:          company.BankIFSC,
		},
	}
	return data, snapshotJSON, nil
}

func (s *InvoiceService) resolveColumns(ctx context.Context, companyID, clientID uuid.UUID) ([]staffing.ColumnDefinition, error) {
	config, err := s.columnRepo.FindByClientID(ctx, companyID, clientID)
	if err != nil {
		if err == shared.ErrNotFound {
			return staffing.DefaultColumnDefinitions(), nil
		}
		return nil, err
	}
	return config.Columns, nil
}

func formatCellValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
