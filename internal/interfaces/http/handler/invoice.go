package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/hrms/backend/internal/application/billing"
)

// InvoiceHandler handles invoice endpoints, including PDF generation and
// the draft to generated to sent lifecycle.
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceAmountsRequest carries the manually entered invoice amounts as
// decimal strings
type InvoiceAmountsRequest struct {
	Subtotal string `json:"subtotal" binding:"required"`
	CGSTRate string `json:"cgst_rate"`
	SGSTRate string `json:"sgst_rate"`
	IGSTRate string `json:"igst_rate"`
}

// CreateInvoiceRequest is the invoice creation request body. IssueDate is
// RFC 3339 date; empty means today.
type CreateInvoiceRequest struct {
	Number       string                `json:"number" binding:"required,max=50"`
	ClientID     string                `json:"client_id" binding:"required,uuid"`
	IssueDate    string                `json:"issue_date"`
	Amounts      InvoiceAmountsRequest `json:"amounts" binding:"required"`
	CandidateIDs []string              `json:"candidate_ids" binding:"omitempty,dive,uuid"`
}

// UpdateInvoiceRequest is the draft invoice update request body
type UpdateInvoiceRequest struct {
	IssueDate    string                `json:"issue_date"`
	Amounts      InvoiceAmountsRequest `json:"amounts" binding:"required"`
	CandidateIDs []string              `json:"candidate_ids" binding:"omitempty,dive,uuid"`
}

func parseIssueDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseCandidateIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Create creates a draft invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	issueDate, err := parseIssueDate(req.IssueDate)
	if err != nil {
		h.BadRequest(c, "Issue date must be YYYY-MM-DD or RFC 3339")
		return
	}

	candidateIDs, err := parseCandidateIDs(req.CandidateIDs)
	if err != nil {
		h.BadRequest(c, "Invalid candidate ID format")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), billingapp.CreateInvoiceInput{
		CompanyID: companyID,
		Number:    req.Number,
		ClientID:  clientID,
		IssueDate: issueDate,
		Amounts: billingapp.InvoiceAmounts{
			Subtotal: req.Amounts.Subtotal,
			CGSTRate: req.Amounts.CGSTRate,
			SGSTRate: req.Amounts.SGSTRate,
			IGSTRate: req.Amounts.IGSTRate,
		},
		CandidateIDs: candidateIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// List lists invoices, optionally filtered by client and status
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	input := billingapp.ListInvoicesInput{
		CompanyID: companyID,
		Filter:    filter,
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid client ID format")
			return
		}
		input.ClientID = &clientID
	}
	if raw := c.Query("status"); raw != "" {
		input.Status = &raw
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Latest returns the most recent invoice for a client
func (h *InvoiceHandler) Latest(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	clientID, err := uuid.Parse(c.Query("client_id"))
	if err != nil {
		h.BadRequest(c, "client_id query parameter is required")
		return
	}

	invoice, err := h.invoiceService.GetLatestInvoiceForClient(c.Request.Context(), companyID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// GetByID retrieves an invoice
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Update edits a draft invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	issueDate, err := parseIssueDate(req.IssueDate)
	if err != nil {
		h.BadRequest(c, "Issue date must be YYYY-MM-DD or RFC 3339")
		return
	}

	candidateIDs, err := parseCandidateIDs(req.CandidateIDs)
	if err != nil {
		h.BadRequest(c, "Invalid candidate ID format")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), billingapp.UpdateInvoiceInput{
		CompanyID: companyID,
		InvoiceID: invoiceID,
		IssueDate: issueDate,
		Amounts: billingapp.InvoiceAmounts{
			Subtotal: req.Amounts.Subtotal,
			CGSTRate: req.Amounts.CGSTRate,
			SGSTRate: req.Amounts.SGSTRate,
			IGSTRate: req.Amounts.IGSTRate,
		},
		CandidateIDs: candidateIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete removes a draft invoice and its document, if any
func (h *InvoiceHandler) Delete(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), companyID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Generate renders the invoice PDF and stores it. Regenerating replaces the
// previous document.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Send marks a generated invoice as sent. Sending an already sent invoice
// is a no-op.
func (h *InvoiceHandler) Send(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), companyID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// RegisterRoutes registers invoice endpoints
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/billing/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/latest", h.Latest)
		invoices.GET("/:id", h.GetByID)
		invoices.PUT("/:id", h.Update)
		invoices.DELETE("/:id", h.Delete)
		invoices.POST("/:id/generate", h.Generate)
		invoices.POST("/:id/send", h.Send)
	}
}
