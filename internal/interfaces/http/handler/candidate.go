package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	staffingapp "github.com/hrms/backend/internal/application/staffing"
)

// CandidateHandler handles candidate endpoints
type CandidateHandler struct {
	BaseHandler
	candidateService *staffingapp.CandidateService
}

// NewCandidateHandler creates a new CandidateHandler
func NewCandidateHandler(candidateService *staffingapp.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService}
}

// CreateCandidateRequest is the candidate creation request body. Data holds
// the values for the client's configured columns, keyed by column key.
type CreateCandidateRequest struct {
	ClientID string         `json:"client_id" binding:"required,uuid"`
	Data     map[string]any `json:"data" binding:"required"`
}

// UpdateCandidateRequest replaces a candidate's column data
type UpdateCandidateRequest struct {
	Data map[string]any `json:"data" binding:"required"`
}

// Create creates a candidate under a client
func (h *CandidateHandler) Create(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	var req CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	candidate, err := h.candidateService.CreateCandidate(c.Request.Context(), staffingapp.CreateCandidateInput{
		CompanyID: companyID,
		ClientID:  clientID,
		Data:      req.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, candidate)
}

// List lists candidates, optionally filtered by client
func (h *CandidateHandler) List(c *gin.Context) {
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

	input := staffingapp.ListCandidatesInput{
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
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		input.Active = &active
	}

	result, err := h.candidateService.ListCandidates(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// GetByID retrieves a candidate
func (h *CandidateHandler) GetByID(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid candidate ID format")
		return
	}

	candidate, err := h.candidateService.GetCandidate(c.Request.Context(), companyID, candidateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, candidate)
}

// Update replaces a candidate's column data
func (h *CandidateHandler) Update(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid candidate ID format")
		return
	}

	var req UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	candidate, err := h.candidateService.UpdateCandidate(c.Request.Context(), staffingapp.UpdateCandidateInput{
		CompanyID:   companyID,
		CandidateID: candidateID,
		Data:        req.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, candidate)
}

// SetStatus activates or deactivates a candidate record
func (h *CandidateHandler) SetStatus(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid candidate ID format")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	candidate, err := h.candidateService.SetCandidateStatus(c.Request.Context(), staffingapp.SetCandidateStatusInput{
		CompanyID:   companyID,
		CandidateID: candidateID,
		Active:      *req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, candidate)
}

// Delete removes a candidate
func (h *CandidateHandler) Delete(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	candidateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid candidate ID format")
		return
	}

	if err := h.candidateService.DeleteCandidate(c.Request.Context(), companyID, candidateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers candidate endpoints
func (h *CandidateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	candidates := rg.Group("/staffing/candidates")
	{
		candidates.POST("", h.Create)
		candidates.GET("", h.List)
		candidates.GET("/:id", h.GetByID)
		candidates.PUT("/:id", h.Update)
		candidates.PUT("/:id/status", h.SetStatus)
		candidates.DELETE("/:id", h.Delete)
	}
}
