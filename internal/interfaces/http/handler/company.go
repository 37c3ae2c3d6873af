package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/hrms/backend/internal/application/identity"
)

// CompanyHandler handles company (tenant) endpoints. Creating, listing and
// toggling companies is reserved for superusers; a company's own users can
// read and update their company profile.
type CompanyHandler struct {
	BaseHandler
	companyService *identityapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService *identityapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// CreateCompanyRequest is the company creation request body
type CreateCompanyRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Subdomain string `json:"subdomain" binding:"required,subdomain"`
}

// AddressRequest is a postal address in a request body
type AddressRequest struct {
	Line    string `json:"line" binding:"required,max=500"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	Pincode string `json:"pincode" binding:"omitempty,len=6"`
}

// UpdateCompanyRequest is the company profile update request body
type UpdateCompanyRequest struct {
	Address           *AddressRequest `json:"address"`
	GSTIN             string          `json:"gstin" binding:"omitempty,gstin"`
	PAN               string          `json:"pan" binding:"omitempty,pan"`
	ContactEmail      string          `json:"contact_email" binding:"omitempty,email"`
	ContactPhone      string          `json:"contact_phone" binding:"max=20"`
	BankAccountName   string          `json:"bank_account_name" binding:"max=200"`
	BankAccountNumber string          `json:"bank_account_number" binding:"max=34"`
	BankIFSC          string          `json:"bank_ifsc" binding:"omitempty,ifsc"`
}

// SetStatusRequest toggles a resource's active flag
type SetStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *CompanyHandler) canAccess(c *gin.Context, companyID uuid.UUID) bool {
	cl := claims(c)
	if cl == nil {
		return false
	}
	if cl.Superuser {
		return true
	}
	return cl.CompanyID == companyID.String()
}

// Create creates a new company; superuser only
func (h *CompanyHandler) Create(c *gin.Context) {
	cl := claims(c)
	if cl == nil || !cl.Superuser {
		h.Forbidden(c, "Only superusers can create companies")
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), identityapp.CreateCompanyInput{
		Name:      req.Name,
		Subdomain: req.Subdomain,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, company)
}

// List lists companies; superuser only
func (h *CompanyHandler) List(c *gin.Context) {
	cl := claims(c)
	if cl == nil || !cl.Superuser {
		h.Forbidden(c, "Only superusers can list companies")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.companyService.ListCompanies(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// GetByID retrieves a company
func (h *CompanyHandler) GetByID(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}
	if !h.canAccess(c, companyID) {
		h.Forbidden(c, "Cannot access another company")
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// Update replaces the company profile
func (h *CompanyHandler) Update(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}
	if !h.canAccess(c, companyID) {
		h.Forbidden(c, "Cannot update another company")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := identityapp.UpdateCompanyInput{
		ID:                companyID,
		GSTIN:             req.GSTIN,
		PAN:               req.PAN,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		BankAccountName:   req.BankAccountName,
		BankAccountNumber: req.BankAccountNumber,
		BankIFSC:          req.BankIFSC,
	}
	if req.Address != nil {
		input.Address = &identityapp.AddressInput{
			Line:    req.Address.Line,
			City:    req.Address.City,
			State:   req.Address.State,
			Pincode: req.Address.Pincode,
		}
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// UploadAsset uploads a branding asset (logo, signature or banner) as a
// multipart file
func (h *CompanyHandler) UploadAsset(c *gin.Context) {
	companyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}
	if !h.canAccess(c, companyID) {
		h.Forbidden(c, "Cannot update another company")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Cannot read uploaded file")
		return
	}

	company, err := h.companyService.UploadBrandingAsset(c.Request.Context(), identityapp.UploadBrandingAssetInput{
		CompanyID: companyID,
		Kind:      c.Param("kind"),
		Filename:  fileHeader.Filename,
		Data:      data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// SetStatus activates or deactivates a company; superuser only
func (h *CompanyHandler) SetStatus(c *gin.Context) {
	cl := claims(c)
	if cl == nil || !cl.Superuser {
		h.Forbidden(c, "Only superusers can change company status")
		return
	}

	companyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid company ID format")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	company, err := h.companyService.SetCompanyStatus(c.Request.Context(), companyID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, company)
}

// RegisterRoutes registers company endpoints
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	companies := rg.Group("/identity/companies")
	{
		companies.POST("", h.Create)
		companies.GET("", h.List)
		companies.GET("/:id", h.GetByID)
		companies.PUT("/:id", h.Update)
		companies.POST("/:id/assets/:kind", h.UploadAsset)
		companies.PUT("/:id/status", h.SetStatus)
	}
}
