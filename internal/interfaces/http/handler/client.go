package handler

import (
	"github.com/gin-gonic/gin"
	staffingapp "github.com/hrms/backend/internal/application/staffing"
)

// ClientHandler handles client endpoints, including per-client candidate
// column configuration.
type ClientHandler struct {
	BaseHandler
	clientService *staffingapp.ClientService
	columnService *staffingapp.ColumnConfigService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *staffingapp.ClientService, columnService *staffingapp.ColumnConfigService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		columnService: columnService,
	}
}

// CreateClientRequest is the client creation request body
type CreateClientRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateClientRequest is the client details update request body
type UpdateClientRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Address      *AddressRequest `json:"address"`
	GSTIN        string          `json:"gstin" binding:"omitempty,gstin"`
	PAN          string          `json:"pan" binding:"omitempty,pan"`
	ContactName  string          `json:"contact_name" binding:"max=200"`
	ContactEmail string          `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string          `json:"contact_phone" binding:"max=20"`
}

// ColumnRequest is one column definition in a request body
type ColumnRequest struct {
	Key      string `json:"key" binding:"required,max=100"`
	Label    string `json:"label" binding:"max=200"`
	Type     string `json:"type" binding:"omitempty,oneof=text number date email phone"`
	Required bool   `json:"required"`
}

// SetColumnsRequest replaces a client's column configuration
type SetColumnsRequest struct {
	Columns []ColumnRequest `json:"columns" binding:"required,min=1,dive"`
}

// Create creates a client
func (h *ClientHandler) Create(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), staffingapp.CreateClientInput{
		CompanyID: companyID,
		Name:      req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, client)
}

// List lists clients
func (h *ClientHandler) List(c *gin.Context) {
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

	result, err := h.clientService.ListClients(c.Request.Context(), staffingapp.ListClientsInput{
		CompanyID: companyID,
		Filter:    filter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// GetByID retrieves a client
func (h *ClientHandler) GetByID(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), companyID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// Update replaces a client's details
func (h *ClientHandler) Update(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := staffingapp.UpdateClientInput{
		CompanyID:    companyID,
		ClientID:     clientID,
		Name:         req.Name,
		GSTIN:        req.GSTIN,
		PAN:          req.PAN,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}
	if req.Address != nil {
		input.Address = &staffingapp.AddressInput{
			Line:    req.Address.Line,
			City:    req.Address.City,
			State:   req.Address.State,
			Pincode: req.Address.Pincode,
		}
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// SetStatus activates or deactivates a client
func (h *ClientHandler) SetStatus(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clientService.SetClientStatus(c.Request.Context(), staffingapp.SetClientStatusInput{
		CompanyID: companyID,
		ClientID:  clientID,
		Active:    *req.Active,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, client)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), companyID, clientID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetColumns returns the client's candidate column configuration, falling
// back to the defaults when none is stored
func (h *ClientHandler) GetColumns(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	config, err := h.columnService.GetColumns(c.Request.Context(), companyID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, config)
}

// SetColumns replaces the client's candidate column configuration
func (h *ClientHandler) SetColumns(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		h.Forbidden(c, "A company scope is required")
		return
	}

	clientID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req SetColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	columns := make([]staffingapp.ColumnInput, len(req.Columns))
	for i, col := range req.Columns {
		columns[i] = staffingapp.ColumnInput{
			Key:      col.Key,
			Label:    col.Label,
			Type:     col.Type,
			Required: col.Required,
		}
	}

	config, err := h.columnService.SetColumns(c.Request.Context(), staffingapp.SetColumnsInput{
		CompanyID: companyID,
		ClientID:  clientID,
		Columns:   columns,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, config)
}

// RegisterRoutes registers client endpoints
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/staffing/clients")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/:id", h.GetByID)
		clients.PUT("/:id", h.Update)
		clients.PUT("/:id/status", h.SetStatus)
		clients.DELETE("/:id", h.Delete)
		clients.GET("/:id/columns", h.GetColumns)
		clients.PUT("/:id/columns", h.SetColumns)
	}
}
