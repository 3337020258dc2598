package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
// @Summary List Invoices
// @Tags invoices
// @Security BearerAuth
// @Param start_date query string false "Issued on or after (YYYY-MM-DD)"
// @Param end_date query string false "Issued on or before (YYYY-MM-DD)"
// @Param vendor_id query string false "Vendor ID"
// @Param client_id query string false "Client ID"
// @Param search query string false "Order or case number"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var q request.InvoiceListQuery
	if !bindQuery(c, &q) {
		return
	}

	filter := repository.InvoiceFilter{
		VendorID: optionalUUID(q.VendorID),
		ClientID: optionalUUID(q.ClientID),
		Search:   q.Search,
	}
	if q.StartDate != "" {
		start := optionalDate(q.StartDate)
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end := optionalDate(q.EndDate)
		filter.EndDate = &end
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), filter, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved successfully", response.NewInvoicePage(result))
}

// Create handles recording an invoice
// @Summary Create Invoice
// @Tags invoices
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse "client not assigned to vendor"
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	issuedOn, err := bonus.ParseDate(req.IssuedOn)
	if err != nil {
		response.BadRequest(c, "issued_on must be a date in YYYY-MM-DD format")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		OrderNumber: req.OrderNumber,
		CaseNumber:  req.CaseNumber,
		IssuedOn:    issuedOn,
		Fees:        req.Fees,
		Expenses:    req.Expenses,
		VendorID:    req.VendorID,
		ClientID:    req.ClientID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", response.NewInvoiceResponse(invoice))
}

// Get handles getting an invoice
// @Summary Get Invoice
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", response.NewInvoiceResponse(invoice))
}

// Update handles a partial invoice update
// @Summary Update Invoice
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param request body request.UpdateInvoiceRequest true "Invoice data"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.UpdateInvoiceInput{
		ID:          id,
		OrderNumber: req.OrderNumber,
		CaseNumber:  req.CaseNumber,
		Fees:        req.Fees,
		Expenses:    req.Expenses,
		VendorID:    req.VendorID,
		ClientID:    req.ClientID,
	}
	if req.IssuedOn != nil {
		issuedOn, err := bonus.ParseDate(*req.IssuedOn)
		if err != nil {
			response.BadRequest(c, "issued_on must be a date in YYYY-MM-DD format")
			return
		}
		input.IssuedOn = &issuedOn
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", response.NewInvoiceResponse(invoice))
}

// Delete handles deleting an invoice
// @Summary Delete Invoice
// @Tags invoices
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.APIResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}

// Import handles bulk creation of invoices
// @Summary Import Invoices
// @Tags invoices
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body request.ImportInvoicesRequest true "Parsed rows"
// @Success 200 {object} response.APIResponse
// @Router /invoices/import [post]
func (h *InvoiceHandler) Import(c *gin.Context) {
	var req request.ImportInvoicesRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.invoiceService.ImportInvoices(c.Request.Context(), req.Rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice import finished", response.ConvertImport(result, response.NewInvoiceResponse))
}
