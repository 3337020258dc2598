package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/response"
)

// VendorHandler handles vendor and commission assignment HTTP requests
type VendorHandler struct {
	vendorService *service.VendorService
}

// NewVendorHandler creates a new vendor handler
func NewVendorHandler(vendorService *service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// List handles listing vendors
// @Summary List Vendors
// @Tags vendors
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search by name or RUT"
// @Success 200 {object} response.APIResponse
// @Router /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	result, err := h.vendorService.ListVendors(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Vendors retrieved successfully", response.NewVendorPage(result))
}

// Create handles creating a vendor with optional initial assignments
// @Summary Create Vendor
// @Tags vendors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateVendorRequest true "Vendor data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse "RUT already registered"
// @Router /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	var req request.CreateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.CreateVendorInput{
		FullName:   req.FullName,
		RUT:        req.RUT,
		BaseSalary: req.BaseSalary,
	}
	for _, a := range req.Assignments {
		input.Assignments = append(input.Assignments, service.AssignmentInput{
			ClientID:   a.ClientID,
			Percentage: fraction(a.Percentage),
		})
	}

	vendor, err := h.vendorService.CreateVendor(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Vendor created successfully", response.NewVendorResponse(vendor))
}

// Get handles getting a vendor with its assignments
// @Summary Get Vendor
// @Tags vendors
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id} [get]
func (h *VendorHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "vendor")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetVendor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor retrieved successfully", response.NewVendorResponse(vendor))
}

// Update handles updating a vendor
// @Summary Update Vendor
// @Tags vendors
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Param request body request.UpdateVendorRequest true "Vendor data"
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "vendor")
	if !ok {
		return
	}

	var req request.UpdateVendorRequest
	if !bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.UpdateVendor(c.Request.Context(), &service.UpdateVendorInput{
		ID:         id,
		FullName:   req.FullName,
		BaseSalary: req.BaseSalary,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor updated successfully", response.NewVendorResponse(vendor))
}

// Delete handles deleting a vendor without invoices
// @Summary Delete Vendor
// @Tags vendors
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse "vendor has invoices"
// @Router /vendors/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "vendor")
	if !ok {
		return
	}

	if err := h.vendorService.DeleteVendor(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor deleted successfully", nil)
}

// Import handles bulk creation of vendors
// @Summary Import Vendors
// @Tags vendors
// @Security BearerAuth
// @Param request body request.ImportVendorsRequest true "Parsed rows"
// @Success 200 {object} response.APIResponse
// @Router /vendors/import [post]
func (h *VendorHandler) Import(c *gin.Context) {
	var req request.ImportVendorsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.vendorService.ImportVendors(c.Request.Context(), req.Rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Vendor import finished", response.ConvertImport(result, response.NewVendorResponse))
}

// ListAssignments handles listing a vendor's commission assignments
// @Summary List Assignments
// @Tags vendors
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id}/clients [get]
func (h *VendorHandler) ListAssignments(c *gin.Context) {
	id, ok := paramID(c, "id", "vendor")
	if !ok {
		return
	}

	assignments, err := h.vendorService.ListAssignments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Assignments retrieved successfully", response.NewAssignmentList(assignments))
}

// AddAssignment handles assigning a client to a vendor
// @Summary Add Assignment
// @Tags vendors
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Param request body request.AssignmentRequest true "Client and whole percent"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse "client already assigned"
// @Router /vendors/{id}/clients [post]
func (h *VendorHandler) AddAssignment(c *gin.Context) {
	id, ok := paramID(c, "id", "vendor")
	if !ok {
		return
	}

	var req request.AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.vendorService.AddAssignment(c.Request.Context(), id, &service.AssignmentInput{
		ClientID:   req.ClientID,
		Percentage: fraction(req.Percentage),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Assignment created successfully", response.NewAssignmentResponse(assignment))
}

// UpdateAssignment handles changing an assignment's percentage
// @Summary Update Assignment
// @Tags vendors
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Param client_id path string true "Client ID"
// @Param request body request.UpdateAssignmentRequest true "Whole percent"
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id}/clients/{client_id} [put]
func (h *VendorHandler) UpdateAssignment(c *gin.Context) {
	vendorID, ok := paramID(c, "id", "vendor")
	if !ok {
		return
	}
	clientID, ok := paramID(c, "client_id", "client")
	if !ok {
		return
	}

	var req request.UpdateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	assignment, err := h.vendorService.UpdateAssignment(c.Request.Context(), vendorID, clientID, fraction(req.Percentage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Assignment updated successfully", response.NewAssignmentResponse(assignment))
}

// RemoveAssignment handles unassigning a client from a vendor
// @Summary Remove Assignment
// @Tags vendors
// @Security BearerAuth
// @Param id path string true "Vendor ID"
// @Param client_id path string true "Client ID"
// @Success 200 {object} response.APIResponse
// @Router /vendors/{id}/clients/{client_id} [delete]
func (h *VendorHandler) RemoveAssignment(c *gin.Context) {
	vendorID, ok := paramID(c, "id", "vendor")
	if !ok {
		return
	}
	clientID, ok := paramID(c, "client_id", "client")
	if !ok {
		return
	}

	if err := h.vendorService.RemoveAssignment(c.Request.Context(), vendorID, clientID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Assignment removed successfully", nil)
}
