package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/bonos-api/pkg/pagination"
)

// ReportHandler handles report requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Billing handles the billing report, optionally enriched with bonuses.
// The enrichment imputes each row's bonus from its vendor's effective rate
// over the bonus range, which may differ from the report range.
// @Summary Billing Report
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Param start_date query string true "Issued on or after (YYYY-MM-DD)"
// @Param end_date query string true "Issued on or before (YYYY-MM-DD)"
// @Param case_number query string false "Case number substring"
// @Param vendor_id query string false "Vendor ID"
// @Param client_id query string false "Client ID"
// @Param vendor_rut query string false "Vendor RUT substring"
// @Param with_bonus query bool false "Add bono_calculado and porcentaje_bono_aplicado"
// @Param bonus_start_date query string false "Bonus range start, defaults to start_date"
// @Param bonus_end_date query string false "Bonus range end, defaults to end_date"
// @Param bonus_vendor_id query string false "Restrict the bonus calculation to a vendor"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Rows per page, at most 1000" default(15)
// @Success 200 {object} response.APIResponse{data=response.BillingReportResponse}
// @Failure 400 {object} response.APIResponse "start date after end date"
// @Router /reports/billing [get]
func (h *ReportHandler) Billing(c *gin.Context) {
	var q request.BillingReportQuery
	if !bindQuery(c, &q) {
		return
	}

	filter := repository.ReportFilter{
		StartDate:  optionalDate(q.StartDate),
		EndDate:    optionalDate(q.EndDate),
		CaseNumber: q.CaseNumber,
		VendorID:   optionalUUID(q.VendorID),
		ClientID:   optionalUUID(q.ClientID),
		VendorRUT:  q.VendorRUT,
	}
	params := &pagination.PaginationParams{Page: q.Page, PerPage: q.PerPage}

	var (
		report *service.BillingReport
		err    error
	)
	if q.WithBonus {
		report, err = h.reportService.GetBillingReportWithBonuses(c.Request.Context(), filter, params, service.BonusRange{
			StartDate: optionalDate(q.BonusStartDate),
			EndDate:   optionalDate(q.BonusEndDate),
			VendorID:  optionalUUID(q.BonusVendorID),
		})
	} else {
		report, err = h.reportService.GetBillingReport(c.Request.Context(), filter, params)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Billing report retrieved successfully", response.NewBillingReportResponse(report))
}
