package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/response"
)

// BonusHandler handles bonus calculation requests
type BonusHandler struct {
	bonusService *service.BonusService
}

// NewBonusHandler creates a new bonus handler
func NewBonusHandler(bonusService *service.BonusService) *BonusHandler {
	return &BonusHandler{bonusService: bonusService}
}

// Calculate handles computing vendor bonuses for a date range
// @Summary Calculate Bonuses
// @Description Both dates are inclusive. Percentages in the response are whole percent.
// @Tags bonuses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CalculateBonusesRequest true "Date range"
// @Success 200 {object} response.APIResponse{data=response.BonusCalculationResponse}
// @Failure 400 {object} response.APIResponse "start date after end date"
// @Failure 422 {object} response.APIResponse
// @Router /bonuses/calculate [post]
func (h *BonusHandler) Calculate(c *gin.Context) {
	var req request.CalculateBonusesRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := bonus.ParseDate(req.StartDate)
	if err != nil {
		response.BadRequest(c, "start_date must be a date in YYYY-MM-DD format")
		return
	}
	end, err := bonus.ParseDate(req.EndDate)
	if err != nil {
		response.BadRequest(c, "end_date must be a date in YYYY-MM-DD format")
		return
	}

	calc, err := h.bonusService.CalculateBonuses(c.Request.Context(), &service.CalculateBonusesInput{
		StartDate: start,
		EndDate:   end,
		VendorID:  req.VendorID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bonuses calculated successfully", response.NewBonusCalculationResponse(calc))
}
