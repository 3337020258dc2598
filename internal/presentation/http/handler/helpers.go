package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/bonos-api/internal/presentation/http/middleware"
	"github.com/sangkips/bonos-api/internal/presentation/http/validation"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// bindJSON binds the body into req and writes the error response on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeBindError(c, err, "Invalid request body")
		return false
	}
	return true
}

// bindQuery binds the query string into req and writes the error response on failure
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		writeBindError(c, err, "Invalid query parameters")
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error, fallback string) {
	if fields := validation.FieldErrors(err); fields != nil {
		response.ValidationError(c, fields)
		return
	}
	response.BadRequest(c, fallback)
}

// paramID parses a UUID path parameter, answering 400 when it is malformed
func paramID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromStrings(c.Query("page"), c.Query("per_page"))
}

// optionalUUID parses s, which binding has already checked, or returns nil when blank
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

// optionalDate parses s, which binding has already checked, or returns the zero time
func optionalDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := bonus.ParseDate(s)
	return t
}

// fraction converts a whole percent from a request into the stored fraction
func fraction(percent decimal.Decimal) decimal.Decimal {
	return bonus.FromPercent(percent)
}
