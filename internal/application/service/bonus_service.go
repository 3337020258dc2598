package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/sangkips/bonos-api/pkg/logger"
)

// BonusService runs commission calculations
type BonusService struct {
	engine *bonus.Engine
	cache  *BonusCache
}

// NewBonusService creates a new bonus service
func NewBonusService(
	invoiceRepo repository.InvoiceRepository,
	assignmentRepo repository.AssignmentRepository,
	cache *BonusCache,
) *BonusService {
	return &BonusService{
		engine: bonus.NewEngine(invoiceRepo, assignmentRepo),
		cache:  cache,
	}
}

// CalculateBonusesInput represents the calculate bonuses input
type CalculateBonusesInput struct {
	StartDate time.Time
	EndDate   time.Time
	VendorID  *uuid.UUID
}

// CalculateBonuses computes per vendor bonuses for invoices issued in the
// inclusive range. Results are sorted by vendor name.
func (s *BonusService) CalculateBonuses(ctx context.Context, input *CalculateBonusesInput) (*bonus.Calculation, error) {
	log := logger.FromContext(ctx)

	if err := bonus.ValidateRange(input.StartDate, input.EndDate); err != nil {
		return nil, rangeError(err)
	}
	start, end := bonus.DateOf(input.StartDate), bonus.DateOf(input.EndDate)

	if calc, ok := s.cache.Get(start, end, input.VendorID); ok {
		log.Debug("bonus calculation served from cache", "start_date", start.Format(bonus.DateLayout), "end_date", end.Format(bonus.DateLayout))
		return calc, nil
	}

	gen := s.cache.Generation()
	calc, err := s.engine.Calculate(ctx, start, end, input.VendorID)
	if err != nil {
		return nil, rangeError(err)
	}

	for _, w := range calc.Unresolved {
		log.Warn("invoice has no commission assignment, bonus set to zero",
			"vendor_id", w.VendorID,
			"client_id", w.ClientID,
			"invoice_id", w.InvoiceID,
		)
	}

	sort.SliceStable(calc.Results, func(i, j int) bool {
		return strings.ToLower(calc.Results[i].VendorName) < strings.ToLower(calc.Results[j].VendorName)
	})

	log.Info("bonus calculation completed",
		"start_date", start.Format(bonus.DateLayout),
		"end_date", end.Format(bonus.DateLayout),
		"vendors", len(calc.Results),
		"unresolved", len(calc.Unresolved),
	)

	if !s.cache.Set(gen, calc) {
		log.Debug("bonus cache invalidated during calculation, result not stored")
	}
	return calc, nil
}

// rangeError maps an invalid range to a 400 and passes anything else through.
func rangeError(err error) error {
	var rangeErr *bonus.InvalidRangeError
	if errors.As(err, &rangeErr) {
		return apperror.NewBadRequestError(rangeErr.Error())
	}
	return err
}
