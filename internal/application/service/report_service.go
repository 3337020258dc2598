package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/logger"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ReportService builds billing reports
type ReportService struct {
	reportRepo   repository.ReportRepository
	bonusService *BonusService
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository, bonusService *BonusService) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		bonusService: bonusService,
	}
}

// BillingReport is one page of the billing report plus totals over every
// matching row
type BillingReport struct {
	Rows         []repository.ReportRow
	Pagination   *pagination.Pagination
	TotalFees    decimal.Decimal
	VendorTotals []repository.VendorFeeTotal
	// Bonus is set when the report was enriched
	Bonus *bonus.Calculation
}

// BonusRange selects the bonus calculation a report is enriched with.
// A zero range defaults to the report's own dates.
type BonusRange struct {
	StartDate time.Time
	EndDate   time.Time
	VendorID  *uuid.UUID
}

// GetBillingReport returns a page of report rows with fee totals
func (s *ReportService) GetBillingReport(ctx context.Context, filter repository.ReportFilter, params *pagination.PaginationParams) (*BillingReport, error) {
	if err := bonus.ValidateRange(filter.StartDate, filter.EndDate); err != nil {
		return nil, rangeError(err)
	}
	filter.StartDate, filter.EndDate = bonus.DateOf(filter.StartDate), bonus.DateOf(filter.EndDate)
	return s.fetch(ctx, filter, params)
}

// GetBillingReportWithBonuses fetches the report and a bonus calculation
// concurrently, then imputes each row's bonus from its vendor's effective rate.
func (s *ReportService) GetBillingReportWithBonuses(ctx context.Context, filter repository.ReportFilter, params *pagination.PaginationParams, bonusRange BonusRange) (*BillingReport, error) {
	if err := bonus.ValidateRange(filter.StartDate, filter.EndDate); err != nil {
		return nil, rangeError(err)
	}
	filter.StartDate, filter.EndDate = bonus.DateOf(filter.StartDate), bonus.DateOf(filter.EndDate)

	if bonusRange.StartDate.IsZero() {
		bonusRange.StartDate = filter.StartDate
	}
	if bonusRange.EndDate.IsZero() {
		bonusRange.EndDate = filter.EndDate
	}

	var (
		report *BillingReport
		calc   *bonus.Calculation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report, err = s.fetch(gctx, filter, params)
		return err
	})
	g.Go(func() error {
		var err error
		calc, err = s.bonusService.CalculateBonuses(gctx, &CalculateBonusesInput{
			StartDate: bonusRange.StartDate,
			EndDate:   bonusRange.EndDate,
			VendorID:  bonusRange.VendorID,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !bonus.DateOf(bonusRange.StartDate).Equal(filter.StartDate) || !bonus.DateOf(bonusRange.EndDate).Equal(filter.EndDate) {
		logger.FromContext(ctx).Info("billing report enriched with bonuses from a different range",
			"report_start", filter.StartDate.Format(bonus.DateLayout),
			"report_end", filter.EndDate.Format(bonus.DateLayout),
			"bonus_start", calc.StartDate.Format(bonus.DateLayout),
			"bonus_end", calc.EndDate.Format(bonus.DateLayout),
		)
	}

	report.Rows = bonus.Enrich(report.Rows, calc.Results)
	report.Bonus = calc
	return report, nil
}

func (s *ReportService) fetch(ctx context.Context, filter repository.ReportFilter, params *pagination.PaginationParams) (*BillingReport, error) {
	rows, total, err := s.reportRepo.BillingRows(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	sum, perVendor, err := s.reportRepo.FeeTotals(ctx, filter)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []repository.ReportRow{}
	}
	return &BillingReport{
		Rows:         rows,
		Pagination:   pagination.NewPagination(params.Page, params.PerPage, total),
		TotalFees:    sum,
		VendorTotals: perVendor,
	}, nil
}
