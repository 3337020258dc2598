package repository

import (
	"context"
	"strings"

	domainRepo "github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

const billingColumns = `
	i.id AS invoice_id,
	i.order_number,
	i.case_number,
	i.issued_on,
	i.fees,
	i.expenses,
	v.id AS vendor_id,
	v.full_name AS vendor_name,
	v.rut AS vendor_rut,
	c.id AS client_id,
	c.legal_name AS client_name,
	c.rut AS client_rut`

type feeSum struct {
	Total decimal.Decimal
}

// billing builds the joined, filtered invoice query shared by every report.
func (r *reportRepository) billing(ctx context.Context, f domainRepo.ReportFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("invoices AS i").
		Joins("JOIN vendors v ON v.id = i.vendor_id").
		Joins("JOIN clients c ON c.id = i.client_id").
		Where("i.issued_on >= ? AND i.issued_on <= ?", f.StartDate, f.EndDate).
		Scopes(Search(f.CaseNumber, "i.case_number"))

	if f.VendorID != nil {
		query = query.Where("i.vendor_id = ?", *f.VendorID)
	}
	if f.ClientID != nil {
		query = query.Where("i.client_id = ?", *f.ClientID)
	}
	if rut := compactRUT(f.VendorRUT); rut != "" {
		query = query.Where("UPPER(REPLACE(REPLACE(v.rut, '.', ''), '-', '')) LIKE ?", "%"+rut+"%")
	}
	return query
}

// compactRUT strips formatting so partial RUTs typed with or without dots match.
func compactRUT(s string) string {
	return strings.ToUpper(strings.NewReplacer(".", "", "-", "", " ", "").Replace(s))
}

func (r *reportRepository) BillingRows(ctx context.Context, filter domainRepo.ReportFilter, params *pagination.PaginationParams) ([]domainRepo.ReportRow, int64, error) {
	var rows []domainRepo.ReportRow
	var total int64

	if err := r.billing(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.ValidateMax(pagination.MaxReportPerPage)
	err := r.billing(ctx, filter).
		Select(billingColumns).
		Order("i.issued_on DESC, i.order_number ASC").
		Offset(params.Offset()).Limit(params.PerPage).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *reportRepository) FeeTotals(ctx context.Context, filter domainRepo.ReportFilter) (decimal.Decimal, []domainRepo.VendorFeeTotal, error) {
	var sum feeSum
	err := r.billing(ctx, filter).
		Select("COALESCE(SUM(i.fees), 0) AS total").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, nil, err
	}

	var perVendor []domainRepo.VendorFeeTotal
	err = r.billing(ctx, filter).
		Select("v.id AS vendor_id, v.full_name AS vendor_name, COALESCE(SUM(i.fees), 0) AS total_fees").
		Group("v.id, v.full_name").
		Order("v.full_name ASC").
		Scan(&perVendor).Error
	if err != nil {
		return decimal.Zero, nil, err
	}

	return sum.Total, perVendor, nil
}
