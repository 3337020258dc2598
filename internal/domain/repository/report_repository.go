package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ReportRow is one invoice line of the billing report, flattened with its
// vendor and client.
type ReportRow struct {
	InvoiceID   uuid.UUID
	OrderNumber string
	CaseNumber  *string
	IssuedOn    time.Time
	Fees        decimal.Decimal
	Expenses    decimal.Decimal
	VendorID    uuid.UUID
	VendorName  string
	VendorRUT   string
	ClientID    uuid.UUID
	ClientName  string
	ClientRUT   string

	// Set only on enriched rows.
	ImputedBonus        *decimal.Decimal `gorm:"-"`
	ImputedBonusPercent *decimal.Decimal `gorm:"-"`
}

// VendorFeeTotal is the fee sum of one vendor across a report.
type VendorFeeTotal struct {
	VendorID   uuid.UUID
	VendorName string
	TotalFees  decimal.Decimal
}

// ReportFilter selects billing report rows. Dates are required.
type ReportFilter struct {
	StartDate  time.Time
	EndDate    time.Time
	CaseNumber string
	VendorID   *uuid.UUID
	ClientID   *uuid.UUID
	// VendorRUT matches as a substring, ignoring dots, dashes and case.
	VendorRUT string
}

// ReportRepository defines interface for report queries
type ReportRepository interface {
	// BillingRows returns one page of report rows ordered by issue date, newest first
	BillingRows(ctx context.Context, filter ReportFilter, params *pagination.PaginationParams) ([]ReportRow, int64, error)

	// FeeTotals returns the fee sum over every matching row and per vendor
	FeeTotals(ctx context.Context, filter ReportFilter) (decimal.Decimal, []VendorFeeTotal, error)
}
