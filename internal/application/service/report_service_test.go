package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingReportWithBonuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	v1 := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.10")})
	v2 := env.vendor(t, "Luis Rojas", "11111111-1", AssignmentInput{ClientID: c.ID, Percentage: d("0.20")})
	env.invoice(t, v1, c, "2024-01-05", "100000", "0")
	env.invoice(t, v2, c, "2024-01-06", "100000", "0")

	filter := repository.ReportFilter{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
	report, err := env.reports.GetBillingReportWithBonuses(ctx, filter, &pagination.PaginationParams{Page: 1, PerPage: 50}, BonusRange{})
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assertDecimal(t, "200000", report.TotalFees)
	require.NotNil(t, report.Bonus)
	assert.Len(t, report.Bonus.Results, 2)

	byVendor := map[string]repository.ReportRow{}
	for _, row := range report.Rows {
		byVendor[row.VendorName] = row
	}
	assertDecimal(t, "10000", *byVendor["Ana Soto"].ImputedBonus)
	assertDecimal(t, "10", *byVendor["Ana Soto"].ImputedBonusPercent)
	assertDecimal(t, "20000", *byVendor["Luis Rojas"].ImputedBonus)
}

func TestBillingReportBonusRangeMissesVendor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	v := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.10")})
	env.invoice(t, v, c, "2024-01-05", "100000", "0")

	filter := repository.ReportFilter{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
	report, err := env.reports.GetBillingReportWithBonuses(ctx, filter, &pagination.PaginationParams{Page: 1, PerPage: 50},
		BonusRange{StartDate: day("2024-03-01"), EndDate: day("2024-03-31")})
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.True(t, report.Rows[0].ImputedBonus.IsZero())
}

func TestBillingReportPlainAndInvalidRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	report, err := env.reports.GetBillingReport(ctx,
		repository.ReportFilter{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")},
		&pagination.PaginationParams{Page: 1, PerPage: 5000})
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Nil(t, report.Bonus)
	assert.Equal(t, pagination.MaxReportPerPage, report.Pagination.PerPage)

	_, err = env.reports.GetBillingReport(ctx,
		repository.ReportFilter{StartDate: day("2024-02-01"), EndDate: day("2024-01-01")},
		&pagination.PaginationParams{Page: 1, PerPage: 10})
	assertStatus(t, http.StatusBadRequest, err)

	_, err = env.reports.GetBillingReportWithBonuses(ctx,
		repository.ReportFilter{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")},
		&pagination.PaginationParams{Page: 1, PerPage: 10},
		BonusRange{StartDate: day("2024-05-01"), EndDate: day("2024-04-01")})
	assertStatus(t, http.StatusBadRequest, err)
}
