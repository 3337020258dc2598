package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/application/service"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// Percentages leave the API as whole percent rounded to this many places.
const percentPlaces = 2

func percent(fraction decimal.Decimal) decimal.Decimal {
	return bonus.ToPercent(fraction).Round(percentPlaces)
}

// InvoiceBonusResponse is one invoice line of a vendor's bonus
type InvoiceBonusResponse struct {
	InvoiceID         uuid.UUID       `json:"invoice_id"`
	OrderNumber       string          `json:"order_number"`
	ClientID          uuid.UUID       `json:"client_id"`
	ClientName        string          `json:"client_name"`
	Fees              decimal.Decimal `json:"fees"`
	Expenses          decimal.Decimal `json:"expenses"`
	Net               decimal.Decimal `json:"net"`
	PercentageApplied decimal.Decimal `json:"percentage_applied"`
	Bonus             decimal.Decimal `json:"bonus"`
	Assigned          bool            `json:"assigned"`
}

// VendorBonusResponse is one vendor's bonus over a period
type VendorBonusResponse struct {
	VendorID            uuid.UUID              `json:"vendor_id"`
	VendorName          string                 `json:"vendor_name"`
	VendorRUT           string                 `json:"vendor_rut"`
	TotalFees           decimal.Decimal        `json:"total_fees"`
	TotalExpenses       decimal.Decimal        `json:"total_expenses"`
	TotalNet            decimal.Decimal        `json:"total_net"`
	TotalBonus          decimal.Decimal        `json:"total_bonus"`
	EffectivePercentage *decimal.Decimal       `json:"effective_percentage"`
	Details             []InvoiceBonusResponse `json:"details"`
}

// BonusCalculationResponse is the body of a bonus calculation
type BonusCalculationResponse struct {
	StartDate       string                `json:"start_date"`
	EndDate         string                `json:"end_date"`
	VendorID        *uuid.UUID            `json:"vendor_id,omitempty"`
	Results         []VendorBonusResponse `json:"results"`
	UnresolvedCount int                   `json:"unresolved_count"`
}

// NewBonusCalculationResponse converts a calculation, turning fractions into whole percent
func NewBonusCalculationResponse(calc *bonus.Calculation) *BonusCalculationResponse {
	out := &BonusCalculationResponse{
		StartDate:       calc.StartDate.Format(bonus.DateLayout),
		EndDate:         calc.EndDate.Format(bonus.DateLayout),
		VendorID:        calc.VendorID,
		Results:         make([]VendorBonusResponse, 0, len(calc.Results)),
		UnresolvedCount: len(calc.Unresolved),
	}

	for _, r := range calc.Results {
		v := VendorBonusResponse{
			VendorID:      r.VendorID,
			VendorName:    r.VendorName,
			VendorRUT:     r.VendorRUT,
			TotalFees:     r.TotalFees,
			TotalExpenses: r.TotalExpenses,
			TotalNet:      r.TotalNet,
			TotalBonus:    r.TotalBonus,
			Details:       make([]InvoiceBonusResponse, 0, len(r.Details)),
		}
		if r.EffectivePercentage != nil {
			p := percent(*r.EffectivePercentage)
			v.EffectivePercentage = &p
		}
		for _, d := range r.Details {
			v.Details = append(v.Details, InvoiceBonusResponse{
				InvoiceID:         d.InvoiceID,
				OrderNumber:       d.OrderNumber,
				ClientID:          d.ClientID,
				ClientName:        d.ClientName,
				Fees:              d.Fees,
				Expenses:          d.Expenses,
				Net:               d.Net,
				PercentageApplied: percent(d.PercentageApplied),
				Bonus:             d.Bonus,
				Assigned:          d.Assigned,
			})
		}
		out.Results = append(out.Results, v)
	}
	return out
}

// ReportRowResponse is one billing report line. The bono fields are present
// only when the report was requested with bonuses.
type ReportRowResponse struct {
	InvoiceID              uuid.UUID        `json:"invoice_id"`
	OrderNumber            string           `json:"order_number"`
	CaseNumber             *string          `json:"case_number"`
	IssuedOn               string           `json:"issued_on"`
	Fees                   decimal.Decimal  `json:"fees"`
	Expenses               decimal.Decimal  `json:"expenses"`
	Net                    decimal.Decimal  `json:"net"`
	VendorID               uuid.UUID        `json:"vendor_id"`
	VendorName             string           `json:"vendor_name"`
	VendorRUT              string           `json:"vendor_rut"`
	ClientID               uuid.UUID        `json:"client_id"`
	ClientName             string           `json:"client_name"`
	ClientRUT              string           `json:"client_rut"`
	BonoCalculado          *decimal.Decimal `json:"bono_calculado,omitempty"`
	PorcentajeBonoAplicado *decimal.Decimal `json:"porcentaje_bono_aplicado,omitempty"`
}

// VendorFeeTotalResponse is one vendor's fee sum across a report
type VendorFeeTotalResponse struct {
	VendorID   uuid.UUID       `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	TotalFees  decimal.Decimal `json:"total_fees"`
}

// BillingReportResponse is the body of the billing report
type BillingReportResponse struct {
	Items        []ReportRowResponse       `json:"items"`
	Pagination   *pagination.Pagination    `json:"pagination"`
	TotalCount   int64                     `json:"total_count"`
	TotalFees    decimal.Decimal           `json:"total_fees"`
	VendorTotals []VendorFeeTotalResponse  `json:"vendor_totals"`
	Bonus        *BonusCalculationResponse `json:"bonus,omitempty"`
}

func newReportRow(row repository.ReportRow) ReportRowResponse {
	out := ReportRowResponse{
		InvoiceID:   row.InvoiceID,
		OrderNumber: row.OrderNumber,
		CaseNumber:  row.CaseNumber,
		IssuedOn:    formatDate(row.IssuedOn),
		Fees:        row.Fees,
		Expenses:    row.Expenses,
		Net:         row.Fees.Sub(row.Expenses),
		VendorID:    row.VendorID,
		VendorName:  row.VendorName,
		VendorRUT:   row.VendorRUT,
		ClientID:    row.ClientID,
		ClientName:  row.ClientName,
		ClientRUT:   row.ClientRUT,
	}
	if row.ImputedBonus != nil {
		b := row.ImputedBonus.Round(2)
		out.BonoCalculado = &b
	}
	if row.ImputedBonusPercent != nil {
		p := row.ImputedBonusPercent.Round(percentPlaces)
		out.PorcentajeBonoAplicado = &p
	}
	return out
}

// NewBillingReportResponse converts a billing report
func NewBillingReportResponse(report *service.BillingReport) *BillingReportResponse {
	out := &BillingReportResponse{
		Items:        make([]ReportRowResponse, 0, len(report.Rows)),
		Pagination:   report.Pagination,
		TotalFees:    report.TotalFees,
		VendorTotals: make([]VendorFeeTotalResponse, 0, len(report.VendorTotals)),
	}
	if report.Pagination != nil {
		out.TotalCount = report.Pagination.Total
	}
	for _, row := range report.Rows {
		out.Items = append(out.Items, newReportRow(row))
	}
	for _, t := range report.VendorTotals {
		out.VendorTotals = append(out.VendorTotals, VendorFeeTotalResponse{
			VendorID:   t.VendorID,
			VendorName: t.VendorName,
			TotalFees:  t.TotalFees,
		})
	}
	if report.Bonus != nil {
		out.Bonus = NewBonusCalculationResponse(report.Bonus)
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(bonus.DateLayout)
}
