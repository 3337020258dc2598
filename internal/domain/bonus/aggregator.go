package bonus

import (
	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InvoiceDetail is the bonus breakdown of a single invoice.
type InvoiceDetail struct {
	InvoiceID         uuid.UUID
	OrderNumber       string
	ClientID          uuid.UUID
	ClientName        string
	Fees              decimal.Decimal
	Expenses          decimal.Decimal
	Net               decimal.Decimal
	PercentageApplied decimal.Decimal
	Bonus             decimal.Decimal
	// Assigned is false when the vendor has no rate for the client and the
	// invoice contributed zero bonus.
	Assigned bool
}

// VendorResult holds one vendor's totals over the selected invoices.
type VendorResult struct {
	VendorID      uuid.UUID
	VendorName    string
	VendorRUT     string
	TotalFees     decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalNet      decimal.Decimal
	TotalBonus    decimal.Decimal
	// EffectivePercentage is TotalBonus / TotalFees as a fraction. It is nil
	// when TotalFees is zero.
	EffectivePercentage *decimal.Decimal
	Details             []InvoiceDetail
}

// UnresolvedRateWarning records an invoice whose vendor has no assignment for
// the invoice's client. The invoice still counts toward totals with zero bonus.
type UnresolvedRateWarning struct {
	VendorID  uuid.UUID
	ClientID  uuid.UUID
	InvoiceID uuid.UUID
}

func (w UnresolvedRateWarning) String() string {
	return "no commission assignment for vendor " + w.VendorID.String() +
		" and client " + w.ClientID.String() + " on invoice " + w.InvoiceID.String()
}

// Aggregate groups invoices by vendor and computes per invoice and per vendor
// bonuses. The bonus is fees times rate, expenses only reduce net.
// Vendors appear in the order of their first invoice. A nil rates resolves
// nothing, so every invoice is reported as unassigned.
func Aggregate(invoices []entity.Invoice, rates RateResolver) ([]VendorResult, []UnresolvedRateWarning) {
	if rates == nil {
		rates = (*RateTable)(nil)
	}
	var (
		results  []VendorResult
		warnings []UnresolvedRateWarning
		index    = make(map[uuid.UUID]int)
	)

	for _, inv := range invoices {
		i, seen := index[inv.VendorID]
		if !seen {
			i = len(results)
			index[inv.VendorID] = i
			results = append(results, newVendorResult(inv))
		}
		r := &results[i]

		rate, ok := rates.Resolve(inv.VendorID, inv.ClientID)
		if !ok {
			rate = decimal.Zero
			warnings = append(warnings, UnresolvedRateWarning{
				VendorID:  inv.VendorID,
				ClientID:  inv.ClientID,
				InvoiceID: inv.ID,
			})
		}

		detail := InvoiceDetail{
			InvoiceID:         inv.ID,
			OrderNumber:       inv.OrderNumber,
			ClientID:          inv.ClientID,
			Fees:              inv.Fees,
			Expenses:          inv.Expenses,
			Net:               inv.Net(),
			PercentageApplied: rate,
			Bonus:             inv.Fees.Mul(rate),
			Assigned:          ok,
		}
		if inv.Client != nil {
			detail.ClientName = inv.Client.LegalName
		}

		r.TotalFees = r.TotalFees.Add(detail.Fees)
		r.TotalExpenses = r.TotalExpenses.Add(detail.Expenses)
		r.TotalNet = r.TotalNet.Add(detail.Net)
		r.TotalBonus = r.TotalBonus.Add(detail.Bonus)
		r.Details = append(r.Details, detail)
	}

	for i := range results {
		results[i].EffectivePercentage = effectiveRate(results[i].TotalBonus, results[i].TotalFees)
	}
	return results, warnings
}

func newVendorResult(inv entity.Invoice) VendorResult {
	r := VendorResult{
		VendorID:      inv.VendorID,
		TotalFees:     decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalNet:      decimal.Zero,
		TotalBonus:    decimal.Zero,
	}
	if inv.Vendor != nil {
		r.VendorName = inv.Vendor.FullName
		r.VendorRUT = inv.Vendor.RUT
	}
	return r
}

func effectiveRate(bonus, fees decimal.Decimal) *decimal.Decimal {
	if !fees.IsPositive() {
		return nil
	}
	rate := bonus.Div(fees)
	return &rate
}

// ToPercent converts a fraction to whole percent.
func ToPercent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(hundred)
}

// FromPercent converts whole percent to a fraction.
func FromPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}
