package bonus

import (
	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Enrich annotates billing report rows with an imputed bonus taken from the
// vendor's effective rate in results. Vendors missing from results, or whose
// effective rate is undefined, get a rate of zero.
//
// The imputed bonus is fees times the vendor's blended rate, not the rate of
// the row's own client. Rows for clients with a different assignment, or rows
// outside the range results were computed over, are therefore approximate.
// Callers that need exact per invoice figures should use the details of a
// bonus calculation instead.
//
// rows is not modified; a new slice is returned.
func Enrich(rows []repository.ReportRow, results []VendorResult) []repository.ReportRow {
	rates := make(map[uuid.UUID]decimal.Decimal, len(results))
	for _, r := range results {
		if r.EffectivePercentage != nil {
			rates[r.VendorID] = *r.EffectivePercentage
		}
	}

	out := make([]repository.ReportRow, len(rows))
	for i, row := range rows {
		rate, ok := rates[row.VendorID]
		if !ok {
			rate = decimal.Zero
		}
		imputed := row.Fees.Mul(rate)
		percent := ToPercent(rate)

		row.ImputedBonus = &imputed
		row.ImputedBonusPercent = &percent
		out[i] = row
	}
	return out
}
