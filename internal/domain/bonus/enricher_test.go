package bonus

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichTwoVendors(t *testing.T) {
	v1, v2, c := uuid.New(), uuid.New(), uuid.New()
	rates := NewRateTable([]entity.CommissionAssignment{
		assignment(v1, c, "0.10"),
		assignment(v2, c, "0.20"),
	})
	results, _ := Aggregate([]entity.Invoice{
		invoice(v1, c, "100000", "0", "2024-01-05"),
		invoice(v2, c, "100000", "0", "2024-01-06"),
	}, rates)
	require.Len(t, results, 2)

	rows := []repository.ReportRow{
		{InvoiceID: uuid.New(), VendorID: v1, Fees: dec("100000")},
		{InvoiceID: uuid.New(), VendorID: v2, Fees: dec("100000")},
	}
	enriched := Enrich(rows, results)

	require.Len(t, enriched, 2)
	assertDecimal(t, "10000", *enriched[0].ImputedBonus)
	assertDecimal(t, "10", *enriched[0].ImputedBonusPercent)
	assertDecimal(t, "20000", *enriched[1].ImputedBonus)
	assertDecimal(t, "20", *enriched[1].ImputedBonusPercent)
}

func TestEnrichAppliesBlendedRate(t *testing.T) {
	v, c1, c2 := uuid.New(), uuid.New(), uuid.New()
	rates := NewRateTable([]entity.CommissionAssignment{assignment(v, c1, "0.10")})
	results, _ := Aggregate([]entity.Invoice{
		invoice(v, c1, "100000", "0", "2024-01-05"),
		invoice(v, c2, "100000", "0", "2024-01-06"),
	}, rates)

	// the row for the unassigned client still receives the vendor's 5% blend
	rows := []repository.ReportRow{{VendorID: v, ClientID: c2, Fees: dec("100000")}}
	enriched := Enrich(rows, results)

	assertDecimal(t, "5000", *enriched[0].ImputedBonus)
	assertDecimal(t, "5", *enriched[0].ImputedBonusPercent)
}

func TestEnrichMissingVendorGetsZero(t *testing.T) {
	zeroFees, c := uuid.New(), uuid.New()
	results, _ := Aggregate([]entity.Invoice{invoice(zeroFees, c, "0", "500", "2024-01-01")}, NewRateTable(nil))

	rows := []repository.ReportRow{
		{VendorID: uuid.New(), Fees: dec("5000")},
		{VendorID: zeroFees, Fees: dec("7000")},
	}
	enriched := Enrich(rows, results)

	for _, row := range enriched {
		require.NotNil(t, row.ImputedBonus)
		assert.True(t, row.ImputedBonus.IsZero())
		assert.True(t, row.ImputedBonusPercent.IsZero())
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	v, c := uuid.New(), uuid.New()
	results, _ := Aggregate([]entity.Invoice{invoice(v, c, "100", "0", "2024-01-01")},
		NewRateTable([]entity.CommissionAssignment{assignment(v, c, "0.5")}))

	rows := []repository.ReportRow{{VendorID: v, Fees: dec("100")}}
	enriched := Enrich(rows, results)

	assert.Nil(t, rows[0].ImputedBonus)
	assert.Nil(t, rows[0].ImputedBonusPercent)
	assertDecimal(t, "50", *enriched[0].ImputedBonus)
	assert.Empty(t, Enrich(nil, results))
}
