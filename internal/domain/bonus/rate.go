package bonus

import (
	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RateResolver yields the bonus fraction a vendor earns on a client.
// ok is false when the pair has no assignment, which is not an error.
type RateResolver interface {
	Resolve(vendorID, clientID uuid.UUID) (rate decimal.Decimal, ok bool)
}

type pairKey struct {
	vendor uuid.UUID
	client uuid.UUID
}

// RateTable is an in-memory RateResolver built from assignment records.
type RateTable struct {
	rates map[pairKey]decimal.Decimal
}

// NewRateTable indexes assignments by (vendor, client). When the input holds
// the same pair twice the last one wins.
func NewRateTable(assignments []entity.CommissionAssignment) *RateTable {
	rates := make(map[pairKey]decimal.Decimal, len(assignments))
	for _, a := range assignments {
		rates[pairKey{a.VendorID, a.ClientID}] = a.Percentage
	}
	return &RateTable{rates: rates}
}

// Resolve implements RateResolver.
func (t *RateTable) Resolve(vendorID, clientID uuid.UUID) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	rate, ok := t.rates[pairKey{vendorID, clientID}]
	if !ok {
		return decimal.Zero, false
	}
	return rate, true
}

// Len returns the number of indexed pairs.
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rates)
}
