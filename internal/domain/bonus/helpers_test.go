package bonus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func invoice(vendor, client uuid.UUID, fees, expenses, issued string) entity.Invoice {
	return entity.Invoice{
		ID:          uuid.New(),
		OrderNumber: "OT-" + issued,
		IssuedOn:    date(issued),
		Fees:        dec(fees),
		Expenses:    dec(expenses),
		VendorID:    vendor,
		ClientID:    client,
	}
}

func assignment(vendor, client uuid.UUID, fraction string) entity.CommissionAssignment {
	return entity.CommissionAssignment{
		ID:         uuid.New(),
		VendorID:   vendor,
		ClientID:   client,
		Percentage: dec(fraction),
	}
}

type fakeInvoices struct {
	invoices []entity.Invoice
	err      error
	calls    int
}

// ListIssuedBetween returns everything, leaving range filtering to the caller.
func (f *fakeInvoices) ListIssuedBetween(_ context.Context, _, _ time.Time, _ *uuid.UUID) ([]entity.Invoice, error) {
	f.calls++
	return f.invoices, f.err
}

type fakeAssignments struct {
	assignments []entity.CommissionAssignment
	err         error
	asked       []uuid.UUID
}

func (f *fakeAssignments) ListByVendors(_ context.Context, vendorIDs []uuid.UUID) ([]entity.CommissionAssignment, error) {
	f.asked = vendorIDs
	return f.assignments, f.err
}
