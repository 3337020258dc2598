package bonus

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
)

// DateLayout is the calendar date format used on every boundary.
const DateLayout = "2006-01-02"

// InvoiceSource lists invoices issued on or between two calendar dates.
type InvoiceSource interface {
	ListIssuedBetween(ctx context.Context, start, end time.Time, vendorID *uuid.UUID) ([]entity.Invoice, error)
}

// Selector picks the invoices a bonus calculation runs over.
type Selector struct {
	source InvoiceSource
}

// NewSelector creates a Selector backed by source.
func NewSelector(source InvoiceSource) *Selector {
	return &Selector{source: source}
}

// Select returns the invoices issued in [start, end], both ends inclusive,
// optionally restricted to one vendor. The result order is unspecified.
func (s *Selector) Select(ctx context.Context, start, end time.Time, vendorID *uuid.UUID) ([]entity.Invoice, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	start, end = DateOf(start), DateOf(end)

	invoices, err := s.source.ListIssuedBetween(ctx, start, end, vendorID)
	if err != nil {
		return nil, err
	}
	return FilterInvoices(invoices, start, end, vendorID), nil
}

// ValidateRange reports an InvalidRangeError when a bound is the zero time or
// start falls on a later calendar day than end.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() {
		return missingBound("start date", start, end)
	}
	if end.IsZero() {
		return missingBound("end date", start, end)
	}
	if DateOf(start).After(DateOf(end)) {
		return invertedRange(start, end)
	}
	return nil
}

// FilterInvoices keeps the invoices whose issue date is within [start, end]
// and, when vendorID is set, that belong to that vendor. Comparison is by
// calendar date so time of day never excludes a boundary invoice.
func FilterInvoices(invoices []entity.Invoice, start, end time.Time, vendorID *uuid.UUID) []entity.Invoice {
	start, end = DateOf(start), DateOf(end)

	out := make([]entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if vendorID != nil && inv.VendorID != *vendorID {
			continue
		}
		d := DateOf(inv.IssuedOn)
		if d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// DateOf truncates t to midnight UTC of its own calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
