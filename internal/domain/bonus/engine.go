package bonus

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
)

// AssignmentSource lists the commission assignments of a set of vendors.
type AssignmentSource interface {
	ListByVendors(ctx context.Context, vendorIDs []uuid.UUID) ([]entity.CommissionAssignment, error)
}

// Calculation is the outcome of one bonus run.
type Calculation struct {
	StartDate  time.Time
	EndDate    time.Time
	VendorID   *uuid.UUID
	Results    []VendorResult
	Unresolved []UnresolvedRateWarning
}

// Engine runs select, resolve and aggregate over the stores it is given.
type Engine struct {
	selector    *Selector
	assignments AssignmentSource
}

// NewEngine creates an Engine.
func NewEngine(invoices InvoiceSource, assignments AssignmentSource) *Engine {
	return &Engine{
		selector:    NewSelector(invoices),
		assignments: assignments,
	}
}

// Calculate computes bonuses for invoices issued in [start, end], optionally
// for a single vendor. It returns an *InvalidRangeError for a bad range.
func (e *Engine) Calculate(ctx context.Context, start, end time.Time, vendorID *uuid.UUID) (*Calculation, error) {
	invoices, err := e.selector.Select(ctx, start, end, vendorID)
	if err != nil {
		return nil, err
	}

	calc := &Calculation{
		StartDate: DateOf(start),
		EndDate:   DateOf(end),
		VendorID:  vendorID,
		Results:   []VendorResult{},
	}
	if len(invoices) == 0 {
		return calc, nil
	}

	assignments, err := e.assignments.ListByVendors(ctx, vendorIDs(invoices))
	if err != nil {
		return nil, err
	}

	calc.Results, calc.Unresolved = Aggregate(invoices, NewRateTable(assignments))
	return calc, nil
}

func vendorIDs(invoices []entity.Invoice) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, inv := range invoices {
		if !seen[inv.VendorID] {
			seen[inv.VendorID] = true
			ids = append(ids, inv.VendorID)
		}
	}
	return ids
}
