package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceChecksParties(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c1 := env.client(t, "Minera Norte SpA", "76086428-5")
	c2 := env.client(t, "Agrícola Sur Ltda", "11111111-1")
	v := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c1.ID, Percentage: d("0.1")})

	input := func(clientID, vendorID uuid.UUID) *CreateInvoiceInput {
		return &CreateInvoiceInput{
			OrderNumber: "OT-1",
			IssuedOn:    day("2024-01-10"),
			Fees:        d("1000"),
			Expenses:    d("100"),
			VendorID:    vendorID,
			ClientID:    clientID,
		}
	}

	inv, err := env.invoices.CreateInvoice(ctx, input(c1.ID, v.ID))
	require.NoError(t, err)
	require.NotNil(t, inv.Vendor)
	require.NotNil(t, inv.Client)
	assertDecimal(t, "900", inv.Net())

	_, err = env.invoices.CreateInvoice(ctx, input(c2.ID, v.ID))
	assertStatus(t, http.StatusUnprocessableEntity, err)

	_, err = env.invoices.CreateInvoice(ctx, input(c1.ID, uuid.New()))
	assertStatus(t, http.StatusNotFound, err)

	_, err = env.invoices.CreateInvoice(ctx, input(uuid.New(), v.ID))
	assertStatus(t, http.StatusNotFound, err)

	bad := input(c1.ID, v.ID)
	bad.Fees = d("-1")
	_, err = env.invoices.CreateInvoice(ctx, bad)
	assertStatus(t, http.StatusUnprocessableEntity, err)
}

func TestUpdateInvoiceInvalidatesBonuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	v := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.1")})
	inv := env.invoice(t, v, c, "2024-01-10", "1000", "0")

	input := &CalculateBonusesInput{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
	_, err := env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 1, env.cache.Len())

	fees := d("3000")
	updated, err := env.invoices.UpdateInvoice(ctx, &UpdateInvoiceInput{ID: inv.ID, Fees: &fees})
	require.NoError(t, err)
	assertDecimal(t, "3000", updated.Fees)
	assert.Equal(t, 0, env.cache.Len())

	calc, err := env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	assertDecimal(t, "300", calc.Results[0].TotalBonus)

	_, err = env.invoices.UpdateInvoice(ctx, &UpdateInvoiceInput{ID: uuid.New(), Fees: &fees})
	assertStatus(t, http.StatusNotFound, err)
}

func TestRenamesInvalidateBonuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	v := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.1")})
	env.invoice(t, v, c, "2024-01-10", "1000", "0")

	input := &CalculateBonusesInput{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
	_, err := env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 1, env.cache.Len())

	vendorName := "Ana Soto Renamed"
	_, err = env.vendors.UpdateVendor(ctx, &UpdateVendorInput{ID: v.ID, FullName: &vendorName})
	require.NoError(t, err)
	assert.Equal(t, 0, env.cache.Len())

	calc, err := env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	require.Len(t, calc.Results, 1)
	assert.Equal(t, vendorName, calc.Results[0].VendorName)
	assert.Equal(t, 1, env.cache.Len())

	clientName := "Minera Renamed"
	_, err = env.clients.UpdateClient(ctx, &UpdateClientInput{ID: c.ID, LegalName: &clientName})
	require.NoError(t, err)
	assert.Equal(t, 0, env.cache.Len())

	calc, err = env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	require.Len(t, calc.Results, 1)
	require.Len(t, calc.Results[0].Details, 1)
	assert.Equal(t, clientName, calc.Results[0].Details[0].ClientName)
}

func TestListInvoicesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	v := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.1")})
	env.invoice(t, v, c, "2024-01-10", "1000", "0")
	env.invoice(t, v, c, "2024-02-10", "1000", "0")

	start, end := day("2024-02-01"), day("2024-02-29")
	page, err := env.invoices.ListInvoices(ctx, repository.InvoiceFilter{StartDate: &start, EndDate: &end}, pagination.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2024-02-10", page.Items[0].IssuedOn.UTC().Format("2006-01-02"))

	_, err = env.invoices.ListInvoices(ctx, repository.InvoiceFilter{StartDate: &end, EndDate: &start}, pagination.DefaultPagination())
	assertStatus(t, http.StatusBadRequest, err)
}

func TestImportInvoices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c1 := env.client(t, "Minera Norte SpA", "76086428-5")
	env.client(t, "Agrícola Sur Ltda", "11111111-1")
	env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c1.ID, Percentage: d("0.1")})

	result, err := env.invoices.ImportInvoices(ctx, []ImportInvoiceRow{
		{OrderNumber: "OT-1", Fees: "1000,5", Expenses: "", IssuedOn: "2024-01-10", VendorRUT: "12.345.678-5", ClientRUT: "76.086.428-5"},
		{OrderNumber: "OT-2", Fees: "1000", IssuedOn: "10/01/2024", VendorRUT: "12345678-5", ClientRUT: "76086428-5"},
		{OrderNumber: "OT-3", Fees: "abc", IssuedOn: "2024-01-10", VendorRUT: "12345678-5", ClientRUT: "76086428-5"},
		{OrderNumber: "OT-4", Fees: "1", IssuedOn: "2024-01-10", VendorRUT: "10000013-K", ClientRUT: "76086428-5"},
		{OrderNumber: "OT-5", Fees: "1", IssuedOn: "2024-01-10", VendorRUT: "12345678-5", ClientRUT: "11111111-1"},
		{OrderNumber: "", Fees: "1", IssuedOn: "2024-01-10", VendorRUT: "12345678-5", ClientRUT: "76086428-5"},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 1, result.Successful)
	require.Len(t, result.Created, 1)
	assertDecimal(t, "1000.5", result.Created[0].Fees)
	assert.True(t, result.Created[0].Expenses.IsZero())

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"issued_on", "fees", "vendor_rut", "client_rut", "order_number"}, fields)
	assert.Equal(t, 3, result.Errors[0].Row)
}
