package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	domainRepo "github.com/sangkips/bonos-api/internal/domain/repository"
	"github.com/sangkips/bonos-api/internal/infrastructure/database"
	"github.com/sangkips/bonos-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB("file:"+name+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func day(s string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	db      *gorm.DB
	clients domainRepo.ClientRepository
	vendors domainRepo.VendorRepository
	assigns domainRepo.AssignmentRepository
	invs    domainRepo.InvoiceRepository
	reports domainRepo.ReportRepository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:      db,
		clients: NewClientRepository(db),
		vendors: NewVendorRepository(db),
		assigns: NewAssignmentRepository(db),
		invs:    NewInvoiceRepository(db),
		reports: NewReportRepository(db),
	}
}

func (f *fixture) client(t *testing.T, name, rut string) *entity.Client {
	c := &entity.Client{LegalName: name, RUT: rut}
	require.NoError(t, f.clients.Create(context.Background(), c))
	return c
}

func (f *fixture) vendor(t *testing.T, name, rut string) *entity.Vendor {
	v := &entity.Vendor{FullName: name, RUT: rut, BaseSalary: decimal.NewFromInt(900000)}
	require.NoError(t, f.vendors.Create(context.Background(), v))
	return v
}

func (f *fixture) invoice(t *testing.T, v *entity.Vendor, c *entity.Client, order, issued string, fees int64) *entity.Invoice {
	inv := &entity.Invoice{
		OrderNumber: order,
		IssuedOn:    day(issued),
		Fees:        decimal.NewFromInt(fees),
		Expenses:    decimal.Zero,
		VendorID:    v.ID,
		ClientID:    c.ID,
	}
	require.NoError(t, f.invs.Create(context.Background(), inv))
	return inv
}

func TestClientRepositoryCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.client(t, "Minera Norte SpA", "76086428-5")
	f.client(t, "Agrícola Sur Ltda", "11111111-1")

	got, err := f.clients.GetByRUT(ctx, "76086428-5")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)

	missing, err := f.clients.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, total, err := f.clients.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10}, "minera")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Minera Norte SpA", list[0].LegalName)

	byRUT, err := f.clients.GetByRUTs(ctx, []string{"76086428-5", "11111111-1", "99999999-9"})
	require.NoError(t, err)
	assert.Len(t, byRUT, 2)
}

func TestDeleteClientRemovesAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.client(t, "Minera Norte SpA", "76086428-5")
	v := f.vendor(t, "Ana Soto", "12345678-5")
	require.NoError(t, f.assigns.Create(ctx, &entity.CommissionAssignment{VendorID: v.ID, ClientID: c.ID, Percentage: decimal.RequireFromString("0.1")}))

	require.NoError(t, f.clients.Delete(ctx, c.ID))

	left, err := f.assigns.ListByVendor(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestVendorGetByIDPreloadsAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.client(t, "Minera Norte SpA", "76086428-5")
	v := &entity.Vendor{
		FullName:   "Ana Soto",
		RUT:        "12345678-5",
		BaseSalary: decimal.NewFromInt(1000000),
		Assignments: []entity.CommissionAssignment{
			{ClientID: c.ID, Percentage: decimal.RequireFromString("0.15")},
		},
	}
	require.NoError(t, f.vendors.Create(ctx, v))

	got, err := f.vendors.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got.Assignments, 1)
	require.NotNil(t, got.Assignments[0].Client)
	assert.Equal(t, "Minera Norte SpA", got.Assignments[0].Client.LegalName)
	assert.True(t, got.Assignments[0].Percentage.Equal(decimal.RequireFromString("0.15")))

	pairs, err := f.assigns.Pairs(ctx, []uuid.UUID{v.ID})
	require.NoError(t, err)
	assert.True(t, pairs[[2]uuid.UUID{v.ID, c.ID}])
}

func TestAssignmentUniquePerPair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.client(t, "Minera Norte SpA", "76086428-5")
	v := f.vendor(t, "Ana Soto", "12345678-5")
	pct := decimal.RequireFromString("0.1")

	require.NoError(t, f.assigns.Create(ctx, &entity.CommissionAssignment{VendorID: v.ID, ClientID: c.ID, Percentage: pct}))
	assert.Error(t, f.assigns.Create(ctx, &entity.CommissionAssignment{VendorID: v.ID, ClientID: c.ID, Percentage: pct}))
}

func TestListIssuedBetweenIsInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.client(t, "Minera Norte SpA", "76086428-5")
	v1 := f.vendor(t, "Ana Soto", "12345678-5")
	v2 := f.vendor(t, "Luis Rojas", "11111111-1")

	f.invoice(t, v1, c, "OT-1", "2023-12-31", 100)
	first := f.invoice(t, v1, c, "OT-2", "2024-01-01", 100)
	last := f.invoice(t, v1, c, "OT-3", "2024-01-31", 100)
	f.invoice(t, v1, c, "OT-4", "2024-02-01", 100)
	other := f.invoice(t, v2, c, "OT-5", "2024-01-15", 100)

	all, err := f.invs.ListIssuedBetween(ctx, day("2024-01-01"), day("2024-01-31"), nil)
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, inv := range all {
		ids = append(ids, inv.ID)
		require.NotNil(t, inv.Vendor)
		require.NotNil(t, inv.Client)
	}
	assert.ElementsMatch(t, []uuid.UUID{first.ID, last.ID, other.ID}, ids)

	onlyV2, err := f.invs.ListIssuedBetween(ctx, day("2024-01-01"), day("2024-01-31"), &v2.ID)
	require.NoError(t, err)
	require.Len(t, onlyV2, 1)
	assert.Equal(t, other.ID, onlyV2[0].ID)

	count, err := f.invs.CountByClient(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)
}

func TestInvoiceListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.client(t, "Minera Norte SpA", "76086428-5")
	v := f.vendor(t, "Ana Soto", "12345678-5")
	f.invoice(t, v, c, "OT-100", "2024-01-10", 100)
	f.invoice(t, v, c, "OT-200", "2024-01-20", 100)

	list, total, err := f.invs.List(ctx, domainRepo.InvoiceFilter{Search: "200"}, &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "OT-200", list[0].OrderNumber)

	list, _, err = f.invs.List(ctx, domainRepo.InvoiceFilter{VendorID: &v.ID}, &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "OT-200", list[0].OrderNumber, "newest first")
}

func TestBillingReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c1 := f.client(t, "Minera Norte SpA", "76086428-5")
	c2 := f.client(t, "Agrícola Sur Ltda", "11111111-1")
	ana := f.vendor(t, "Ana Soto", "12345678-5")
	kevin := f.vendor(t, "Kevin Díaz", "10000013-K")

	caseNo := "CAUSA-77"
	inv := f.invoice(t, ana, c1, "OT-1", "2024-01-05", 100000)
	inv.CaseNumber = &caseNo
	require.NoError(t, f.invs.Update(ctx, inv))
	f.invoice(t, ana, c2, "OT-2", "2024-01-20", 50000)
	f.invoice(t, kevin, c1, "OT-3", "2024-01-31", 30000)
	f.invoice(t, kevin, c1, "OT-4", "2024-02-10", 99999)

	filter := domainRepo.ReportFilter{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
	rows, total, err := f.reports.BillingRows(ctx, filter, &pagination.PaginationParams{Page: 1, PerPage: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 3)
	assert.Equal(t, "OT-3", rows[0].OrderNumber)
	assert.Equal(t, "Kevin Díaz", rows[0].VendorName)
	assert.Equal(t, "Minera Norte SpA", rows[0].ClientName)
	assert.Equal(t, day("2024-01-31"), rows[0].IssuedOn.UTC())

	sum, perVendor, err := f.reports.FeeTotals(ctx, filter)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(180000)), "got %s", sum)
	require.Len(t, perVendor, 2)
	assert.Equal(t, "Ana Soto", perVendor[0].VendorName)
	assert.True(t, perVendor[0].TotalFees.Equal(decimal.NewFromInt(150000)))

	byRUT := filter
	byRUT.VendorRUT = "13-k"
	rows, total, err = f.reports.BillingRows(ctx, byRUT, &pagination.PaginationParams{Page: 1, PerPage: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, kevin.ID, rows[0].VendorID)

	byCase := filter
	byCase.CaseNumber = "causa"
	rows, _, err = f.reports.BillingRows(ctx, byCase, &pagination.PaginationParams{Page: 1, PerPage: 50})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CaseNumber)
	assert.Equal(t, "CAUSA-77", *rows[0].CaseNumber)
}

func TestIdempotencyRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	user := uuid.New()

	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key:          "k-1",
		UserID:       user,
		Endpoint:     "POST /api/v1/invoices",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	got, err := repo.Find(ctx, user, "k-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.ResponseCode)

	other, err := repo.Find(ctx, uuid.New(), "k-1")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestIdempotencyKeysExpire(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	user := uuid.New()

	stale := &entity.IdempotencyKey{
		Key:       "k-old",
		UserID:    user,
		Endpoint:  "POST /api/v1/clients/import",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Save(ctx, stale))
	require.NoError(t, repo.Save(ctx, &entity.IdempotencyKey{
		Key:       "k-old",
		UserID:    uuid.New(),
		Endpoint:  "POST /api/v1/clients/import",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	purged, err := repo.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	got, err := repo.Find(ctx, user, "k-old")
	require.NoError(t, err)
	assert.Nil(t, got)

	var remaining int64
	require.NoError(t, db.Model(&entity.IdempotencyKey{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}
