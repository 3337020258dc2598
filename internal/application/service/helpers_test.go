package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/bonus"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/sangkips/bonos-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/bonos-api/internal/infrastructure/repository"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	cache    *BonusCache
	clients  *ClientService
	vendors  *VendorService
	invoices *InvoiceService
	bonuses  *BonusService
	reports  *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB("file:"+name+"?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	clientRepo := infraRepo.NewClientRepository(db)
	vendorRepo := infraRepo.NewVendorRepository(db)
	assignmentRepo := infraRepo.NewAssignmentRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	reportRepo := infraRepo.NewReportRepository(db)
	cache := NewBonusCache(time.Minute)

	bonuses := NewBonusService(invoiceRepo, assignmentRepo, cache)
	return &testEnv{
		db:       db,
		cache:    cache,
		clients:  NewClientService(clientRepo, invoiceRepo, cache),
		vendors:  NewVendorService(vendorRepo, assignmentRepo, clientRepo, invoiceRepo, cache),
		invoices: NewInvoiceService(invoiceRepo, vendorRepo, clientRepo, assignmentRepo, cache),
		bonuses:  bonuses,
		reports:  NewReportService(reportRepo, bonuses),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := bonus.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (e *testEnv) client(t *testing.T, name, rut string) *entity.Client {
	t.Helper()
	c, err := e.clients.CreateClient(context.Background(), &CreateClientInput{LegalName: name, RUT: rut})
	require.NoError(t, err)
	return c
}

func (e *testEnv) vendor(t *testing.T, name, rut string, assignments ...AssignmentInput) *entity.Vendor {
	t.Helper()
	v, err := e.vendors.CreateVendor(context.Background(), &CreateVendorInput{
		FullName:    name,
		RUT:         rut,
		BaseSalary:  d("850000"),
		Assignments: assignments,
	})
	require.NoError(t, err)
	return v
}

func (e *testEnv) invoice(t *testing.T, v *entity.Vendor, c *entity.Client, issued, fees, expenses string) *entity.Invoice {
	t.Helper()
	inv, err := e.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		OrderNumber: "OT-" + uuid.NewString()[:8],
		IssuedOn:    day(issued),
		Fees:        d(fees),
		Expenses:    d(expenses),
		VendorID:    v.ID,
		ClientID:    c.ID,
	})
	require.NoError(t, err)
	return inv
}

// insertInvoice writes an invoice directly, skipping the assignment check, to
// model data whose assignment was removed after billing.
func (e *testEnv) insertInvoice(t *testing.T, v *entity.Vendor, c *entity.Client, issued, fees, expenses string) *entity.Invoice {
	t.Helper()
	inv := &entity.Invoice{
		OrderNumber: "OT-" + uuid.NewString()[:8],
		IssuedOn:    day(issued),
		Fees:        d(fees),
		Expenses:    d(expenses),
		VendorID:    v.ID,
		ClientID:    c.ID,
	}
	require.NoError(t, e.db.Omit("Vendor", "Client").Create(inv).Error)
	e.cache.Invalidate()
	return inv
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func assertStatus(t *testing.T, code int, err error) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}
