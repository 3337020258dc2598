package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBonusesScenarios(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c1 := env.client(t, "Minera Norte SpA", "76.086.428-5")
	c2 := env.client(t, "Agrícola Sur Ltda", "11.111.111-1")
	v1 := env.vendor(t, "Ana Soto", "12.345.678-5", AssignmentInput{ClientID: c1.ID, Percentage: d("0.10")})

	env.invoice(t, v1, c1, "2024-01-31", "100000", "20000")

	calc, err := env.bonuses.CalculateBonuses(ctx, &CalculateBonusesInput{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")})
	require.NoError(t, err)
	require.Len(t, calc.Results, 1)

	r := calc.Results[0]
	assert.Equal(t, "Ana Soto", r.VendorName)
	assertDecimal(t, "100000", r.TotalFees)
	assertDecimal(t, "20000", r.TotalExpenses)
	assertDecimal(t, "80000", r.TotalNet)
	assertDecimal(t, "10000", r.TotalBonus)
	require.NotNil(t, r.EffectivePercentage)
	assertDecimal(t, "0.1", *r.EffectivePercentage)

	// an invoice for a client the vendor no longer holds
	env.insertInvoice(t, v1, c2, "2024-01-15", "50000", "0")

	calc, err = env.bonuses.CalculateBonuses(ctx, &CalculateBonusesInput{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")})
	require.NoError(t, err)
	require.Len(t, calc.Results, 1)
	r = calc.Results[0]
	assertDecimal(t, "150000", r.TotalFees)
	assertDecimal(t, "10000", r.TotalBonus)
	assert.InDelta(t, 0.0666666, r.EffectivePercentage.InexactFloat64(), 1e-6)
	assert.Len(t, calc.Unresolved, 1)
}

func TestCalculateBonusesInvertedRange(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.bonuses.CalculateBonuses(context.Background(), &CalculateBonusesInput{StartDate: day("2024-02-01"), EndDate: day("2024-01-01")})
	assertStatus(t, http.StatusBadRequest, err)
}

func TestCalculateBonusesSortedAndFiltered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	zoe := env.vendor(t, "Zoe Araya", "11111111-1", AssignmentInput{ClientID: c.ID, Percentage: d("0.2")})
	ana := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.1")})
	env.invoice(t, zoe, c, "2024-01-10", "1000", "0")
	env.invoice(t, ana, c, "2024-01-11", "1000", "0")

	calc, err := env.bonuses.CalculateBonuses(ctx, &CalculateBonusesInput{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")})
	require.NoError(t, err)
	require.Len(t, calc.Results, 2)
	assert.Equal(t, "Ana Soto", calc.Results[0].VendorName)
	assert.Equal(t, "Zoe Araya", calc.Results[1].VendorName)

	only, err := env.bonuses.CalculateBonuses(ctx, &CalculateBonusesInput{StartDate: day("2024-01-01"), EndDate: day("2024-01-31"), VendorID: &zoe.ID})
	require.NoError(t, err)
	require.Len(t, only.Results, 1)
	assertDecimal(t, "200", only.Results[0].TotalBonus)
}

func TestCalculateBonusesCacheInvalidatedOnWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c := env.client(t, "Minera Norte SpA", "76086428-5")
	v := env.vendor(t, "Ana Soto", "12345678-5", AssignmentInput{ClientID: c.ID, Percentage: d("0.1")})
	env.invoice(t, v, c, "2024-01-10", "1000", "0")

	input := &CalculateBonusesInput{StartDate: day("2024-01-01"), EndDate: day("2024-01-31")}
	first, err := env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	second, err := env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, env.cache.Len())

	_, err = env.vendors.UpdateAssignment(ctx, v.ID, c.ID, d("0.5"))
	require.NoError(t, err)
	assert.Equal(t, 0, env.cache.Len())

	third, err := env.bonuses.CalculateBonuses(ctx, input)
	require.NoError(t, err)
	assertDecimal(t, "500", third.Results[0].TotalBonus)
}
