package bonus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bonos-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid", date("2024-01-01"), date("2024-01-31"), false},
		{"single day", date("2024-01-01"), date("2024-01-01"), false},
		{"same day different times", date("2024-01-01").Add(20 * time.Hour), date("2024-01-01"), false},
		{"inverted", date("2024-02-01"), date("2024-01-01"), true},
		{"missing start", time.Time{}, date("2024-01-01"), true},
		{"missing end", date("2024-01-01"), time.Time{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRange(tc.start, tc.end)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			var rangeErr *InvalidRangeError
			assert.True(t, errors.As(err, &rangeErr))
		})
	}
}

func TestSelectIncludesBothBoundaries(t *testing.T) {
	v, c := uuid.New(), uuid.New()
	onStart := invoice(v, c, "1", "0", "2024-01-01")
	onEnd := invoice(v, c, "1", "0", "2024-01-31")
	onEnd.IssuedOn = onEnd.IssuedOn.Add(23*time.Hour + 59*time.Minute)
	before := invoice(v, c, "1", "0", "2023-12-31")
	after := invoice(v, c, "1", "0", "2024-02-01")

	src := &fakeInvoices{invoices: []entity.Invoice{before, onStart, onEnd, after}}
	got, err := NewSelector(src).Select(context.Background(), date("2024-01-01"), date("2024-01-31"), nil)

	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, inv := range got {
		ids = append(ids, inv.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{onStart.ID, onEnd.ID}, ids)
}

func TestSelectRestrictsToVendor(t *testing.T) {
	v1, v2, c := uuid.New(), uuid.New(), uuid.New()
	src := &fakeInvoices{invoices: []entity.Invoice{
		invoice(v1, c, "1", "0", "2024-01-10"),
		invoice(v2, c, "1", "0", "2024-01-10"),
	}}

	got, err := NewSelector(src).Select(context.Background(), date("2024-01-01"), date("2024-01-31"), &v2)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, v2, got[0].VendorID)
}

func TestSelectInvalidRangeSkipsSource(t *testing.T) {
	src := &fakeInvoices{}
	_, err := NewSelector(src).Select(context.Background(), date("2024-02-01"), date("2024-01-01"), nil)

	var rangeErr *InvalidRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 0, src.calls)
}

func TestSelectPropagatesSourceError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewSelector(&fakeInvoices{err: boom}).Select(context.Background(), date("2024-01-01"), date("2024-01-02"), nil)
	assert.ErrorIs(t, err, boom)
}

func TestDateOf(t *testing.T) {
	santiago := time.FixedZone("CLT", -3*60*60)
	late := time.Date(2024, 1, 31, 23, 30, 0, 0, santiago)
	assert.Equal(t, date("2024-01-31"), DateOf(late))
}
