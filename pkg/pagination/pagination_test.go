package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMax(t *testing.T) {
	cases := []struct {
		name        string
		in          PaginationParams
		max         int
		wantPage    int
		wantPerPage int
	}{
		{"defaults", PaginationParams{}, MaxPerPage, 1, DefaultPerPage},
		{"capped", PaginationParams{Page: 2, PerPage: 500}, MaxPerPage, 2, MaxPerPage},
		{"report cap", PaginationParams{Page: 1, PerPage: 500}, MaxReportPerPage, 1, 500},
		{"negative page", PaginationParams{Page: -3, PerPage: 10}, MaxPerPage, 1, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.ValidateMax(tc.max)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantPerPage, p.PerPage)
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	last := NewPagination(3, 10, 25)
	assert.False(t, last.HasNext)
}

func TestFromStrings(t *testing.T) {
	p := FromStrings("abc", "20")
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}
