package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaginationCeilsTotalPages(t *testing.T) {
	cases := []struct {
		total, perPage, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
	}
	for _, tc := range cases {
		p := NewPagination(1, tc.perPage, tc.total)
		require.Equal(t, tc.want, p.TotalPages, "total=%d per_page=%d", tc.total, tc.perPage)
	}
}

func TestPaginationOffset(t *testing.T) {
	require.Equal(t, 0, NewPagination(1, 10, 100).Offset())
	require.Equal(t, 10, NewPagination(2, 10, 100).Offset())
	require.Equal(t, 40, NewPagination(3, 20, 100).Offset())
	require.Equal(t, 0, NewPagination(0, 10, 100).Offset())
}

func TestNewPaginationNormalizesBadInput(t *testing.T) {
	p := NewPagination(0, 0, 42)
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultPerPage, p.PerPage)
}
