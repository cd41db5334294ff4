package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseListFiltersDefaults(t *testing.T) {
	f, err := ParseListFilters(url.Values{})
	require.NoError(t, err)
	require.Equal(t, DefaultPage, f.Page)
	require.Equal(t, DefaultPerPage, f.PerPage)
	require.Empty(t, f.Search)
	require.Empty(t, f.SortBy)
}

func TestParseListFiltersNonIntegerPageFails(t *testing.T) {
	for _, key := range []string{"page", "per_page"} {
		q := url.Values{}
		q.Set(key, "abc")
		_, err := ParseListFilters(q)
		require.ErrorIs(t, err, ErrBadPageParams, "key %s", key)
	}
}

func TestParseListFiltersOutOfRangeKeepsDefaults(t *testing.T) {
	q := url.Values{}
	q.Set("page", "0")
	q.Set("per_page", "-3")
	f, err := ParseListFilters(q)
	require.NoError(t, err)
	require.Equal(t, DefaultPage, f.Page)
	require.Equal(t, DefaultPerPage, f.PerPage)
}

func TestParseListFiltersReadsValues(t *testing.T) {
	q := url.Values{}
	q.Set("page", "3")
	q.Set("per_page", "25")
	q.Set("search", "  dune ")
	q.Set("sort_by", "title")
	q.Set("sort_order", "desc")
	f, err := ParseListFilters(q)
	require.NoError(t, err)
	require.Equal(t, 3, f.Page)
	require.Equal(t, 25, f.PerPage)
	require.Equal(t, "dune", f.Search)
	require.Equal(t, "title", f.SortBy)
	require.Equal(t, "desc", f.SortOrder)
}

func TestOptionalIntInRangeSkipsBadValues(t *testing.T) {
	q := url.Values{}

	q.Set("min_rating", "7")
	require.Nil(t, OptionalIntInRange(q, "min_rating", 1, 5), "out of range values are skipped")

	q.Set("min_rating", "abc")
	require.Nil(t, OptionalIntInRange(q, "min_rating", 1, 5), "unparsable values are skipped")

	q.Set("min_rating", "4")
	got := OptionalIntInRange(q, "min_rating", 1, 5)
	require.NotNil(t, got)
	require.Equal(t, 4, *got)
}

func TestOptionalInt64SkipsBadValues(t *testing.T) {
	q := url.Values{}
	require.Nil(t, OptionalInt64(q, "user_id"))

	q.Set("user_id", "bogus")
	require.Nil(t, OptionalInt64(q, "user_id"))

	q.Set("user_id", "42")
	got := OptionalInt64(q, "user_id")
	require.NotNil(t, got)
	require.EqualValues(t, 42, *got)
}

func TestSortDirection(t *testing.T) {
	require.Equal(t, "DESC", SortDirection("desc"))
	require.Equal(t, "ASC", SortDirection("asc"))
	require.Equal(t, "ASC", SortDirection(""))
	require.Equal(t, "ASC", SortDirection("sideways"))
}
