package reviews

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/shared"
)

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

func TestBuildListQueryScopesToBook(t *testing.T) {
	where, orderBy, args := BuildListQuery(9, shared.ListFilters{})
	require.Equal(t, ` WHERE rv.book_id = $1`, where)
	require.Equal(t, ` ORDER BY rv.created_at DESC`, orderBy, "reviews default to newest first")
	require.Equal(t, []any{int64(9)}, args)
}

func TestBuildListQueryUserAndRatingFilters(t *testing.T) {
	where, _, args := BuildListQuery(9, shared.ListFilters{
		UserID:    int64p(4),
		MinRating: intp(3),
	})
	require.Contains(t, where, `rv.user_id = $2`)
	require.Contains(t, where, `rv.rating >= $3`, "min_rating is a lower bound")
	require.Equal(t, []any{int64(9), int64(4), 3}, args)
}

func TestBuildListQuerySort(t *testing.T) {
	_, orderBy, _ := BuildListQuery(9, shared.ListFilters{SortBy: "rating"})
	require.Equal(t, ` ORDER BY rv.rating DESC`, orderBy)

	_, orderBy, _ = BuildListQuery(9, shared.ListFilters{SortBy: "rating", SortOrder: "asc"})
	require.Equal(t, ` ORDER BY rv.rating ASC`, orderBy)

	// Unknown sort fields behave exactly like no sort at all.
	_, unknown, _ := BuildListQuery(9, shared.ListFilters{SortBy: "sentiment"})
	_, none, _ := BuildListQuery(9, shared.ListFilters{})
	require.Equal(t, none, unknown)
}
