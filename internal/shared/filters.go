package shared

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const (
	// Default pagination
	DefaultPage    = 1
	DefaultPerPage = 10

	// Sort directions
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ErrBadPageParams is returned when page or per_page fail to parse as integers.
var ErrBadPageParams = errors.New("Pagination parameters must be integers")

// ListFilters represents the normalized filter/sort/paginate parameters of a
// list request. Built fresh per request, never persisted.
type ListFilters struct {
	Page      int
	PerPage   int
	Search    string
	SortBy    string
	SortOrder string

	// Entity specific filters. Nil means absent.
	AuthorID        *int64
	CategoryID      *int64
	PublicationYear *int
	UserID          *int64
	MinRating       *int
}

// ParseListFilters extracts the common filter parameters from the query
// string. Missing page/per_page fall back to defaults; values that are
// present but not integers fail the whole request.
func ParseListFilters(q url.Values) (ListFilters, error) {
	f := ListFilters{
		Page:      DefaultPage,
		PerPage:   DefaultPerPage,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return ListFilters{}, ErrBadPageParams
		}
		if page >= 1 {
			f.Page = page
		}
	}
	if raw := q.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil {
			return ListFilters{}, ErrBadPageParams
		}
		if perPage >= 1 {
			f.PerPage = perPage
		}
	}
	return f, nil
}

// OptionalInt64 parses an optional integer filter value. Absent or
// unparsable values yield nil: a bad filter is skipped, not an error.
func OptionalInt64(q url.Values, key string) *int64 {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// OptionalInt parses an optional integer filter value with the same
// skip-on-error behavior as OptionalInt64.
func OptionalInt(q url.Values, key string) *int {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// OptionalIntInRange parses an optional integer filter constrained to
// [min, max]. Out-of-range or unparsable values are silently skipped.
func OptionalIntInRange(q url.Values, key string, min, max int) *int {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return nil
	}
	return &v
}

// SortDirection normalizes a sort order value. Anything other than "desc"
// is ascending.
func SortDirection(order string) string {
	if order == SortDesc {
		return "DESC"
	}
	return "ASC"
}
