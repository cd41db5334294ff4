// Package roles persists the small fixed set of named roles.
package roles

// Role is one of a closed set of named values. Names are unique.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
