package models

import (
	"fmt"
	"strings"
)

// SortOrder orders results by product name. The zero value leaves the
// store's default order.
type SortOrder string

const (
	SortUnset      SortOrder = ""
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder accepts "", "asc" and "desc" (case-insensitive).
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortUnset, nil
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return SortUnset, fmt.Errorf("order must be asc or desc, got %q", s)
	}
}

// QuerySpec is the composed set of read predicates sent to the store.
// Predicates are independent; a zero field is a no-op.
type QuerySpec struct {
	Search string      // substring over name, description, stock, cantidad
	Stock  StockStatus // exact match when set
	Order  SortOrder
	Limit  int // always > 0
}

// HasSearch reports whether the free-text predicate is active.
func (q QuerySpec) HasSearch() bool { return q.Search != "" }

// HasStockFilter reports whether the stock predicate is active.
func (q QuerySpec) HasStockFilter() bool { return q.Stock != "" }

// QueryParams are the three operator inputs a QuerySpec is derived from.
type QueryParams struct {
	SearchTerm  string
	StockFilter StockStatus
	Order       SortOrder
}
