package services

import (
	"sort"
	"strings"

	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// DefaultResultLimit caps every composed query.
const DefaultResultLimit = 10

// QueryComposer derives a QuerySpec from the operator's three inputs.
type QueryComposer struct {
	limit int
}

// NewQueryComposer returns a composer that caps results at limit.
// A non-positive limit falls back to DefaultResultLimit.
func NewQueryComposer(limit int) *QueryComposer {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	return &QueryComposer{limit: limit}
}

// Limit returns the result cap applied to every query.
func (c *QueryComposer) Limit() int { return c.limit }

// BuildQuery combines the predicates conjunctively. An empty term, a zero
// stock filter or an unset order is a no-op, never a reject-all.
func (c *QueryComposer) BuildQuery(searchTerm string, stock models.StockStatus, order models.SortOrder) models.QuerySpec {
	return models.QuerySpec{
		Search: searchTerm,
		Stock:  stock,
		Order:  order,
		Limit:  c.limit,
	}
}

// FromParams is BuildQuery over a QueryParams value.
func (c *QueryComposer) FromParams(p models.QueryParams) models.QuerySpec {
	return c.BuildQuery(p.SearchTerm, p.StockFilter, p.Order)
}

// Matches evaluates the QuerySpec predicates against a single product. Stores
// without a query language use it to filter in process.
func Matches(q models.QuerySpec, p models.Product) bool {
	if q.HasStockFilter() && p.Stock != q.Stock {
		return false
	}
	if !q.HasSearch() {
		return true
	}
	term := strings.ToLower(q.Search)
	for _, field := range []string{
		p.Name.String(),
		p.Description,
		p.Stock.String(),
		p.Cantidad.String(),
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// SortProducts orders products by name in place. SortUnset leaves the
// slice as it is.
func SortProducts(products []models.Product, order models.SortOrder) {
	switch order {
	case models.SortAscending:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	case models.SortDescending:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name > products[j].Name })
	}
}
