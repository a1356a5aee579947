package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/10037-kasarango1/Conjunta/pkg/database"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

var productColumns = []string{"id", "name", "description", "stock", "cantidad"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// searchQuery translates a QuerySpec into SQL. The free-text predicate is an
// OR of case-insensitive substring matches over the four visible fields; the
// stock predicate is an exact match. Both are ANDed.
func searchQuery(q models.QuerySpec) sq.SelectBuilder {
	b := database.Builder().
		Select(productColumns...).
		From("products")

	if q.HasSearch() {
		pattern := "%" + escapeLike(q.Search) + "%"
		b = b.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"stock": pattern},
			sq.Expr("cantidad::text ILIKE ?", pattern),
		})
	}

	if q.HasStockFilter() {
		b = b.Where(sq.Eq{"stock": q.Stock.String()})
	}

	switch q.Order {
	case models.SortAscending:
		b = b.OrderBy("name ASC", "id ASC")
	case models.SortDescending:
		b = b.OrderBy("name DESC", "id ASC")
	default:
		b = b.OrderBy("id ASC")
	}

	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	return b
}
