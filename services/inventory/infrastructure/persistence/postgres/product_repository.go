package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/10037-kasarango1/Conjunta/pkg/database"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// ProductRepository implements repositories.ProductRepository against PostgreSQL.
type ProductRepository struct {
	q database.Querier
}

// NewProductRepository returns a ProductRepository running its statements on q.
func NewProductRepository(q database.Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

// ExistsByName reports whether a product with exactly this name exists.
func (r *ProductRepository) ExistsByName(ctx context.Context, name models.ProductName) (bool, error) {
	query, args, err := database.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From("products").
		Where(sq.Eq{"name": name.String()}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, mapError(err, "product", name)
	}
	return exists, nil
}

// Insert stores a new product. Returns ErrDuplicateName when the unique index
// on name rejects the row.
func (r *ProductRepository) Insert(ctx context.Context, draft models.ProductDraft) (models.Product, error) {
	query, args, err := database.Builder().
		Insert("products").
		Columns("name", "description", "stock", "cantidad").
		Values(draft.Name.String(), draft.Description, draft.Stock.String(), int64(draft.Cantidad)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return models.Product{}, mapError(err, "product", draft.Name)
	}
	return draft.Apply(models.Product{ID: models.ProductID(id)}), nil
}

// GetByID returns ErrProductNotFound if no row has the given ID.
func (r *ProductRepository) GetByID(ctx context.Context, id models.ProductID) (models.Product, error) {
	query, args, err := database.Builder().
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": int64(id)}).
		ToSql()
	if err != nil {
		return models.Product{}, fmt.Errorf("build select: %w", err)
	}

	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Product{}, mapError(err, "product", id)
	}
	return p, nil
}

// Update overwrites all four mutable fields. Returns ErrProductNotFound when
// no row was affected.
func (r *ProductRepository) Update(ctx context.Context, id models.ProductID, draft models.ProductDraft) error {
	query, args, err := database.Builder().
		Update("products").
		Set("name", draft.Name.String()).
		Set("description", draft.Description).
		Set("stock", draft.Stock.String()).
		Set("cantidad", int64(draft.Cantidad)).
		Where(sq.Eq{"id": int64(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "product", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %v: %w", id, inventorydomain.ErrProductNotFound)
	}
	return nil
}

// Delete hard-removes a product. Returns ErrProductNotFound when no row was
// affected.
func (r *ProductRepository) Delete(ctx context.Context, id models.ProductID) error {
	query, args, err := database.Builder().
		Delete("products").
		Where(sq.Eq{"id": int64(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "product", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %v: %w", id, inventorydomain.ErrProductNotFound)
	}
	return nil
}

// Search runs the composed query and returns at most q.Limit products.
func (r *ProductRepository) Search(ctx context.Context, q models.QuerySpec) ([]models.Product, error) {
	query, args, err := searchQuery(q).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "products", q.Search)
	}
	defer rows.Close()

	products := make([]models.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "products", q.Search)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var (
		id          int64
		name        string
		description string
		stock       string
		cantidad    int64
	)
	if err := row.Scan(&id, &name, &description, &stock, &cantidad); err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:          models.ProductID(id),
		Name:        models.ProductName(name),
		Description: description,
		Stock:       models.StockStatus(stock),
		Cantidad:    models.Quantity(cantidad),
	}, nil
}
