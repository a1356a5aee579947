package repositories

import (
	"context"

	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// ProductRepository is the persistence interface for the Product aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Implementations return domain.ErrProductNotFound when a targeted row is
// absent and domain.ErrDuplicateName on a name collision. Any other failure
// is returned wrapped; the application layer classifies it as persistence.
type ProductRepository interface {
	// ExistsByName reports whether a product with exactly this name exists.
	ExistsByName(ctx context.Context, name models.ProductName) (bool, error)

	// Insert stores a new product and returns it with its assigned ID.
	Insert(ctx context.Context, draft models.ProductDraft) (models.Product, error)

	GetByID(ctx context.Context, id models.ProductID) (models.Product, error)

	// Update overwrites all mutable fields of the product with the given ID.
	Update(ctx context.Context, id models.ProductID, draft models.ProductDraft) error

	// Delete hard-removes a product. Its change records are untouched.
	Delete(ctx context.Context, id models.ProductID) error

	// Search runs a composed query, honouring every predicate and the limit.
	Search(ctx context.Context, q models.QuerySpec) ([]models.Product, error)
}

// ChangeLogRepository is the append-only store of ChangeRecords.
type ChangeLogRepository interface {
	// Append stores rec and returns it with its ID and RecordedAt set.
	Append(ctx context.Context, rec models.ChangeRecord) (models.ChangeRecord, error)

	// List returns all records in the store's natural (insertion) order.
	List(ctx context.Context) ([]models.ChangeRecord, error)
}
