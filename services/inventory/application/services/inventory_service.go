package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	pkgcache "github.com/10037-kasarango1/Conjunta/pkg/cache"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
	"github.com/10037-kasarango1/Conjunta/pkg/telemetry"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	domainevents "github.com/10037-kasarango1/Conjunta/services/inventory/domain/events"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/repositories"
	domainsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/domain/services"
)

const eventVersion = 1

// ProductCache is the read-model cache consulted by GetByID.
// *pkgcache.ProductCache satisfies it.
type ProductCache interface {
	Get(ctx context.Context, id int64) (*pkgcache.CachedProduct, error)
	Set(ctx context.Context, p *pkgcache.CachedProduct) error
	Delete(ctx context.Context, id int64) error
}

// EventPublisher publishes product lifecycle events once a write has been
// accepted by the store. *events.EventBus satisfies it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, topic, eventID string, version int, payload any) error
}

// Option configures optional collaborators of an InventoryService.
type Option func(*InventoryService)

// WithCache enables read-through caching of products by ID.
func WithCache(c ProductCache) Option {
	return func(s *InventoryService) { s.cache = c }
}

// WithPublisher enables product lifecycle events.
func WithPublisher(p EventPublisher) Option {
	return func(s *InventoryService) { s.events = p }
}

// WithMetrics enables inventory counters.
func WithMetrics(m *telemetry.InventoryMetrics) Option {
	return func(s *InventoryService) { s.metrics = m }
}

// InventoryService is the product repository facade used by every entry
// point. It validates input before any store call, enforces name uniqueness,
// writes the audit entry ahead of each update and classifies store failures.
type InventoryService struct {
	products repositories.ProductRepository
	audit    *AuditRecorder
	composer *domainsvcs.QueryComposer
	log      logger.Logger

	cache   ProductCache   // nil disables caching
	events  EventPublisher // nil disables events
	metrics *telemetry.InventoryMetrics
}

// NewInventoryService wires the service with its required collaborators.
func NewInventoryService(
	products repositories.ProductRepository,
	audit *AuditRecorder,
	composer *domainsvcs.QueryComposer,
	log logger.Logger,
	opts ...Option,
) *InventoryService {
	s := &InventoryService{
		products: products,
		audit:    audit,
		composer: composer,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseDraft parses raw operator input into a ProductDraft, reporting every
// malformed field as ErrValidation.
func ParseDraft(name, description, stock, cantidad string) (models.ProductDraft, error) {
	d, err := models.NewProductDraft(name, description, stock, cantidad)
	if err != nil {
		return models.ProductDraft{}, fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}
	return d, nil
}

// Composer returns the query composer bound to the configured result limit.
func (s *InventoryService) Composer() *domainsvcs.QueryComposer {
	return s.composer
}

// Create registers a new product. It fails with ErrDuplicateName when a
// product with the same name already exists and leaves the store untouched.
func (s *InventoryService) Create(ctx context.Context, draft models.ProductDraft) (_ models.Product, err error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory.create")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := domainsvcs.ValidateDraft(draft); err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}

	exists, err := s.products.ExistsByName(ctx, draft.Name)
	if err != nil {
		return models.Product{}, storeError("check product name", err)
	}
	if exists {
		return models.Product{}, fmt.Errorf("create %q: %w", draft.Name, inventorydomain.ErrDuplicateName)
	}

	// The unique index still rejects a concurrent insert of the same name.
	p, err := s.products.Insert(ctx, draft)
	if err != nil {
		return models.Product{}, storeError("insert product", err)
	}

	s.metrics.ProductCreated(ctx)
	s.log.InfoContext(ctx, "product created", "product_id", int64(p.ID), "name", p.Name.String())
	evt := domainevents.ProductCreatedEvent{
		EventID:    uuid.New(),
		Version:    eventVersion,
		Product:    snapshot(p),
		OccurredAt: time.Now().UTC(),
	}
	s.publish(ctx, domainevents.TopicProductCreated, evt.EventID, evt)
	return p, nil
}

// GetByID returns a single product using a read-through cache:
//  1. Check Redis first.
//  2. On miss (or cache error), query the store.
//  3. Warm the cache with the store result. The cache drops that write if
//     an update or delete evicted the product in the meantime.
func (s *InventoryService) GetByID(ctx context.Context, id models.ProductID) (models.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, int64(id))
		if err == nil {
			return fromCache(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "product cache read failed", "product_id", int64(id), "error", err)
		}
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, storeError("get product", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, toCache(p)); err != nil {
			s.log.WarnContext(ctx, "product cache write failed", "product_id", int64(id), "error", err)
		}
	}
	return p, nil
}

// Search runs a composed query against the store.
func (s *InventoryService) Search(ctx context.Context, q models.QuerySpec) ([]models.Product, error) {
	s.metrics.QueryIssued(ctx)
	products, err := s.products.Search(ctx, q)
	if err != nil {
		return nil, storeError("search products", err)
	}
	return products, nil
}

// Query composes params with the configured limit and runs the result.
func (s *InventoryService) Query(ctx context.Context, params models.QueryParams) ([]models.Product, error) {
	return s.Search(ctx, s.composer.FromParams(params))
}

// Update records the quantity transition and then overwrites the product.
// The change record is appended and awaited before the patch is issued; if
// the append fails the patch is not attempted, and if the patch fails the
// change record stays in the log.
func (s *InventoryService) Update(ctx context.Context, id models.ProductID, draft models.ProductDraft) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory.update", attribute.Int64("product.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := domainsvcs.ValidateDraft(draft); err != nil {
		return fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}

	prior, err := s.products.GetByID(ctx, id)
	if err != nil {
		return storeError("load product", err)
	}

	rec, err := s.audit.Record(ctx, draft.Name.String(), prior.Cantidad, draft.Cantidad)
	if err != nil {
		return err
	}

	if err := s.products.Update(ctx, id, draft); err != nil {
		s.log.WarnContext(ctx, "product update failed after change was recorded",
			"product_id", int64(id),
			"change_id", rec.ID,
			"error", err,
		)
		return storeError("update product", err)
	}

	s.evict(ctx, id)
	updated := draft.Apply(models.Product{ID: id})
	s.log.InfoContext(ctx, "product updated",
		"product_id", int64(id),
		"change_type", string(rec.ChangeType),
		"quantity_initial", int64(rec.QuantityInitial),
		"quantity_final", int64(rec.QuantityFinal),
	)
	evt := domainevents.ProductUpdatedEvent{
		EventID:         uuid.New(),
		Version:         eventVersion,
		Product:         snapshot(updated),
		QuantityInitial: int64(rec.QuantityInitial),
		ChangeType:      string(rec.ChangeType),
		OccurredAt:      time.Now().UTC(),
	}
	s.publish(ctx, domainevents.TopicProductUpdated, evt.EventID, evt)
	return nil
}

// Delete hard-removes a product. Its change records are kept.
func (s *InventoryService) Delete(ctx context.Context, id models.ProductID) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "inventory.delete", attribute.Int64("product.id", int64(id)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.products.Delete(ctx, id); err != nil {
		return storeError("delete product", err)
	}

	s.evict(ctx, id)
	s.log.InfoContext(ctx, "product deleted", "product_id", int64(id))
	evt := domainevents.ProductDeletedEvent{
		EventID:    uuid.New(),
		Version:    eventVersion,
		ProductID:  int64(id),
		OccurredAt: time.Now().UTC(),
	}
	s.publish(ctx, domainevents.TopicProductDeleted, evt.EventID, evt)
	return nil
}

// ListChanges returns the full change history in insertion order.
func (s *InventoryService) ListChanges(ctx context.Context) ([]models.ChangeRecord, error) {
	return s.audit.List(ctx)
}

func (s *InventoryService) evict(ctx context.Context, id models.ProductID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, int64(id)); err != nil {
		s.log.WarnContext(ctx, "product cache evict failed", "product_id", int64(id), "error", err)
	}
}

// publish is best effort: the write already happened, so a failure is logged
// and not returned.
func (s *InventoryService) publish(ctx context.Context, topic string, eventID uuid.UUID, evt any) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(ctx, topic, eventID.String(), eventVersion, evt); err != nil {
		s.log.WarnContext(ctx, "publish product event failed", "topic", topic, "error", err)
	}
}

// storeError keeps domain sentinels raised by the store and classifies
// everything else as ErrPersistence.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, inventorydomain.ErrProductNotFound),
		errors.Is(err, inventorydomain.ErrDuplicateName),
		errors.Is(err, inventorydomain.ErrValidation):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%w: %s: %w", inventorydomain.ErrPersistence, op, err)
	}
}

func snapshot(p models.Product) domainevents.ProductSnapshot {
	return domainevents.ProductSnapshot{
		ID:          int64(p.ID),
		Name:        p.Name.String(),
		Description: p.Description,
		Stock:       p.Stock.String(),
		Cantidad:    int64(p.Cantidad),
	}
}

func toCache(p models.Product) *pkgcache.CachedProduct {
	return &pkgcache.CachedProduct{
		ID:          int64(p.ID),
		Name:        p.Name.String(),
		Description: p.Description,
		Stock:       p.Stock.String(),
		Cantidad:    int64(p.Cantidad),
	}
}

func fromCache(c *pkgcache.CachedProduct) models.Product {
	return models.Product{
		ID:          models.ProductID(c.ID),
		Name:        models.ProductName(c.Name),
		Description: c.Description,
		Stock:       models.StockStatus(c.Stock),
		Cantidad:    models.Quantity(c.Cantidad),
	}
}
