// Package memory provides in-process implementations of the inventory
// repositories. They back STORE_BACKEND=memory and the application tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
	domainservices "github.com/10037-kasarango1/Conjunta/services/inventory/domain/services"
)

// ProductStore keeps products in insertion order and enforces name
// uniqueness the way the unique index does in PostgreSQL.
type ProductStore struct {
	mu       sync.RWMutex
	nextID   models.ProductID
	products []models.Product
}

// NewProductStore returns an empty store whose first product gets ID 1.
func NewProductStore() *ProductStore {
	return &ProductStore{nextID: 1}
}

func (s *ProductStore) ExistsByName(_ context.Context, name models.ProductName) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexByName(name) >= 0, nil
}

func (s *ProductStore) Insert(_ context.Context, draft models.ProductDraft) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByName(draft.Name) >= 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", draft.Name, inventorydomain.ErrDuplicateName)
	}
	p := draft.Apply(models.Product{ID: s.nextID})
	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

func (s *ProductStore) GetByID(_ context.Context, id models.ProductID) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexByID(id)
	if i < 0 {
		return models.Product{}, fmt.Errorf("product %v: %w", id, inventorydomain.ErrProductNotFound)
	}
	return s.products[i], nil
}

func (s *ProductStore) Update(_ context.Context, id models.ProductID, draft models.ProductDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return fmt.Errorf("product %v: %w", id, inventorydomain.ErrProductNotFound)
	}
	if j := s.indexByName(draft.Name); j >= 0 && j != i {
		return fmt.Errorf("product %s: %w", draft.Name, inventorydomain.ErrDuplicateName)
	}
	s.products[i] = draft.Apply(s.products[i])
	return nil
}

func (s *ProductStore) Delete(_ context.Context, id models.ProductID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return fmt.Errorf("product %v: %w", id, inventorydomain.ErrProductNotFound)
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

// Search filters with the same predicates the SQL adapter generates, then
// sorts and truncates to q.Limit.
func (s *ProductStore) Search(_ context.Context, q models.QuerySpec) ([]models.Product, error) {
	s.mu.RLock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if domainservices.Matches(q, p) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	domainservices.SortProducts(out, q.Order)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Len returns the number of stored products.
func (s *ProductStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *ProductStore) indexByID(id models.ProductID) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *ProductStore) indexByName(name models.ProductName) int {
	for i, p := range s.products {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// ChangeLog is an append-only slice of change records.
type ChangeLog struct {
	mu      sync.RWMutex
	records []models.ChangeRecord
	now     func() time.Time
}

// NewChangeLog returns an empty change log stamping RecordedAt with time.Now.
func NewChangeLog() *ChangeLog {
	return &ChangeLog{now: time.Now}
}

func (l *ChangeLog) Append(_ context.Context, rec models.ChangeRecord) (models.ChangeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.ID = int64(len(l.records) + 1)
	rec.RecordedAt = l.now()
	l.records = append(l.records, rec)
	return rec, nil
}

func (l *ChangeLog) List(_ context.Context) ([]models.ChangeRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.ChangeRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}
