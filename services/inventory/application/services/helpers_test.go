package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/10037-kasarango1/Conjunta/pkg/cache"
	"github.com/10037-kasarango1/Conjunta/pkg/config"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/repositories"
	domainsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/domain/services"
	"github.com/10037-kasarango1/Conjunta/services/inventory/infrastructure/persistence/memory"
)

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// journal records the order of store calls across both repositories.
type journal struct {
	mu    sync.Mutex
	calls []string
}

func (j *journal) add(call string) {
	j.mu.Lock()
	j.calls = append(j.calls, call)
	j.mu.Unlock()
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.calls...)
}

// spyProducts wraps a memory store, journals every call and can fail or
// block Search on demand.
type spyProducts struct {
	repositories.ProductRepository
	j *journal

	mu          sync.Mutex
	updateErr   error
	searchErr   error
	searchBlock chan struct{} // when set, the next Search waits on it
	searchEnter chan struct{}
	afterGet    func() // runs once, between the store read and the return
}

func (s *spyProducts) ExistsByName(ctx context.Context, name models.ProductName) (bool, error) {
	s.j.add("exists")
	return s.ProductRepository.ExistsByName(ctx, name)
}

func (s *spyProducts) Insert(ctx context.Context, d models.ProductDraft) (models.Product, error) {
	s.j.add("insert")
	return s.ProductRepository.Insert(ctx, d)
}

func (s *spyProducts) GetByID(ctx context.Context, id models.ProductID) (models.Product, error) {
	s.j.add("get")
	p, err := s.ProductRepository.GetByID(ctx, id)
	s.mu.Lock()
	hook := s.afterGet
	s.afterGet = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return p, err
}

func (s *spyProducts) Update(ctx context.Context, id models.ProductID, d models.ProductDraft) error {
	s.j.add("update")
	s.mu.Lock()
	err := s.updateErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.ProductRepository.Update(ctx, id, d)
}

func (s *spyProducts) Delete(ctx context.Context, id models.ProductID) error {
	s.j.add("delete")
	return s.ProductRepository.Delete(ctx, id)
}

func (s *spyProducts) Search(ctx context.Context, q models.QuerySpec) ([]models.Product, error) {
	s.j.add("search")
	s.mu.Lock()
	block, enter, err := s.searchBlock, s.searchEnter, s.searchErr
	s.searchBlock, s.searchEnter = nil, nil
	s.mu.Unlock()

	// Snapshot before blocking so a stalled query reflects the store at issue time.
	res, serr := s.ProductRepository.Search(ctx, q)
	if block != nil {
		close(enter)
		<-block
	}
	if err != nil {
		return nil, err
	}
	return res, serr
}

// stallNextSearch makes the next Search wait until release is closed.
// The returned channel is closed once that Search has started.
func (s *spyProducts) stallNextSearch(release chan struct{}) <-chan struct{} {
	enter := make(chan struct{})
	s.mu.Lock()
	s.searchBlock, s.searchEnter = release, enter
	s.mu.Unlock()
	return enter
}

type spyChanges struct {
	repositories.ChangeLogRepository
	j   *journal
	err error
}

func (s *spyChanges) Append(ctx context.Context, rec models.ChangeRecord) (models.ChangeRecord, error) {
	s.j.add("append")
	if s.err != nil {
		return models.ChangeRecord{}, s.err
	}
	return s.ChangeLogRepository.Append(ctx, rec)
}

func (s *spyChanges) List(ctx context.Context) ([]models.ChangeRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ChangeLogRepository.List(ctx)
}

// fakeCache mirrors pkgcache.ProductCache: Delete fences later Sets.
type fakeCache struct {
	mu      sync.Mutex
	entries map[int64]pkgcache.CachedProduct
	fenced  map[int64]bool
	deletes []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[int64]pkgcache.CachedProduct{}, fenced: map[int64]bool{}}
}

func (c *fakeCache) Get(_ context.Context, id int64) (*pkgcache.CachedProduct, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[id]
	if !ok {
		return nil, redis.Nil
	}
	return &p, nil
}

func (c *fakeCache) Set(_ context.Context, p *pkgcache.CachedProduct) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fenced[p.ID] {
		c.entries[p.ID] = *p
	}
	return nil
}

func (c *fakeCache) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.fenced[id] = true
	c.deletes = append(c.deletes, id)
	return nil
}

type published struct {
	topic   string
	eventID string
	payload any
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, topic, eventID string, _ int, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic: topic, eventID: eventID, payload: payload})
	return nil
}

func (p *fakePublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.topic
	}
	return out
}

type fixture struct {
	svc      *InventoryService
	store    *memory.ProductStore
	log      *memory.ChangeLog
	products *spyProducts
	changes  *spyChanges
	j        *journal
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	j := &journal{}
	store := memory.NewProductStore()
	changeLog := memory.NewChangeLog()
	products := &spyProducts{ProductRepository: store, j: j}
	changes := &spyChanges{ChangeLogRepository: changeLog, j: j}

	svc := NewInventoryService(
		products,
		NewAuditRecorder(changes, nil),
		domainsvcs.NewQueryComposer(domainsvcs.DefaultResultLimit),
		testLogger(),
		opts...,
	)
	return &fixture{svc: svc, store: store, log: changeLog, products: products, changes: changes, j: j}
}

func (f *fixture) seed(t *testing.T, name, description, stock, cantidad string) models.Product {
	t.Helper()
	d, err := ParseDraft(name, description, stock, cantidad)
	if err != nil {
		t.Fatalf("ParseDraft(%s): %v", name, err)
	}
	p, err := f.svc.Create(context.Background(), d)
	if err != nil {
		t.Fatalf("Create(%s): %v", name, err)
	}
	return p
}

var errStoreDown = errors.New("connection refused")
