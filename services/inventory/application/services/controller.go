package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

// Form is the raw operator input for create and update.
type Form struct {
	Name        string
	Description string
	Stock       string
	Cantidad    string
}

// Controller holds one operator session: the three query inputs, the form
// being edited and the result set currently displayed.
//
// Every change to a query input issues exactly one new query. Queries are
// numbered; a result is applied only if no newer query was issued while it
// was in flight, so the displayed set always belongs to the latest inputs.
type Controller struct {
	svc *InventoryService
	seq Sequencer

	mu      sync.Mutex
	params  models.QueryParams
	form    Form
	results []models.Product
	lastErr error
}

// NewController returns a controller with empty inputs and no results.
// Call Refresh to load the initial result set.
func NewController(svc *InventoryService) *Controller {
	return &Controller{svc: svc}
}

// Refresh re-runs the composed query for the current inputs.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	params := c.params
	seq := c.seq.Next()
	c.mu.Unlock()

	products, err := c.svc.Query(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq.Current() {
		// superseded by a newer query; its outcome is the one that counts
		return nil
	}
	if err != nil {
		c.lastErr = err
		return err
	}
	c.results = products
	c.lastErr = nil
	return nil
}

// SetSearchTerm changes the free-text predicate. An unchanged term issues no query.
func (c *Controller) SetSearchTerm(ctx context.Context, term string) error {
	return c.setParams(ctx, func(p *models.QueryParams) { p.SearchTerm = term })
}

// SetStockFilter changes the stock predicate; empty clears it.
func (c *Controller) SetStockFilter(ctx context.Context, raw string) error {
	stock, err := models.ParseStockFilter(raw)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err))
	}
	return c.setParams(ctx, func(p *models.QueryParams) { p.StockFilter = stock })
}

// SetOrder changes the name ordering; empty restores the store order.
func (c *Controller) SetOrder(ctx context.Context, raw string) error {
	order, err := models.ParseSortOrder(raw)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err))
	}
	return c.setParams(ctx, func(p *models.QueryParams) { p.Order = order })
}

// SetQuery replaces all three inputs at once, issuing at most one query.
func (c *Controller) SetQuery(ctx context.Context, term, stockRaw, orderRaw string) error {
	stock, err := models.ParseStockFilter(stockRaw)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err))
	}
	order, err := models.ParseSortOrder(orderRaw)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err))
	}
	return c.setParams(ctx, func(p *models.QueryParams) {
		*p = models.QueryParams{SearchTerm: term, StockFilter: stock, Order: order}
	})
}

func (c *Controller) setParams(ctx context.Context, mutate func(*models.QueryParams)) error {
	c.mu.Lock()
	next := c.params
	mutate(&next)
	if next == c.params {
		c.mu.Unlock()
		return nil
	}
	c.params = next
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Create submits f as a new product. The form is cleared on success and on
// a duplicate name; any other failure keeps it for correction.
func (c *Controller) Create(ctx context.Context, f Form) (models.Product, error) {
	c.setForm(f)

	draft, err := ParseDraft(f.Name, f.Description, f.Stock, f.Cantidad)
	if err != nil {
		return models.Product{}, c.fail(err)
	}

	p, err := c.svc.Create(ctx, draft)
	if err != nil {
		if errors.Is(err, inventorydomain.ErrDuplicateName) {
			c.setForm(Form{})
		}
		return models.Product{}, c.fail(err)
	}

	c.setForm(Form{})
	return p, c.Refresh(ctx)
}

// Update submits f as the new state of product id.
func (c *Controller) Update(ctx context.Context, id models.ProductID, f Form) error {
	c.setForm(f)

	draft, err := ParseDraft(f.Name, f.Description, f.Stock, f.Cantidad)
	if err != nil {
		return c.fail(err)
	}

	if err := c.svc.Update(ctx, id, draft); err != nil {
		return c.fail(err)
	}

	c.setForm(Form{})
	return c.Refresh(ctx)
}

// Delete removes product id and refreshes the result set.
func (c *Controller) Delete(ctx context.Context, id models.ProductID) error {
	if err := c.svc.Delete(ctx, id); err != nil {
		return c.fail(err)
	}

	c.setForm(Form{})
	return c.Refresh(ctx)
}

// Results returns a copy of the displayed result set.
func (c *Controller) Results() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Product, len(c.results))
	copy(out, c.results)
	return out
}

// Form returns the input currently held by the session.
func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Params returns the current query inputs.
func (c *Controller) Params() models.QueryParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// LastError returns the error of the most recent intent, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) setForm(f Form) {
	c.mu.Lock()
	c.form = f
	c.mu.Unlock()
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	return err
}
