package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

func resultNames(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name.String()
	}
	return out
}

func seededController(t *testing.T) (*Controller, *fixture) {
	t.Helper()
	f := newFixture(t)
	f.seed(t, "Martillo", "Mango de madera", "Available", "12")
	f.seed(t, "Clavos", "Caja de 100", "Unavailable", "0")
	f.seed(t, "Alicate", "Acero", "Unavailable", "4")

	c := NewController(f.svc)
	require.NoError(t, c.Refresh(context.Background()))
	return c, f
}

func TestController_SearchMatchesStockLabel(t *testing.T) {
	c, _ := seededController(t)

	require.NoError(t, c.SetSearchTerm(context.Background(), "disp"))
	assert.Len(t, c.Results(), 3)

	require.NoError(t, c.SetSearchTerm(context.Background(), "madera"))
	assert.Equal(t, []string{"Martillo"}, resultNames(c.Results()))
}

func TestController_FilterAndOrder(t *testing.T) {
	c, _ := seededController(t)
	ctx := context.Background()

	require.NoError(t, c.SetStockFilter(ctx, "Unavailable"))
	require.NoError(t, c.SetOrder(ctx, "asc"))
	assert.Equal(t, []string{"Alicate", "Clavos"}, resultNames(c.Results()))

	require.NoError(t, c.SetOrder(ctx, "desc"))
	assert.Equal(t, []string{"Clavos", "Alicate"}, resultNames(c.Results()))

	require.NoError(t, c.SetStockFilter(ctx, ""))
	require.NoError(t, c.SetOrder(ctx, ""))
	assert.Equal(t, []string{"Martillo", "Clavos", "Alicate"}, resultNames(c.Results()))
}

func TestController_InvalidFilterKeepsState(t *testing.T) {
	c, _ := seededController(t)

	err := c.SetStockFilter(context.Background(), "sometimes")
	require.ErrorIs(t, err, inventorydomain.ErrValidation)
	assert.Equal(t, models.QueryParams{}, c.Params())
	assert.Len(t, c.Results(), 3)

	err = c.SetOrder(context.Background(), "sideways")
	require.ErrorIs(t, err, inventorydomain.ErrValidation)
	assert.ErrorIs(t, c.LastError(), inventorydomain.ErrValidation)
}

func TestController_UnchangedInputIssuesNoQuery(t *testing.T) {
	c, f := seededController(t)
	ctx := context.Background()

	require.NoError(t, c.SetSearchTerm(ctx, "a"))
	before := len(f.j.list())
	require.NoError(t, c.SetSearchTerm(ctx, "a"))
	assert.Len(t, f.j.list(), before)
}

func TestController_DeleteMissingLeavesResults(t *testing.T) {
	c, _ := seededController(t)
	before := c.Results()

	err := c.Delete(context.Background(), 99)
	require.ErrorIs(t, err, inventorydomain.ErrProductNotFound)
	assert.Equal(t, before, c.Results())
	assert.ErrorIs(t, c.LastError(), inventorydomain.ErrProductNotFound)
}

func TestController_DeleteRefreshes(t *testing.T) {
	c, _ := seededController(t)

	require.NoError(t, c.Delete(context.Background(), 2))
	assert.Equal(t, []string{"Martillo", "Alicate"}, resultNames(c.Results()))
	assert.NoError(t, c.LastError())
}

func TestController_CreateClearsFormOnSuccess(t *testing.T) {
	c, _ := seededController(t)

	p, err := c.Create(context.Background(), Form{Name: "Brocha", Description: "Pintura", Stock: "Available", Cantidad: "250"})
	require.NoError(t, err)
	assert.Equal(t, models.ProductID(4), p.ID)
	assert.Equal(t, Form{}, c.Form())
	assert.Len(t, c.Results(), 4)
}

func TestController_CreateDuplicateClearsForm(t *testing.T) {
	c, f := seededController(t)

	_, err := c.Create(context.Background(), Form{Name: "Clavos", Description: "Otra caja", Stock: "Available", Cantidad: "5"})
	require.ErrorIs(t, err, inventorydomain.ErrDuplicateName)
	assert.Equal(t, Form{}, c.Form())
	assert.Equal(t, 3, f.store.Len())
}

func TestController_CreateInvalidKeepsForm(t *testing.T) {
	c, f := seededController(t)
	before := len(f.j.list())

	form := Form{Name: "Brocha", Description: "", Stock: "Available", Cantidad: "1"}
	_, err := c.Create(context.Background(), form)
	require.ErrorIs(t, err, inventorydomain.ErrValidation)
	assert.Equal(t, form, c.Form())
	assert.Len(t, f.j.list(), before, "validation failure must not reach the store")
}

func TestController_UpdateRecordsChange(t *testing.T) {
	c, f := seededController(t)

	err := c.Update(context.Background(), 1, Form{Name: "Martillo", Description: "Mango de madera", Stock: "Available", Cantidad: "3"})
	require.NoError(t, err)
	assert.Equal(t, Form{}, c.Form())

	records, err := f.log.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ChangeOutflow, records[0].ChangeType)
	assert.Equal(t, models.Quantity(3), c.Results()[0].Cantidad)
}

func TestController_LatestQueryWins(t *testing.T) {
	c, f := seededController(t)
	ctx := context.Background()

	// The first query stalls in the store; a newer one completes meanwhile.
	release := make(chan struct{})
	entered := f.products.stallNextSearch(release)

	done := make(chan error, 1)
	go func() { done <- c.SetSearchTerm(ctx, "martillo") }()
	<-entered

	require.NoError(t, c.SetSearchTerm(ctx, "clavos"))
	assert.Equal(t, []string{"Clavos"}, resultNames(c.Results()))

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"Clavos"}, resultNames(c.Results()))
	assert.Equal(t, "clavos", c.Params().SearchTerm)
}

func TestController_RefreshErrorKeepsResults(t *testing.T) {
	c, f := seededController(t)
	before := c.Results()

	f.products.searchErr = errStoreDown
	err := c.SetSearchTerm(context.Background(), "x")
	require.ErrorIs(t, err, inventorydomain.ErrPersistence)
	assert.Equal(t, before, c.Results())
}

func TestSequencer(t *testing.T) {
	var s Sequencer
	assert.Equal(t, uint64(0), s.Current())
	assert.Equal(t, uint64(1), s.Next())
	assert.Equal(t, uint64(2), s.Next())
	assert.Equal(t, uint64(2), s.Current())
}

func TestController_SetQueryIssuesOneQuery(t *testing.T) {
	c, f := seededController(t)
	ctx := context.Background()
	before := len(f.j.list())

	require.NoError(t, c.SetQuery(ctx, "", "Unavailable", "asc"))
	assert.Len(t, f.j.list(), before+1)
	assert.Equal(t, []string{"Alicate", "Clavos"}, resultNames(c.Results()))

	require.NoError(t, c.SetQuery(ctx, "", "no disponible", "ASC"))
	assert.Len(t, f.j.list(), before+1, "equivalent inputs must not requery")
}
