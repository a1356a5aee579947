package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	domainevents "github.com/10037-kasarango1/Conjunta/services/inventory/domain/events"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

func TestParseDraft_ReportsValidation(t *testing.T) {
	_, err := ParseDraft("Martillo", "", "Available", "5")
	require.ErrorIs(t, err, inventorydomain.ErrValidation)

	_, err = ParseDraft("Martillo", "Acero", "Maybe", "-1")
	require.ErrorIs(t, err, inventorydomain.ErrValidation)
}

func TestCreate_DuplicateNameLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Martillo", "Acero", "Available", "5")

	d, err := ParseDraft("Martillo", "Otro", "Unavailable", "1")
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), d)
	require.ErrorIs(t, err, inventorydomain.ErrDuplicateName)
	assert.Equal(t, 1, f.store.Len())
}

func TestCreate_TrimsNameBeforeDuplicateCheck(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Martillo ", "Acero", "Available", "5")
	assert.Equal(t, models.ProductName("Martillo"), p.Name)

	d, err := ParseDraft(" Martillo", "Otro", "Unavailable", "1")
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), d)
	require.ErrorIs(t, err, inventorydomain.ErrDuplicateName)
}

func TestCreate_BlankDescriptionMakesNoStoreCall(t *testing.T) {
	f := newFixture(t)

	d := models.ProductDraft{Name: "Martillo", Description: "  ", Stock: models.StockAvailable, Cantidad: 1}
	_, err := f.svc.Create(context.Background(), d)

	require.ErrorIs(t, err, inventorydomain.ErrValidation)
	assert.Empty(t, f.j.list())
}

func TestCreate_PublishesCreatedEvent(t *testing.T) {
	pub := &fakePublisher{}
	f := newFixture(t, WithPublisher(pub))

	p := f.seed(t, "Martillo", "Acero", "Disponible", "5")

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, domainevents.TopicProductCreated, msg.topic)
	evt, ok := msg.payload.(domainevents.ProductCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, evt.EventID.String(), msg.eventID)
	assert.Equal(t, int64(p.ID), evt.Product.ID)
	assert.Equal(t, "Disponible", evt.Product.Stock)
}

func TestCreate_PublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	f := newFixture(t, WithPublisher(pub))

	f.seed(t, "Martillo", "Acero", "Available", "5")
	assert.Equal(t, 1, f.store.Len())
}

func TestUpdate_RecordsOutflowBeforePatch(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Martillo", "Acero", "Available", "5")
	start := len(f.j.list())

	d, err := ParseDraft("Martillo", "Acero", "Available", "2")
	require.NoError(t, err)
	require.NoError(t, f.svc.Update(context.Background(), p.ID, d))

	assert.Equal(t, []string{"get", "append", "update"}, f.j.list()[start:])

	records, err := f.svc.ListChanges(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Martillo", rec.ProductName)
	assert.Equal(t, models.Quantity(5), rec.QuantityInitial)
	assert.Equal(t, models.Quantity(2), rec.QuantityFinal)
	assert.Equal(t, models.ChangeOutflow, rec.ChangeType)
	assert.NotEmpty(t, rec.ChangeDate)
	assert.NotEmpty(t, rec.ChangeTime)

	got, err := f.store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Quantity(2), got.Cantidad)
}

func TestUpdate_EqualQuantityIsInflow(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Martillo", "Acero", "Available", "5")

	d, err := ParseDraft("Martillo", "Acero nuevo", "Available", "5")
	require.NoError(t, err)
	require.NoError(t, f.svc.Update(context.Background(), p.ID, d))

	records, err := f.svc.ListChanges(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ChangeInflow, records[0].ChangeType)
}

func TestUpdate_AuditFailureSkipsPatch(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Martillo", "Acero", "Available", "5")
	f.changes.err = errStoreDown

	d, err := ParseDraft("Martillo", "Acero", "Available", "9")
	require.NoError(t, err)

	err = f.svc.Update(context.Background(), p.ID, d)
	require.ErrorIs(t, err, inventorydomain.ErrPersistence)
	assert.NotContains(t, f.j.list(), "update")

	got, err := f.store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Quantity(5), got.Cantidad)
}

func TestUpdate_PatchFailureKeepsAuditEntry(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Martillo", "Acero", "Available", "5")
	f.products.updateErr = errStoreDown

	d, err := ParseDraft("Martillo", "Acero", "Available", "9")
	require.NoError(t, err)

	err = f.svc.Update(context.Background(), p.ID, d)
	require.ErrorIs(t, err, inventorydomain.ErrPersistence)

	records, err := f.log.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpdate_MissingProduct(t *testing.T) {
	f := newFixture(t)

	d, err := ParseDraft("Martillo", "Acero", "Available", "9")
	require.NoError(t, err)

	err = f.svc.Update(context.Background(), 42, d)
	require.ErrorIs(t, err, inventorydomain.ErrProductNotFound)

	records, err := f.log.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDelete_KeepsChangeHistory(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Martillo", "Acero", "Available", "5")

	d, err := ParseDraft("Martillo", "Acero", "Available", "7")
	require.NoError(t, err)
	require.NoError(t, f.svc.Update(context.Background(), p.ID, d))
	require.NoError(t, f.svc.Delete(context.Background(), p.ID))

	assert.Equal(t, 0, f.store.Len())
	records, err := f.svc.ListChanges(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	err = f.svc.Delete(context.Background(), p.ID)
	require.ErrorIs(t, err, inventorydomain.ErrProductNotFound)
}

func TestGetByID_ReadThroughCache(t *testing.T) {
	c := newFakeCache()
	f := newFixture(t, WithCache(c))
	p := f.seed(t, "Martillo", "Acero", "Available", "5")

	got, err := f.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	require.Contains(t, c.entries, int64(p.ID))

	calls := len(f.j.list())
	got, err = f.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Len(t, f.j.list(), calls, "cache hit should not reach the store")
}

func TestUpdateAndDelete_EvictCache(t *testing.T) {
	c := newFakeCache()
	pub := &fakePublisher{}
	f := newFixture(t, WithCache(c), WithPublisher(pub))
	p := f.seed(t, "Martillo", "Acero", "Available", "5")

	_, err := f.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)

	d, err := ParseDraft("Martillo", "Acero", "Available", "3")
	require.NoError(t, err)
	require.NoError(t, f.svc.Update(context.Background(), p.ID, d))
	assert.NotContains(t, c.entries, int64(p.ID))

	require.NoError(t, f.svc.Delete(context.Background(), p.ID))
	assert.Equal(t, []int64{int64(p.ID), int64(p.ID)}, c.deletes)
	assert.Equal(t, []string{
		domainevents.TopicProductCreated,
		domainevents.TopicProductUpdated,
		domainevents.TopicProductDeleted,
	}, pub.topics())
}

func TestGetByID_ConcurrentDeleteKeepsCacheEmpty(t *testing.T) {
	c := newFakeCache()
	f := newFixture(t, WithCache(c))
	p := f.seed(t, "Martillo", "Acero", "Available", "5")
	f.products.afterGet = func() {
		require.NoError(t, f.svc.Delete(context.Background(), p.ID))
	}

	got, err := f.svc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.NotContains(t, c.entries, int64(p.ID), "a read that raced a delete must not repopulate the cache")

	_, err = f.svc.GetByID(context.Background(), p.ID)
	require.ErrorIs(t, err, inventorydomain.ErrProductNotFound)
}

func TestSearch_StoreFailureIsPersistence(t *testing.T) {
	f := newFixture(t)
	f.products.searchErr = errStoreDown

	_, err := f.svc.Query(context.Background(), models.QueryParams{})
	require.ErrorIs(t, err, inventorydomain.ErrPersistence)
	require.ErrorIs(t, err, errStoreDown)
}

func TestQuery_HonoursLimit(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "a11", "a12"} {
		f.seed(t, name, "x", "Available", "1")
	}

	got, err := f.svc.Query(context.Background(), models.QueryParams{})
	require.NoError(t, err)
	assert.Len(t, got, 10)
}
