package services

import (
	"github.com/10037-kasarango1/Conjunta/pkg/app"
	"github.com/10037-kasarango1/Conjunta/pkg/cache"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/repositories"
	domainsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/domain/services"
	"github.com/10037-kasarango1/Conjunta/services/inventory/infrastructure/persistence/memory"
	"github.com/10037-kasarango1/Conjunta/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Inventory *InventoryService
}

// New wires all inventory application services with infrastructure from the
// Application container. Without a database the in-memory store is used.
func New(a *app.Application) *Services {
	var (
		products repositories.ProductRepository
		changes  repositories.ChangeLogRepository
	)
	if a.Db != nil {
		q := a.Db.Querier()
		products = postgres.NewProductRepository(q)
		changes = postgres.NewChangeLogRepository(q)
	} else {
		products = memory.NewProductStore()
		changes = memory.NewChangeLog()
	}

	limit := domainsvcs.DefaultResultLimit
	if a.Config != nil {
		limit = a.Config.ResultLimit
	}

	opts := []Option{WithMetrics(a.Metrics)}
	if c := cache.NewProductCache(a.Redis); c != nil {
		opts = append(opts, WithCache(c))
	}
	if a.EventBus != nil {
		opts = append(opts, WithPublisher(a.EventBus))
	}

	return &Services{
		Inventory: NewInventoryService(
			products,
			NewAuditRecorder(changes, a.Metrics),
			domainsvcs.NewQueryComposer(limit),
			a.Logger,
			opts...,
		),
	}
}
