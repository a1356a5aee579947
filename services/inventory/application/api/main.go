package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/10037-kasarango1/Conjunta/pkg/app"
	"github.com/10037-kasarango1/Conjunta/services/inventory/application/handlers"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

// InventoryRoutes registers product and change-history endpoints on the
// provided chi router.
func InventoryRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers the endpoints backed by an already wired service container.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	r.Group(func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", handlers.NewPostProductHandler(svcs).Execute)
			r.Get("/", handlers.NewListProductsHandler(svcs).Execute)
			r.Get("/export", handlers.NewExportProductsHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetProductHandler(svcs).Execute)
			r.Put("/{id}", handlers.NewPutProductHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteProductHandler(svcs).Execute)
		})
		r.Route("/product-changes", func(r chi.Router) {
			r.Get("/", handlers.NewListChangesHandler(svcs).Execute)
			r.Get("/export", handlers.NewExportChangesHandler(svcs).Execute)
		})
	})
}
