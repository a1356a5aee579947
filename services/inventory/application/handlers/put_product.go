package handlers

import (
	"net/http"

	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	pkgvalidator "github.com/10037-kasarango1/Conjunta/pkg/validator"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

// PutProductHandler handles PUT /products/{id} requests.
type PutProductHandler struct {
	svc *appsvcs.Services
}

// NewPutProductHandler returns a PutProductHandler backed by the given services.
func NewPutProductHandler(svc *appsvcs.Services) *PutProductHandler {
	return &PutProductHandler{svc: svc}
}

// Execute overwrites a product. The quantity transition is appended to the
// change history before the product row is patched.
//
//	@Summary		Update product
//	@Description	Records the quantity change (inflow or outflow) and then overwrites every product field.
//	@Tags			products
//	@Accept			json
//	@Param			id		path	int				true	"Product ID"
//	@Param			request	body	ProductRequest	true	"New product fields"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (h *PutProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ProductRequest](w, r)
	if !ok {
		return
	}

	draft, err := appsvcs.ParseDraft(req.Name, req.Description, req.Stock, req.Cantidad.String())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	if err := h.svc.Inventory.Update(r.Context(), id, draft); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.NoContent(w)
}
