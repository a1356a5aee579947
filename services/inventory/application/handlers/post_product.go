package handlers

import (
	"net/http"

	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	pkgvalidator "github.com/10037-kasarango1/Conjunta/pkg/validator"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
)

// PostProductHandler handles POST /products requests.
type PostProductHandler struct {
	svc *appsvcs.Services
}

// NewPostProductHandler returns a PostProductHandler backed by the given services.
func NewPostProductHandler(svc *appsvcs.Services) *PostProductHandler {
	return &PostProductHandler{svc: svc}
}

// Execute registers a new product.
//
//	@Summary		Create product
//	@Description	Registers a product. Names are unique across the inventory.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ProductRequest	true	"Product fields"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/products [post]
func (h *PostProductHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[ProductRequest](w, r)
	if !ok {
		return
	}

	draft, err := appsvcs.ParseDraft(req.Name, req.Description, req.Stock, req.Cantidad.String())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	p, err := h.svc.Inventory.Create(r.Context(), draft)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toProductResponse(p))
}
