package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	appsvcs "github.com/10037-kasarango1/Conjunta/services/inventory/application/services"
	inventorydomain "github.com/10037-kasarango1/Conjunta/services/inventory/domain"
	"github.com/10037-kasarango1/Conjunta/services/inventory/infrastructure/export"
)

// ExportProductsHandler handles GET /products/export requests.
type ExportProductsHandler struct {
	svc *appsvcs.Services
}

// NewExportProductsHandler returns an ExportProductsHandler backed by the given services.
func NewExportProductsHandler(svc *appsvcs.Services) *ExportProductsHandler {
	return &ExportProductsHandler{svc: svc}
}

// Execute exports the rows of a composed query as a document.
//
//	@Summary		Export products
//	@Description	Renders the same rows GET /products would return as a PDF or CSV download.
//	@Tags			products
//	@Produce		application/pdf
//	@Produce		text/csv
//	@Param			format	query		string	false	"pdf (default) or csv"
//	@Param			search	query		string	false	"Substring to match"
//	@Param			stock	query		string	false	"Available or Unavailable"
//	@Param			order	query		string	false	"asc or desc"
//	@Success		200		{file}		file
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/products/export [get]
func (h *ExportProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	format, err := parseFormat(r)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	params, ok := parseQueryParams(w, r)
	if !ok {
		return
	}

	products, err := h.svc.Inventory.Query(r.Context(), params)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	writeDocument(w, r, format, export.ProductsTable(products))
}

// ExportChangesHandler handles GET /product-changes/export requests.
type ExportChangesHandler struct {
	svc *appsvcs.Services
}

// NewExportChangesHandler returns an ExportChangesHandler backed by the given services.
func NewExportChangesHandler(svc *appsvcs.Services) *ExportChangesHandler {
	return &ExportChangesHandler{svc: svc}
}

// Execute exports the full change history as a document.
//
//	@Summary	Export product changes
//	@Tags		product-changes
//	@Produce	application/pdf
//	@Produce	text/csv
//	@Param		format	query		string	false	"pdf (default) or csv"
//	@Success	200		{file}		file
//	@Failure	422		{object}	ErrorResponse
//	@Failure	503		{object}	ErrorResponse
//	@Router		/product-changes/export [get]
func (h *ExportChangesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	format, err := parseFormat(r)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	records, err := h.svc.Inventory.ListChanges(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	writeDocument(w, r, format, export.ChangesTable(records))
}

func parseFormat(r *http.Request) (export.Format, error) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", inventorydomain.ErrValidation, err)
	}
	return f, nil
}

// writeDocument renders into memory first so a render failure can still be
// reported as a JSON error.
func writeDocument(w http.ResponseWriter, r *http.Request, f export.Format, t export.Table) {
	var buf bytes.Buffer
	if err := export.Write(&buf, f, t); err != nil {
		errhttp.WriteError(w, r, fmt.Errorf("render %s: %w", f, err))
		return
	}

	httpx.Attachment(w, f.ContentType(), t.FileNameFor(f), buf.Bytes())
}
