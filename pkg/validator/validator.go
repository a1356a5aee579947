package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	"github.com/10037-kasarango1/Conjunta/services/inventory/domain/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// stock: one of the stock status spellings (Available, Disponible, ...)
	_ = validate.RegisterValidation("stock", func(fl validator.FieldLevel) bool {
		_, err := models.ParseStockStatus(fl.Field().String())
		return err == nil
	})
	// stock_filter: like stock, but empty means "no filter"
	_ = validate.RegisterValidation("stock_filter", func(fl validator.FieldLevel) bool {
		_, err := models.ParseStockFilter(fl.Field().String())
		return err == nil
	})
	// cantidad: a non-negative integer without sign or decimals, within INTEGER range
	_ = validate.RegisterValidation("cantidad", func(fl validator.FieldLevel) bool {
		_, err := models.ParseQuantity(fl.Field().String())
		return err == nil
	})
	// sort_order: "", asc or desc
	_ = validate.RegisterValidation("sort_order", func(fl validator.FieldLevel) bool {
		_, err := models.ParseSortOrder(fl.Field().String())
		return err == nil
	})
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name to human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "stock", "stock_filter":
		return "Must be Available or Unavailable"
	case "cantidad":
		return fmt.Sprintf("Must be an integer between 0 and %d", models.MaxQuantity)
	case "sort_order":
		return "Must be asc or desc"
	case "numeric":
		return "Must be a numeric value"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// ValidateRequest decodes the JSON request body into T, validates it, and
// writes an appropriate error response if either step fails.
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.ValidationError(w, FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}
