package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/joestump/catalog-core/internal/catalog"
	"github.com/joestump/catalog-core/internal/store"
)

type errorBody struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeFieldErrors writes a 422 carrying messages keyed by input field.
func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{
		Error:  "validation failed",
		Code:   "VALIDATION_FAILED",
		Fields: fields,
	})
}

// writeServiceError maps an error returned by the catalog service to a
// response. Anything unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, log logrus.FieldLogger, op string, err error) {
	if fields := catalog.FieldMessages(err); fields != nil {
		writeFieldErrors(w, fields)
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	case errors.Is(err, store.ErrProductTypeInUse):
		writeError(w, http.StatusConflict, "product type still has products", "PRODUCT_TYPE_IN_USE")
	case errors.Is(err, store.ErrNameTaken):
		writeError(w, http.StatusConflict, "name already exists", "NAME_CONFLICT")
	case errors.Is(err, store.ErrSlugTaken):
		writeError(w, http.StatusConflict, "slug already exists", "SLUG_CONFLICT")
	case errors.Is(err, store.ErrSKUTaken):
		writeError(w, http.StatusConflict, "sku already exists", "SKU_CONFLICT")
	default:
		log.WithError(err).WithField("op", op).Error("api request failed")
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
