package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/joestump/catalog-core/internal/catalog"
	"github.com/joestump/catalog-core/internal/store"
)

// productTypesAPIHandler provides REST handlers for product types.
type productTypesAPIHandler struct {
	catalog *catalog.Service
	log     logrus.FieldLogger
}

func registerProductTypeRoutes(r chi.Router, svc *catalog.Service, log logrus.FieldLogger) {
	h := &productTypesAPIHandler{catalog: svc, log: log}
	r.Get("/product-types", h.List)
	r.Post("/product-types", h.Create)
	r.Get("/product-types/{id}", h.Get)
	r.Put("/product-types/{id}", h.Update)
	r.Delete("/product-types/{id}", h.Delete)
}

// List returns every product type ordered by name.
// GET /api/v1/product-types
func (h *productTypesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListProductTypes(r.Context())
	if err != nil {
		writeServiceError(w, h.log, "list product types", err)
		return
	}
	resp := ProductTypeListResponse{ProductTypes: make([]ProductTypeResponse, 0, len(types))}
	for _, pt := range types {
		resp.ProductTypes = append(resp.ProductTypes, toProductTypeResponse(pt))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create validates the attribute schema and stores a new product type.
// POST /api/v1/product-types
func (h *productTypesAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductTypeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	pt := &store.ProductType{
		Name:             req.Name,
		Category:         req.Category,
		Subcategory:      req.Subcategory,
		AttributesSchema: req.AttributesSchema,
	}
	if err := h.catalog.SaveProductType(r.Context(), pt); err != nil {
		writeServiceError(w, h.log, "create product type", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductTypeResponse(pt))
}

// Get returns a single product type.
// GET /api/v1/product-types/{id}
func (h *productTypesAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	pt, err := h.catalog.GetProductType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, "get product type", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductTypeResponse(pt))
}

// Update replaces a product type. Products of the type pick up a changed
// category or subcategory.
// PUT /api/v1/product-types/{id}
func (h *productTypesAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.catalog.GetProductType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, "get product type", err)
		return
	}
	var req ProductTypeRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	existing.Name = req.Name
	existing.Category = req.Category
	existing.Subcategory = req.Subcategory
	existing.AttributesSchema = req.AttributesSchema
	if err := h.catalog.SaveProductType(r.Context(), existing); err != nil {
		writeServiceError(w, h.log, "update product type", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductTypeResponse(existing))
}

// Delete removes a product type. It fails with 409 while products use it.
// DELETE /api/v1/product-types/{id}
func (h *productTypesAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProductType(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, "delete product type", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
