package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/joestump/catalog-core/internal/catalog"
	"github.com/joestump/catalog-core/internal/store"
)

// productsAPIHandler provides REST handlers for products and their variants.
type productsAPIHandler struct {
	catalog *catalog.Service
	log     logrus.FieldLogger
}

func registerProductRoutes(r chi.Router, svc *catalog.Service, log logrus.FieldLogger) {
	h := &productsAPIHandler{catalog: svc, log: log}
	r.Get("/products", h.List)
	r.Post("/products", h.Create)
	// NOTE: by-slug MUST be before /{id} so chi does not treat it as an id.
	r.Get("/products/by-slug/{slug}", h.GetBySlug)
	r.Get("/products/{id}", h.Get)
	r.Put("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
	r.Get("/products/{id}/variants", h.Variants)
}

// List returns active products ordered by slug, optionally filtered by
// product_type_id, category, subcategory and approval_status query
// parameters. include_inactive=true lists inactive products too.
// GET /api/v1/products
func (h *productsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeInactive, _ := strconv.ParseBool(q.Get("include_inactive"))
	products, err := h.catalog.ListProducts(r.Context(), store.ProductFilter{
		ProductTypeID:  q.Get("product_type_id"),
		Category:       q.Get("category"),
		Subcategory:    q.Get("subcategory"),
		ApprovalStatus: store.ApprovalStatus(q.Get("approval_status")),
		ActiveOnly:     !includeInactive,
	})
	if err != nil {
		writeServiceError(w, h.log, "list products", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListResponse(products))
}

// Create runs the full save pipeline for a new product. A blank slug is
// generated from the name.
// POST /api/v1/products
func (h *productsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	p := store.NewProduct()
	applyProductRequest(p, &req)
	if err := h.catalog.SaveProduct(r.Context(), p); err != nil {
		writeServiceError(w, h.log, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// Get returns a single product by ID.
// GET /api/v1/products/{id}
func (h *productsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// GetBySlug returns a single product by slug.
// GET /api/v1/products/by-slug/{slug}
func (h *productsAPIHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, h.log, "get product by slug", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Update replaces a product's editable fields and re-runs the save pipeline.
// A blank slug keeps the stored one.
// PUT /api/v1/products/{id}
func (h *productsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, "get product", err)
		return
	}
	var req ProductRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	stored := p.Slug
	applyProductRequest(p, &req)
	if p.Slug == "" {
		p.Slug = stored
	}
	if err := h.catalog.SaveProduct(r.Context(), p); err != nil {
		writeServiceError(w, h.log, "update product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

// Delete removes a product. Its direct variants become roots.
// DELETE /api/v1/products/{id}
func (h *productsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Variants lists the direct variants of a product.
// GET /api/v1/products/{id}/variants
func (h *productsAPIHandler) Variants(w http.ResponseWriter, r *http.Request) {
	variants, err := h.catalog.ListVariants(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, "list variants", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListResponse(variants))
}

func applyProductRequest(p *store.Product, req *ProductRequest) {
	p.Name = req.Name
	p.Slug = req.Slug
	p.Description = req.Description
	p.Price = req.Price
	p.ProductTypeID = req.ProductTypeID
	p.Attributes = req.Attributes
	p.VariantOfID = req.VariantOf
	p.SKU = req.SKU
	p.Brand = req.Brand
	if req.Currency != "" {
		p.Currency = req.Currency
	}
	if req.StockQuantity != nil {
		p.StockQuantity = *req.StockQuantity
	}
	if req.StockThreshold != nil {
		p.StockThreshold = *req.StockThreshold
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.ApprovalStatus != "" {
		p.ApprovalStatus = store.ApprovalStatus(req.ApprovalStatus)
	}
}
