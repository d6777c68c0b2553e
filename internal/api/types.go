package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joestump/catalog-core/internal/store"
)

// --- Product type types ---

// ProductTypeRequest is the request body for POST and PUT on
// /api/v1/product-types.
type ProductTypeRequest struct {
	Name             string         `json:"name" validate:"required,max=255"`
	Category         string         `json:"category" validate:"required,max=255"`
	Subcategory      string         `json:"subcategory" validate:"max=255"`
	AttributesSchema map[string]any `json:"attributes_schema"`
}

// ProductTypeResponse is the JSON representation of a product type.
type ProductTypeResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Category         string         `json:"category"`
	Subcategory      string         `json:"subcategory"`
	AttributesSchema map[string]any `json:"attributes_schema"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ProductTypeListResponse struct {
	ProductTypes []ProductTypeResponse `json:"product_types"`
}

func toProductTypeResponse(pt *store.ProductType) ProductTypeResponse {
	return ProductTypeResponse{
		ID:               pt.ID,
		Name:             pt.Name,
		Category:         pt.Category,
		Subcategory:      pt.Subcategory,
		AttributesSchema: pt.AttributesSchema,
		CreatedAt:        pt.CreatedAt,
		UpdatedAt:        pt.UpdatedAt,
	}
}

// --- Product types ---

// ProductRequest is the request body for POST and PUT on /api/v1/products.
// Category and subcategory are not accepted: they always come from the
// product type.
type ProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Slug          string          `json:"slug" validate:"omitempty,max=255"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ProductTypeID string          `json:"product_type_id" validate:"required"`
	Attributes    map[string]any  `json:"attributes"`
	VariantOf     *string         `json:"variant_of"`

	SKU      string `json:"sku" validate:"required,max=100"`
	Brand    string `json:"brand" validate:"required,max=100"`
	Currency string `json:"currency"`
	// Nil stock, active and approval fields keep the stored value, or the
	// default on create.
	StockQuantity  *int   `json:"stock_quantity" validate:"omitempty,min=0"`
	StockThreshold *int   `json:"stock_threshold" validate:"omitempty,min=0"`
	IsActive       *bool  `json:"is_active"`
	ApprovalStatus string `json:"approval_status" validate:"omitempty,oneof=pending approved rejected archived"`
}

// ProductResponse is the JSON representation of a product.
type ProductResponse struct {
	ID            string          `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ProductTypeID string          `json:"product_type_id"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory"`
	Attributes    map[string]any  `json:"attributes"`
	VariantOf     *string         `json:"variant_of"`

	SKU            string `json:"sku"`
	Brand          string `json:"brand"`
	Currency       string `json:"currency"`
	StockQuantity  int    `json:"stock_quantity"`
	StockThreshold int    `json:"stock_threshold"`
	IsInStock      bool   `json:"is_in_stock"`
	IsActive       bool   `json:"is_active"`
	ApprovalStatus string `json:"approval_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

func toProductResponse(p *store.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		ProductTypeID: p.ProductTypeID,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Attributes:    p.Attributes,
		VariantOf:     p.VariantOfID,

		SKU:            p.SKU,
		Brand:          p.Brand,
		Currency:       p.Currency,
		StockQuantity:  p.StockQuantity,
		StockThreshold: p.StockThreshold,
		IsInStock:      p.InStock(),
		IsActive:       p.IsActive,
		ApprovalStatus: string(p.ApprovalStatus),

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductListResponse(ps []*store.Product) ProductListResponse {
	resp := ProductListResponse{Products: make([]ProductResponse, 0, len(ps))}
	for _, p := range ps {
		resp.Products = append(resp.Products, toProductResponse(p))
	}
	return resp
}
