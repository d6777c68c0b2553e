// Package store is the sqlx-backed record store for product types and products.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSlugTaken is returned when a product slug collides with the unique index.
	ErrSlugTaken = errors.New("slug is already taken")

	// ErrSKUTaken is returned when a product SKU collides with the unique index.
	ErrSKUTaken = errors.New("sku is already taken")

	// ErrNameTaken is returned when a product type name collides with the unique index.
	ErrNameTaken = errors.New("product type name is already taken")

	// ErrProductTypeInUse is returned when deleting a product type that products still reference.
	ErrProductTypeInUse = errors.New("product type is referenced by products")
)

// ProductStoreIface exposes all product data operations.
type ProductStoreIface interface {
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	SKUExists(ctx context.Context, sku, excludeID string) (bool, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]*Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductTypeStoreIface exposes product type operations.
type ProductTypeStoreIface interface {
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, pt *ProductType) error
	Update(ctx context.Context, pt *ProductType) error
	GetByID(ctx context.Context, id string) (*ProductType, error)
	ListAll(ctx context.Context) ([]*ProductType, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ ProductStoreIface     = (*ProductStore)(nil)
	_ ProductTypeStoreIface = (*ProductTypeStore)(nil)
)
