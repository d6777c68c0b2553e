package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ApprovalStatus is the review state of a product listing.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalArchived ApprovalStatus = "archived"
)

// ApprovalStatuses lists every valid ApprovalStatus.
var ApprovalStatuses = []ApprovalStatus{ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalArchived}

// Valid reports whether s is one of ApprovalStatuses.
func (s ApprovalStatus) Valid() bool {
	for _, v := range ApprovalStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const (
	DefaultCurrency       = "EUR"
	DefaultStockThreshold = 5
)

// Product represents a row in the products table.
type Product struct {
	ID            string          `db:"id" json:"id"`
	Slug          string          `db:"slug" json:"slug"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	ProductTypeID string          `db:"product_type_id" json:"product_type_id"`
	Attributes    JSONMap         `db:"attributes" json:"attributes"`
	VariantOfID   *string         `db:"variant_of_id" json:"variant_of_id"`

	SKU            string         `db:"sku" json:"sku"`
	Brand          string         `db:"brand" json:"brand"`
	Currency       string         `db:"currency" json:"currency"`
	StockQuantity  int            `db:"stock_quantity" json:"stock_quantity"`
	StockThreshold int            `db:"stock_threshold" json:"stock_threshold"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	ApprovalStatus ApprovalStatus `db:"approval_status" json:"approval_status"`

	// Category and Subcategory mirror the product type. Only the catalog
	// service writes them.
	Category    string `db:"category" json:"category"`
	Subcategory string `db:"subcategory" json:"subcategory"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewProduct returns a Product carrying the column defaults: active, pending
// approval, EUR, and a stock threshold of 5.
func NewProduct() *Product {
	return &Product{
		Currency:       DefaultCurrency,
		StockThreshold: DefaultStockThreshold,
		IsActive:       true,
		ApprovalStatus: ApprovalPending,
	}
}

// InStock reports whether any units are available.
func (p *Product) InStock() bool { return p.StockQuantity > 0 }

// ParentID returns the variant_of reference, or "" for a root product.
func (p *Product) ParentID() string {
	if p.VariantOfID == nil {
		return ""
	}
	return *p.VariantOfID
}

// ProductFilter narrows List. Empty fields do not filter.
type ProductFilter struct {
	ProductTypeID string
	Category      string
	Subcategory   string
	VariantOf     string

	ActiveOnly     bool
	ApprovalStatus ApprovalStatus
}

// ProductStore is the sqlx-backed implementation of ProductStoreIface.
type ProductStore struct {
	db      *sqlx.DB
	records *RecordStore
}

func NewProductStore(db *sqlx.DB, records *RecordStore) *ProductStore {
	return &ProductStore{db: db, records: records}
}

// SlugExists reports whether a product other than excludeID uses slug.
func (s *ProductStore) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return s.records.ExistsWithField(ctx, "products", "slug", slug, excludeID)
}

// SKUExists reports whether a product other than excludeID uses sku.
func (s *ProductStore) SKUExists(ctx context.Context, sku, excludeID string) (bool, error) {
	return s.records.ExistsWithField(ctx, "products", "sku", sku, excludeID)
}

// Create inserts p, assigning its ID and timestamps. A collision on the
// unique indexes yields ErrSKUTaken or ErrSlugTaken.
func (s *ProductStore) Create(ctx context.Context, p *Product) error {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO products (id, slug, name, description, price, product_type_id, attributes,
			variant_of_id, category, subcategory, sku, brand, currency, stock_quantity,
			stock_threshold, is_active, approval_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, p.Slug, p.Name, p.Description, p.Price, p.ProductTypeID, p.Attributes,
		p.VariantOfID, p.Category, p.Subcategory, p.SKU, p.Brand, p.Currency, p.StockQuantity,
		p.StockThreshold, p.IsActive, p.ApprovalStatus, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return s.conflict(ctx, p.SKU, "")
		}
		return err
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Update writes every mutable column of p.
func (s *ProductStore) Update(ctx context.Context, p *Product) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE products
		SET slug = ?, name = ?, description = ?, price = ?, product_type_id = ?, attributes = ?,
			variant_of_id = ?, category = ?, subcategory = ?, sku = ?, brand = ?, currency = ?,
			stock_quantity = ?, stock_threshold = ?, is_active = ?, approval_status = ?, updated_at = ?
		WHERE id = ?
	`), p.Slug, p.Name, p.Description, p.Price, p.ProductTypeID, p.Attributes,
		p.VariantOfID, p.Category, p.Subcategory, p.SKU, p.Brand, p.Currency,
		p.StockQuantity, p.StockThreshold, p.IsActive, p.ApprovalStatus, now, p.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return s.conflict(ctx, p.SKU, p.ID)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	p.UpdatedAt = now
	return nil
}

// conflict tells which unique index rejected a write. Driver errors name the
// index in different ways, so it asks the table instead.
func (s *ProductStore) conflict(ctx context.Context, sku, excludeID string) error {
	taken, err := s.SKUExists(ctx, sku, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSKUTaken
	}
	return ErrSlugTaken
}

// GetByID returns the product matching id, or ErrNotFound.
func (s *ProductStore) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT * FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns the product matching slug, or ErrNotFound.
func (s *ProductStore) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT * FROM products WHERE slug = ?`), slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns products matching f ordered by slug.
func (s *ProductStore) List(ctx context.Context, f ProductFilter) ([]*Product, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductTypeID != "" {
		where = append(where, "product_type_id = ?")
		args = append(args, f.ProductTypeID)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Subcategory != "" {
		where = append(where, "subcategory = ?")
		args = append(args, f.Subcategory)
	}
	if f.VariantOf != "" {
		where = append(where, "variant_of_id = ?")
		args = append(args, f.VariantOf)
	}
	if f.ActiveOnly {
		where = append(where, "is_active = ?")
		args = append(args, true)
	}
	if f.ApprovalStatus != "" {
		where = append(where, "approval_status = ?")
		args = append(args, f.ApprovalStatus)
	}

	query := `SELECT * FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY slug ASC`

	var products []*Product
	if err := s.db.SelectContext(ctx, &products, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes a product by ID. Variants of it become roots rather than
// being deleted with it.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE products SET variant_of_id = NULL WHERE variant_of_id = ?`), id)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
