package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ProductType represents a row in the product_types table. It owns the schema
// every product of the type is validated against.
type ProductType struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Category         string    `db:"category" json:"category"`
	Subcategory      string    `db:"subcategory" json:"subcategory"`
	AttributesSchema JSONMap   `db:"attributes_schema" json:"attributes_schema"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ProductTypeStore is the sqlx-backed implementation of ProductTypeStoreIface.
type ProductTypeStore struct {
	db      *sqlx.DB
	records *RecordStore
}

func NewProductTypeStore(db *sqlx.DB, records *RecordStore) *ProductTypeStore {
	return &ProductTypeStore{db: db, records: records}
}

// NameExists reports whether another product type already uses name.
func (s *ProductTypeStore) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	return s.records.ExistsWithField(ctx, "product_types", "name", name, excludeID)
}

// Create inserts pt, assigning its ID and timestamps.
func (s *ProductTypeStore) Create(ctx context.Context, pt *ProductType) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	if pt.AttributesSchema == nil {
		pt.AttributesSchema = JSONMap{}
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO product_types (id, name, category, subcategory, attributes_schema, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, pt.Name, pt.Category, pt.Subcategory, pt.AttributesSchema, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrNameTaken
		}
		return err
	}

	pt.ID = id
	pt.CreatedAt = now
	pt.UpdatedAt = now
	return nil
}

// Update writes pt and re-syncs the denormalized category columns of every
// product of this type in the same transaction.
func (s *ProductTypeStore) Update(ctx context.Context, pt *ProductType) error {
	now := time.Now().UTC()
	if pt.AttributesSchema == nil {
		pt.AttributesSchema = JSONMap{}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE product_types
		SET name = ?, category = ?, subcategory = ?, attributes_schema = ?, updated_at = ?
		WHERE id = ?
	`), pt.Name, pt.Category, pt.Subcategory, pt.AttributesSchema, now, pt.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrNameTaken
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE products SET category = ?, subcategory = ?
		WHERE product_type_id = ? AND (category <> ? OR subcategory <> ?)
	`), pt.Category, pt.Subcategory, pt.ID, pt.Category, pt.Subcategory)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	pt.UpdatedAt = now
	return nil
}

// GetByID returns the product type matching id, or ErrNotFound.
func (s *ProductTypeStore) GetByID(ctx context.Context, id string) (*ProductType, error) {
	var pt ProductType
	err := s.db.GetContext(ctx, &pt, s.db.Rebind(`SELECT * FROM product_types WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

// ListAll returns all product types ordered by name.
func (s *ProductTypeStore) ListAll(ctx context.Context) ([]*ProductType, error) {
	var types []*ProductType
	err := s.db.SelectContext(ctx, &types, `SELECT * FROM product_types ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return types, nil
}

// Delete removes a product type. Types still referenced by products are
// protected and yield ErrProductTypeInUse.
func (s *ProductTypeStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var inUse int
	err = tx.GetContext(ctx, &inUse, tx.Rebind(`SELECT COUNT(*) FROM products WHERE product_type_id = ?`), id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrProductTypeInUse
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM product_types WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
