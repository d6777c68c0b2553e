package migrations

// Column types differ per driver: JSONB with a GIN index for containment
// queries on PostgreSQL, JSON on MySQL, TEXT on SQLite. MySQL also needs
// bounded VARCHAR keys for its unique indexes.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCatalog, downCreateCatalog)
}

func upCreateCatalog(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range createCatalogStmts() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create catalog tables: %w", err)
		}
	}
	return nil
}

func downCreateCatalog(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS products`,
		`DROP TABLE IF EXISTS product_types`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func createCatalogStmts() []string {
	var stmts []string
	switch dialect {
	case "postgres":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS product_types (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL UNIQUE,
    category          TEXT NOT NULL,
    subcategory       TEXT NOT NULL DEFAULT '',
    attributes_schema JSONB NOT NULL DEFAULT '{}',
    created_at        TIMESTAMPTZ NOT NULL,
    updated_at        TIMESTAMPTZ NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS products (
    id              TEXT PRIMARY KEY,
    slug            VARCHAR(100) NOT NULL UNIQUE,
    name            VARCHAR(255) NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    price           NUMERIC(12, 2) NOT NULL DEFAULT 0,
    sku             VARCHAR(100) NOT NULL UNIQUE,
    brand           VARCHAR(100) NOT NULL,
    currency        CHAR(3) NOT NULL DEFAULT 'EUR',
    stock_quantity  INTEGER NOT NULL DEFAULT 0,
    stock_threshold INTEGER NOT NULL DEFAULT 5,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    approval_status VARCHAR(50) NOT NULL DEFAULT 'pending',
    product_type_id TEXT NOT NULL REFERENCES product_types (id),
    attributes      JSONB NOT NULL DEFAULT '{}',
    variant_of_id   TEXT NULL REFERENCES products (id) ON DELETE SET NULL,
    category        TEXT NOT NULL,
    subcategory     TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS products_attributes_gin_idx ON products USING GIN (attributes)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS product_types (
    id                VARCHAR(36) PRIMARY KEY,
    name              VARCHAR(255) NOT NULL UNIQUE,
    category          VARCHAR(255) NOT NULL,
    subcategory       VARCHAR(255) NOT NULL DEFAULT '',
    attributes_schema JSON NOT NULL,
    created_at        TIMESTAMP(6) NOT NULL,
    updated_at        TIMESTAMP(6) NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS products (
    id              VARCHAR(36) PRIMARY KEY,
    slug            VARCHAR(100) NOT NULL UNIQUE,
    name            VARCHAR(255) NOT NULL,
    description     TEXT NOT NULL,
    price           DECIMAL(12, 2) NOT NULL DEFAULT 0,
    sku             VARCHAR(100) NOT NULL UNIQUE,
    brand           VARCHAR(100) NOT NULL,
    currency        CHAR(3) NOT NULL DEFAULT 'EUR',
    stock_quantity  INTEGER NOT NULL DEFAULT 0,
    stock_threshold INTEGER NOT NULL DEFAULT 5,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    approval_status VARCHAR(50) NOT NULL DEFAULT 'pending',
    product_type_id VARCHAR(36) NOT NULL,
    attributes      JSON NOT NULL,
    variant_of_id   VARCHAR(36) NULL,
    category        VARCHAR(255) NOT NULL,
    subcategory     VARCHAR(255) NOT NULL DEFAULT '',
    created_at      TIMESTAMP(6) NOT NULL,
    updated_at      TIMESTAMP(6) NOT NULL,
    CONSTRAINT products_product_type_fk FOREIGN KEY (product_type_id) REFERENCES product_types (id),
    CONSTRAINT products_variant_of_fk FOREIGN KEY (variant_of_id) REFERENCES products (id) ON DELETE SET NULL
)`,
		}
	default: // sqlite3
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS product_types (
    id                TEXT PRIMARY KEY,
    name              TEXT NOT NULL UNIQUE,
    category          TEXT NOT NULL,
    subcategory       TEXT NOT NULL DEFAULT '',
    attributes_schema TEXT NOT NULL DEFAULT '{}',
    created_at        DATETIME NOT NULL,
    updated_at        DATETIME NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS products (
    id              TEXT PRIMARY KEY,
    slug            TEXT NOT NULL UNIQUE,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    price           TEXT NOT NULL DEFAULT '0',
    sku             TEXT NOT NULL UNIQUE,
    brand           TEXT NOT NULL,
    currency        TEXT NOT NULL DEFAULT 'EUR',
    stock_quantity  INTEGER NOT NULL DEFAULT 0,
    stock_threshold INTEGER NOT NULL DEFAULT 5,
    is_active       BOOLEAN NOT NULL DEFAULT 1,
    approval_status TEXT NOT NULL DEFAULT 'pending',
    product_type_id TEXT NOT NULL REFERENCES product_types (id),
    attributes      TEXT NOT NULL DEFAULT '{}',
    variant_of_id   TEXT NULL REFERENCES products (id) ON DELETE SET NULL,
    category        TEXT NOT NULL,
    subcategory     TEXT NOT NULL DEFAULT '',
    created_at      DATETIME NOT NULL,
    updated_at      DATETIME NOT NULL
)`,
		}
	}

	// MySQL rejects IF NOT EXISTS on CREATE INDEX; the migration runs once anyway.
	ifNotExists := "IF NOT EXISTS "
	if dialect == "mysql" {
		ifNotExists = ""
	}
	for _, idx := range []struct{ name, cols string }{
		{"products_category_idx", "category"},
		{"products_subcategory_idx", "subcategory"},
		{"products_category_subcategory_idx", "category, subcategory"},
		{"products_product_type_idx", "product_type_id"},
		{"products_variant_of_idx", "variant_of_id"},
		{"products_active_idx", "is_active"},
		{"products_approval_status_idx", "approval_status"},
	} {
		stmts = append(stmts, fmt.Sprintf(`CREATE INDEX %s%s ON products (%s)`, ifNotExists, idx.name, idx.cols))
	}
	return stmts
}
