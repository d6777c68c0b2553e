package store_test

import (
	"context"
	"testing"

	"github.com/joestump/catalog-core/internal/store"
	"github.com/joestump/catalog-core/internal/testutil"
)

func TestRecordStore_ExistsWithField_RejectsUnknownColumns(t *testing.T) {
	rs := store.NewRecordStore(testutil.NewTestDB(t))

	tests := []struct {
		table string
		field string
	}{
		{table: "products", field: "id; DROP TABLE products"},
		{table: "users", field: "email"},
		{table: "product_types", field: "slug"},
	}
	for _, tt := range tests {
		if _, err := rs.ExistsWithField(context.Background(), tt.table, tt.field, "x", ""); err == nil {
			t.Errorf("ExistsWithField(%q, %q) = nil error, want rejection", tt.table, tt.field)
		}
	}
}
