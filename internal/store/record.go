package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// lookupColumns whitelists the table and column names ExistsWithField may
// interpolate into SQL.
var lookupColumns = map[string]map[string]bool{
	"products":      {"slug": true, "sku": true, "name": true},
	"product_types": {"name": true},
}

// RecordStore answers existence queries shared by every entity table.
type RecordStore struct {
	db *sqlx.DB
}

func NewRecordStore(db *sqlx.DB) *RecordStore {
	return &RecordStore{db: db}
}

// ExistsWithField reports whether a row in table has field equal to value.
// A non-empty excludeID leaves that row out, so a record being updated does
// not find itself.
func (s *RecordStore) ExistsWithField(ctx context.Context, table, field string, value any, excludeID string) (bool, error) {
	if !lookupColumns[table][field] {
		return false, fmt.Errorf("exists lookup on %s.%s is not allowed", table, field)
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, table, field)
	args := []any{value}
	if excludeID != "" {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(query), args...); err != nil {
		return false, err
	}
	return count > 0, nil
}
