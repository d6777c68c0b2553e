package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// backend describes how one configured driver is opened.
type backend struct {
	// sqlDriver is the database/sql registration name.
	sqlDriver string
	bindType  int
	// prepare rewrites the DSN before opening.
	prepare func(dsn string) string
	// init runs once against a freshly opened pool.
	init []string
}

var backends = map[string]backend{
	// modernc/sqlite registers as "sqlite" (CGO-free).
	"sqlite3": {
		sqlDriver: "sqlite",
		bindType:  sqlx.QUESTION,
		prepare:   sqliteDSN,
		init:      []string{"PRAGMA journal_mode=WAL"},
	},
	"mysql":    {sqlDriver: "mysql", bindType: sqlx.QUESTION},
	"postgres": {sqlDriver: "postgres", bindType: sqlx.DOLLAR},
}

// Drivers lists the supported driver names in sorted order.
func Drivers() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to the database for driver and checks it is reachable.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	b, ok := backends[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported DB driver %q: must be one of %s", driver, strings.Join(Drivers(), ", "))
	}
	if b.prepare != nil {
		dsn = b.prepare(dsn)
	}
	// Rebind looks the bindvar style up by the sql driver name.
	sqlx.BindDriver(b.sqlDriver, b.bindType)

	conn, err := sqlx.Open(b.sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	for _, stmt := range b.init {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%s init %q: %w", driver, stmt, err)
		}
	}
	return conn, nil
}

// sqliteDSN adds a busy timeout so concurrent saves wait on the write lock
// instead of failing with SQLITE_BUSY.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}
