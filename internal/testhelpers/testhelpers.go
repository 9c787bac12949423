package testhelpers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Rana718/storefront/db/schema"
	"github.com/Rana718/storefront/internal/database"
)

// NewTestDB returns an in-memory SQLite database carrying the retail schema.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	ddl, err := schema.For(database.SQLite)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	for _, stmt := range schema.Statements(ddl) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}

	return db
}

// NewTestStore wraps NewTestDB in a database.Store using the SQLite dialect.
func NewTestStore(t *testing.T) *database.Store {
	t.Helper()

	dialect, err := database.DialectFor("sqlite")
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}
	return database.NewStore(NewTestDB(t), dialect)
}

// CountingConn records every statement executed through it.
type CountingConn struct {
	database.Conn
	Execs   []string
	Queries []string
}

func (c *CountingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.Execs = append(c.Execs, query)
	return c.Conn.ExecContext(ctx, query, args...)
}

func (c *CountingConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	c.Queries = append(c.Queries, query)
	return c.Conn.QueryContext(ctx, query, args...)
}

func (c *CountingConn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	c.Queries = append(c.Queries, query)
	return c.Conn.QueryRowContext(ctx, query, args...)
}
