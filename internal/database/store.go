package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/squirrel"
)

var (
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
	ErrArity             = errors.New("row arity does not match column count")
)

// validIdentifier validates SQL identifiers (table/column names) to prevent SQL injection
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Conn is the subset of *sql.DB the loaders need. *sql.Tx satisfies it too.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the Bulk Loader and Reference Loader over one connection pool.
type Store struct {
	conn    Conn
	dialect Dialect
}

func NewStore(conn Conn, dialect Dialect) *Store {
	return &Store{conn: conn, dialect: dialect}
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !validIdentifier.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// BulkInsert writes rows to table in a single multi-row INSERT that skips
// rows colliding with an existing key. An empty rows slice issues nothing.
// It returns the number of rows actually inserted.
func (s *Store) BulkInsert(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if err := checkIdentifiers(table); err != nil {
		return 0, err
	}
	if err := checkIdentifiers(columns...); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	insert := s.dialect.insertIgnore(table).Columns(columns...)
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("%w: %s row %d has %d values for %d columns", ErrArity, table, i, len(row), len(columns))
		}
		insert = insert.Values(row...)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert for %s: %w", table, err)
	}

	result, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return int64(len(rows)), nil
	}
	return affected, nil
}

// BulkInsertBatched splits rows into chunks of at most batchSize and hands
// each chunk to BulkInsert. batchSize <= 0 keeps everything in as few
// statements as the dialect's parameter limit allows; a positive batchSize
// is lowered to that limit too.
func (s *Store) BulkInsertBatched(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) (int64, error) {
	if limit := s.dialect.rowsPerStatement(len(columns)); limit > 0 && (batchSize <= 0 || batchSize > limit) {
		batchSize = limit
	}
	if batchSize <= 0 || len(rows) <= batchSize {
		return s.BulkInsert(ctx, table, columns, rows)
	}

	var total int64
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		n, err := s.BulkInsert(ctx, table, columns, rows[start:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// InsertReturningID inserts one row and returns its generated key. When the
// row is dropped as a duplicate the id is 0.
func (s *Store) InsertReturningID(ctx context.Context, table, idColumn string, columns []string, values []any) (int64, error) {
	if err := checkIdentifiers(table, idColumn); err != nil {
		return 0, err
	}
	if err := checkIdentifiers(columns...); err != nil {
		return 0, err
	}
	if len(values) != len(columns) {
		return 0, fmt.Errorf("%w: %s has %d values for %d columns", ErrArity, table, len(values), len(columns))
	}

	insert := s.dialect.insertIgnore(table).Columns(columns...).Values(values...)

	if s.dialect.Returning {
		query, args, err := insert.Suffix("RETURNING " + idColumn).ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build insert for %s: %w", table, err)
		}
		var id int64
		if err := s.conn.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, nil
			}
			return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		return id, nil
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert for %s: %w", table, err)
	}
	result, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return 0, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read generated id for %s: %w", table, err)
	}
	return id, nil
}

// FetchAll reads every row of table. With no columns it selects *.
func (s *Store) FetchAll(ctx context.Context, table string, columns ...string) ([]Row, error) {
	if err := checkIdentifiers(table); err != nil {
		return nil, err
	}
	if err := checkIdentifiers(columns...); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	return s.Query(ctx, s.dialect.Builder().Select(columns...).From(table))
}

// IsEmpty reports whether table has no rows.
func (s *Store) IsEmpty(ctx context.Context, table string) (bool, error) {
	if err := checkIdentifiers(table); err != nil {
		return false, err
	}
	rows, err := s.Query(ctx, s.dialect.Builder().Select("1").From(table).Limit(1))
	if err != nil {
		return false, err
	}
	return len(rows) == 0, nil
}

func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	if err := checkIdentifiers(table); err != nil {
		return 0, err
	}
	query, args, err := s.dialect.Builder().Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := s.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// Query runs a squirrel statement and materialises every row before
// returning, so the connection is free for the next statement.
func (s *Store) Query(ctx context.Context, stmt squirrel.Sqlizer) ([]Row, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return s.query(ctx, query, args...)
}

// QueryRaw runs a hand-written query written with ? placeholders.
func (s *Store) QueryRaw(ctx context.Context, query string, args ...any) ([]Row, error) {
	query, err := s.dialect.Rebind(query)
	if err != nil {
		return nil, fmt.Errorf("failed to rebind query: %w", err)
	}
	return s.query(ctx, query, args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []Row
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
