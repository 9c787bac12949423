package database

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Dialect captures the per-database differences the loaders care about:
// placeholder style, how an insert ignores key conflicts, and how the
// generated id of a single-row insert is read back.
type Dialect struct {
	Name        string
	Driver      string
	Placeholder squirrel.PlaceholderFormat
	// IgnoreOption goes between INSERT and INTO.
	IgnoreOption string
	// IgnoreSuffix is appended after VALUES.
	IgnoreSuffix string
	// Returning is true when generated ids come from RETURNING instead of
	// sql.Result.LastInsertId.
	Returning bool
	// MaxParams is the most bind parameters one statement may carry. 0 means
	// no limit.
	MaxParams int
}

const (
	mysqlMaxParams    = 65535
	postgresMaxParams = 65535
	sqliteMaxParams   = 32766
)

func DialectFor(provider string) (Dialect, error) {
	switch provider {
	case "mysql":
		return Dialect{
			Name:         MySQL,
			Driver:       "mysql",
			Placeholder:  squirrel.Question,
			IgnoreOption: "IGNORE",
			MaxParams:    mysqlMaxParams,
		}, nil
	case "postgresql", "postgres":
		return Dialect{
			Name:         Postgres,
			Driver:       "pgx",
			Placeholder:  squirrel.Dollar,
			IgnoreSuffix: "ON CONFLICT DO NOTHING",
			Returning:    true,
			MaxParams:    postgresMaxParams,
		}, nil
	case "sqlite":
		return Dialect{
			Name:         SQLite,
			Driver:       "sqlite",
			Placeholder:  squirrel.Question,
			IgnoreOption: "OR IGNORE",
			MaxParams:    sqliteMaxParams,
		}, nil
	case "sqlite3":
		return Dialect{
			Name:         SQLite,
			Driver:       "sqlite3",
			Placeholder:  squirrel.Question,
			IgnoreOption: "OR IGNORE",
			MaxParams:    sqliteMaxParams,
		}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database provider: %s", provider)
	}
}

// Builder returns a squirrel statement builder using the dialect's placeholders.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// Rebind rewrites ? placeholders of a hand-written query for the dialect.
func (d Dialect) Rebind(query string) (string, error) {
	return d.Placeholder.ReplacePlaceholders(query)
}

// rowsPerStatement caps how many rows of width columns fit under MaxParams.
// 0 means unbounded.
func (d Dialect) rowsPerStatement(columns int) int {
	if d.MaxParams <= 0 || columns <= 0 {
		return 0
	}
	return max(1, d.MaxParams/columns)
}

func (d Dialect) insertIgnore(table string) squirrel.InsertBuilder {
	insert := d.Builder().Insert(table)
	if d.IgnoreOption != "" {
		insert = insert.Options(d.IgnoreOption)
	}
	if d.IgnoreSuffix != "" {
		insert = insert.Suffix(d.IgnoreSuffix)
	}
	return insert
}
