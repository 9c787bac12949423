package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rana718/storefront/internal/config"
)

// ErrMissingDependency is returned when a derived table finds no parent rows
// to build from, usually because an earlier table failed to load.
var ErrMissingDependency = errors.New("missing dependency rows")

// SourceError reports a source document that is missing or malformed.
type SourceError struct {
	Name string
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source document %s (%s): %v", e.Name, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Config tunes the randomised fan-out of the derived tables.
type Config struct {
	// StockMode is "subset" (400-599 products per store) or "full".
	StockMode string
	// MaxOrders is the exclusive upper bound on order lines per customer.
	MaxOrders int
	// BatchSize caps rows per insert statement. 0 lets the dialect's
	// parameter limit decide.
	BatchSize int
}

// DefaultConfig matches the configuration defaults.
func DefaultConfig() Config {
	return Config{
		StockMode: config.StockModeSubset,
		MaxOrders: 5,
	}
}

// Step seeds one table (and any child tables it owns).
type Step struct {
	Table     string
	DependsOn []string
	Run       func(ctx context.Context) (TableResult, error)
}

type TableResult struct {
	Table    string
	Inserted int64
	Skipped  bool
	Duration time.Duration
}

// Report summarises one orchestrator run. On failure it lists the tables that
// completed before the failing one.
type Report struct {
	RunID    string
	Tables   []TableResult
	Duration time.Duration
}

// Inserted is the total number of primary-table rows written by the run.
func (r *Report) Inserted() int64 {
	var total int64
	for _, t := range r.Tables {
		total += t.Inserted
	}
	return total
}
