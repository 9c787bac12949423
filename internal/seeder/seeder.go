package seeder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/database"
	"github.com/Rana718/storefront/internal/logger"
	"github.com/Rana718/storefront/internal/metrics"
)

// Table names.
const (
	TableProducts              = "products"
	TableIncludedItems         = "included_items"
	TableCategories            = "categories"
	TableProductCategories     = "product_categories"
	TableStores                = "stores"
	TableVendors               = "vendors"
	TableCustomers             = "customers"
	TableOrderStatus           = "order_status"
	TableVendorProducts        = "vendor_products"
	TableStoreProducts         = "store_products"
	TableCustomerOrders        = "customer_orders"
	TableCustomerOrderProducts = "customer_order_products"
)

// Tables lists every table a run writes, parents before children.
func Tables() []string {
	return []string{
		TableProducts, TableIncludedItems, TableCategories, TableProductCategories,
		TableStores, TableVendors, TableCustomers, TableOrderStatus,
		TableVendorProducts, TableStoreProducts, TableCustomerOrders, TableCustomerOrderProducts,
	}
}

// Seeder owns everything a seed run needs: the store, the source documents,
// the random source and the observers. Runs are serialised.
type Seeder struct {
	store    *database.Store
	source   Source
	rand     *Random
	log      *zap.Logger
	metrics  *metrics.Seed
	config   Config
	progress func(TableResult)
	now      func() time.Time
	graph    *DependencyGraph
	mu       sync.Mutex
}

type Option func(*Seeder)

func WithLogger(log *zap.Logger) Option {
	return func(s *Seeder) { s.log = log }
}

func WithMetrics(m *metrics.Seed) Option {
	return func(s *Seeder) { s.metrics = m }
}

func WithRandom(r *Random) Option {
	return func(s *Seeder) { s.rand = r }
}

func WithConfig(cfg Config) Option {
	return func(s *Seeder) { s.config = cfg }
}

// WithProgress registers fn to be called after every completed table.
func WithProgress(fn func(TableResult)) Option {
	return func(s *Seeder) { s.progress = fn }
}

// WithClock overrides the time source used for order dates.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func New(store *database.Store, source Source, opts ...Option) (*Seeder, error) {
	s := &Seeder{
		store:  store,
		source: source,
		log:    zap.NewNop(),
		config: DefaultConfig(),
		now:    time.Now,
		graph:  NewDependencyGraph(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = NewRandom(0)
	}
	if s.config.MaxOrders < 1 {
		return nil, fmt.Errorf("max orders must be positive, got %d", s.config.MaxOrders)
	}

	for _, step := range s.steps() {
		if err := s.graph.AddStep(step); err != nil {
			return nil, err
		}
	}
	if _, err := s.graph.BuildOrder(); err != nil {
		return nil, fmt.Errorf("failed to build insertion order: %w", err)
	}

	return s, nil
}

// steps lists the pipeline in its fixed registration order.
func (s *Seeder) steps() []*Step {
	return []*Step{
		{Table: TableProducts, Run: s.seedProducts},
		{Table: TableStores, Run: s.seedStores},
		{Table: TableVendors, Run: s.seedVendors},
		{Table: TableCustomers, Run: s.seedCustomers},
		{Table: TableOrderStatus, Run: s.seedOrderStatuses},
		{Table: TableVendorProducts, DependsOn: []string{TableProducts, TableVendors}, Run: s.seedVendorProducts},
		{Table: TableStoreProducts, DependsOn: []string{TableStores, TableProducts}, Run: s.seedStoreProducts},
		{
			Table:     TableCustomerOrders,
			DependsOn: []string{TableCustomers, TableProducts, TableStores, TableOrderStatus},
			Run:       s.seedCustomerOrders,
		},
	}
}

// Order returns the table order a run follows.
func (s *Seeder) Order() []string {
	return s.graph.Order()
}

// Run seeds every table in order, each step finishing before the next
// starts. It stops at the first failure; tables already written stay written
// and are skipped by the next run.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))
	ctx = logger.WithContext(ctx, log)

	report := &Report{RunID: runID}
	start := time.Now()
	log.Info("seed run started", zap.Strings("order", s.graph.Order()))

	for _, table := range s.graph.Order() {
		if err := ctx.Err(); err != nil {
			s.finish(report, start, "failure")
			return report, err
		}

		stepStart := time.Now()
		result, err := s.graph.Step(table).Run(ctx)
		if err != nil {
			s.finish(report, start, "failure")
			log.Error("seed run failed", zap.String("table", table), zap.Error(err))
			return report, fmt.Errorf("failed to seed table %s: %w", table, err)
		}
		result.Duration = time.Since(stepStart)

		if s.metrics != nil {
			s.metrics.TableDuration.WithLabelValues(table).Observe(result.Duration.Seconds())
		}
		report.Tables = append(report.Tables, result)
		if s.progress != nil {
			s.progress(result)
		}
	}

	s.finish(report, start, "success")
	log.Info("seed run completed",
		zap.Int64("rows", report.Inserted()),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (s *Seeder) finish(report *Report, start time.Time, result string) {
	report.Duration = time.Since(start)
	if s.metrics != nil {
		s.metrics.Runs.WithLabelValues(result).Inc()
	}
}

// alreadySeeded is the idempotence probe every step starts with.
func (s *Seeder) alreadySeeded(ctx context.Context, table string) (bool, error) {
	empty, err := s.store.IsEmpty(ctx, table)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	if !empty {
		logger.FromContext(ctx).Info("table already seeded, skipping", zap.String("table", table))
	}
	return !empty, nil
}

// insert hands rows to the Bulk Loader and records what landed.
func (s *Seeder) insert(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	n, err := s.store.BulkInsertBatched(ctx, table, columns, rows, s.config.BatchSize)
	if err != nil {
		return n, err
	}
	if s.metrics != nil {
		s.metrics.RowsInserted.WithLabelValues(table).Add(float64(n))
	}
	logger.FromContext(ctx).Debug("rows inserted",
		zap.String("table", table),
		zap.Int("rows", len(rows)),
		zap.Int64("inserted", n),
	)
	return n, nil
}

// seedDocument is the shape shared by every leaf table: probe, load the
// document, map each record to a row, insert once.
func seedDocument[T any](ctx context.Context, s *Seeder, table string, columns []string, load func() ([]T, error), toRow func(T) []any) (TableResult, error) {
	result := TableResult{Table: table}

	seeded, err := s.alreadySeeded(ctx, table)
	if err != nil {
		return result, err
	}
	if seeded {
		result.Skipped = true
		return result, nil
	}

	records, err := load()
	if err != nil {
		return result, err
	}

	rows := make([][]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, toRow(record))
	}

	result.Inserted, err = s.insert(ctx, table, columns, rows)
	return result, err
}

// parentIDs reads an integer key column of a parent table. No rows means the
// parent never loaded, which is fatal for child.
func (s *Seeder) parentIDs(ctx context.Context, child, table, column string) ([]int64, error) {
	rows, err := s.store.FetchAll(ctx, table, column)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s needs rows in %s", ErrMissingDependency, child, table)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id, err := row.Int64(column)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
