package seeder_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/storefront/internal/config"
	"github.com/Rana718/storefront/internal/database"
	"github.com/Rana718/storefront/internal/metrics"
	"github.com/Rana718/storefront/internal/seeder"
	"github.com/Rana718/storefront/internal/testhelpers"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 30, 45, 0, time.UTC)

var allTables = seeder.Tables()

func newSeeder(t *testing.T, store *database.Store, source seeder.Source, opts ...seeder.Option) *seeder.Seeder {
	t.Helper()
	base := []seeder.Option{
		seeder.WithRandom(seeder.NewRandom(42)),
		seeder.WithClock(func() time.Time { return fixedNow }),
	}
	s, err := seeder.New(store, source, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

func counts(t *testing.T, store *database.Store) map[string]int64 {
	t.Helper()
	out := make(map[string]int64, len(allTables))
	for _, table := range allTables {
		n, err := store.Count(context.Background(), table)
		require.NoError(t, err)
		out[table] = n
	}
	return out
}

func scalar(t *testing.T, store *database.Store, query string, args ...any) int64 {
	t.Helper()
	rows, err := store.QueryRaw(context.Background(), query, args...)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	n, err := rows[0].Int64("n")
	require.NoError(t, err)
	return n
}

// staticSource serves documents from memory.
type staticSource struct {
	products  []seeder.Product
	stores    []seeder.Store
	vendors   []seeder.Vendor
	customers []seeder.Customer
	statuses  []seeder.OrderStatus
	err       error
}

func (s *staticSource) Products() ([]seeder.Product, error) { return s.products, s.err }
func (s *staticSource) Stores() ([]seeder.Store, error) { return s.stores, nil }
func (s *staticSource) Vendors() ([]seeder.Vendor, error) { return s.vendors, nil }
func (s *staticSource) Customers() ([]seeder.Customer, error) { return s.customers, nil }
func (s *staticSource) OrderStatuses() ([]seeder.OrderStatus, error) { return s.statuses, nil }

func testdataSource(t *testing.T) *staticSource {
	t.Helper()
	dir := seeder.NewDirSource("testdata")
	src := &staticSource{}
	var err error
	src.products, err = dir.Products()
	require.NoError(t, err)
	src.stores, err = dir.Stores()
	require.NoError(t, err)
	src.vendors, err = dir.Vendors()
	require.NoError(t, err)
	src.customers, err = dir.Customers()
	require.NoError(t, err)
	src.statuses, err = dir.OrderStatuses()
	require.NoError(t, err)
	return src
}

func TestOrderFollowsRegistration(t *testing.T) {
	s := newSeeder(t, testhelpers.NewTestStore(t), seeder.NewDirSource("testdata"))

	assert.Equal(t, []string{
		seeder.TableProducts,
		seeder.TableStores,
		seeder.TableVendors,
		seeder.TableCustomers,
		seeder.TableOrderStatus,
		seeder.TableVendorProducts,
		seeder.TableStoreProducts,
		seeder.TableCustomerOrders,
	}, s.Order())
}

func TestRunSeedsEveryTable(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	var progress []string
	s := newSeeder(t, store, seeder.NewDirSource("testdata"),
		seeder.WithProgress(func(r seeder.TableResult) { progress = append(progress, r.Table) }),
	)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Len(t, report.Tables, 8)
	assert.Equal(t, s.Order(), progress)

	got := counts(t, store)
	assert.Equal(t, int64(4), got[seeder.TableProducts])
	assert.Equal(t, int64(5), got[seeder.TableIncludedItems])
	assert.Equal(t, int64(6), got[seeder.TableCategories])
	assert.Equal(t, int64(11), got[seeder.TableProductCategories])
	assert.Equal(t, int64(3), got[seeder.TableStores])
	assert.Equal(t, int64(3), got[seeder.TableVendors])
	assert.Equal(t, int64(8), got[seeder.TableCustomers])
	assert.Equal(t, int64(4), got[seeder.TableOrderStatus])
	assert.Positive(t, got[seeder.TableCustomerOrders])
	assert.GreaterOrEqual(t, got[seeder.TableCustomerOrderProducts], got[seeder.TableCustomerOrders])

	for _, result := range report.Tables {
		assert.False(t, result.Skipped, result.Table)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, seeder.NewDirSource("testdata"))

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	first := counts(t, store)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, counts(t, store))
	assert.Zero(t, report.Inserted())
	for _, result := range report.Tables {
		assert.True(t, result.Skipped, result.Table)
	}
}

func TestReferentialIntegrity(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, seeder.NewDirSource("testdata"))
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	orphans := map[string]string{
		"line upc": `SELECT COUNT(*) AS n FROM customer_order_products l
			LEFT JOIN products p ON p.upc = l.upc WHERE p.upc IS NULL`,
		"line order": `SELECT COUNT(*) AS n FROM customer_order_products l
			LEFT JOIN customer_orders o ON o.order_id = l.order_id WHERE o.order_id IS NULL`,
		"order store": `SELECT COUNT(*) AS n FROM customer_orders o
			LEFT JOIN stores s ON s.store_id = o.store_id WHERE s.store_id IS NULL`,
		"order customer": `SELECT COUNT(*) AS n FROM customer_orders o
			LEFT JOIN customers c ON c.customer_id = o.customer_id WHERE c.customer_id IS NULL`,
		"order status": `SELECT COUNT(*) AS n FROM customer_orders o
			LEFT JOIN order_status st ON st.status_id = o.status_id WHERE st.status_id IS NULL`,
		"vendor product vendor": `SELECT COUNT(*) AS n FROM vendor_products vp
			LEFT JOIN vendors v ON v.vendor_id = vp.vendor_id WHERE v.vendor_id IS NULL`,
		"store product upc": `SELECT COUNT(*) AS n FROM store_products sp
			LEFT JOIN products p ON p.upc = sp.upc WHERE p.upc IS NULL`,
		"product category": `SELECT COUNT(*) AS n FROM product_categories pc
			LEFT JOIN categories c ON c.category_id = pc.category_id WHERE c.category_id IS NULL`,
	}
	for name, query := range orphans {
		assert.Zero(t, scalar(t, store, query), name)
	}
}

func TestCategoryResolution(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, seeder.NewDirSource("testdata"))
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	rows, err := store.QueryRaw(context.Background(), `
		SELECT c.name AS name FROM product_categories pc
		JOIN categories c ON c.category_id = pc.category_id
		WHERE pc.upc = ?
		ORDER BY c.name`, "884116375912")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Electronics", rows[0].String("name"))
	assert.Equal(t, "Laptops", rows[1].String("name"))

	assert.Equal(t, int64(1), scalar(t, store, "SELECT COUNT(*) AS n FROM categories WHERE name = ?", "Laptops"))
	assert.Equal(t, int64(3), scalar(t, store, `
		SELECT COUNT(*) AS n FROM product_categories pc
		JOIN categories c ON c.category_id = pc.category_id
		WHERE c.name = ?`, "Laptops"))
}

func TestProductsIssueOneInsertPerTable(t *testing.T) {
	dialect, err := database.DialectFor("sqlite")
	require.NoError(t, err)
	conn := &testhelpers.CountingConn{Conn: testhelpers.NewTestDB(t)}
	store := database.NewStore(conn, dialect)
	s := newSeeder(t, store, seeder.NewDirSource("testdata"))

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	perTable := map[string]int{}
	for _, stmt := range conn.Execs {
		for _, table := range allTables {
			if strings.HasPrefix(stmt, "INSERT OR IGNORE INTO "+table+" ") {
				perTable[table]++
			}
		}
	}

	for _, table := range allTables {
		if table == seeder.TableCustomerOrders {
			continue
		}
		assert.Equal(t, 1, perTable[table], table)
	}
	assert.Equal(t, int(counts(t, store)[seeder.TableCustomerOrders]), perTable[seeder.TableCustomerOrders])
}

func TestBatchSizeSplitsStatements(t *testing.T) {
	dialect, err := database.DialectFor("sqlite")
	require.NoError(t, err)
	conn := &testhelpers.CountingConn{Conn: testhelpers.NewTestDB(t)}
	store := database.NewStore(conn, dialect)
	cfg := seeder.DefaultConfig()
	cfg.BatchSize = 3
	s := newSeeder(t, store, seeder.NewDirSource("testdata"), seeder.WithConfig(cfg))

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	customerInserts := 0
	for _, stmt := range conn.Execs {
		if strings.HasPrefix(stmt, "INSERT OR IGNORE INTO customers ") {
			customerInserts++
		}
	}
	assert.Equal(t, 3, customerInserts)
	assert.Equal(t, int64(8), counts(t, store)[seeder.TableCustomers])
}

func TestVendorProductsShareDraw(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, seeder.NewDirSource("testdata"))
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	rows, err := store.QueryRaw(context.Background(), `
		SELECT vp.upc AS upc, vp.quantity AS quantity, vp.price AS wholesale, p.price AS retail
		FROM vendor_products vp JOIN products p ON p.upc = vp.upc`)
	require.NoError(t, err)

	perProduct := map[string][]database.Row{}
	for _, row := range rows {
		perProduct[row.String("upc")] = append(perProduct[row.String("upc")], row)
	}
	require.Len(t, perProduct, 4)

	for upc, offers := range perProduct {
		assert.GreaterOrEqual(t, len(offers), 1, upc)
		assert.LessOrEqual(t, len(offers), 3, upc)

		retail, err := offers[0].Decimal("retail")
		require.NoError(t, err)
		want := retail.Mul(decimal.RequireFromString("0.9")).Round(2)

		for _, offer := range offers {
			wholesale, err := offer.Decimal("wholesale")
			require.NoError(t, err)
			assert.True(t, want.Equal(wholesale), "%s: %s != %s", upc, wholesale, want)

			qty, err := offer.Int64("quantity")
			require.NoError(t, err)
			first, _ := offers[0].Int64("quantity")
			assert.Equal(t, first, qty)
			assert.GreaterOrEqual(t, qty, int64(0))
			assert.Less(t, qty, int64(500))
		}
	}
}

// generatedSource builds a catalog and store list too large for the fixture
// files, with a handful of vendors, customers and statuses.
func generatedSource(stores, products int) *staticSource {
	src := &staticSource{
		vendors:  []seeder.Vendor{{Name: "Acme Supply"}, {Name: "Northwind"}, {Name: "Globex"}},
		statuses: []seeder.OrderStatus{{Status: "Pending"}, {Status: "Shipped"}},
	}
	for i := range products {
		src.products = append(src.products, seeder.Product{
			UPC:          fmt.Sprintf("%012d", 100000000000+i),
			Name:         fmt.Sprintf("Product %04d", i),
			Manufacturer: "Generic",
			RegularPrice: decimal.New(int64(1000+i), -2),
			CategoryPath: []seeder.CategoryRef{{Name: fmt.Sprintf("Category %d", i%7)}},
		})
	}
	for i := range stores {
		src.stores = append(src.stores, seeder.Store{StoreID: int64(1000 + i), Name: fmt.Sprintf("Store %d", i), Region: "TX"})
	}
	for i := range 5 {
		src.customers = append(src.customers, seeder.Customer{
			FirstName: "Pat",
			LastName:  fmt.Sprintf("Shopper%d", i),
			Email:     fmt.Sprintf("pat%d@example.com", i),
		})
	}
	return src
}

func stockPerStore(t *testing.T, store *database.Store) map[int64]int64 {
	t.Helper()
	rows, err := store.QueryRaw(context.Background(), "SELECT store_id, COUNT(*) AS n FROM store_products GROUP BY store_id")
	require.NoError(t, err)

	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		id, err := row.Int64("store_id")
		require.NoError(t, err)
		n, err := row.Int64("n")
		require.NoError(t, err)
		out[id] = n
	}
	return out
}

func TestManyStoresSeedWithDefaultConfig(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, generatedSource(30, 700))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	perStore := stockPerStore(t, store)
	require.Len(t, perStore, 30)
	for id, n := range perStore {
		assert.GreaterOrEqual(t, n, int64(400), "store %d", id)
		assert.Less(t, n, int64(600), "store %d", id)
	}
	assert.Equal(t, int64(700), counts(t, store)[seeder.TableProducts])
}

func TestSubsetStockingBounds(t *testing.T) {
	tests := []struct {
		mode     string
		min, max int64
	}{
		{config.StockModeSubset, 400, 599},
		{config.StockModeFull, 700, 700},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			store := testhelpers.NewTestStore(t)
			cfg := seeder.DefaultConfig()
			cfg.StockMode = tt.mode
			s := newSeeder(t, store, generatedSource(5, 700), seeder.WithConfig(cfg))

			_, err := s.Run(context.Background())
			require.NoError(t, err)

			perStore := stockPerStore(t, store)
			require.Len(t, perStore, 5)
			for id, n := range perStore {
				assert.GreaterOrEqual(t, n, tt.min, "store %d", id)
				assert.LessOrEqual(t, n, tt.max, "store %d", id)
			}
		})
	}
}

func TestStoreProductsStockModes(t *testing.T) {
	for _, mode := range []string{config.StockModeSubset, config.StockModeFull} {
		t.Run(mode, func(t *testing.T) {
			store := testhelpers.NewTestStore(t)
			cfg := seeder.DefaultConfig()
			cfg.StockMode = mode
			s := newSeeder(t, store, seeder.NewDirSource("testdata"), seeder.WithConfig(cfg))
			_, err := s.Run(context.Background())
			require.NoError(t, err)

			// The catalog is smaller than the subset draw, so both modes stock every product.
			assert.Equal(t, int64(12), counts(t, store)[seeder.TableStoreProducts])
			assert.Zero(t, scalar(t, store, "SELECT COUNT(*) AS n FROM store_products WHERE quantity < 0 OR quantity >= 25"))
		})
	}
}

func TestOrderLines(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, seeder.NewDirSource("testdata"))
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, scalar(t, store, "SELECT COUNT(*) AS n FROM customer_order_products WHERE quantity < 1 OR quantity > 5"))
	assert.Zero(t, scalar(t, store, `
		SELECT COUNT(*) AS n FROM customer_order_products l
		JOIN products p ON p.upc = l.upc WHERE l.price <> p.price`))
	assert.Zero(t, scalar(t, store, `
		SELECT COUNT(*) AS n FROM customer_orders o
		LEFT JOIN customer_order_products l ON l.order_id = o.order_id WHERE l.order_id IS NULL`))
	assert.Zero(t, scalar(t, store, "SELECT COUNT(*) - COUNT(DISTINCT customer_id) AS n FROM customer_orders"))

	orders, err := store.FetchAll(context.Background(), seeder.TableCustomerOrders, "order_date")
	require.NoError(t, err)
	earliest := fixedNow.Truncate(time.Second).AddDate(0, 0, -13)
	for _, row := range orders {
		date, err := row.Time("order_date")
		require.NoError(t, err)
		assert.False(t, date.Before(earliest), date)
		assert.False(t, date.After(fixedNow), date)
	}
}

func TestMissingDependencyStopsRun(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	src := testdataSource(t)
	src.vendors = nil
	s := newSeeder(t, store, src)

	report, err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, seeder.ErrMissingDependency)
	assert.ErrorContains(t, err, seeder.TableVendorProducts)

	require.Len(t, report.Tables, 5)
	got := counts(t, store)
	assert.Zero(t, got[seeder.TableVendorProducts])
	assert.Zero(t, got[seeder.TableStoreProducts])
	assert.Equal(t, int64(4), got[seeder.TableProducts])
}

func TestSourceErrorStopsRun(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, seeder.NewDirSource(t.TempDir()))

	report, err := s.Run(context.Background())

	var srcErr *seeder.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, seeder.DocProducts, srcErr.Name)
	assert.Empty(t, report.Tables)
}

func TestSourceFailurePropagates(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	src := testdataSource(t)
	src.err = errors.New("catalog feed unavailable")
	s := newSeeder(t, store, src)

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, src.err)
	assert.ErrorContains(t, err, "failed to seed table products")
	assert.Zero(t, counts(t, store)[seeder.TableProducts])
}

func TestMetricsRecorded(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	m := metrics.New(prometheus.NewRegistry())
	s := newSeeder(t, store, seeder.NewDirSource("testdata"), seeder.WithMetrics(m.Seed))

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(4), testutil.ToFloat64(m.Seed.RowsInserted.WithLabelValues(seeder.TableProducts)))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.Seed.RowsInserted.WithLabelValues(seeder.TableCategories)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Seed.Runs.WithLabelValues("success")))

	orders := counts(t, store)[seeder.TableCustomerOrders]
	assert.Equal(t, float64(orders), testutil.ToFloat64(m.Seed.RowsInserted.WithLabelValues(seeder.TableCustomerOrders)))
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := seeder.DefaultConfig()
	cfg.MaxOrders = 0
	_, err := seeder.New(testhelpers.NewTestStore(t), seeder.NewDirSource("testdata"), seeder.WithConfig(cfg))
	assert.Error(t, err)
}

func TestCancelledContext(t *testing.T) {
	store := testhelpers.NewTestStore(t)
	s := newSeeder(t, store, seeder.NewDirSource("testdata"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, counts(t, store)[seeder.TableProducts])
}
