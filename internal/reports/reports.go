// Package reports runs the read-only sales reports over seeded data.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/storefront/internal/database"
)

type ProductSales struct {
	State     string
	StoreID   int64
	UPC       string
	Name      string
	TotalSold int64
}

type StoreSales struct {
	StoreID int64
	Orders  int64
}

type StoreBrandSales struct {
	StoreID int64
	SalesA  int64
	SalesB  int64
	Winner  string
}

// Showdown compares unit sales of two brands within one category, store by
// store. Only stores that sold both brands are listed; ties go to BrandB.
type Showdown struct {
	Category string
	BrandA   string
	BrandB   string
	Stores   []StoreBrandSales
	WinsA    int
}

type CategorySales struct {
	Name      string
	TotalSold int64
}

type Service struct {
	store *database.Store
}

func NewService(store *database.Store) *Service {
	return &Service{store: store}
}

func (s *Service) builder() squirrel.StatementBuilderType {
	return s.store.Dialect().Builder()
}

// TopProductsByStore lists, for every store, its best sellers by units.
func (s *Service) TopProductsByStore(ctx context.Context, limit int) ([]ProductSales, error) {
	stores, err := s.store.Query(ctx, s.builder().Select("store_id").From("stores").OrderBy("store_id"))
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}

	var results []ProductSales
	for _, store := range stores {
		storeID, err := store.Int64("store_id")
		if err != nil {
			return nil, err
		}

		query := s.builder().
			Select("co.store_id AS store_id", "cop.upc AS upc", "p.name AS name", "SUM(cop.quantity) AS total_sold").
			From("customer_orders co").
			Join("customer_order_products cop ON cop.order_id = co.order_id").
			Join("products p ON p.upc = cop.upc").
			Where(squirrel.Eq{"co.store_id": storeID}).
			GroupBy("co.store_id", "cop.upc", "p.name").
			OrderBy("total_sold DESC", "cop.upc").
			Limit(uint64(limit))

		rows, err := s.store.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to rank products of store %d: %w", storeID, err)
		}
		sales, err := productSales(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, sales...)
	}
	return results, nil
}

// TopProductsByState lists, for every state with a store, its best selling
// store-product pairs by units.
func (s *Service) TopProductsByState(ctx context.Context, limit int) ([]ProductSales, error) {
	states, err := s.store.Query(ctx, s.builder().Select("state").Distinct().From("stores").OrderBy("state"))
	if err != nil {
		return nil, fmt.Errorf("failed to load states: %w", err)
	}

	var results []ProductSales
	for _, row := range states {
		state := row.String("state")

		query := s.builder().
			Select("s.state AS state", "co.store_id AS store_id", "cop.upc AS upc", "p.name AS name", "SUM(cop.quantity) AS total_sold").
			From("stores s").
			Join("customer_orders co ON co.store_id = s.store_id").
			Join("customer_order_products cop ON cop.order_id = co.order_id").
			Join("products p ON p.upc = cop.upc").
			Where(squirrel.Eq{"s.state": state}).
			GroupBy("s.state", "co.store_id", "cop.upc", "p.name").
			OrderBy("total_sold DESC", "co.store_id", "cop.upc").
			Limit(uint64(limit))

		rows, err := s.store.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to rank products of state %s: %w", state, err)
		}
		sales, err := productSales(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, sales...)
	}
	return results, nil
}

// TopStores ranks stores by number of orders placed on or after since.
func (s *Service) TopStores(ctx context.Context, since time.Time, limit int) ([]StoreSales, error) {
	query := s.builder().
		Select("store_id", "COUNT(*) AS orders").
		From("customer_orders").
		Where(squirrel.GtOrEq{"order_date": since.UTC()}).
		GroupBy("store_id").
		OrderBy("orders DESC", "store_id").
		Limit(uint64(limit))

	rows, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to rank stores: %w", err)
	}

	results := make([]StoreSales, 0, len(rows))
	for _, row := range rows {
		storeID, err := row.Int64("store_id")
		if err != nil {
			return nil, err
		}
		orders, err := row.Int64("orders")
		if err != nil {
			return nil, err
		}
		results = append(results, StoreSales{StoreID: storeID, Orders: orders})
	}
	return results, nil
}

const brandSalesQuery = `
SELECT co.store_id AS store_id,
       SUM(CASE WHEN p.brand = ? THEN cop.quantity ELSE 0 END) AS sales_a,
       SUM(CASE WHEN p.brand = ? THEN cop.quantity ELSE 0 END) AS sales_b
FROM customer_order_products cop
JOIN customer_orders co ON co.order_id = cop.order_id
JOIN product_categories pc ON pc.upc = cop.upc
JOIN categories c ON c.category_id = pc.category_id
JOIN products p ON p.upc = cop.upc
WHERE c.name = ?
  AND p.brand IN (?, ?)
GROUP BY co.store_id
HAVING SUM(CASE WHEN p.brand = ? THEN 1 ELSE 0 END) > 0
   AND SUM(CASE WHEN p.brand = ? THEN 1 ELSE 0 END) > 0
ORDER BY co.store_id`

// BrandShowdown compares brandA against brandB inside category.
func (s *Service) BrandShowdown(ctx context.Context, category, brandA, brandB string) (*Showdown, error) {
	rows, err := s.store.QueryRaw(ctx, brandSalesQuery,
		brandA, brandB, category, brandA, brandB, brandA, brandB)
	if err != nil {
		return nil, fmt.Errorf("failed to compare %s and %s: %w", brandA, brandB, err)
	}

	showdown := &Showdown{Category: category, BrandA: brandA, BrandB: brandB}
	for _, row := range rows {
		sales := StoreBrandSales{Winner: brandB}
		if sales.StoreID, err = row.Int64("store_id"); err != nil {
			return nil, err
		}
		if sales.SalesA, err = row.Int64("sales_a"); err != nil {
			return nil, err
		}
		if sales.SalesB, err = row.Int64("sales_b"); err != nil {
			return nil, err
		}
		if sales.SalesA > sales.SalesB {
			sales.Winner = brandA
			showdown.WinsA++
		}
		showdown.Stores = append(showdown.Stores, sales)
	}
	return showdown, nil
}

// TopCategories ranks categories by units sold, leaving out exclude (the
// catalog root every product carries).
func (s *Service) TopCategories(ctx context.Context, exclude string, limit int) ([]CategorySales, error) {
	query := s.builder().
		Select("c.name AS name", "SUM(cop.quantity) AS total_sold").
		From("customer_order_products cop").
		Join("product_categories pc ON pc.upc = cop.upc").
		Join("categories c ON c.category_id = pc.category_id").
		Where(squirrel.NotEq{"c.name": exclude}).
		GroupBy("c.name").
		OrderBy("total_sold DESC", "c.name").
		Limit(uint64(limit))

	rows, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to rank categories: %w", err)
	}

	results := make([]CategorySales, 0, len(rows))
	for _, row := range rows {
		total, err := row.Int64("total_sold")
		if err != nil {
			return nil, err
		}
		results = append(results, CategorySales{Name: row.String("name"), TotalSold: total})
	}
	return results, nil
}

func productSales(rows []database.Row) ([]ProductSales, error) {
	results := make([]ProductSales, 0, len(rows))
	for _, row := range rows {
		storeID, err := row.Int64("store_id")
		if err != nil {
			return nil, err
		}
		total, err := row.Int64("total_sold")
		if err != nil {
			return nil, err
		}
		results = append(results, ProductSales{
			State:     row.String("state"),
			StoreID:   storeID,
			UPC:       row.String("upc"),
			Name:      row.String("name"),
			TotalSold: total,
		})
	}
	return results, nil
}
