package seeder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/logger"
)

const (
	orderWindowDays = 14
	minLineQuantity = 1
	maxLineQuantity = 5
)

var (
	orderColumns     = []string{"customer_id", "store_id", "order_date", "status_id"}
	orderLineColumns = []string{"order_id", "upc", "quantity", "price"}
)

// seedCustomerOrders gives each customer at most one order of up to
// MaxOrders-1 sampled products. Orders go in one at a time because their ids
// key the lines; every line of the run then goes in as one batch. A product
// sampled twice for the same order collides on (order_id, upc) and the second
// line is dropped. Store inventory is left untouched.
func (s *Seeder) seedCustomerOrders(ctx context.Context) (TableResult, error) {
	result := TableResult{Table: TableCustomerOrders}

	seeded, err := s.alreadySeeded(ctx, TableCustomerOrders)
	if err != nil {
		return result, err
	}
	if seeded {
		result.Skipped = true
		return result, nil
	}

	customerIDs, err := s.parentIDs(ctx, TableCustomerOrders, TableCustomers, "customer_id")
	if err != nil {
		return result, err
	}
	products, err := s.catalog(ctx, TableCustomerOrders)
	if err != nil {
		return result, err
	}
	storeIDs, err := s.parentIDs(ctx, TableCustomerOrders, TableStores, "store_id")
	if err != nil {
		return result, err
	}
	statusIDs, err := s.parentIDs(ctx, TableCustomerOrders, TableOrderStatus, "status_id")
	if err != nil {
		return result, err
	}

	today := s.now().UTC().Truncate(time.Second)

	var lines [][]any
	for _, customerID := range customerIDs {
		picks := s.rand.SampleIndices(s.rand.Intn(s.config.MaxOrders), len(products))
		if len(picks) == 0 {
			continue
		}

		storeID := storeIDs[s.rand.Intn(len(storeIDs))]
		statusID := statusIDs[s.rand.Intn(len(statusIDs))]
		orderDate := today.AddDate(0, 0, -s.rand.Intn(orderWindowDays))

		orderID, err := s.store.InsertReturningID(ctx, TableCustomerOrders, "order_id", orderColumns,
			[]any{customerID, storeID, orderDate, statusID})
		if err != nil {
			return result, err
		}
		if orderID == 0 {
			return result, fmt.Errorf("order for customer %d was not inserted", customerID)
		}
		result.Inserted++

		for _, idx := range picks {
			p := products[idx]
			lines = append(lines, []any{orderID, p.upc, s.rand.Between(minLineQuantity, maxLineQuantity+1), p.price})
		}
	}

	if s.metrics != nil {
		s.metrics.RowsInserted.WithLabelValues(TableCustomerOrders).Add(float64(result.Inserted))
	}

	lineCount, err := s.insert(ctx, TableCustomerOrderProducts, orderLineColumns, lines)
	if err != nil {
		return result, err
	}

	logger.FromContext(ctx).Info("customer orders seeded",
		zap.String("table", TableCustomerOrders),
		zap.Int64("rows", result.Inserted),
		zap.Int64("lines", lineCount),
	)
	return result, nil
}
