package seeder

import (
	"context"

	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/config"
	"github.com/Rana718/storefront/internal/logger"
)

const (
	minStockedProducts = 400
	maxStockedProducts = 600
	maxStoreQuantity   = 25
)

var storeProductColumns = []string{"store_id", "upc", "quantity"}

// seedStoreProducts stocks each store from a freshly shuffled catalog: a
// random 400-599 products in subset mode, everything in full mode.
func (s *Seeder) seedStoreProducts(ctx context.Context) (TableResult, error) {
	result := TableResult{Table: TableStoreProducts}

	seeded, err := s.alreadySeeded(ctx, TableStoreProducts)
	if err != nil {
		return result, err
	}
	if seeded {
		result.Skipped = true
		return result, nil
	}

	storeIDs, err := s.parentIDs(ctx, TableStoreProducts, TableStores, "store_id")
	if err != nil {
		return result, err
	}
	products, err := s.catalog(ctx, TableStoreProducts)
	if err != nil {
		return result, err
	}

	upcs := make([]string, len(products))
	for i, p := range products {
		upcs[i] = p.upc
	}

	var rows [][]any
	for _, storeID := range storeIDs {
		Shuffle(s.rand, upcs)

		count := len(upcs)
		if s.config.StockMode != config.StockModeFull {
			count = min(s.rand.Between(minStockedProducts, maxStockedProducts), len(upcs))
		}

		for _, upc := range upcs[:count] {
			rows = append(rows, []any{storeID, upc, s.rand.Intn(maxStoreQuantity)})
		}
	}

	if result.Inserted, err = s.insert(ctx, TableStoreProducts, storeProductColumns, rows); err != nil {
		return result, err
	}

	logger.FromContext(ctx).Info("store products seeded",
		zap.String("table", TableStoreProducts),
		zap.String("mode", s.config.StockMode),
		zap.Int64("rows", result.Inserted),
	)
	return result, nil
}
