package seeder

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/logger"
)

// wholesaleRate is the share of the retail price vendors charge.
var wholesaleRate = decimal.RequireFromString("0.9")

const (
	maxVendorQuantity    = 500
	maxVendorsPerProduct = 3
)

var vendorProductColumns = []string{"vendor_id", "upc", "quantity", "price"}

// seedVendorProducts offers every product through one to three vendors. The
// quantity and wholesale price are drawn once per product and shared by all
// of its vendors.
func (s *Seeder) seedVendorProducts(ctx context.Context) (TableResult, error) {
	result := TableResult{Table: TableVendorProducts}

	seeded, err := s.alreadySeeded(ctx, TableVendorProducts)
	if err != nil {
		return result, err
	}
	if seeded {
		result.Skipped = true
		return result, nil
	}

	products, err := s.catalog(ctx, TableVendorProducts)
	if err != nil {
		return result, err
	}
	vendorIDs, err := s.parentIDs(ctx, TableVendorProducts, TableVendors, "vendor_id")
	if err != nil {
		return result, err
	}

	var rows [][]any
	for _, p := range products {
		quantity := s.rand.Intn(maxVendorQuantity)
		wholesale := p.price.Mul(wholesaleRate).Round(2)
		count := min(s.rand.Between(1, maxVendorsPerProduct+1), len(vendorIDs))

		for _, vendorID := range Shuffle(s.rand, vendorIDs)[:count] {
			rows = append(rows, []any{vendorID, p.upc, quantity, wholesale})
		}
	}

	if result.Inserted, err = s.insert(ctx, TableVendorProducts, vendorProductColumns, rows); err != nil {
		return result, err
	}

	logger.FromContext(ctx).Info("vendor products seeded",
		zap.String("table", TableVendorProducts),
		zap.Int64("rows", result.Inserted),
	)
	return result, nil
}
