package seeder

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/logger"
)

var productColumns = []string{"upc", "name", "description", "brand", "price"}

// seedProducts loads the catalog together with its included items and
// categories. Category ids only exist once the names are inserted, so the
// join rows are built from a lookup issued after that insert.
func (s *Seeder) seedProducts(ctx context.Context) (TableResult, error) {
	result := TableResult{Table: TableProducts}

	seeded, err := s.alreadySeeded(ctx, TableProducts)
	if err != nil {
		return result, err
	}
	if seeded {
		result.Skipped = true
		return result, nil
	}

	products, err := s.source.Products()
	if err != nil {
		return result, err
	}

	productRows := make([][]any, 0, len(products))
	var itemRows [][]any
	var categoryNames []string
	seen := make(map[string]bool)

	for _, p := range products {
		productRows = append(productRows, []any{p.UPC, p.Name, p.ShortDescription, p.Manufacturer, p.RegularPrice})

		for _, item := range p.IncludedItemList {
			if item.IncludedItem == "" {
				continue
			}
			itemRows = append(itemRows, []any{p.UPC, item.IncludedItem})
		}

		for _, category := range p.CategoryPath {
			if category.Name == "" || seen[category.Name] {
				continue
			}
			seen[category.Name] = true
			categoryNames = append(categoryNames, category.Name)
		}
	}

	if result.Inserted, err = s.insert(ctx, TableProducts, productColumns, productRows); err != nil {
		return result, err
	}
	if _, err := s.insert(ctx, TableIncludedItems, []string{"upc", "item_name"}, itemRows); err != nil {
		return result, err
	}

	categoryIDs, err := s.resolveCategories(ctx, categoryNames)
	if err != nil {
		return result, err
	}

	var joinRows [][]any
	for _, p := range products {
		for _, category := range p.CategoryPath {
			if category.Name == "" {
				continue
			}
			id, ok := categoryIDs[category.Name]
			if !ok {
				return result, fmt.Errorf("category %q of product %s did not resolve to an id", category.Name, p.UPC)
			}
			joinRows = append(joinRows, []any{p.UPC, id})
		}
	}

	if _, err := s.insert(ctx, TableProductCategories, []string{"upc", "category_id"}, joinRows); err != nil {
		return result, err
	}

	logger.FromContext(ctx).Info("products seeded",
		zap.String("table", TableProducts),
		zap.Int64("rows", result.Inserted),
		zap.Int("categories", len(categoryIDs)),
	)
	return result, nil
}

// resolveCategories inserts the distinct names and maps each one to its id
// with a single lookup.
func (s *Seeder) resolveCategories(ctx context.Context, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	rows := make([][]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, []any{name})
	}
	if _, err := s.insert(ctx, TableCategories, []string{"name"}, rows); err != nil {
		return nil, err
	}

	lookup := s.store.Dialect().Builder().
		Select("category_id", "name").
		From(TableCategories).
		Where(squirrel.Eq{"name": names})

	found, err := s.store.Query(ctx, lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	for _, row := range found {
		id, err := row.Int64("category_id")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve categories: %w", err)
		}
		ids[row.String("name")] = id
	}
	return ids, nil
}

type catalogEntry struct {
	upc   string
	price decimal.Decimal
}

// catalog reads back the products table for the derived tables.
func (s *Seeder) catalog(ctx context.Context, child string) ([]catalogEntry, error) {
	rows, err := s.store.FetchAll(ctx, TableProducts, "upc", "price")
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s needs rows in %s", ErrMissingDependency, child, TableProducts)
	}

	entries := make([]catalogEntry, 0, len(rows))
	for _, row := range rows {
		price, err := row.Decimal("price")
		if err != nil {
			return nil, fmt.Errorf("failed to read product %s: %w", row.String("upc"), err)
		}
		entries = append(entries, catalogEntry{upc: row.String("upc"), price: price})
	}
	return entries, nil
}
