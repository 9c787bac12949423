package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/Rana718/storefront/internal/database"
)

type Product struct {
	UPC         string
	Name        string
	Description string
	Brand       string
	Price       decimal.Decimal
}

// Page is one rendered page of the catalog plus what the pager needs.
type Page struct {
	Category   string
	Products   []Product
	Page       int
	TotalPages int
	Total      int
	Low        int
	High       int
}

// Pages lists the page numbers inside the visible window.
func (p *Page) Pages() []int {
	if p.High < p.Low || p.Low < 1 {
		return nil
	}
	pages := make([]int, 0, p.High-p.Low+1)
	for n := p.Low; n <= p.High; n++ {
		pages = append(pages, n)
	}
	return pages
}

type Service struct {
	store    *database.Store
	pageSize int
}

func NewService(store *database.Store, pageSize int) *Service {
	return &Service{store: store, pageSize: pageSize}
}

// Browse returns page of the catalog ordered by name, limited to category
// when it is not empty. Out-of-range pages are clamped.
func (s *Service) Browse(ctx context.Context, category string, page int) (*Page, error) {
	query := s.store.Dialect().Builder().
		Select("p.upc AS upc", "p.name AS name", "p.description AS description", "p.brand AS brand", "p.price AS price").
		From("products p").
		OrderBy("p.name", "p.upc")

	if category != "" {
		query = query.
			Join("product_categories pc ON pc.upc = p.upc").
			Join("categories c ON c.category_id = pc.category_id").
			Where(squirrel.Eq{"c.name": category})
	}

	rows, err := s.store.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		price, err := row.Decimal("price")
		if err != nil {
			return nil, fmt.Errorf("failed to read product %s: %w", row.String("upc"), err)
		}
		products = append(products, Product{
			UPC:         row.String("upc"),
			Name:        row.String("name"),
			Description: row.String("description"),
			Brand:       row.String("brand"),
			Price:       price,
		})
	}

	pages := Paginate(products, s.pageSize)
	result := &Page{
		Category:   category,
		TotalPages: len(pages),
		Total:      len(products),
		Page:       ClampPage(page, len(pages)),
	}
	result.Low, result.High = VisibleWindow(result.Page, result.TotalPages)
	if result.Page > 0 {
		result.Products = pages[result.Page-1]
	}
	return result, nil
}

// Categories lists every category name in alphabetical order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.store.Query(ctx, s.store.Dialect().Builder().
		Select("name").
		From("categories").
		OrderBy("name"))
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.String("name"))
	}
	return names, nil
}
