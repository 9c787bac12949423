package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Rana718/storefront/internal/catalog"
	"github.com/Rana718/storefront/internal/metrics"
	"github.com/Rana718/storefront/internal/reports"
	"github.com/Rana718/storefront/internal/seeder"
)

// Seeder runs the seeding pipeline.
type Seeder interface {
	Run(ctx context.Context) (*seeder.Report, error)
}

// Catalog serves the paginated product browse.
type Catalog interface {
	Browse(ctx context.Context, category string, page int) (*catalog.Page, error)
	Categories(ctx context.Context) ([]string, error)
}

// Reports serves the sales reports.
type Reports interface {
	TopProductsByStore(ctx context.Context, limit int) ([]reports.ProductSales, error)
	TopProductsByState(ctx context.Context, limit int) ([]reports.ProductSales, error)
	TopStores(ctx context.Context, since time.Time, limit int) ([]reports.StoreSales, error)
	BrandShowdown(ctx context.Context, category, brandA, brandB string) (*reports.Showdown, error)
	TopCategories(ctx context.Context, exclude string, limit int) ([]reports.CategorySales, error)
}

var (
	_ Seeder  = (*seeder.Seeder)(nil)
	_ Catalog = (*catalog.Service)(nil)
	_ Reports = (*reports.Service)(nil)
)

type Options struct {
	Port     int
	Logger   *zap.Logger
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer
	// Now is the clock behind "this year" in the store ranking.
	Now func() time.Time
}

type Server struct {
	app     *fiber.App
	seeder  Seeder
	catalog Catalog
	reports Reports
	log     *zap.Logger
	metrics *metrics.HTTP
	now     func() time.Time
	port    int
	seeds   singleflight.Group
}

func New(seed Seeder, cat Catalog, rep Reports, opts Options) (*Server, error) {
	templates, err := fs.Sub(TemplatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	engine := html.NewFileSystem(http.FS(templates), ".html")

	s := &Server{
		seeder:  seed,
		catalog: cat,
		reports: rep,
		log:     opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
		port:    opts.Port,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.app = fiber.New(fiber.Config{
		Views:                 engine,
		ViewsLayout:           "layout",
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	s.app.Use(s.logRequests)
	if s.metrics != nil {
		s.app.Use(s.recordMetrics)
	}

	s.setupRoutes(opts.Gatherer)
	return s, nil
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.app.Get("/", s.handleHome)
	s.app.Get("/seeddb", s.handleSeed)

	s.app.Get("/products", s.handleProducts)
	s.app.Get("/products/categories", s.handleProductsByCategory)

	s.app.Get("/queries", s.handleQueries)
	queries := s.app.Group("/queries")
	queries.Get("/top-20-products-by-store", s.handleTopProductsByStore)
	queries.Get("/top-20-products-by-state", s.handleTopProductsByState)
	queries.Get("/top-5-stores", s.handleTopStores)
	queries.Get("/hp-outsell-lenovo", s.handleBrandShowdown)
	queries.Get("/top-3-categories", s.handleTopCategories)

	if gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	s.log.Info("server listening", zap.Int("port", s.port))
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
