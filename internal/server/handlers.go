package server

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/logger"
)

const (
	seedSucceeded = "Successfully seeded the database."
	seedFailed    = "Failed to seed the database."
)

func (s *Server) handleHome(c *fiber.Ctx) error {
	return c.Render("home", fiber.Map{
		"Title": "Home",
	})
}

// handleSeed runs the pipeline. Requests that arrive while a run is in flight
// wait for that run and share its outcome.
func (s *Server) handleSeed(c *fiber.Ctx) error {
	ctx := context.WithoutCancel(c.UserContext())
	log := logger.FromContext(ctx)

	_, err, shared := s.seeds.Do("seed", func() (any, error) {
		return s.seeder.Run(ctx)
	})
	if err != nil {
		log.Error("seed run failed", zap.Error(err), zap.Bool("shared", shared))
		return c.Status(fiber.StatusInternalServerError).Render("home", fiber.Map{
			"Title":   "Home",
			"Success": false,
			"Message": seedFailed,
		})
	}

	return c.Render("home", fiber.Map{
		"Title":   "Home",
		"Success": true,
		"Message": seedSucceeded,
	})
}

func (s *Server) handleProducts(c *fiber.Ctx) error {
	return s.renderCatalog(c, "", "/products?")
}

func (s *Server) handleProductsByCategory(c *fiber.Ctx) error {
	category := c.Query("category")
	if category == "" {
		return c.Redirect("/products")
	}
	return s.renderCatalog(c, category, "/products/categories?category="+url.QueryEscape(category)+"&")
}

func (s *Server) renderCatalog(c *fiber.Ctx, category, baseURL string) error {
	ctx := c.UserContext()

	page, err := s.catalog.Browse(ctx, category, c.QueryInt("page", 1))
	if err != nil {
		return err
	}
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return err
	}

	title := "Products"
	if category != "" {
		title = category
	}
	return c.Render("products", fiber.Map{
		"Title":      title,
		"Page":       page,
		"Categories": categories,
		"BaseURL":    baseURL,
	})
}

func (s *Server) handleQueries(c *fiber.Ctx) error {
	return c.Render("queries", fiber.Map{
		"Title": "Queries",
	})
}

func (s *Server) handleTopProductsByStore(c *fiber.Ctx) error {
	products, err := s.reports.TopProductsByStore(c.UserContext(), 20)
	if err != nil {
		return err
	}
	return c.Render("top_products_by_store", fiber.Map{
		"Title":    "Top products by store",
		"Products": products,
	})
}

func (s *Server) handleTopProductsByState(c *fiber.Ctx) error {
	products, err := s.reports.TopProductsByState(c.UserContext(), 20)
	if err != nil {
		return err
	}
	return c.Render("top_products_by_state", fiber.Map{
		"Title":    "Top products by state",
		"Products": products,
	})
}

func (s *Server) handleTopStores(c *fiber.Ctx) error {
	now := s.now().UTC()
	since := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	stores, err := s.reports.TopStores(c.UserContext(), since, 5)
	if err != nil {
		return err
	}
	return c.Render("top_stores", fiber.Map{
		"Title":  "Top stores",
		"Since":  since,
		"Stores": stores,
	})
}

func (s *Server) handleBrandShowdown(c *fiber.Ctx) error {
	showdown, err := s.reports.BrandShowdown(c.UserContext(), "Laptops", "HP", "Lenovo")
	if err != nil {
		return err
	}
	return c.Render("brand_showdown", fiber.Map{
		"Title":    "HP vs Lenovo",
		"Showdown": showdown,
	})
}

func (s *Server) handleTopCategories(c *fiber.Ctx) error {
	categories, err := s.reports.TopCategories(c.UserContext(), "Best Buy", 3)
	if err != nil {
		return err
	}
	return c.Render("top_categories", fiber.Map{
		"Title":      "Top categories",
		"Categories": categories,
	})
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.FromContext(c.UserContext()).Error("request failed", zap.Error(err))
	}
	return c.Status(code).SendString(message)
}
