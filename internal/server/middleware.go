package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Rana718/storefront/internal/logger"
)

// logRequests logs one line per request and hands handlers a request-scoped
// logger through the user context.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	c.SetUserContext(logger.WithContext(c.UserContext(), s.log.With(
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	)))

	err := c.Next()
	if err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.log.Info("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return nil
}

func (s *Server) recordMetrics(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()
	if err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	method := c.Method()
	path := c.Route().Path
	status := strconv.Itoa(c.Response().StatusCode())

	s.metrics.Requests.WithLabelValues(method, path, status).Inc()
	s.metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	return nil
}
