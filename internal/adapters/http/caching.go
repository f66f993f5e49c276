package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Default cache times by endpoint pattern
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.Contains(path, "/telemetry"):
			ttl = "no-cache" // Live position data

		case strings.Contains(path, "/authorization"):
			ttl = "no-cache" // Decisions must never be stale

		case strings.HasPrefix(path, "/v1/plans/nearby"):
			ttl = "public, max-age=60" // Location queries: 1 min

		case strings.HasPrefix(path, "/v1/plans/") && path != "/v1/plans/":
			ttl = "private, max-age=60" // Single plan: 1 min

		case path == "/v1/stats":
			ttl = "public, max-age=60" // Planner stats: 1 min

		case strings.HasPrefix(path, "/v1/"):
			ttl = "private, max-age=30" // Short default for plan data

		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
