package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/alexsanchiss/uas-planner-sub002/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1, 15s per-request timeout
	v1 := app.Group("/v1")

	// Ad-hoc scan pattern generation
	v1.Post("/scan/validate", timeout.NewWithContext(ValidateScanHandler(deps), 15*time.Second))
	v1.Post("/scan/generate", timeout.NewWithContext(GenerateScanHandler(deps), 15*time.Second))
	v1.Post("/scan/area", timeout.NewWithContext(ScanAreaHandler(deps), 15*time.Second))
	v1.Get("/scan/normalize-angle", timeout.NewWithContext(NormalizeAngleHandler(deps), 15*time.Second))

	// Flight plans
	v1.Post("/plans", timeout.NewWithContext(CreatePlanHandler(deps), 15*time.Second))
	v1.Get("/plans", timeout.NewWithContext(ListPlansHandler(deps), 15*time.Second))
	v1.Get("/plans/nearby", timeout.NewWithContext(NearbyPlansHandler(deps), 15*time.Second))
	v1.Get("/plans/:id", timeout.NewWithContext(GetPlanHandler(deps), 15*time.Second))
	v1.Put("/plans/:id", timeout.NewWithContext(UpdatePlanHandler(deps), 15*time.Second))
	v1.Delete("/plans/:id", timeout.NewWithContext(DeletePlanHandler(deps), 15*time.Second))
	v1.Post("/plans/:id/generate", timeout.NewWithContext(GeneratePlanHandler(deps), 15*time.Second))

	// Authorization lifecycle
	v1.Post("/plans/:id/submit", timeout.NewWithContext(SubmitPlanHandler(deps), 15*time.Second))
	v1.Get("/plans/:id/authorization", timeout.NewWithContext(AuthorizationStatusHandler(deps), 15*time.Second))
	v1.Post("/plans/:id/decision", timeout.NewWithContext(DecideAuthorizationHandler(deps), 15*time.Second))

	// Telemetry
	v1.Post("/telemetry", timeout.NewWithContext(IngestTelemetryHandler(deps), 15*time.Second))
	v1.Post("/telemetry/batch", timeout.NewWithContext(IngestTelemetryBatchHandler(deps), 15*time.Second))
	v1.Get("/plans/:id/telemetry", timeout.NewWithContext(PlanTelemetryHandler(deps), 15*time.Second))

	// Planner statistics
	v1.Get("/stats", timeout.NewWithContext(PlannerStatsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
