package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/placemap/internal/pkg/metrics"
)

// RouteOptions tunes SetupRoutes.
type RouteOptions struct {
	// RequestsPerMinute caps requests per client IP; zero disables the limit.
	RequestsPerMinute int
	// OpenAPIPath is where the OpenAPI document is read from.
	OpenAPIPath string
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts RouteOptions) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c *fiber.Ctx) bool {
			return websocket.IsWebSocketUpgrade(c)
		},
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if opts.RequestsPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RequestsPerMinute,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware("/v1/views", "/ws", "/metrics"))
	app.Use(CachingMiddleware())

	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	v1.Get("/places/nearby", NearbyPlacesHandler(deps))
	v1.Get("/place-types", PlaceTypesHandler())

	auth := v1.Group("/auth")
	auth.Post("/login", LoginHandler(deps))
	auth.Post("/register", RegisterHandler(deps))

	saved := v1.Group("/saved-places", RequireSession(time.Now))
	saved.Get("/", ListSavedPlacesHandler(deps))
	saved.Post("/", CreateSavedPlaceHandler(deps))
	saved.Delete("/:id", DeleteSavedPlaceHandler(deps))

	views := v1.Group("/views")
	views.Post("/", CreateViewHandler(deps))
	views.Get("/:id", GetViewHandler(deps))
	views.Delete("/:id", DeleteViewHandler(deps))
	views.Put("/:id/center", SetCenterHandler(deps))
	views.Put("/:id/radius", SetRadiusHandler(deps))
	views.Post("/:id/click", ClickHandler(deps))
	views.Post("/:id/ready", ViewReadyHandler(deps))
	views.Post("/:id/search", SearchViewHandler(deps))
	views.Post("/:id/saved/refresh", RequireSession(time.Now), RefreshViewSavedHandler(deps))
	views.Get("/:id/snapshot", SnapshotHandler(deps))

	app.Post("/graphql", GraphQLHandler(deps))

	if opts.OpenAPIPath != "" {
		SetupDocs(app, opts.OpenAPIPath)
	}

	app.Get("/ws/views/:id", ViewSocketUpgrade(deps), websocket.New(ViewSocketHandler(deps)))
}
