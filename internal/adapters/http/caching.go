package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that do not set
// their own. View state changes every frame and is never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.Get(fiber.HeaderCacheControl) != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "no-cache"
		case path == "/metrics":
			ttl = "no-cache"
		case path == "/v1/place-types":
			ttl = "public, max-age=86400"
		case strings.HasPrefix(path, "/v1/places/nearby"):
			ttl = "public, max-age=300"
		case strings.HasPrefix(path, "/v1/saved-places"):
			ttl = "private, no-cache"
		case strings.HasPrefix(path, "/v1/views"):
			ttl = "no-store"
		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
