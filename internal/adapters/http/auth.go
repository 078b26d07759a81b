package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/placemap/internal/core/usecases"
	"github.com/samirrijal/placemap/internal/pkg/session"
)

const tokenKey = "bearer_token"

// RequireSession rejects requests without a usable bearer token and stores
// the token for the handler.
func RequireSession(now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := session.BearerToken(c.Get(fiber.HeaderAuthorization))
		if tok == "" {
			return errUnauthorized(c, "Authentication required")
		}
		if usecases.SessionExpired(tok, now()) {
			return errUnauthorized(c, "Session expired. Please log in again.")
		}
		c.Locals(tokenKey, tok)
		return c.Next()
	}
}

// sessionToken returns the token stored by RequireSession.
func sessionToken(c *fiber.Ctx) string {
	tok, _ := c.Locals(tokenKey).(string)
	return tok
}

// optionalToken returns the caller's bearer token if present and not
// expired.
func optionalToken(c *fiber.Ctx, now time.Time) string {
	tok := session.BearerToken(c.Get(fiber.HeaderAuthorization))
	if tok == "" || usecases.SessionExpired(tok, now) {
		return ""
	}
	return tok
}
