package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/opusnote/opusnote-api/internal/models"
	"github.com/opusnote/opusnote-api/internal/session"
	"github.com/opusnote/opusnote-api/internal/utils"
)

const identityLocal = "identity"

// WithSession resolves the session cookie into an identity when one is
// present. It never rejects; endpoints that require authentication stack
// RequireSession on top.
func WithSession(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if identity, ok := store.Get(token); ok {
			c.Locals(identityLocal, identity)
		}
		return c.Next()
	}
}

// RequireSession rejects requests that carry no authenticated identity.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentIdentity(c) == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// CurrentIdentity returns the authenticated identity bound to the request, or
// nil for anonymous requests.
func CurrentIdentity(c *fiber.Ctx) *models.Identity {
	if value := c.Locals(identityLocal); value != nil {
		if identity, ok := value.(models.Identity); ok {
			return &identity
		}
	}
	return nil
}

// SetSessionCookie attaches a fresh session cookie to the response.
func SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
