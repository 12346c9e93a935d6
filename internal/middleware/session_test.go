package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/opusnote/opusnote-api/internal/models"
	"github.com/opusnote/opusnote-api/internal/session"
)

func newSessionApp(store *session.Store) *fiber.App {
	app := fiber.New()
	app.Use(WithSession(store))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(CurrentIdentity(c))
	})
	app.Get("/private", RequireSession(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireSessionRejectsAnonymous(t *testing.T) {
	app := newSessionApp(session.NewStore(time.Hour))

	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireSessionRejectsUnknownToken(t *testing.T) {
	app := newSessionApp(session.NewStore(time.Hour))

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale-token"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestWithSessionResolvesIdentity(t *testing.T) {
	store := session.NewStore(time.Hour)
	token := store.Create(models.Identity{Username: "elena", Role: models.RoleTeacher})
	app := newSessionApp(store)

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
