package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opusnote/opusnote-api/internal/dto"
	"github.com/opusnote/opusnote-api/internal/middleware"
	"github.com/opusnote/opusnote-api/internal/models"
	"github.com/opusnote/opusnote-api/internal/repository"
	"github.com/opusnote/opusnote-api/internal/service"
	"github.com/opusnote/opusnote-api/internal/session"
	"github.com/opusnote/opusnote-api/internal/utils"
)

func newAuthApp(t *testing.T) (*fiber.App, service.AuthService, *session.Store) {
	t.Helper()

	accounts := repository.NewAccountRepository(t.TempDir())
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := service.NewAuthService(accounts, validate, "admin", "opusnote-admin", zerolog.Nop())

	sessions := session.NewStore(time.Hour)

	app := fiber.New()
	app.Use("/api", middleware.WithSession(sessions))
	NewAuthHandler(svc, sessions, time.Hour, zerolog.Nop()).Register(app.Group("/api"))
	return app, svc, sessions
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestAuthHandlerCheckFirstSetup(t *testing.T) {
	app, _, _ := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/check-first-setup", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload dto.FirstSetupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.NeedsFirstSetup)
}

func TestAuthHandlerFirstSetupRegistration(t *testing.T) {
	app, _, _ := newAuthApp(t)

	req := httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username":"ms.keys","password":"grand-piano-88"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/check-first-setup", nil), -1)
	require.NoError(t, err)
	var payload dto.FirstSetupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.False(t, payload.NeedsFirstSetup)

	// Once a teacher exists, anonymous registration is closed.
	req = httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username":"second","password":"grand-piano-88"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerAdminRegistersTeacher(t *testing.T) {
	app, svc, _ := newAuthApp(t)
	require.NoError(t, svc.Bootstrap(context.Background()))

	req := httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username":"ms.keys","password":"grand-piano-88"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Log in as the freshly created teacher and try to register another one.
	req = httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"ms.keys","password":"grand-piano-88"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	teacherCookie := sessionCookie(t, resp)

	req = httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username":"another","password":"grand-piano-88"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(teacherCookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The bootstrap admin may.
	req = httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"admin","password":"opusnote-admin"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	adminCookie := sessionCookie(t, resp)

	req = httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username":"another","password":"grand-piano-88"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(adminCookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Duplicate username.
	req = httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"username":"another","password":"grand-piano-88"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(adminCookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	app, svc, _ := newAuthApp(t)
	require.NoError(t, svc.Bootstrap(context.Background()))

	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var payload utils.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "invalid username or password", payload.Error)
}

func TestAuthHandlerCurrentUserAndLogout(t *testing.T) {
	app, svc, _ := newAuthApp(t)
	require.NoError(t, svc.Bootstrap(context.Background()))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/current-user", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var anon *models.Identity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&anon))
	assert.Nil(t, anon)

	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"admin","password":"opusnote-admin"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	req = httptest.NewRequest("GET", "/api/current-user", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	var identity models.Identity
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&identity))
	assert.Equal(t, "admin", identity.Username)
	assert.Equal(t, models.RoleAdmin, identity.Role)

	req = httptest.NewRequest("POST", "/api/logout", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Token is invalidated server side.
	req = httptest.NewRequest("GET", "/api/current-user", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&anon))
	assert.Nil(t, anon)
}
