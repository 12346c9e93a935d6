package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/opusnote/opusnote-api/internal/dto"
	"github.com/opusnote/opusnote-api/internal/middleware"
	"github.com/opusnote/opusnote-api/internal/service"
	"github.com/opusnote/opusnote-api/internal/session"
	"github.com/opusnote/opusnote-api/internal/utils"
)

// AuthHandler wires login, logout, registration and first-setup endpoints.
type AuthHandler struct {
	service    service.AuthService
	sessions   *session.Store
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, sessions *session.Store, sessionTTL time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:    service,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		logger:     logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches authentication routes to the router group. None of these
// sit behind RequireSession; registration enforces its conditional rule in
// the service.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Get("/check-first-setup", h.checkFirstSetup)
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
	router.Get("/current-user", h.currentUser)
}

func (h *AuthHandler) checkFirstSetup(c *fiber.Ctx) error {
	needed, err := h.service.NeedsFirstSetup(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to check first setup")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to check first setup")
	}

	return c.Status(fiber.StatusOK).JSON(dto.FirstSetupResponse{NeedsFirstSetup: needed})
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	identity, err := h.service.Register(c.Context(), payload, middleware.CurrentIdentity(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "username and a password of at least 8 characters are required")
		case errors.Is(err, service.ErrUnauthorized):
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "admin role required")
		case errors.Is(err, service.ErrUsernameTaken):
			return utils.SendError(c, fiber.StatusConflict, "username already taken")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register account")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register account")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(identity)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	identity, err := h.service.Login(c.Context(), payload)
	if err != nil {
		if isValidationError(err) || errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid username or password")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to log in")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to log in")
	}

	token := h.sessions.Create(identity)
	middleware.SetSessionCookie(c, token, h.sessionTTL)

	return c.Status(fiber.StatusOK).JSON(identity)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if token := c.Cookies(session.CookieName); token != "" {
		h.sessions.Delete(token)
	}
	middleware.ClearSessionCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) currentUser(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(middleware.CurrentIdentity(c))
}
