package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/opusnote/opusnote-api/internal/service"
	"github.com/opusnote/opusnote-api/internal/utils"
)

// GenerationHandler wires the AI-assisted content endpoints.
type GenerationHandler struct {
	service service.GenerationService
	logger  zerolog.Logger
}

// NewGenerationHandler constructs the handler.
func NewGenerationHandler(service service.GenerationService, logger zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{
		service: service,
		logger:  logger.With().Str("component", "generation_handler").Logger(),
	}
}

// Register attaches generation routes to the router group.
func (h *GenerationHandler) Register(router fiber.Router) {
	router.Post("/students/:id/recommendations", h.recommendations)
	router.Post("/students/:id/lesson-plan", h.lessonPlan)
	router.Post("/students/:id/journey-report", h.journeyReport)
}

func (h *GenerationHandler) recommendations(c *fiber.Ctx) error {
	recs, err := h.service.Recommendations(c.Context(), c.Params("id"))
	if err != nil {
		return h.sendGenerationError(c, err, "recommendations")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"recommendations": recs})
}

func (h *GenerationHandler) lessonPlan(c *fiber.Ctx) error {
	plan, err := h.service.LessonPlan(c.Context(), c.Params("id"))
	if err != nil {
		return h.sendGenerationError(c, err, "lesson plan")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"lessonPlan": plan})
}

func (h *GenerationHandler) journeyReport(c *fiber.Ctx) error {
	report, err := h.service.JourneyReport(c.Context(), c.Params("id"))
	if err != nil {
		return h.sendGenerationError(c, err, "journey report")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"journeyReport": report})
}

func (h *GenerationHandler) sendGenerationError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "Student not found")
	case errors.Is(err, service.ErrGenerationUnavailable):
		requestLogger(h.logger, c).Error().Err(err).Msg("generation unavailable")
		return utils.SendError(c, fiber.StatusInternalServerError, "generation service unavailable")
	case errors.Is(err, service.ErrMalformedResponse):
		requestLogger(h.logger, c).Error().Err(err).Msg("generation response unparsable")
		return utils.SendError(c, fiber.StatusInternalServerError, "Failed to parse AI response as JSON")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msgf("failed to generate %s", what)
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate "+what)
	}
}
