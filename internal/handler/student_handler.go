package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/opusnote/opusnote-api/internal/dto"
	"github.com/opusnote/opusnote-api/internal/service"
	"github.com/opusnote/opusnote-api/internal/utils"
)

// StudentHandler wires the roster CRUD endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches roster routes to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/students", h.list)
	router.Post("/students", h.create)
	router.Put("/students/:id", h.update)
	router.Delete("/students/:id", h.delete)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	students, err := h.service.List(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list students")
	}

	return c.Status(fiber.StatusOK).JSON(students)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Create(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "Missing required fields")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create student")
	}

	return c.Status(fiber.StatusCreated).JSON(student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id := c.Params("id")

	var payload dto.UpdateStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to update student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update student")
	}

	return c.Status(fiber.StatusOK).JSON(student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")

	result, err := h.service.Delete(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "Student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete student")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
