package handler

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/opusnote/opusnote-api/internal/dto"
	"github.com/opusnote/opusnote-api/internal/service"
	"github.com/opusnote/opusnote-api/internal/utils"
)

// ImportHandler wires the spreadsheet import and sample download endpoints.
type ImportHandler struct {
	service    service.ImportService
	samplePath string
	logger     zerolog.Logger
}

// NewImportHandler constructs the handler.
func NewImportHandler(service service.ImportService, samplePath string, logger zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		service:    service,
		samplePath: samplePath,
		logger:     logger.With().Str("component", "import_handler").Logger(),
	}
}

// Register attaches the import route to the router group.
func (h *ImportHandler) Register(router fiber.Router) {
	router.Post("/import-xlsx", h.importXLSX)
}

func (h *ImportHandler) importXLSX(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "No file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to open upload")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to read upload")
	}
	defer file.Close()

	count, err := h.service.ImportXLSX(c.Context(), file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidWorkbook) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid spreadsheet file")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to import spreadsheet")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to import spreadsheet")
	}

	return c.Status(fiber.StatusOK).JSON(dto.ImportResponse{Success: true, Count: count})
}

// DownloadSample streams the sample import file as an attachment. Registered
// outside the /api group, no auth.
func (h *ImportHandler) DownloadSample(c *fiber.Ctx) error {
	if _, err := os.Stat(h.samplePath); err != nil {
		return utils.SendError(c, fiber.StatusNotFound, "Sample file not found")
	}

	return c.Download(h.samplePath, "sample_import.csv")
}
