package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the error body shape the front end expects on every
// failure path.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}
