package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/service"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{Error: msg})
}

// taskError maps a service error to a response. Store failures are logged
// and answered with fallback, which carries no internal detail.
func (s *Server) taskError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidTask):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, "Task not found")
	default:
		s.logger.Error(fallback, "path", c.Path(), "error", err)
		return jsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

// handleError turns errors returned by handlers and middleware into JSON.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		s.logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}

	return jsonError(c, code, message)
}
