package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/chatbot"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// handleChat answers one message from the task assistant.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return jsonError(c, fiber.StatusBadRequest, "Message is required")
	}

	reply, err := s.bot.Respond(c.UserContext(), req.Message)
	if err != nil {
		s.logger.Warn("chat reply abandoned", "principal", principal(c).ID, "error", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "Assistant unavailable")
	}

	return c.JSON(chatResponse{
		Reply:     reply,
		Timestamp: time.Now().UTC(),
	})
}

// handleChatGreeting returns the assistant's opening message.
func (s *Server) handleChatGreeting(c *fiber.Ctx) error {
	return c.JSON(chatResponse{
		Reply:     chatbot.Greeting,
		Timestamp: time.Now().UTC(),
	})
}
