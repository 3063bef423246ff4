package server

import (
	"strings"

	"vibella/internal/assistant"
	"vibella/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxAssistantMessageLen = 2000

// AssistantChat handles POST /api/assistant/chat
// @Summary Chat with the wellness assistant
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{message=string} true "User message"
// @Success 200 {object} object{content=string,source=string}
// @Failure 400 {object} object{error=string}
// @Router /assistant/chat [post]
func (s *Server) AssistantChat(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message is required"))
	}
	if len(message) > maxAssistantMessageLen {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message too long (max 2000 characters)"))
	}

	userID, _ := c.Locals("userID").(uint)
	if !s.flags.Enabled("assistant_llm", userID) {
		return c.JSON(assistant.Canned(message))
	}

	reply, err := s.assistant.Respond(ctx, message)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(reply)
}
