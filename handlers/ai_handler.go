package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/services"
)

type AIHandler struct {
	service *services.AIService
}

func NewAIHandler(service *services.AIService) *AIHandler {
	return &AIHandler{service: service}
}

// RecommendSessions always answers 200: provider failures are folded into
// the fallback payload by the service so the client never breaks on them.
func (h *AIHandler) RecommendSessions(c *fiber.Ctx) error {
	var input services.RecommendationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	output := h.service.RecommendSessions(c.Context(), input)
	return c.JSON(output)
}

func (h *AIHandler) SuggestSessionContent(c *fiber.Ctx) error {
	var input services.ContentSuggestionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	output := h.service.SuggestSessionContent(c.Context(), input)
	return c.JSON(output)
}
