package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/handlers"
	"github.com/localhive/local_hive/middleware"
)

func AIRoutes(app *fiber.App, h *handlers.AIHandler) {
	api := app.Group("/api/v1")

	ai := api.Group("/ai", middleware.Protected())
	ai.Post("/recommendations", h.RecommendSessions)
	ai.Post("/content-suggestions", middleware.TeacherRequired(), h.SuggestSessionContent)
}
