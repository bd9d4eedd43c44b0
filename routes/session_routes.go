package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/handlers"
	"github.com/localhive/local_hive/middleware"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions")
	sessions.Get("", handlers.ListSessions)
	sessions.Get("/:sessionId", middleware.OptionalAuth(), handlers.GetSession)

	teacherSessions := api.Group("/teacher/sessions", middleware.Protected(), middleware.TeacherRequired())
	teacherSessions.Get("", handlers.ListMySessions)
	teacherSessions.Post("", handlers.CreateSession)
	teacherSessions.Patch("/:sessionId", handlers.UpdateSession)
	teacherSessions.Delete("/:sessionId", handlers.DeleteSession)
	teacherSessions.Post("/:sessionId/flyer", handlers.GenerateFlyer)
}
