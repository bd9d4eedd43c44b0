package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/handlers"
	"github.com/localhive/local_hive/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Patch("", handlers.UpdateProfile)

	api.Get("/users/:userId", handlers.GetPublicProfile)
}
