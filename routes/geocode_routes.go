package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/handlers"
)

func GeocodeRoutes(app *fiber.App, h *handlers.GeocodeHandler) {
	api := app.Group("/api/v1")

	geo := api.Group("/geocode")
	geo.Get("/postal/:code", h.LookupPostalCode)
	geo.Get("/search", h.GeocodeAddress)
}
