package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/services"
)

type GeocodeHandler struct {
	service *services.GeocodingService
}

func NewGeocodeHandler(service *services.GeocodingService) *GeocodeHandler {
	return &GeocodeHandler{service: service}
}

func (h *GeocodeHandler) LookupPostalCode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Postal code is required"})
	}

	area, err := h.service.LookupPostalCode(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No area found for that postal code"})
	}
	return c.JSON(area)
}

func (h *GeocodeHandler) GeocodeAddress(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Address is required"})
	}

	coords, err := h.service.GeocodeAddress(c.Context(), address)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Could not geocode that address"})
	}
	return c.JSON(coords)
}
