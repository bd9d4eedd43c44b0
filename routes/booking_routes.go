package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localhive/local_hive/handlers"
	"github.com/localhive/local_hive/middleware"
)

func BookingRoutes(app *fiber.App, h *handlers.BookingHandler) {
	api := app.Group("/api/v1")

	bookings := api.Group("/bookings", middleware.Protected())
	bookings.Post("", middleware.LearnerRequired(), h.RequestBooking)
	bookings.Get("/my", h.GetMyBookings)
	bookings.Patch("/:requestId/respond", middleware.TeacherRequired(), h.RespondToBooking)
	bookings.Patch("/:requestId/cancel", h.CancelBooking)
	bookings.Patch("/:requestId/complete", middleware.TeacherRequired(), h.CompleteBooking)

	teacher := api.Group("/teacher", middleware.Protected(), middleware.TeacherRequired())
	teacher.Get("/bookings", h.GetTeacherBookings)
	teacher.Get("/sessions/:sessionId/attendees", h.GetSessionAttendees)
}
