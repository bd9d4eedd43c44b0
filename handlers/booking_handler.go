package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/localhive/local_hive/database"
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/notifications"
	"github.com/localhive/local_hive/services"
)

type BookingHandler struct {
	service *services.BookingService
}

func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type CreateBookingRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

func (h *BookingHandler) RequestBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	sessionID, _ := uuid.Parse(req.SessionID)

	booking, err := h.service.RequestBooking(learnerID, sessionID)
	if err != nil {
		return bookingError(c, err)
	}

	go notifyBookingParty(booking.TeacherID, "New Booking Request",
		fmt.Sprintf("<h1>New Booking Request</h1><p>%s has requested to join \"%s\". Log in to respond.</p>", booking.LearnerName, booking.SessionTitle))

	return c.Status(fiber.StatusCreated).JSON(booking)
}

type RespondBookingRequest struct {
	Decision string `json:"decision" validate:"required,oneof=confirmed rejected"`
}

func (h *BookingHandler) RespondToBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	var req RespondBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.service.RespondToBooking(teacherID, requestID, req.Decision)
	if err != nil {
		return bookingError(c, err)
	}

	subject := "Your Booking Was Confirmed!"
	body := fmt.Sprintf("<h1>Booking Confirmed</h1><p>Your request for \"%s\" has been confirmed.</p>", booking.SessionTitle)
	if booking.Status == models.BookingStatusRejected {
		subject = "Update on Your Booking Request"
		body = fmt.Sprintf("<h1>Booking Declined</h1><p>Your request for \"%s\" was declined by the teacher.</p>", booking.SessionTitle)
	}
	go notifyBookingParty(booking.LearnerID, subject, body)

	return c.JSON(booking)
}

func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	actorID, _ := uuid.Parse(claims["user_id"].(string))
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	booking, err := h.service.CancelBooking(actorID, requestID)
	if err != nil {
		return bookingError(c, err)
	}

	counterpartyID := booking.TeacherID
	if booking.Status == models.BookingStatusCancelledByTeacher {
		counterpartyID = booking.LearnerID
	}
	go notifyBookingParty(counterpartyID, "Booking Cancelled",
		fmt.Sprintf("<h1>Booking Cancelled</h1><p>The booking for \"%s\" has been cancelled.</p>", booking.SessionTitle))

	return c.JSON(booking)
}

func (h *BookingHandler) CompleteBooking(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))
	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request id"})
	}

	booking, err := h.service.CompleteBooking(teacherID, requestID)
	if err != nil {
		return bookingError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Booking marked as complete.", "booking": booking})
}

func (h *BookingHandler) GetMyBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	learnerID, _ := uuid.Parse(claims["user_id"].(string))

	views, err := h.service.ListMyBookings(learnerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch bookings"})
	}
	return c.JSON(views)
}

func (h *BookingHandler) GetSessionAttendees(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	attendees, err := h.service.ListConfirmedAttendees(teacherID, sessionID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(attendees)
}

func (h *BookingHandler) GetTeacherBookings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))

	requests, err := h.service.ListTeacherRequests(teacherID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch booking requests"})
	}
	return c.JSON(requests)
}

func notifyBookingParty(userID uuid.UUID, subject, body string) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	notifications.SendEmail(user.FullName, user.Email, subject, body)
}

func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not allowed to perform this action"})
	case errors.Is(err, services.ErrOwnSession),
		errors.Is(err, services.ErrSessionFull),
		errors.Is(err, services.ErrAlreadyRequested),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrSessionNotEnded):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong, please try again"})
	}
}
