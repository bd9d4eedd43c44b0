package handlers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/localhive/local_hive/database"
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/services"
)

type CreateSessionRequest struct {
	Title           string   `json:"title" validate:"required,min=3"`
	Description     string   `json:"description" validate:"required,min=10"`
	Category        string   `json:"category" validate:"required"`
	Location        string   `json:"location" validate:"required"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	DateTime        string   `json:"date_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Price           float64  `json:"price" validate:"gte=0"`
	MaxParticipants *int     `json:"max_participants" validate:"omitempty,gt=0"`
	CoverImageURL   *string  `json:"cover_image_url"`
}

func CreateSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !models.ValidSessionCategory(req.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown session category"})
	}

	var teacher models.User
	if err := database.DB.First(&teacher, "id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher not found"})
	}

	dateTime, _ := time.Parse(time.RFC3339, req.DateTime)

	session := models.Session{
		Title:                    req.Title,
		Description:              req.Description,
		Category:                 req.Category,
		TeacherID:                teacher.ID,
		TeacherName:              teacher.FullName,
		TeacherProfilePictureURL: teacher.ProfilePictureURL,
		Location:                 req.Location,
		Latitude:                 req.Latitude,
		Longitude:                req.Longitude,
		DateTime:                 dateTime,
		Price:                    req.Price,
		MaxParticipants:          req.MaxParticipants,
		Status:                   models.SessionStatusPending,
		CoverImageURL:            req.CoverImageURL,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

type UpdateSessionRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	Location        *string  `json:"location"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	DateTime        *string  `json:"date_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	MaxParticipants *int     `json:"max_participants" validate:"omitempty,gt=0"`
	Status          *string  `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	CoverImageURL   *string  `json:"cover_image_url"`
}

func UpdateSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TeacherID != teacherID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the teacher for this session"})
	}

	var req UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Category != nil && !models.ValidSessionCategory(*req.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown session category"})
	}

	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.Description != nil {
		session.Description = *req.Description
	}
	if req.Category != nil {
		session.Category = *req.Category
	}
	if req.Location != nil {
		session.Location = *req.Location
	}
	if req.Latitude != nil {
		session.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		session.Longitude = req.Longitude
	}
	if req.DateTime != nil {
		dateTime, _ := time.Parse(time.RFC3339, *req.DateTime)
		session.DateTime = dateTime
	}
	if req.Price != nil {
		session.Price = *req.Price
	}
	if req.MaxParticipants != nil {
		session.MaxParticipants = req.MaxParticipants
	}
	if req.Status != nil {
		session.Status = *req.Status
	}
	if req.CoverImageURL != nil {
		session.CoverImageURL = req.CoverImageURL
	}

	if err := database.DB.Save(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update session"})
	}

	return c.JSON(session)
}

func DeleteSession(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TeacherID != teacherID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the teacher for this session"})
	}

	if err := database.DB.Delete(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete session"})
	}

	return c.JSON(fiber.Map{"message": "Session deleted"})
}

// GetSession returns the session together with the teacher's public info,
// the confirmed-attendee count, and (when authenticated) the caller's own
// booking status for it.
func GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	var confirmedCount int64
	database.DB.Model(&models.BookingRequest{}).
		Where("session_id = ? AND status = ?", session.ID, models.BookingStatusConfirmed).
		Count(&confirmedCount)

	isFull := false
	if session.MaxParticipants != nil && *session.MaxParticipants > 0 {
		isFull = confirmedCount >= int64(*session.MaxParticipants)
	}

	response := fiber.Map{
		"session":         session,
		"confirmed_count": confirmedCount,
		"is_full":         isFull,
	}

	var teacher models.User
	if err := database.DB.First(&teacher, "id = ?", session.TeacherID).Error; err == nil {
		response["teacher"] = fiber.Map{
			"id":                  teacher.ID,
			"full_name":           teacher.FullName,
			"bio":                 teacher.Bio,
			"skills":              teacher.Skills,
			"profile_picture_url": teacher.ProfilePictureURL,
		}
	}

	if token, ok := c.Locals("user").(*jwt.Token); ok {
		claims := token.Claims.(jwt.MapClaims)
		if callerID, err := uuid.Parse(claims["user_id"].(string)); err == nil {
			var existing models.BookingRequest
			err := database.DB.
				Where("session_id = ? AND learner_id = ?", session.ID, callerID).
				Order("requested_at desc").
				First(&existing).Error
			if err == nil {
				response["my_booking_status"] = existing.Status
			}
		}
	}

	return c.JSON(response)
}

func ListSessions(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := database.DB.Model(&models.Session{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var sessions []models.Session
	if err := query.
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch sessions"})
	}

	return c.JSON(sessions)
}

func ListMySessions(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))

	var sessions []models.Session
	database.DB.
		Where("teacher_id = ?", teacherID).
		Order("date_time desc").
		Find(&sessions)

	return c.JSON(sessions)
}

// GenerateFlyer renders and stores a printable PDF flyer for the session.
func GenerateFlyer(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))
	sessionID := c.Params("sessionId")

	var session models.Session
	if err := database.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.TeacherID != teacherID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the teacher for this session"})
	}

	flyerURL, err := services.GenerateSessionFlyer(&session)
	if err != nil {
		log.Printf("🔥 Flyer generation failed for session %s: %v", session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate flyer"})
	}

	session.FlyerURL = &flyerURL
	database.DB.Save(&session)

	return c.JSON(fiber.Map{"flyer_url": flyerURL})
}
