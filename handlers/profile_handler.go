package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/localhive/local_hive/database"
	"github.com/localhive/local_hive/models"
)

// UpdateProfileRequest is a pointer-field patch; absent fields are left
// untouched. Role is deliberately not here: it is immutable after signup.
type UpdateProfileRequest struct {
	FullName          *string  `json:"full_name"`
	PhoneNumber       *string  `json:"phone_number"`
	Bio               *string  `json:"bio"`
	Skills            *string  `json:"skills"`
	Availability      *string  `json:"availability"`
	Preferences       *string  `json:"preferences"`
	Experience        *string  `json:"experience"`
	ProfilePictureURL *string  `json:"profile_picture_url"`
	IDVerificationURL *string  `json:"id_verification_url"`
	LocationAddress   *string  `json:"location_address"`
	LocationLat       *float64 `json:"location_lat"`
	LocationLng       *float64 `json:"location_lng"`
}

func GetProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Skills != nil {
		user.Skills = req.Skills
	}
	if req.Availability != nil {
		user.Availability = req.Availability
	}
	if req.Preferences != nil {
		user.Preferences = req.Preferences
	}
	if req.Experience != nil {
		user.Experience = req.Experience
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.IDVerificationURL != nil {
		user.IDVerificationURL = req.IDVerificationURL
	}
	if req.LocationAddress != nil {
		user.LocationAddress = req.LocationAddress
	}
	if req.LocationLat != nil {
		user.LocationLat = req.LocationLat
	}
	if req.LocationLng != nil {
		user.LocationLng = req.LocationLng
	}

	database.DB.Save(&user)

	return c.JSON(user)
}

// GetPublicProfile exposes only the fields other users may see.
func GetPublicProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{
		"id":                  user.ID,
		"full_name":           user.FullName,
		"role":                user.Role,
		"bio":                 user.Bio,
		"skills":              user.Skills,
		"experience":          user.Experience,
		"profile_picture_url": user.ProfilePictureURL,
	})
}
