package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleLearner = "learner"
	RoleTeacher = "teacher"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'learner'" json:"role"`

	PhoneNumber       *string `gorm:"size:30" json:"phone_number"`
	Bio               *string `gorm:"type:text" json:"bio"`
	Skills            *string `gorm:"type:text" json:"skills"`
	Availability      *string `gorm:"type:text" json:"availability"`
	Preferences       *string `gorm:"type:text" json:"preferences"`
	Experience        *string `gorm:"type:text" json:"experience"`
	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`
	IDVerificationURL *string `gorm:"size:255" json:"-"`

	LocationAddress *string  `gorm:"size:255" json:"location_address"`
	LocationLat     *float64 `json:"location_lat"`
	LocationLng     *float64 `json:"location_lng"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
