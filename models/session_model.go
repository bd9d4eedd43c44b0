package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusPending   = "pending"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCancelled = "cancelled"
	SessionStatusCompleted = "completed"
)

var SessionCategories = []string{
	"Arts & Crafts", "Music", "Cooking", "Technology", "Sports",
	"Languages", "Wellness", "Business", "Lifestyle", "Academics", "Other",
}

type Session struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"size:50;not null" json:"category"`

	TeacherID                uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	TeacherName              string    `gorm:"size:255" json:"teacher_name"`
	TeacherProfilePictureURL *string   `gorm:"size:255" json:"teacher_profile_picture_url"`

	Location  string   `gorm:"size:255;not null" json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	DateTime        time.Time `gorm:"not null" json:"date_time"`
	Price           float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	MaxParticipants *int      `json:"max_participants"`
	Status          string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CoverImageURL   *string   `gorm:"size:255" json:"cover_image_url"`
	FlyerURL        *string   `gorm:"size:255" json:"flyer_url"`

	Teacher User `gorm:"foreignkey:TeacherID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidSessionCategory(category string) bool {
	for _, c := range SessionCategories {
		if c == category {
			return true
		}
	}
	return false
}
