package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPending            = "pending"
	BookingStatusConfirmed          = "confirmed"
	BookingStatusRejected           = "rejected"
	BookingStatusCancelledByLearner = "cancelled_by_learner"
	BookingStatusCancelledByTeacher = "cancelled_by_teacher"
	BookingStatusCompleted          = "completed"
)

// BookingRequest carries a denormalized snapshot of the session's display
// fields, captured at request time. Readers fall back to the snapshot when
// the session row is gone.
type BookingRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID uuid.UUID `gorm:"not null;index" json:"session_id"`

	SessionTitle         string    `gorm:"size:255" json:"session_title"`
	SessionDateTime      time.Time `json:"session_date_time"`
	SessionLocation      string    `gorm:"size:255" json:"session_location"`
	SessionCoverImageURL *string   `gorm:"size:255" json:"session_cover_image_url"`

	LearnerID   uuid.UUID `gorm:"not null;index" json:"learner_id"`
	LearnerName string    `gorm:"size:255" json:"learner_name"`
	TeacherID   uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	TeacherName string    `gorm:"size:255" json:"teacher_name"`

	Status   string     `gorm:"size:30;not null;default:'pending'" json:"status"`
	NudgedAt *time.Time `json:"-"`

	Learner User    `gorm:"foreignkey:LearnerID" json:"-"`
	Teacher User    `gorm:"foreignkey:TeacherID" json:"-"`
	Session Session `gorm:"foreignkey:SessionID" json:"-"`

	RequestedAt time.Time `gorm:"autoCreateTime" json:"requested_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsActive reports whether the request still claims a spot on the session.
func (b *BookingRequest) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

func (b *BookingRequest) IsTerminal() bool {
	switch b.Status {
	case BookingStatusRejected, BookingStatusCancelledByLearner,
		BookingStatusCancelledByTeacher, BookingStatusCompleted:
		return true
	}
	return false
}
