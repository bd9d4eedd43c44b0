package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatThread is a two-party conversation container. Participant columns are
// stored in sorted UUID-string order and PairKey is unique, so at most one
// thread can exist per unordered pair.
type ChatThread struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PairKey string    `gorm:"size:80;not null;uniqueIndex" json:"-"`

	ParticipantOneID        uuid.UUID `gorm:"not null;index" json:"participant_one_id"`
	ParticipantOneName      string    `gorm:"size:255" json:"participant_one_name"`
	ParticipantOneAvatarURL *string   `gorm:"size:255" json:"participant_one_avatar_url"`

	ParticipantTwoID        uuid.UUID `gorm:"not null;index" json:"participant_two_id"`
	ParticipantTwoName      string    `gorm:"size:255" json:"participant_two_name"`
	ParticipantTwoAvatarURL *string   `gorm:"size:255" json:"participant_two_avatar_url"`

	LastMessageText     *string    `gorm:"type:text" json:"last_message_text"`
	LastMessageSenderID *uuid.UUID `json:"last_message_sender_id"`
	LastMessageAt       *time.Time `json:"last_message_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *ChatThread) HasParticipant(userID uuid.UUID) bool {
	return t.ParticipantOneID == userID || t.ParticipantTwoID == userID
}

// OtherParticipant returns the counterparty of userID on this thread.
func (t *ChatThread) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if t.ParticipantOneID == userID {
		return t.ParticipantTwoID
	}
	return t.ParticipantOneID
}

// ChatMessage is append-only; the application never edits or deletes one.
type ChatMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ThreadID   uuid.UUID `gorm:"not null;index" json:"thread_id"`
	SenderID   uuid.UUID `gorm:"not null" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"not null" json:"receiver_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`

	Thread ChatThread `gorm:"foreignkey:ThreadID" json:"-"`

	CreatedAt time.Time `json:"timestamp"`
}

// ThreadPairKey builds the canonical sorted key for an unordered user pair.
func ThreadPairKey(a, b uuid.UUID) string {
	first, second := a.String(), b.String()
	if second < first {
		first, second = second, first
	}
	return first + ":" + second
}
