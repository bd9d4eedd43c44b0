package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/services"
	"gorm.io/gorm"
)

type GormChatStore struct {
	db *gorm.DB
}

func NewGormChatStore(db *gorm.DB) *GormChatStore {
	return &GormChatStore{db: db}
}

func (s *GormChatStore) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormChatStore) ThreadByID(id uuid.UUID) (*models.ChatThread, error) {
	var thread models.ChatThread
	if err := s.db.First(&thread, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &thread, nil
}

func (s *GormChatStore) ThreadByPairKey(key string) (*models.ChatThread, error) {
	var thread models.ChatThread
	if err := s.db.First(&thread, "pair_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &thread, nil
}

func (s *GormChatStore) CreateThread(thread *models.ChatThread) error {
	if err := s.db.Create(thread).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return services.ErrThreadExists
		}
		return err
	}
	return nil
}

func (s *GormChatStore) ListThreadsByUser(userID uuid.UUID) ([]models.ChatThread, error) {
	var threads []models.ChatThread
	err := s.db.
		Where("participant_one_id = ? OR participant_two_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&threads).Error
	return threads, err
}

func (s *GormChatStore) UpdateParticipantInfo(thread *models.ChatThread) error {
	return s.db.Model(&models.ChatThread{}).
		Where("id = ?", thread.ID).
		Updates(map[string]interface{}{
			"participant_one_name":       thread.ParticipantOneName,
			"participant_one_avatar_url": thread.ParticipantOneAvatarURL,
			"participant_two_name":       thread.ParticipantTwoName,
			"participant_two_avatar_url": thread.ParticipantTwoAvatarURL,
		}).Error
}

// AppendMessage writes the message and refreshes the thread's last-message
// preview in one transaction, so a crash cannot leave one without the other.
func (s *GormChatStore) AppendMessage(msg *models.ChatMessage) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&models.ChatThread{}).
			Where("id = ?", msg.ThreadID).
			Updates(map[string]interface{}{
				"last_message_text":      msg.Text,
				"last_message_sender_id": msg.SenderID,
				"last_message_at":        msg.CreatedAt,
				"updated_at":             now,
			}).Error
	})
}

func (s *GormChatStore) ListMessages(threadID uuid.UUID, limit, offset int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.
		Where("thread_id = ?", threadID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (s *GormChatStore) MarkMessagesRead(threadID, receiverID uuid.UUID) error {
	return s.db.Model(&models.ChatMessage{}).
		Where("thread_id = ? AND receiver_id = ? AND is_read = ?", threadID, receiverID, false).
		Update("is_read", true).Error
}

var _ services.ChatStore = (*GormChatStore)(nil)
