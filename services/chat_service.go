package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
)

// ChatStore is the persistence boundary of the chat subsystem.
// CreateThread must surface a pair-key uniqueness violation as
// ErrThreadExists so the service can re-read the winning row, and
// AppendMessage must write the message and the thread preview in one
// transaction.
type ChatStore interface {
	UserByID(id uuid.UUID) (*models.User, error)
	ThreadByID(id uuid.UUID) (*models.ChatThread, error)
	ThreadByPairKey(key string) (*models.ChatThread, error)
	CreateThread(thread *models.ChatThread) error
	ListThreadsByUser(userID uuid.UUID) ([]models.ChatThread, error)
	UpdateParticipantInfo(thread *models.ChatThread) error
	AppendMessage(msg *models.ChatMessage) error
	ListMessages(threadID uuid.UUID, limit, offset int) ([]models.ChatMessage, error)
	MarkMessagesRead(threadID, receiverID uuid.UUID) error
}

// ErrThreadExists is only ever returned by ChatStore implementations; the
// service converts it into a successful lookup of the existing thread.
var ErrThreadExists = errThreadExists{}

type errThreadExists struct{}

func (errThreadExists) Error() string { return "thread already exists for this pair" }

type ChatService struct {
	store ChatStore
}

func NewChatService(store ChatStore) *ChatService {
	return &ChatService{store: store}
}

// GetOrCreateThread returns the unique thread for the unordered pair,
// creating it with display info seeded from both profiles on first contact.
// The pair-key unique index closes the create race: the loser re-reads the
// winner's row.
func (s *ChatService) GetOrCreateThread(userID, recipientID uuid.UUID) (*models.ChatThread, bool, error) {
	if userID == recipientID {
		return nil, false, ErrSelfThread
	}

	user, err := s.store.UserByID(userID)
	if err != nil {
		return nil, false, err
	}
	recipient, err := s.store.UserByID(recipientID)
	if err != nil {
		return nil, false, err
	}

	key := models.ThreadPairKey(userID, recipientID)
	thread, err := s.store.ThreadByPairKey(key)
	if err == nil {
		return thread, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		// only a confirmed miss may fall through to create; a failing
		// lookup must not spawn threads
		return nil, false, err
	}

	first, second := user, recipient
	if second.ID.String() < first.ID.String() {
		first, second = second, first
	}
	thread = &models.ChatThread{
		PairKey:                 key,
		ParticipantOneID:        first.ID,
		ParticipantOneName:      first.FullName,
		ParticipantOneAvatarURL: first.ProfilePictureURL,
		ParticipantTwoID:        second.ID,
		ParticipantTwoName:      second.FullName,
		ParticipantTwoAvatarURL: second.ProfilePictureURL,
	}
	if err := s.store.CreateThread(thread); err != nil {
		if err == ErrThreadExists {
			existing, lookupErr := s.store.ThreadByPairKey(key)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return thread, true, nil
}

// ListThreads returns the caller's threads ordered by last activity.
// Missing participant display info is backfilled from the user directory
// and persisted best-effort.
func (s *ChatService) ListThreads(userID uuid.UUID) ([]models.ChatThread, error) {
	threads, err := s.store.ListThreadsByUser(userID)
	if err != nil {
		return nil, err
	}

	for i := range threads {
		if s.backfillParticipantInfo(&threads[i]) {
			_ = s.store.UpdateParticipantInfo(&threads[i])
		}
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return lastActivity(&threads[i]).After(lastActivity(&threads[j]))
	})
	return threads, nil
}

func lastActivity(t *models.ChatThread) time.Time {
	if t.LastMessageAt != nil {
		return *t.LastMessageAt
	}
	return t.CreatedAt
}

func (s *ChatService) backfillParticipantInfo(thread *models.ChatThread) bool {
	patched := false
	if thread.ParticipantOneName == "" {
		if user, err := s.store.UserByID(thread.ParticipantOneID); err == nil {
			thread.ParticipantOneName = user.FullName
			thread.ParticipantOneAvatarURL = user.ProfilePictureURL
			patched = true
		}
	}
	if thread.ParticipantTwoName == "" {
		if user, err := s.store.UserByID(thread.ParticipantTwoID); err == nil {
			thread.ParticipantTwoName = user.FullName
			thread.ParticipantTwoAvatarURL = user.ProfilePictureURL
			patched = true
		}
	}
	return patched
}

// SendMessage appends a message to the thread and refreshes the thread's
// last-message preview. The receiver is derived as the other participant.
func (s *ChatService) SendMessage(threadID, senderID uuid.UUID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	thread, err := s.store.ThreadByID(threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	msg := &models.ChatMessage{
		ThreadID:   thread.ID,
		SenderID:   senderID,
		ReceiverID: thread.OtherParticipant(senderID),
		Text:       text,
	}
	if err := s.store.AppendMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a page of the thread's messages in ascending
// timestamp order. The sort is applied here so display order never depends
// on how the storage layer happened to return rows.
func (s *ChatService) ListMessages(userID, threadID uuid.UUID, limit, offset int) ([]models.ChatMessage, error) {
	thread, err := s.store.ThreadByID(threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	messages, err := s.store.ListMessages(threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// MarkThreadRead flips the read flag on messages addressed to the caller.
func (s *ChatService) MarkThreadRead(userID, threadID uuid.UUID) error {
	thread, err := s.store.ThreadByID(threadID)
	if err != nil {
		return err
	}
	if !thread.HasParticipant(userID) {
		return ErrNotParticipant
	}
	return s.store.MarkMessagesRead(threadID, userID)
}
