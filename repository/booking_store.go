package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormBookingStore struct {
	db *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

func (s *GormBookingStore) SessionByID(id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *GormBookingStore) UserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormBookingStore) CountConfirmed(sessionID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.BookingRequest{}).
		Where("session_id = ? AND status = ?", sessionID, models.BookingStatusConfirmed).
		Count(&count).Error
	return count, err
}

func (s *GormBookingStore) ActiveRequestExists(learnerID, sessionID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.BookingRequest{}).
		Where("learner_id = ? AND session_id = ? AND status IN ?",
			learnerID, sessionID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&count).Error
	return count > 0, err
}

// CreateRequest inserts the request inside a transaction that locks the
// session row, so the capacity count and the active-duplicate check are
// serialized against concurrent requests for the same session.
func (s *GormBookingStore) CreateRequest(req *models.BookingRequest) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&session, "id = ?", req.SessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrNotFound
			}
			return err
		}

		if session.MaxParticipants != nil && *session.MaxParticipants > 0 {
			var confirmed int64
			if err := tx.Model(&models.BookingRequest{}).
				Where("session_id = ? AND status = ?", session.ID, models.BookingStatusConfirmed).
				Count(&confirmed).Error; err != nil {
				return err
			}
			if confirmed >= int64(*session.MaxParticipants) {
				return services.ErrSessionFull
			}
		}

		var active int64
		if err := tx.Model(&models.BookingRequest{}).
			Where("learner_id = ? AND session_id = ? AND status IN ?",
				req.LearnerID, session.ID,
				[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return services.ErrAlreadyRequested
		}

		return tx.Create(req).Error
	})
}

func (s *GormBookingStore) RequestByID(id uuid.UUID) (*models.BookingRequest, error) {
	var req models.BookingRequest
	if err := s.db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (s *GormBookingStore) UpdateRequestStatus(id uuid.UUID, status string) error {
	return s.db.Model(&models.BookingRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s *GormBookingStore) ListByLearner(learnerID uuid.UUID) ([]models.BookingRequest, error) {
	var requests []models.BookingRequest
	err := s.db.
		Where("learner_id = ?", learnerID).
		Order("requested_at desc").
		Find(&requests).Error
	return requests, err
}

func (s *GormBookingStore) ListBySessionAndStatus(sessionID uuid.UUID, status string) ([]models.BookingRequest, error) {
	var requests []models.BookingRequest
	err := s.db.
		Where("session_id = ? AND status = ?", sessionID, status).
		Order("requested_at asc").
		Find(&requests).Error
	return requests, err
}

func (s *GormBookingStore) ListByTeacher(teacherID uuid.UUID) ([]models.BookingRequest, error) {
	var requests []models.BookingRequest
	err := s.db.
		Where("teacher_id = ?", teacherID).
		Order("requested_at desc").
		Find(&requests).Error
	return requests, err
}

var _ services.BookingStore = (*GormBookingStore)(nil)
