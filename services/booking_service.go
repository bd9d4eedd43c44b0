package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
)

// BookingStore is the persistence boundary of the booking workflow.
// CreateRequest must re-check capacity and the active-duplicate rule inside
// one transaction and return ErrSessionFull or ErrAlreadyRequested when the
// re-check fails.
type BookingStore interface {
	SessionByID(id uuid.UUID) (*models.Session, error)
	UserByID(id uuid.UUID) (*models.User, error)
	CountConfirmed(sessionID uuid.UUID) (int64, error)
	ActiveRequestExists(learnerID, sessionID uuid.UUID) (bool, error)
	CreateRequest(req *models.BookingRequest) error
	RequestByID(id uuid.UUID) (*models.BookingRequest, error)
	UpdateRequestStatus(id uuid.UUID, status string) error
	ListByLearner(learnerID uuid.UUID) ([]models.BookingRequest, error)
	ListBySessionAndStatus(sessionID uuid.UUID, status string) ([]models.BookingRequest, error)
	ListByTeacher(teacherID uuid.UUID) ([]models.BookingRequest, error)
}

// BookingView is a booking request plus the freshest session details we
// could get: Session is set when the live row still exists, otherwise the
// embedded snapshot fields are all a reader has.
type BookingView struct {
	models.BookingRequest
	SessionSource string          `json:"session_source"`
	Session       *models.Session `json:"session,omitempty"`
}

const (
	SessionSourceLive     = "live"
	SessionSourceSnapshot = "snapshot"
)

type BookingService struct {
	store BookingStore
	now   func() time.Time
}

func NewBookingService(store BookingStore) *BookingService {
	return &BookingService{store: store, now: time.Now}
}

// RequestBooking creates a pending request for the learner, capturing a
// snapshot of the session's display fields. The pre-checks here mirror what
// the store enforces transactionally, so a request that passes them can
// still fail with ErrSessionFull or ErrAlreadyRequested under contention.
func (s *BookingService) RequestBooking(learnerID, sessionID uuid.UUID) (*models.BookingRequest, error) {
	session, err := s.store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID == learnerID {
		return nil, ErrOwnSession
	}

	if session.MaxParticipants != nil && *session.MaxParticipants > 0 {
		confirmed, err := s.store.CountConfirmed(sessionID)
		if err != nil {
			return nil, err
		}
		if confirmed >= int64(*session.MaxParticipants) {
			return nil, ErrSessionFull
		}
	}

	exists, err := s.store.ActiveRequestExists(learnerID, sessionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRequested
	}

	learner, err := s.store.UserByID(learnerID)
	if err != nil {
		return nil, err
	}

	req := &models.BookingRequest{
		SessionID:            session.ID,
		SessionTitle:         session.Title,
		SessionDateTime:      session.DateTime,
		SessionLocation:      session.Location,
		SessionCoverImageURL: session.CoverImageURL,
		LearnerID:            learner.ID,
		LearnerName:          learner.FullName,
		TeacherID:            session.TeacherID,
		TeacherName:          session.TeacherName,
		Status:               models.BookingStatusPending,
	}
	if err := s.store.CreateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// RespondToBooking lets the teacher confirm or reject a pending request.
// Capacity is deliberately not re-checked here: confirming past
// maxParticipants is teacher discretion.
func (s *BookingService) RespondToBooking(teacherID, requestID uuid.UUID, decision string) (*models.BookingRequest, error) {
	if decision != models.BookingStatusConfirmed && decision != models.BookingStatusRejected {
		return nil, ErrInvalidTransition
	}

	req, err := s.store.RequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.TeacherID != teacherID {
		return nil, ErrForbidden
	}
	if req.Status != models.BookingStatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.store.UpdateRequestStatus(req.ID, decision); err != nil {
		return nil, err
	}
	req.Status = decision
	return req, nil
}

// CancelBooking moves an active request to the cancelled state matching the
// actor's side. Either party may cancel a pending or confirmed request.
func (s *BookingService) CancelBooking(actorID, requestID uuid.UUID) (*models.BookingRequest, error) {
	req, err := s.store.RequestByID(requestID)
	if err != nil {
		return nil, err
	}

	var next string
	switch actorID {
	case req.LearnerID:
		next = models.BookingStatusCancelledByLearner
	case req.TeacherID:
		next = models.BookingStatusCancelledByTeacher
	default:
		return nil, ErrForbidden
	}
	if !req.IsActive() {
		return nil, ErrInvalidTransition
	}

	if err := s.store.UpdateRequestStatus(req.ID, next); err != nil {
		return nil, err
	}
	req.Status = next
	return req, nil
}

// CompleteBooking marks a confirmed request completed, only by the teacher
// and only once the session's scheduled time has passed.
func (s *BookingService) CompleteBooking(teacherID, requestID uuid.UUID) (*models.BookingRequest, error) {
	req, err := s.store.RequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.TeacherID != teacherID {
		return nil, ErrForbidden
	}
	if req.Status != models.BookingStatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if req.SessionDateTime.After(s.now()) {
		return nil, ErrSessionNotEnded
	}

	if err := s.store.UpdateRequestStatus(req.ID, models.BookingStatusCompleted); err != nil {
		return nil, err
	}
	req.Status = models.BookingStatusCompleted
	return req, nil
}

// ListMyBookings returns the learner's requests, each enriched with a live
// re-fetch of the session. A missing session row downgrades the view to the
// snapshot captured at request time.
func (s *BookingService) ListMyBookings(learnerID uuid.UUID) ([]BookingView, error) {
	requests, err := s.store.ListByLearner(learnerID)
	if err != nil {
		return nil, err
	}

	views := make([]BookingView, 0, len(requests))
	for _, req := range requests {
		view := BookingView{BookingRequest: req, SessionSource: SessionSourceSnapshot}
		if session, err := s.store.SessionByID(req.SessionID); err == nil {
			view.Session = session
			view.SessionSource = SessionSourceLive
		}
		views = append(views, view)
	}
	return views, nil
}

// ListConfirmedAttendees is restricted to the session's owning teacher.
func (s *BookingService) ListConfirmedAttendees(teacherID, sessionID uuid.UUID) ([]models.BookingRequest, error) {
	session, err := s.store.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != teacherID {
		return nil, ErrForbidden
	}
	return s.store.ListBySessionAndStatus(sessionID, models.BookingStatusConfirmed)
}

func (s *BookingService) ListTeacherRequests(teacherID uuid.UUID) ([]models.BookingRequest, error) {
	return s.store.ListByTeacher(teacherID)
}

// ConfirmedCount exposes the capacity computation used by the session
// detail view.
func (s *BookingService) ConfirmedCount(sessionID uuid.UUID) (int64, error) {
	return s.store.CountConfirmed(sessionID)
}
