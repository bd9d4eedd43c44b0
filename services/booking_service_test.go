package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
)

type stubBookingStore struct {
	sessions  map[uuid.UUID]*models.Session
	users     map[uuid.UUID]*models.User
	requests  map[uuid.UUID]*models.BookingRequest
	createErr error
}

func newStubBookingStore() *stubBookingStore {
	return &stubBookingStore{
		sessions: make(map[uuid.UUID]*models.Session),
		users:    make(map[uuid.UUID]*models.User),
		requests: make(map[uuid.UUID]*models.BookingRequest),
	}
}

func (s *stubBookingStore) SessionByID(id uuid.UUID) (*models.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *stubBookingStore) UserByID(id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *stubBookingStore) CountConfirmed(sessionID uuid.UUID) (int64, error) {
	var n int64
	for _, req := range s.requests {
		if req.SessionID == sessionID && req.Status == models.BookingStatusConfirmed {
			n++
		}
	}
	return n, nil
}

func (s *stubBookingStore) ActiveRequestExists(learnerID, sessionID uuid.UUID) (bool, error) {
	for _, req := range s.requests {
		if req.LearnerID == learnerID && req.SessionID == sessionID && req.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubBookingStore) CreateRequest(req *models.BookingRequest) error {
	if s.createErr != nil {
		return s.createErr
	}
	req.ID = uuid.New()
	req.RequestedAt = time.Now()
	s.requests[req.ID] = req
	return nil
}

func (s *stubBookingStore) RequestByID(id uuid.UUID) (*models.BookingRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (s *stubBookingStore) UpdateRequestStatus(id uuid.UUID, status string) error {
	req, ok := s.requests[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = status
	return nil
}

func (s *stubBookingStore) ListByLearner(learnerID uuid.UUID) ([]models.BookingRequest, error) {
	var out []models.BookingRequest
	for _, req := range s.requests {
		if req.LearnerID == learnerID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *stubBookingStore) ListBySessionAndStatus(sessionID uuid.UUID, status string) ([]models.BookingRequest, error) {
	var out []models.BookingRequest
	for _, req := range s.requests {
		if req.SessionID == sessionID && req.Status == status {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (s *stubBookingStore) ListByTeacher(teacherID uuid.UUID) ([]models.BookingRequest, error) {
	var out []models.BookingRequest
	for _, req := range s.requests {
		if req.TeacherID == teacherID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func intPtr(n int) *int { return &n }

func seedBookingFixture(store *stubBookingStore, maxParticipants *int) (teacher, learner *models.User, session *models.Session) {
	teacher = &models.User{ID: uuid.New(), FullName: "Tess Teacher", Role: models.RoleTeacher}
	learner = &models.User{ID: uuid.New(), FullName: "Lee Learner", Role: models.RoleLearner}
	session = &models.Session{
		ID:              uuid.New(),
		Title:           "Sourdough Basics",
		TeacherID:       teacher.ID,
		TeacherName:     teacher.FullName,
		Location:        "Community Kitchen",
		DateTime:        time.Now().Add(48 * time.Hour),
		MaxParticipants: maxParticipants,
		Status:          models.SessionStatusConfirmed,
	}
	store.users[teacher.ID] = teacher
	store.users[learner.ID] = learner
	store.sessions[session.ID] = session
	return teacher, learner, session
}

func TestRequestBookingCreatesPendingWithSnapshot(t *testing.T) {
	store := newStubBookingStore()
	_, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	req, err := svc.RequestBooking(learner.ID, session.ID)
	if err != nil {
		t.Fatalf("RequestBooking failed: %v", err)
	}
	if req.Status != models.BookingStatusPending {
		t.Fatalf("expected pending status, got %s", req.Status)
	}
	if req.SessionTitle != session.Title || req.SessionLocation != session.Location {
		t.Fatalf("snapshot fields not captured: %+v", req)
	}
	if req.LearnerName != learner.FullName || req.TeacherName != session.TeacherName {
		t.Fatalf("participant names not captured: %+v", req)
	}
}

func TestRequestBookingOwnSessionRejected(t *testing.T) {
	store := newStubBookingStore()
	teacher, _, session := seedBookingFixture(store, nil)
	svc := NewBookingService(store)

	if _, err := svc.RequestBooking(teacher.ID, session.ID); !errors.Is(err, ErrOwnSession) {
		t.Fatalf("expected ErrOwnSession, got %v", err)
	}
}

func TestRequestBookingFullSessionRejected(t *testing.T) {
	store := newStubBookingStore()
	_, learner, session := seedBookingFixture(store, intPtr(1))
	other := &models.User{ID: uuid.New(), FullName: "Occupant", Role: models.RoleLearner}
	store.users[other.ID] = other
	store.requests[uuid.New()] = &models.BookingRequest{
		ID:        uuid.New(),
		SessionID: session.ID,
		LearnerID: other.ID,
		TeacherID: session.TeacherID,
		Status:    models.BookingStatusConfirmed,
	}
	svc := NewBookingService(store)

	if _, err := svc.RequestBooking(learner.ID, session.ID); !errors.Is(err, ErrSessionFull) {
		t.Fatalf("expected ErrSessionFull, got %v", err)
	}
}

func TestRequestBookingDuplicateActiveRejected(t *testing.T) {
	store := newStubBookingStore()
	_, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	if _, err := svc.RequestBooking(learner.ID, session.ID); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.RequestBooking(learner.ID, session.ID); !errors.Is(err, ErrAlreadyRequested) {
		t.Fatalf("expected ErrAlreadyRequested, got %v", err)
	}
}

func TestRequestBookingAllowedAfterTerminalRequest(t *testing.T) {
	store := newStubBookingStore()
	_, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	first, err := svc.RequestBooking(learner.ID, session.ID)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.CancelBooking(learner.ID, first.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := svc.RequestBooking(learner.ID, session.ID); err != nil {
		t.Fatalf("re-request after cancellation should succeed, got %v", err)
	}
}

func TestRespondToBookingTransitions(t *testing.T) {
	store := newStubBookingStore()
	teacher, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	req, _ := svc.RequestBooking(learner.ID, session.ID)

	if _, err := svc.RespondToBooking(learner.ID, req.ID, models.BookingStatusConfirmed); !errors.Is(err, ErrForbidden) {
		t.Fatalf("learner responding should be forbidden, got %v", err)
	}
	if _, err := svc.RespondToBooking(teacher.ID, req.ID, "completed"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("responding with a non-decision status should fail, got %v", err)
	}

	confirmed, err := svc.RespondToBooking(teacher.ID, req.ID, models.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}

	if _, err := svc.RespondToBooking(teacher.ID, req.ID, models.BookingStatusRejected); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("responding twice should fail, got %v", err)
	}
}

// Confirming beyond maxParticipants is allowed: the cap gates new requests,
// while the teacher decides how many of the existing ones to accept.
func TestRespondToBookingIgnoresCapacity(t *testing.T) {
	store := newStubBookingStore()
	teacher, learner, session := seedBookingFixture(store, intPtr(1))
	other := &models.User{ID: uuid.New(), FullName: "Occupant", Role: models.RoleLearner}
	store.users[other.ID] = other
	svc := NewBookingService(store)

	req, err := svc.RequestBooking(learner.ID, session.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	store.requests[uuid.New()] = &models.BookingRequest{
		ID:        uuid.New(),
		SessionID: session.ID,
		LearnerID: other.ID,
		TeacherID: teacher.ID,
		Status:    models.BookingStatusConfirmed,
	}

	confirmed, err := svc.RespondToBooking(teacher.ID, req.ID, models.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("confirming a pending request past capacity should succeed, got %v", err)
	}
	if confirmed.Status != models.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}
}

func TestCancelBookingSidesAndGuards(t *testing.T) {
	store := newStubBookingStore()
	teacher, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	req, _ := svc.RequestBooking(learner.ID, session.ID)

	stranger := uuid.New()
	if _, err := svc.CancelBooking(stranger, req.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger cancel should be forbidden, got %v", err)
	}

	cancelled, err := svc.CancelBooking(teacher.ID, req.ID)
	if err != nil {
		t.Fatalf("teacher cancel failed: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelledByTeacher {
		t.Fatalf("expected cancelled_by_teacher, got %s", cancelled.Status)
	}

	if _, err := svc.CancelBooking(learner.ID, req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancelling a terminal request should fail, got %v", err)
	}
}

func TestCompleteBookingOnlyAfterSessionTime(t *testing.T) {
	store := newStubBookingStore()
	teacher, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	req, _ := svc.RequestBooking(learner.ID, session.ID)
	if _, err := svc.RespondToBooking(teacher.ID, req.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if _, err := svc.CompleteBooking(teacher.ID, req.ID); !errors.Is(err, ErrSessionNotEnded) {
		t.Fatalf("completing before session time should fail, got %v", err)
	}

	svc.now = func() time.Time { return session.DateTime.Add(time.Hour) }
	completed, err := svc.CompleteBooking(teacher.ID, req.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.Status != models.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
}

func TestCompleteBookingRequiresConfirmed(t *testing.T) {
	store := newStubBookingStore()
	teacher, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)
	svc.now = func() time.Time { return session.DateTime.Add(time.Hour) }

	req, _ := svc.RequestBooking(learner.ID, session.ID)
	if _, err := svc.CompleteBooking(teacher.ID, req.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completing a pending request should fail, got %v", err)
	}
}

func TestListMyBookingsFallsBackToSnapshot(t *testing.T) {
	store := newStubBookingStore()
	_, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	req, _ := svc.RequestBooking(learner.ID, session.ID)

	views, err := svc.ListMyBookings(learner.ID)
	if err != nil {
		t.Fatalf("ListMyBookings failed: %v", err)
	}
	if len(views) != 1 || views[0].SessionSource != SessionSourceLive || views[0].Session == nil {
		t.Fatalf("expected live session view, got %+v", views)
	}

	delete(store.sessions, session.ID)

	views, err = svc.ListMyBookings(learner.ID)
	if err != nil {
		t.Fatalf("ListMyBookings after delete failed: %v", err)
	}
	if views[0].SessionSource != SessionSourceSnapshot || views[0].Session != nil {
		t.Fatalf("expected snapshot view after session deletion, got %+v", views[0])
	}
	if views[0].SessionTitle != req.SessionTitle {
		t.Fatalf("snapshot title lost: %+v", views[0])
	}
}

func TestListConfirmedAttendeesOwnerOnly(t *testing.T) {
	store := newStubBookingStore()
	teacher, learner, session := seedBookingFixture(store, intPtr(5))
	svc := NewBookingService(store)

	req, _ := svc.RequestBooking(learner.ID, session.ID)
	if _, err := svc.RespondToBooking(teacher.ID, req.ID, models.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if _, err := svc.ListConfirmedAttendees(learner.ID, session.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner listing attendees should be forbidden, got %v", err)
	}

	attendees, err := svc.ListConfirmedAttendees(teacher.ID, session.ID)
	if err != nil {
		t.Fatalf("ListConfirmedAttendees failed: %v", err)
	}
	if len(attendees) != 1 || attendees[0].LearnerID != learner.ID {
		t.Fatalf("unexpected attendees: %+v", attendees)
	}
}
