package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/services"
)

// fakeBookingStore returns canned results so handler tests can drive the
// service into each error branch without a database.
type fakeBookingStore struct {
	session    *models.Session
	sessionErr error
	user       *models.User
	confirmed  int64
	hasActive  bool
	request    *models.BookingRequest
	requestErr error
	byLearner  []models.BookingRequest
}

func (f *fakeBookingStore) SessionByID(id uuid.UUID) (*models.Session, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeBookingStore) UserByID(id uuid.UUID) (*models.User, error) { return f.user, nil }

func (f *fakeBookingStore) CountConfirmed(sessionID uuid.UUID) (int64, error) {
	return f.confirmed, nil
}

func (f *fakeBookingStore) ActiveRequestExists(learnerID, sessionID uuid.UUID) (bool, error) {
	return f.hasActive, nil
}

func (f *fakeBookingStore) CreateRequest(req *models.BookingRequest) error {
	req.ID = uuid.New()
	return nil
}

func (f *fakeBookingStore) RequestByID(id uuid.UUID) (*models.BookingRequest, error) {
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return f.request, nil
}

func (f *fakeBookingStore) UpdateRequestStatus(id uuid.UUID, status string) error { return nil }

func (f *fakeBookingStore) ListByLearner(learnerID uuid.UUID) ([]models.BookingRequest, error) {
	return f.byLearner, nil
}

func (f *fakeBookingStore) ListBySessionAndStatus(sessionID uuid.UUID, status string) ([]models.BookingRequest, error) {
	return nil, nil
}

func (f *fakeBookingStore) ListByTeacher(teacherID uuid.UUID) ([]models.BookingRequest, error) {
	return nil, nil
}

// injectUser stands in for the JWT middleware, placing a parsed token in
// locals the way Protected() does.
func injectUser(userID uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": userID.String(),
			"role":    role,
		})
		c.Locals("user", token)
		return c.Next()
	}
}

func newBookingTestApp(store *fakeBookingStore, userID uuid.UUID, role string) *fiber.App {
	handler := NewBookingHandler(services.NewBookingService(store))
	app := fiber.New()
	app.Use(injectUser(userID, role))
	app.Post("/bookings", handler.RequestBooking)
	app.Get("/bookings/my", handler.GetMyBookings)
	app.Patch("/bookings/:requestId/respond", handler.RespondToBooking)
	return app
}

func TestRequestBookingHandlerRejectsBadBody(t *testing.T) {
	app := newBookingTestApp(&fakeBookingStore{}, uuid.New(), "learner")

	req := httptest.NewRequest("POST", "/bookings", strings.NewReader(`{"session_id":"not-a-uuid"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for invalid session id, got %d", resp.StatusCode)
	}
}

func TestRequestBookingHandlerOwnSessionForbiddenMapsTo400(t *testing.T) {
	learnerID := uuid.New()
	store := &fakeBookingStore{
		session: &models.Session{ID: uuid.New(), TeacherID: learnerID},
	}
	app := newBookingTestApp(store, learnerID, "learner")

	req := httptest.NewRequest("POST", "/bookings",
		strings.NewReader(`{"session_id":"`+store.session.ID.String()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for booking own session, got %d", resp.StatusCode)
	}
}

func TestRequestBookingHandlerMissingSessionMapsTo404(t *testing.T) {
	store := &fakeBookingStore{sessionErr: services.ErrNotFound}
	app := newBookingTestApp(store, uuid.New(), "learner")

	req := httptest.NewRequest("POST", "/bookings",
		strings.NewReader(`{"session_id":"`+uuid.New().String()+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp.StatusCode)
	}
}

func TestRespondBookingHandlerForeignRequestMapsTo403(t *testing.T) {
	teacherID := uuid.New()
	store := &fakeBookingStore{
		request: &models.BookingRequest{
			ID:        uuid.New(),
			TeacherID: uuid.New(), // someone else's session
			Status:    models.BookingStatusPending,
		},
	}
	app := newBookingTestApp(store, teacherID, "teacher")

	req := httptest.NewRequest("PATCH", "/bookings/"+store.request.ID.String()+"/respond",
		strings.NewReader(`{"decision":"confirmed"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for another teacher's request, got %d", resp.StatusCode)
	}
}

func TestRespondBookingHandlerRejectsUnknownDecision(t *testing.T) {
	app := newBookingTestApp(&fakeBookingStore{}, uuid.New(), "teacher")

	req := httptest.NewRequest("PATCH", "/bookings/"+uuid.New().String()+"/respond",
		strings.NewReader(`{"decision":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown decision, got %d", resp.StatusCode)
	}
}

func TestGetMyBookingsHandlerReturnsViews(t *testing.T) {
	learnerID := uuid.New()
	store := &fakeBookingStore{
		sessionErr: services.ErrNotFound, // live session gone, snapshot only
		byLearner: []models.BookingRequest{{
			ID:              uuid.New(),
			SessionID:       uuid.New(),
			SessionTitle:    "Sourdough Basics",
			SessionDateTime: time.Now().Add(24 * time.Hour),
			LearnerID:       learnerID,
			Status:          models.BookingStatusPending,
		}},
	}
	app := newBookingTestApp(store, learnerID, "learner")

	resp, err := app.Test(httptest.NewRequest("GET", "/bookings/my", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
