package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/metinatakli/cinema-seat-booking/internal/mailer"
	"github.com/metinatakli/cinema-seat-booking/internal/mocks"
	"github.com/metinatakli/cinema-seat-booking/internal/repository"
	"github.com/metinatakli/cinema-seat-booking/internal/reservation"
	"github.com/metinatakli/cinema-seat-booking/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type testApplication struct {
	*Application
	store    *repository.MemoryStore
	users    *mocks.MockUserRepo
	movies   *mocks.MockMovieRepo
	halls    *mocks.MockHallRepo
	mailer   *mailer.MockMailer
	sessions *scs.SessionManager
}

// newTestApplication wires the handlers to an in-memory booking store and
// testify mocks for the catalog and user repositories.
func newTestApplication(opts ...func(*Application)) *testApplication {
	store := repository.NewMemoryStore()

	ta := &testApplication{
		store:    store,
		users:    &mocks.MockUserRepo{},
		movies:   &mocks.MockMovieRepo{},
		halls:    &mocks.MockHallRepo{},
		mailer:   mailer.NewMockMailer(),
		sessions: scs.New(),
	}

	ta.Application = NewApp(
		Config{
			Env: "test",
			Booking: BookingConfig{
				CancellationCutoff: reservation.DefaultCancellationCutoff,
				MaxSeats:           reservation.DefaultMaxSeats,
			},
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
		nil,
		validator.NewValidator(),
		ta.mailer,
		ta.sessions,
		ta.users,
		ta.movies,
		ta.halls,
		store.Sessions(),
		store.Bookings(),
		store,
	)

	for _, opt := range opts {
		opt(ta.Application)
	}

	return ta
}

// seedSession stores a movie, a rows x seatsPerRow hall and a session of that
// movie starting at start.
func (ta *testApplication) seedSession(start time.Time, price string, rows, seatsPerRow int) (domain.Session, []domain.Seat) {
	movie := ta.store.AddMovie(domain.Movie{Title: "Inception", Duration: 120})
	hall, seats := ta.store.AddHall("Hall 1", rows, seatsPerRow)

	session := ta.store.AddSession(domain.Session{
		MovieID:         movie.ID,
		HallID:          hall.ID,
		StartTime:       start,
		DurationMinutes: movie.Duration,
		Price:           decimal.RequireFromString(price),
	})

	return session, seats
}

// sessionCookie commits a session holding the given user and returns its cookie.
func (ta *testApplication) sessionCookie(t *testing.T, userId int, isAdmin bool) *http.Cookie {
	ctx, err := ta.sessions.Load(context.Background(), "")
	require.NoError(t, err)

	ta.sessions.Put(ctx, SessionKeyUserId.String(), userId)
	ta.sessions.Put(ctx, SessionKeyIsAdmin.String(), isAdmin)

	token, _, err := ta.sessions.Commit(ctx)
	require.NoError(t, err)

	return &http.Cookie{Name: ta.sessions.Cookie.Name, Value: token}
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader = http.NoBody

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withUser puts the user into the request context the way requireAuthentication does.
func withUser(r *http.Request, userId int, isAdmin bool) *http.Request {
	ctx := context.WithValue(r.Context(), SessionKeyUserId, userId)
	ctx = context.WithValue(ctx, SessionKeyIsAdmin, isAdmin)

	return r.WithContext(ctx)
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err, "failed to decode response")

	return resp
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	if tt.wantErrMessage == "" {
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if _, ok := raw["validationErrors"]; ok {
		var validationResp api.ValidationErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

		return
	}

	var errorResp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Message != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
	}
}

// waitForBackground blocks until every mail goroutine started by a handler is done.
func (ta *testApplication) waitForBackground() {
	ta.wg.Wait()
}
