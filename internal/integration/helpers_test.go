package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/metinatakli/cinema-seat-booking/internal/repository"
	"github.com/metinatakli/cinema-seat-booking/internal/reservation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"updatedAt": {},
	"reference": {},
}

func prepareRequest(
	method, path string,
	body io.Reader,
	headers map[string]string,
	cookies []*http.Cookie) (*http.Request, error) {

	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}

		switch nested := m[k].(type) {
		case map[string]any:
			cleanMap(nested)
		case []any:
			for _, item := range nested {
				if itemMap, ok := item.(map[string]any); ok {
					cleanMap(itemMap)
				}
			}
		}
	}
}

func decodeBody[T any](t testing.TB, body io.Reader) T {
	var v T
	require.NoError(t, json.NewDecoder(body).Decode(&v))
	return v
}

// login authenticates through the API and returns the session cookies it sets.
func (app *TestApp) login(t testing.TB, email, password string) []*http.Cookie {
	body := strings.NewReader(`{"email": "` + email + `", "password": "` + password + `"}`)

	req, err := prepareRequest(http.MethodPost, "/auth/login", body, nil, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.NotEmpty(t, res.Cookies())

	return res.Cookies()
}

func (app *TestApp) authenticatedUserCookies(t testing.TB) []*http.Cookie {
	return app.login(t, TestUserEmail, TestUserPassword)
}

func (app *TestApp) adminCookies(t testing.TB) []*http.Cookie {
	return app.login(t, TestAdminEmail, TestAdminPassword)
}

func truncateAll(t testing.TB, db *pgxpool.Pool) {
	_, err := db.Exec(context.Background(), `
		TRUNCATE booking_seats, bookings, sessions, seats, halls, movies, users RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)
}

func truncateCatalog(t testing.TB, db *pgxpool.Pool) {
	_, err := db.Exec(context.Background(), `
		TRUNCATE booking_seats, bookings, sessions, seats, halls, movies RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err)
}

func truncateBookings(t testing.TB, db *pgxpool.Pool) {
	_, err := db.Exec(context.Background(), `TRUNCATE booking_seats, bookings RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func insertTestUser(t testing.TB, db *pgxpool.Pool, name, email, password string, isAdmin bool) *domain.User {
	user := &domain.User{
		Name:    name,
		Email:   email,
		IsAdmin: isAdmin,
	}
	require.NoError(t, user.Password.Set(password))

	err := repository.NewPostgresUserRepository(db).Create(context.Background(), user)
	require.NoError(t, err)

	return user
}

// insertTestUsers creates the default customer (id 1) and admin (id 2).
func insertTestUsers(t testing.TB, db *pgxpool.Pool) {
	insertTestUser(t, db, TestUserName, TestUserEmail, TestUserPassword, false)
	insertTestUser(t, db, TestAdminName, TestAdminEmail, TestAdminPassword, true)
}

func defaultTestMovie() *domain.Movie {
	return &domain.Movie{
		Title:       TestMovieTitle,
		Description: TestMovieDescription,
		Genre:       TestMovieGenre,
		Duration:    TestMovieDuration,
		PosterUrl:   TestMoviePosterUrl,
		ReleaseDate: TestMovieReleaseDate,
	}
}

func insertTestMovie(t testing.TB, db *pgxpool.Pool, movie *domain.Movie) *domain.Movie {
	err := repository.NewPostgresMovieRepository(db).Create(context.Background(), movie)
	require.NoError(t, err)

	return movie
}

func insertTestHall(t testing.TB, db *pgxpool.Pool, name string, rows, seatsPerRow int) (*domain.Hall, []domain.Seat) {
	hall := &domain.Hall{Name: name}

	seats, err := repository.NewPostgresHallRepository(db).CreateWithSeats(context.Background(), hall, rows, seatsPerRow)
	require.NoError(t, err)

	return hall, seats
}

func insertTestSession(
	t testing.TB,
	db *pgxpool.Pool,
	movieID, hallID int,
	start time.Time,
	price string) *domain.Session {

	scheduler := reservation.NewScheduler(repository.NewPostgresSessionRepository(db))

	session, err := scheduler.CreateSession(context.Background(), reservation.SessionInput{
		MovieID:   movieID,
		HallID:    hallID,
		StartTime: start,
		Price:     decimal.RequireFromString(price),
	})
	require.NoError(t, err)

	return session
}

type catalogFixture struct {
	movie   *domain.Movie
	hall    *domain.Hall
	seats   []domain.Seat
	session *domain.Session
}

// insertTestCatalog creates one movie showing in a 3x4 hall.
func insertTestCatalog(t testing.TB, db *pgxpool.Pool) catalogFixture {
	movie := insertTestMovie(t, db, defaultTestMovie())
	hall, seats := insertTestHall(t, db, TestHallName, TestHallRows, TestHallSeatsPerRow)
	session := insertTestSession(t, db, movie.ID, hall.ID, testSessionStart(), TestSessionPrice)

	return catalogFixture{
		movie:   movie,
		hall:    hall,
		seats:   seats,
		session: session,
	}
}

func countBookings(t testing.TB, db *pgxpool.Pool, status string) int {
	var count int
	err := db.QueryRow(context.Background(), `SELECT COUNT(*) FROM bookings WHERE status = $1`, status).Scan(&count)
	require.NoError(t, err)
	return count
}
