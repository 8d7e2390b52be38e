package integration_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	otherUserEmail    = "other@example.com"
	otherUserPassword = "Other123!@#"
)

type BookingTestSuite struct {
	BaseSuite
}

func TestBookingSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(BookingTestSuite))
}

func (s *BookingTestSuite) SetupSuite() {
	s.BaseSuite.SetupSuite()

	truncateAll(s.T(), s.app.DB)
	insertTestUsers(s.T(), s.app.DB)
	insertTestUser(s.T(), s.app.DB, "Other User", otherUserEmail, otherUserPassword, false)
}

func (s *BookingTestSuite) SetupTest() {
	truncateCatalog(s.T(), s.app.DB)
	s.app.Mailer.Reset()
}

func (s *BookingTestSuite) TestReserveAndCancel() {
	insertTestCatalog(s.T(), s.app.DB)

	userCookies := s.app.authenticatedUserCookies(s.T())
	otherCookies := s.app.login(s.T(), otherUserEmail, otherUserPassword)

	scenarios := []Scenario{
		{
			Name:             "returns 401 without a session",
			Method:           "POST",
			URL:              "/bookings",
			Body:             strings.NewReader(`{"sessionId": 1, "seatIds": [1]}`),
			ExpectedStatus:   401,
			ExpectedResponse: `{"message": "You must be authenticated to access this resource"}`,
		},
		{
			Name:           "reserves two seats",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"sessionId": 1, "seatIds": [2, 1]}`),
			Cookies:        userCookies,
			ExpectedStatus: 201,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				booking := decodeBody[api.Booking](t, res.Body)

				assert.Equal(t, 1, booking.Id)
				assert.Equal(t, api.Confirmed, booking.Status)
				assert.Equal(t, "25.00", booking.TotalPrice)
				assert.Equal(t, 1, booking.Session.Id)
				require.Len(t, booking.Seats, 2)
				assert.Equal(t, "A1", booking.Seats[0].Label)
				assert.Equal(t, "A2", booking.Seats[1].Label)
				assert.NotEmpty(t, booking.Reference.String())

				require.Eventually(t, func() bool {
					return len(app.Mailer.Sent()) == 1
				}, 5*time.Second, 50*time.Millisecond)

				email := app.Mailer.Sent()[0]
				assert.Equal(t, TestUserEmail, email.Recipient)
				assert.Equal(t, "booking_confirmation.tmpl", email.TemplateFile)
			},
		},
		{
			Name:           "rejects seats that are already booked",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"sessionId": 1, "seatIds": [2, 3]}`),
			Cookies:        otherCookies,
			ExpectedStatus: 400,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeBody[api.ErrorResponse](t, res.Body)

				require.NotNil(t, resp.Kind)
				assert.Equal(t, api.SeatsUnavailable, *resp.Kind)
				require.NotNil(t, resp.ConflictingSeats)
				require.Len(t, *resp.ConflictingSeats, 1)
				assert.Equal(t, "A2", (*resp.ConflictingSeats)[0].Label)
				assert.Equal(t, 1, countBookings(t, app.DB, "confirmed"))
			},
		},
		{
			Name:           "rejects seats of another hall",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"sessionId": 1, "seatIds": [3, 999]}`),
			Cookies:        otherCookies,
			ExpectedStatus: 400,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeBody[api.ErrorResponse](t, res.Body)

				require.NotNil(t, resp.Kind)
				assert.Equal(t, api.InvalidSeatSelection, *resp.Kind)
				require.NotNil(t, resp.InvalidSeatIds)
				assert.Equal(t, []int{999}, *resp.InvalidSeatIds)
			},
		},
		{
			Name:             "returns 404 for an unknown session",
			Method:           "POST",
			URL:              "/bookings",
			Body:             strings.NewReader(`{"sessionId": 77, "seatIds": [3]}`),
			Cookies:          otherCookies,
			ExpectedStatus:   404,
			ExpectedResponse: `{"message": "session not found", "kind": "SessionNotFound"}`,
		},
		{
			Name:           "hides the booking from another user",
			Method:         "GET",
			URL:            "/bookings/1",
			Cookies:        otherCookies,
			ExpectedStatus: 404,
			ExpectedResponse: `{
				"message": "booking not found or does not belong to the user",
				"kind": "NotFoundOrUnauthorized"
			}`,
		},
		{
			Name:           "refuses cancellation by another user",
			Method:         "POST",
			URL:            "/bookings/1/cancel",
			Cookies:        otherCookies,
			ExpectedStatus: 404,
			ExpectedResponse: `{
				"message": "booking not found or does not belong to the user",
				"kind": "NotFoundOrUnauthorized"
			}`,
		},
		{
			Name:           "lists the bookings of the user",
			Method:         "GET",
			URL:            "/bookings",
			Cookies:        userCookies,
			ExpectedStatus: 200,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeBody[api.BookingListResponse](t, res.Body)

				require.Len(t, resp.Bookings, 1)
				assert.Equal(t, 1, resp.Bookings[0].Id)
				assert.Equal(t, 1, resp.Metadata.TotalRecords)
			},
		},
		{
			Name:           "cancels the booking",
			Method:         "POST",
			URL:            "/bookings/1/cancel",
			Cookies:        userCookies,
			ExpectedStatus: 200,
			BeforeTestFunc: func(t testing.TB, app *TestApp) {
				app.Mailer.Reset()
			},
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				booking := decodeBody[api.Booking](t, res.Body)

				assert.Equal(t, api.Cancelled, booking.Status)
				assert.Equal(t, 1, countBookings(t, app.DB, "cancelled"))

				require.Eventually(t, func() bool {
					return len(app.Mailer.Sent()) == 1
				}, 5*time.Second, 50*time.Millisecond)

				assert.Equal(t, "booking_cancelled.tmpl", app.Mailer.Sent()[0].TemplateFile)
			},
		},
		{
			Name:           "rejects a second cancellation",
			Method:         "POST",
			URL:            "/bookings/1/cancel",
			Cookies:        userCookies,
			ExpectedStatus: 400,
			ExpectedResponse: `{
				"message": "booking is already cancelled",
				"kind": "AlreadyCancelled"
			}`,
		},
		{
			Name:           "releases the cancelled seats",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"sessionId": 1, "seatIds": [1, 2]}`),
			Cookies:        otherCookies,
			ExpectedStatus: 201,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *BookingTestSuite) TestCancellationWindowClosed() {
	t := s.T()

	movie := insertTestMovie(t, s.app.DB, defaultTestMovie())
	hall, seats := insertTestHall(t, s.app.DB, TestHallName, 1, 2)
	session := insertTestSession(t, s.app.DB, movie.ID, hall.ID,
		time.Now().UTC().Add(30*time.Minute).Truncate(time.Minute), TestSessionPrice)

	cookies := s.app.authenticatedUserCookies(t)

	scenarios := []Scenario{
		{
			Name:           "reserves a seat shortly before the session",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(fmt.Sprintf(`{"sessionId": %d, "seatIds": [%d]}`, session.ID, seats[0].ID)),
			Cookies:        cookies,
			ExpectedStatus: 201,
		},
		{
			Name:           "refuses cancellation inside the cutoff",
			Method:         "POST",
			URL:            "/bookings/1/cancel",
			Cookies:        cookies,
			ExpectedStatus: 400,
			ExpectedResponse: `{
				"message": "booking can no longer be cancelled",
				"kind": "CancellationWindowClosed"
			}`,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Equal(t, 1, countBookings(t, app.DB, "confirmed"))
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(t, s.app)
	}
}

func (s *BookingTestSuite) TestConcurrentReservationsOfOneSeat() {
	t := s.T()

	insertTestCatalog(t, s.app.DB)

	cookies := s.app.authenticatedUserCookies(t)

	const attempts = 10

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = make(map[int]int)
	)

	for range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
				s.server.URL+"/bookings", strings.NewReader(`{"sessionId": 1, "seatIds": [5, 6]}`))
			if !assert.NoError(t, err) {
				return
			}

			req.Header.Set("Content-Type", "application/json")
			for _, cookie := range cookies {
				req.AddCookie(cookie)
			}

			res, err := s.server.Client().Do(req)
			if !assert.NoError(t, err) {
				return
			}
			defer res.Body.Close()

			mu.Lock()
			statuses[res.StatusCode]++
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, statuses[http.StatusCreated])
	assert.Equal(t, attempts-1, statuses[http.StatusBadRequest])

	var claimed int
	err := s.app.DB.QueryRow(context.Background(), `
		SELECT COUNT(*)
		FROM booking_seats bs
		JOIN bookings b ON b.id = bs.booking_id
		WHERE b.status = 'confirmed' AND bs.session_id = 1
	`).Scan(&claimed)
	require.NoError(t, err)
	assert.Equal(t, 2, claimed)
}

func (s *BookingTestSuite) TestBookingReport() {
	insertTestCatalog(s.T(), s.app.DB)

	userCookies := s.app.authenticatedUserCookies(s.T())
	adminCookies := s.app.adminCookies(s.T())

	scenarios := []Scenario{
		{
			Name:           "reserves three seats",
			Method:         "POST",
			URL:            "/bookings",
			Body:           strings.NewReader(`{"sessionId": 1, "seatIds": [1, 2, 3]}`),
			Cookies:        userCookies,
			ExpectedStatus: 201,
		},
		{
			Name:             "returns 403 for a customer",
			Method:           "GET",
			URL:              "/admin/reports/bookings",
			Cookies:          userCookies,
			ExpectedStatus:   403,
			ExpectedResponse: `{"message": "You do not have permission to access this resource"}`,
		},
		{
			Name:           "aggregates bookings per movie",
			Method:         "GET",
			URL:            "/admin/reports/bookings",
			Cookies:        adminCookies,
			ExpectedStatus: 200,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				report := decodeBody[api.BookingReportResponse](t, res.Body)

				require.Len(t, report.ByMovie, 1)
				assert.Equal(t, api.MovieBookingStats{
					MovieId:    1,
					MovieTitle: TestMovieTitle,
					Bookings:   1,
					Seats:      3,
					Revenue:    "37.50",
				}, report.ByMovie[0])

				require.Len(t, report.ByDay, 1)
				assert.Equal(t, 1, report.ByDay[0].Bookings)
				assert.Equal(t, "37.50", report.ByDay[0].Revenue)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}
