package integration_test

import (
	"time"
)

const (
	// User related constants
	TestUserName      = "John Doe"
	TestUserEmail     = "test@example.com"
	TestUserPassword  = "Test123!@#"
	TestAdminName     = "Jane Admin"
	TestAdminEmail    = "admin@example.com"
	TestAdminPassword = "Admin123!@#"

	// Movie related constants
	TestMovieTitle       = "Test Movie"
	TestMovieDescription = "A test movie description."
	TestMovieGenre       = "Drama"
	TestMovieDuration    = 120
	TestMoviePosterUrl   = "https://example.com/poster.jpg"

	// Hall related constants
	TestHallName        = "Hall 1"
	TestHallRows        = 3
	TestHallSeatsPerRow = 4

	// Session related constants
	TestSessionPrice = "12.50"
)

var (
	TestMovieReleaseDate = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
)

// testSessionStart is far enough ahead to stay outside the cancellation cutoff.
func testSessionStart() time.Time {
	return time.Now().UTC().Add(72 * time.Hour).Truncate(time.Minute)
}
