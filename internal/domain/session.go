package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Session struct {
	ID              int
	MovieID         int
	HallID          int
	StartTime       time.Time
	DurationMinutes int
	Price           decimal.Decimal
	CreatedAt       time.Time
}

func (s Session) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

func (s Session) EndTime() time.Time {
	return s.StartTime.Add(s.Duration())
}

// Overlaps reports whether the session shares any instant with [start, start+d).
func (s Session) Overlaps(start time.Time, d time.Duration) bool {
	return IntervalsOverlap(s.StartTime, s.Duration(), start, d)
}

// IntervalsOverlap treats both intervals as half-open: [s1, s1+d1) and [s2, s2+d2).
// Back-to-back intervals do not overlap.
func IntervalsOverlap(s1 time.Time, d1 time.Duration, s2 time.Time, d2 time.Duration) bool {
	return s1.Before(s2.Add(d2)) && s2.Before(s1.Add(d1))
}

// SessionDetail is a session joined with the names shown next to it.
type SessionDetail struct {
	Session
	MovieTitle     string
	MoviePosterUrl string
	HallName       string
}

type SeatAvailability struct {
	Seat
	Available bool
}

type SessionFilters struct {
	MovieID int
	Day     time.Time
}

type SessionTx interface {
	LockHall(ctx context.Context, hallID int) (*Hall, error)
	GetMovie(ctx context.Context, movieID int) (*Movie, error)
	GetSessionForUpdate(ctx context.Context, sessionID int) (*Session, error)
	FindOverlapping(ctx context.Context, hallID int, start, end time.Time, excludeSessionID int) ([]Session, error)
	CountActiveBookings(ctx context.Context, sessionID int) (int, error)
	CreateSession(ctx context.Context, session *Session) error
	UpdateSession(ctx context.Context, session *Session) error
}

type SessionRepository interface {
	RunInTx(ctx context.Context, fn func(tx SessionTx) error) error
	GetById(ctx context.Context, id int) (*SessionDetail, error)
	GetAll(ctx context.Context, filters SessionFilters) ([]SessionDetail, error)
	Delete(ctx context.Context, id int) error
}
