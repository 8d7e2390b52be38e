package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID         int
	Reference  uuid.UUID
	SessionID  int
	UserID     int
	Status     BookingStatus
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// BookingSeat is a single seat claimed by a booking.
type BookingSeat struct {
	BookingID int
	SessionID int
	SeatID    int
}

// BookingView is a booking joined with everything a ticket shows.
type BookingView struct {
	Booking
	Session SessionDetail
	Seats   []Seat
}

type MovieBookingStats struct {
	MovieID      int
	MovieTitle   string
	BookingCount int
	SeatCount    int
	Revenue      decimal.Decimal
}

type DailyBookingStats struct {
	Day          time.Time
	BookingCount int
	Revenue      decimal.Decimal
}

type BookingReport struct {
	Since   time.Time
	ByMovie []MovieBookingStats
	ByDay   []DailyBookingStats
}

// BookingTx is the unit of work the reservation engine runs its reservation
// and cancellation steps in. Implementations must hold the session lock taken by
// LockSession until the transaction ends.
type BookingTx interface {
	LockSession(ctx context.Context, sessionID int) (*SessionDetail, error)
	GetSeatsForHall(ctx context.Context, hallID int) ([]Seat, error)
	GetClaimedSeats(ctx context.Context, sessionID int, seatIDs []int) ([]Seat, error)
	CreateBooking(ctx context.Context, booking *Booking) error
	CreateBookingSeats(ctx context.Context, seats []BookingSeat) error
	GetBookingForUpdate(ctx context.Context, bookingID int) (*Booking, error)
	GetSession(ctx context.Context, sessionID int) (*Session, error)
	UpdateBookingStatus(ctx context.Context, booking *Booking) error
}

type BookingRepository interface {
	RunInTx(ctx context.Context, fn func(tx BookingTx) error) error
	GetView(ctx context.Context, bookingID int) (*BookingView, error)
	GetViewsByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingView, *Metadata, error)
	GetReport(ctx context.Context, since time.Time) (*BookingReport, error)
	GetSeatAvailability(ctx context.Context, sessionID int) ([]SeatAvailability, error)
}
