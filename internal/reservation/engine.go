// Package reservation holds the booking rules: which seats a request may claim,
// when sessions may be scheduled in a hall and when a booking may be cancelled.
// All coordination between concurrent requests happens through the store transaction
// handed to it; the package itself keeps no shared mutable state.
package reservation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultCancellationCutoff = time.Hour
	DefaultMaxSeats           = 10
)

type Engine struct {
	bookings domain.BookingRepository
	catalog  domain.CatalogReader
	now      func() time.Time
	cutoff   time.Duration
	maxSeats int
}

type Option func(*Engine)

// WithClock replaces time.Now, mostly for tests around the cancellation window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithCancellationCutoff(cutoff time.Duration) Option {
	return func(e *Engine) {
		e.cutoff = cutoff
	}
}

func WithMaxSeats(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSeats = n
		}
	}
}

func NewEngine(bookings domain.BookingRepository, catalog domain.CatalogReader, opts ...Option) *Engine {
	e := &Engine{
		bookings: bookings,
		catalog:  catalog,
		now:      time.Now,
		cutoff:   DefaultCancellationCutoff,
		maxSeats: DefaultMaxSeats,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Reserve books seatIDs of the given session for userID.
//
// The session row stays locked from the moment it is loaded until the booking and
// its seats are committed, so two requests for the same session run their
// availability check and insert one after the other. Requests for different
// sessions do not wait on each other.
func (e *Engine) Reserve(ctx context.Context, sessionID, userID int, seatIDs []int) (*domain.BookingView, error) {
	var view *domain.BookingView

	err := e.bookings.RunInTx(ctx, func(tx domain.BookingTx) error {
		session, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}

			return err
		}

		if !session.StartTime.After(e.now()) {
			return domain.ErrSessionStarted
		}

		hallSeats, err := tx.GetSeatsForHall(ctx, session.HallID)
		if err != nil {
			return err
		}

		resolution := ResolveSeats(hallSeats, seatIDs)
		if err := resolution.Err(); err != nil {
			return err
		}

		if len(resolution.Valid) > e.maxSeats {
			return &domain.InvalidSeatSelectionError{
				Reason: fmt.Sprintf("at most %d seats can be booked at once", e.maxSeats),
			}
		}

		claimed, err := tx.GetClaimedSeats(ctx, session.ID, seatIDs)
		if err != nil {
			return err
		}

		if len(claimed) > 0 {
			slices.SortFunc(claimed, domain.SeatLess)
			return &domain.SeatsUnavailableError{Seats: claimed}
		}

		booking := domain.Booking{
			Reference:  uuid.New(),
			SessionID:  session.ID,
			UserID:     userID,
			Status:     domain.BookingStatusConfirmed,
			TotalPrice: TotalPrice(session.Price, len(resolution.Valid)),
		}

		err = tx.CreateBooking(ctx, &booking)
		if err != nil {
			return err
		}

		seats := slices.Clone(resolution.Valid)
		slices.SortFunc(seats, domain.SeatLess)

		claims := make([]domain.BookingSeat, len(seats))
		for i, seat := range seats {
			claims[i] = domain.BookingSeat{
				BookingID: booking.ID,
				SessionID: session.ID,
				SeatID:    seat.ID,
			}
		}

		err = tx.CreateBookingSeats(ctx, claims)
		if err != nil {
			if errors.Is(err, domain.ErrUniqueViolation) {
				return &domain.SeatsUnavailableError{Seats: seats}
			}

			return err
		}

		view = &domain.BookingView{
			Booking: booking,
			Session: *session,
			Seats:   seats,
		}

		return nil
	})
	if err != nil {
		return nil, storageFailure(err)
	}

	return view, nil
}

// TotalPrice is the flat session price multiplied by the number of seats.
func TotalPrice(price decimal.Decimal, seats int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(seats)))
}

var ruleErrors = []error{
	domain.ErrSessionNotFound,
	domain.ErrMovieNotFound,
	domain.ErrHallNotFound,
	domain.ErrBookingNotFound,
	domain.ErrInvalidSeatSelection,
	domain.ErrSeatsUnavailable,
	domain.ErrSessionStarted,
	domain.ErrSchedulingConflict,
	domain.ErrAlreadyCancelled,
	domain.ErrCancellationWindowClosed,
	domain.ErrSessionHasBookings,
	domain.ErrHallHasSessions,
	domain.ErrMovieHasSessions,
	domain.ErrStorageFailure,
}

// storageFailure marks errors that did not come from a booking rule as
// ErrStorageFailure while keeping the cause for logs.
func storageFailure(err error) error {
	if err == nil {
		return nil
	}

	for _, target := range ruleErrors {
		if errors.Is(err, target) {
			return err
		}
	}

	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}
