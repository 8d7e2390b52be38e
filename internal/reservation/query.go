package reservation

import (
	"context"
	"errors"
	"slices"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

const reportWindowDays = 30

// GetBooking returns the booking if it belongs to userID. Bookings of other users
// are reported exactly like missing ones.
func (e *Engine) GetBooking(ctx context.Context, bookingID, userID int) (*domain.BookingView, error) {
	view, err := e.bookings.GetView(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, storageFailure(err)
	}

	if view.UserID != userID {
		return nil, domain.ErrBookingNotFound
	}

	slices.SortFunc(view.Seats, domain.SeatLess)

	return view, nil
}

// ListBookings returns the bookings of userID, newest first.
func (e *Engine) ListBookings(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingView, *domain.Metadata, error) {

	views, metadata, err := e.bookings.GetViewsByUserId(ctx, userID, pagination)
	if err != nil {
		return nil, nil, storageFailure(err)
	}

	for i := range views {
		slices.SortFunc(views[i].Seats, domain.SeatLess)
	}

	return views, metadata, nil
}

// SeatMap lists every seat of the session's hall with its current availability.
func (e *Engine) SeatMap(ctx context.Context, sessionID int) (*domain.SessionDetail, []domain.SeatAvailability, error) {
	session, err := e.catalog.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, nil, domain.ErrSessionNotFound
		}

		return nil, nil, storageFailure(err)
	}

	seats, err := e.bookings.GetSeatAvailability(ctx, sessionID)
	if err != nil {
		return nil, nil, storageFailure(err)
	}

	slices.SortFunc(seats, func(a, b domain.SeatAvailability) int {
		return domain.SeatLess(a.Seat, b.Seat)
	})

	return session, seats, nil
}

// Report aggregates active bookings per movie and per day over the last 30 days.
func (e *Engine) Report(ctx context.Context) (*domain.BookingReport, error) {
	since := e.now().AddDate(0, 0, -reportWindowDays)

	report, err := e.bookings.GetReport(ctx, since)
	if err != nil {
		return nil, storageFailure(err)
	}

	report.Since = since

	return report, nil
}
