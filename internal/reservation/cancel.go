package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

// Cancel moves a confirmed booking of userID to cancelled. Its seats become
// bookable again right away since availability only counts active bookings.
func (e *Engine) Cancel(ctx context.Context, bookingID, userID int) (*domain.Booking, error) {
	var cancelled *domain.Booking

	err := e.bookings.RunInTx(ctx, func(tx domain.BookingTx) error {
		booking, err := tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrBookingNotFound
			}

			return err
		}

		if booking.UserID != userID {
			return domain.ErrBookingNotFound
		}

		if !booking.IsActive() {
			return domain.ErrAlreadyCancelled
		}

		session, err := tx.GetSession(ctx, booking.SessionID)
		if err != nil {
			return err
		}

		if !e.CanCancel(session.StartTime) {
			return domain.ErrCancellationWindowClosed
		}

		booking.Status = domain.BookingStatusCancelled

		err = tx.UpdateBookingStatus(ctx, booking)
		if err != nil {
			return err
		}

		cancelled = booking

		return nil
	})
	if err != nil {
		return nil, storageFailure(err)
	}

	return cancelled, nil
}

// CanCancel reports whether a booking for a session starting at start may still
// be cancelled. The cutoff itself is already too late.
func (e *Engine) CanCancel(start time.Time) bool {
	return start.Add(-e.cutoff).After(e.now())
}
