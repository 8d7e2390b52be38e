package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemorySession(t *testing.T) (*MemoryStore, domain.Session, []domain.Seat) {
	t.Helper()

	store := NewMemoryStore()
	movie := store.AddMovie(domain.Movie{Title: "Arrival", Duration: 116})
	hall, seats := store.AddHall("Hall 1", 1, 2)
	session := store.AddSession(domain.Session{
		MovieID:         movie.ID,
		HallID:          hall.ID,
		StartTime:       time.Now().Add(24 * time.Hour),
		DurationMinutes: movie.Duration,
		Price:           decimal.RequireFromString("8.00"),
	})

	return store, session, seats
}

func TestMemorySessionDeleteWaitsForBookingTx(t *testing.T) {
	store, session, seats := seedMemorySession(t)
	ctx := context.Background()

	deleted := make(chan error, 1)

	err := store.Bookings().RunInTx(ctx, func(tx domain.BookingTx) error {
		_, err := tx.LockSession(ctx, session.ID)
		require.NoError(t, err)

		go func() {
			deleted <- store.Sessions().Delete(ctx, session.ID)
		}()

		select {
		case err := <-deleted:
			t.Fatalf("delete returned while the session was locked: %v", err)
		case <-time.After(50 * time.Millisecond):
		}

		booking := &domain.Booking{
			Reference:  uuid.New(),
			SessionID:  session.ID,
			UserID:     1,
			Status:     domain.BookingStatusConfirmed,
			TotalPrice: session.Price,
		}
		if err := tx.CreateBooking(ctx, booking); err != nil {
			return err
		}

		return tx.CreateBookingSeats(ctx, []domain.BookingSeat{
			{BookingID: booking.ID, SessionID: session.ID, SeatID: seats[0].ID},
		})
	})
	require.NoError(t, err)

	assert.ErrorIs(t, <-deleted, domain.ErrSessionHasBookings)

	_, err = store.GetSession(ctx, session.ID)
	assert.NoError(t, err)
}

func TestMemorySessionDelete(t *testing.T) {
	store, session, _ := seedMemorySession(t)
	ctx := context.Background()

	require.NoError(t, store.Sessions().Delete(ctx, session.ID))

	_, err := store.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	assert.ErrorIs(t, store.Sessions().Delete(ctx, session.ID), domain.ErrRecordNotFound)
}
