package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrStorageFailure    = errors.New("storage failure")

	ErrSessionNotFound          = errors.New("session not found")
	ErrMovieNotFound            = errors.New("movie not found")
	ErrHallNotFound             = errors.New("hall not found")
	ErrBookingNotFound          = errors.New("booking not found or does not belong to the user")
	ErrInvalidSeatSelection     = errors.New("invalid seat selection")
	ErrSeatsUnavailable         = errors.New("some of the selected seats are already booked")
	ErrSessionStarted           = errors.New("session has already started")
	ErrSchedulingConflict       = errors.New("session overlaps another session in the same hall")
	ErrAlreadyCancelled         = errors.New("booking is already cancelled")
	ErrCancellationWindowClosed = errors.New("booking can no longer be cancelled")
	ErrSessionHasBookings       = errors.New("session has bookings")
	ErrHallHasSessions          = errors.New("hall has sessions")
	ErrMovieHasSessions         = errors.New("movie has sessions")
	ErrUniqueViolation          = errors.New("unique constraint violation")
)

// InvalidSeatSelectionError lists the requested seat ids that are unknown to the hall
// or repeated in the request.
type InvalidSeatSelectionError struct {
	SeatIDs []int
	Reason  string
}

func (e *InvalidSeatSelectionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrInvalidSeatSelection, e.Reason)
	}

	return fmt.Sprintf("%s: %v", ErrInvalidSeatSelection, e.SeatIDs)
}

func (e *InvalidSeatSelectionError) Unwrap() error {
	return ErrInvalidSeatSelection
}

// SeatsUnavailableError carries the seats already claimed by an active booking.
type SeatsUnavailableError struct {
	Seats []Seat
}

func (e *SeatsUnavailableError) Error() string {
	labels := make([]string, len(e.Seats))
	for i, seat := range e.Seats {
		labels[i] = seat.Label()
	}

	return fmt.Sprintf("%s: %s", ErrSeatsUnavailable, strings.Join(labels, ", "))
}

func (e *SeatsUnavailableError) Unwrap() error {
	return ErrSeatsUnavailable
}

// SchedulingConflictError names the existing session that overlaps the proposed one.
type SchedulingConflictError struct {
	SessionID int
	StartTime time.Time
	EndTime   time.Time
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf("%s: session %d runs from %s to %s",
		ErrSchedulingConflict,
		e.SessionID,
		e.StartTime.Format(time.RFC3339),
		e.EndTime.Format(time.RFC3339))
}

func (e *SchedulingConflictError) Unwrap() error {
	return ErrSchedulingConflict
}
