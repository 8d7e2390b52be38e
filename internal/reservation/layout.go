package reservation

import (
	"context"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

// SeatResolution splits a seat request into seats of the hall and ids that are
// unknown to the hall or repeated in the request.
type SeatResolution struct {
	Requested int
	Valid     []domain.Seat
	Invalid   []int
}

// Err returns an InvalidSeatSelectionError unless every requested id resolved to
// a distinct seat of the hall.
func (r SeatResolution) Err() error {
	if r.Requested == 0 {
		return &domain.InvalidSeatSelectionError{Reason: "no seats selected"}
	}

	if len(r.Invalid) > 0 || len(r.Valid) != r.Requested {
		return &domain.InvalidSeatSelectionError{SeatIDs: r.Invalid}
	}

	return nil
}

// ResolveSeats matches seatIDs against the seats of a hall. The second and later
// occurrences of an id are reported as invalid.
func ResolveSeats(hallSeats []domain.Seat, seatIDs []int) SeatResolution {
	byID := make(map[int]domain.Seat, len(hallSeats))
	for _, seat := range hallSeats {
		byID[seat.ID] = seat
	}

	resolution := SeatResolution{
		Requested: len(seatIDs),
		Valid:     make([]domain.Seat, 0, len(seatIDs)),
	}

	seen := make(map[int]struct{}, len(seatIDs))

	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			resolution.Invalid = append(resolution.Invalid, id)
			continue
		}
		seen[id] = struct{}{}

		seat, ok := byID[id]
		if !ok {
			resolution.Invalid = append(resolution.Invalid, id)
			continue
		}

		resolution.Valid = append(resolution.Valid, seat)
	}

	return resolution
}

// ResolveSeats looks the hall layout up in the catalog and resolves seatIDs against it.
func (e *Engine) ResolveSeats(ctx context.Context, hallID int, seatIDs []int) (SeatResolution, error) {
	hallSeats, err := e.catalog.GetSeatsForHall(ctx, hallID)
	if err != nil {
		return SeatResolution{}, storageFailure(err)
	}

	return ResolveSeats(hallSeats, seatIDs), nil
}
