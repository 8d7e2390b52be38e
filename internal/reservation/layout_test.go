package reservation

import (
	"testing"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveSeats(t *testing.T) {
	hall := []domain.Seat{
		{ID: 1, Row: 1, SeatNumber: 1},
		{ID: 2, Row: 1, SeatNumber: 2},
		{ID: 3, Row: 2, SeatNumber: 1},
	}

	tests := []struct {
		name        string
		seatIDs     []int
		wantValid   int
		wantInvalid []int
		wantErr     bool
	}{
		{name: "all seats valid", seatIDs: []int{3, 1}, wantValid: 2},
		{name: "repeated id", seatIDs: []int{1, 2, 1}, wantValid: 2, wantInvalid: []int{1}, wantErr: true},
		{name: "unknown id", seatIDs: []int{4}, wantInvalid: []int{4}, wantErr: true},
		{name: "nothing requested", seatIDs: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolution := ResolveSeats(hall, tt.seatIDs)

			assert.Len(t, resolution.Valid, tt.wantValid)
			assert.Equal(t, tt.wantInvalid, resolution.Invalid)

			err := resolution.Err()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidSeatSelection)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
