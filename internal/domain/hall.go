package domain

import (
	"context"
	"fmt"
	"time"
)

type Hall struct {
	ID        int
	Name      string
	Capacity  int
	CreatedAt time.Time
}

type Seat struct {
	ID         int
	HallID     int
	Row        int
	SeatNumber int
}

// Label renders the seat the way it is printed on a ticket, e.g. "A1" or "AB12".
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", RowName(s.Row), s.SeatNumber)
}

// RowName converts a 1-based row index into spreadsheet style letters: 1 -> A, 27 -> AA.
func RowName(row int) string {
	if row <= 0 {
		return "?"
	}

	var name []byte
	for row > 0 {
		row--
		name = append([]byte{byte('A' + row%26)}, name...)
		row /= 26
	}

	return string(name)
}

// SeatLess orders seats by row, then seat number.
func SeatLess(a, b Seat) int {
	if a.Row != b.Row {
		return a.Row - b.Row
	}

	return a.SeatNumber - b.SeatNumber
}

// GenerateSeats builds the layout of a hall with the given number of rows and seats per row.
func GenerateSeats(hallID, rows, seatsPerRow int) []Seat {
	seats := make([]Seat, 0, rows*seatsPerRow)

	for row := 1; row <= rows; row++ {
		for number := 1; number <= seatsPerRow; number++ {
			seats = append(seats, Seat{HallID: hallID, Row: row, SeatNumber: number})
		}
	}

	return seats
}

type HallRepository interface {
	GetAll(ctx context.Context) ([]Hall, error)
	GetById(ctx context.Context, id int) (*Hall, error)
	GetSeats(ctx context.Context, hallID int) ([]Seat, error)
	CreateWithSeats(ctx context.Context, hall *Hall, rows, seatsPerRow int) ([]Seat, error)
	Rename(ctx context.Context, id int, name string) (*Hall, error)
	Delete(ctx context.Context, id int) error
}
