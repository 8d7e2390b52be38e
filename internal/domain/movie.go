package domain

import (
	"context"
	"time"
)

type Movie struct {
	ID          int
	Title       string
	Description string
	Genre       string
	Duration    int
	PosterUrl   string
	ReleaseDate time.Time
	CreatedAt   time.Time
}

type MovieFilters struct {
	Pagination
	Genre string
}

type MovieRepository interface {
	GetAll(ctx context.Context, filters MovieFilters) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
}

// CatalogReader is the read side of the catalog the reservation engine relies on.
// Every call returns a snapshot; nothing is assumed to stay stable between calls.
type CatalogReader interface {
	GetSession(ctx context.Context, id int) (*SessionDetail, error)
	GetHall(ctx context.Context, id int) (*Hall, error)
	GetSeatsForHall(ctx context.Context, hallID int) ([]Seat, error)
	GetMovie(ctx context.Context, id int) (*Movie, error)
}
