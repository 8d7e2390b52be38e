package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

type PostgresHallRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHallRepository(db *pgxpool.Pool) *PostgresHallRepository {
	return &PostgresHallRepository{
		db: db,
	}
}

func (p *PostgresHallRepository) GetAll(ctx context.Context) ([]domain.Hall, error) {
	query := `SELECT id, name, capacity, created_at FROM halls ORDER BY id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Hall, error) {
		var hall domain.Hall

		err := row.Scan(&hall.ID, &hall.Name, &hall.Capacity, &hall.CreatedAt)

		return hall, err
	})
}

func (p *PostgresHallRepository) GetById(ctx context.Context, id int) (*domain.Hall, error) {
	return getHall(ctx, p.db, id, "")
}

func (p *PostgresHallRepository) GetSeats(ctx context.Context, hallID int) ([]domain.Seat, error) {
	return getSeatsForHall(ctx, p.db, hallID)
}

// CreateWithSeats inserts the hall and its full seat grid in one transaction.
func (p *PostgresHallRepository) CreateWithSeats(
	ctx context.Context,
	hall *domain.Hall,
	rows, seatsPerRow int) ([]domain.Seat, error) {

	var seats []domain.Seat

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		hall.Capacity = rows * seatsPerRow

		query := `
			INSERT INTO halls (name, capacity)
			VALUES ($1, $2)
			RETURNING id, created_at
		`

		err := tx.QueryRow(ctx, query, hall.Name, hall.Capacity).Scan(&hall.ID, &hall.CreatedAt)
		if err != nil {
			return err
		}

		layout := domain.GenerateSeats(hall.ID, rows, seatsPerRow)

		copyRows := make([][]any, 0, len(layout))
		for _, seat := range layout {
			copyRows = append(copyRows, []any{seat.HallID, seat.Row, seat.SeatNumber})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"seats"},
			[]string{"hall_id", "seat_row", "seat_number"},
			pgx.CopyFromRows(copyRows),
		)
		if err != nil {
			return err
		}

		seats, err = getSeatsForHall(ctx, tx, hall.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return seats, nil
}

// Rename changes the display name only. The seat grid is fixed at creation.
func (p *PostgresHallRepository) Rename(ctx context.Context, id int, name string) (*domain.Hall, error) {
	query := `
		UPDATE halls
		SET name = $1
		WHERE id = $2
		RETURNING id, name, capacity, created_at
	`

	var hall domain.Hall

	err := p.db.QueryRow(ctx, query, name, id).Scan(&hall.ID, &hall.Name, &hall.Capacity, &hall.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	return &hall, nil
}

// Delete removes a hall and its seats. Halls that ever had a session are kept.
func (p *PostgresHallRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM halls WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHallHasSessions
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
