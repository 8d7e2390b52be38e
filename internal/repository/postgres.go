package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrRecordNotFound
	}

	return err
}

func isUniqueViolation(err error) bool {
	return isPgError(err, pgerrcode.UniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	return isPgError(err, pgerrcode.ForeignKeyViolation)
}

func toDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func toUUID(u pgtype.UUID) uuid.UUID {
	if !u.Valid {
		return uuid.Nil
	}

	return uuid.UUID(u.Bytes)
}

const sessionDetailColumns = `
	s.id, s.movie_id, s.hall_id, s.start_time, s.duration_minutes, s.price, s.created_at,
	m.title, m.poster_url, h.name`

const sessionDetailFrom = `
	FROM sessions s
	JOIN movies m ON m.id = s.movie_id
	JOIN halls h ON h.id = s.hall_id`

func scanSessionDetail(row pgx.Row) (*domain.SessionDetail, error) {
	var (
		detail domain.SessionDetail
		price  pgtype.Numeric
	)

	err := row.Scan(
		&detail.ID,
		&detail.MovieID,
		&detail.HallID,
		&detail.StartTime,
		&detail.DurationMinutes,
		&price,
		&detail.CreatedAt,
		&detail.MovieTitle,
		&detail.MoviePosterUrl,
		&detail.HallName,
	)
	if err != nil {
		return nil, notFound(err)
	}

	detail.Price = toDecimal(price)

	return &detail, nil
}

const sessionColumns = `id, movie_id, hall_id, start_time, duration_minutes, price, created_at`

func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		session domain.Session
		price   pgtype.Numeric
	)

	err := row.Scan(
		&session.ID,
		&session.MovieID,
		&session.HallID,
		&session.StartTime,
		&session.DurationMinutes,
		&price,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	session.Price = toDecimal(price)

	return &session, nil
}

func getSessionDetail(ctx context.Context, q querier, id int) (*domain.SessionDetail, error) {
	query := `SELECT` + sessionDetailColumns + sessionDetailFrom + `
		WHERE s.id = $1`

	return scanSessionDetail(q.QueryRow(ctx, query, id))
}

func getSession(ctx context.Context, q querier, id int) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	return scanSession(q.QueryRow(ctx, query, id))
}

func getSeatsForHall(ctx context.Context, q querier, hallID int) ([]domain.Seat, error) {
	query := `
		SELECT id, hall_id, seat_row, seat_number
		FROM seats
		WHERE hall_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := q.Query(ctx, query, hallID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanSeat)
}

func scanSeat(row pgx.CollectableRow) (domain.Seat, error) {
	var seat domain.Seat

	err := row.Scan(&seat.ID, &seat.HallID, &seat.Row, &seat.SeatNumber)

	return seat, err
}

func getHall(ctx context.Context, q querier, id int, lockClause string) (*domain.Hall, error) {
	query := `SELECT id, name, capacity, created_at FROM halls WHERE id = $1 ` + lockClause

	var hall domain.Hall

	err := q.QueryRow(ctx, query, id).Scan(&hall.ID, &hall.Name, &hall.Capacity, &hall.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	return &hall, nil
}

func getMovie(ctx context.Context, q querier, id int) (*domain.Movie, error) {
	query := `
		SELECT id, title, description, genre, duration, poster_url, release_date, created_at
		FROM movies
		WHERE id = $1
	`

	var movie domain.Movie

	err := q.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genre,
		&movie.Duration,
		&movie.PosterUrl,
		&movie.ReleaseDate,
		&movie.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return &movie, nil
}

// PostgresCatalog serves the read-only catalog lookups of the reservation engine.
type PostgresCatalog struct {
	db *pgxpool.Pool
}

func NewPostgresCatalog(db *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{
		db: db,
	}
}

func (p *PostgresCatalog) GetSession(ctx context.Context, id int) (*domain.SessionDetail, error) {
	return getSessionDetail(ctx, p.db, id)
}

func (p *PostgresCatalog) GetHall(ctx context.Context, id int) (*domain.Hall, error) {
	return getHall(ctx, p.db, id, "")
}

func (p *PostgresCatalog) GetSeatsForHall(ctx context.Context, hallID int) ([]domain.Seat, error) {
	return getSeatsForHall(ctx, p.db, hallID)
}

func (p *PostgresCatalog) GetMovie(ctx context.Context, id int) (*domain.Movie, error) {
	return getMovie(ctx, p.db, id)
}
