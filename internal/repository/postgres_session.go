package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

type PostgresSessionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSessionRepository(db *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{
		db: db,
	}
}

func (p *PostgresSessionRepository) RunInTx(ctx context.Context, fn func(tx domain.SessionTx) error) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		return fn(&pgSessionTx{tx: tx})
	})
}

func (p *PostgresSessionRepository) GetById(ctx context.Context, id int) (*domain.SessionDetail, error) {
	return getSessionDetail(ctx, p.db, id)
}

func (p *PostgresSessionRepository) GetAll(ctx context.Context, filters domain.SessionFilters) ([]domain.SessionDetail, error) {
	var day *time.Time
	if !filters.Day.IsZero() {
		start := filters.Day.Truncate(24 * time.Hour)
		day = &start
	}

	query := `SELECT` + sessionDetailColumns + sessionDetailFrom + `
		WHERE ($1 = 0 OR s.movie_id = $1)
			AND ($2::timestamptz IS NULL OR (s.start_time >= $2 AND s.start_time < $2 + INTERVAL '1 day'))
		ORDER BY s.start_time, s.id`

	rows, err := p.db.Query(ctx, query, filters.MovieID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.SessionDetail, 0)

	for rows.Next() {
		detail, err := scanSessionDetail(rows)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, *detail)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session that no booking ever referenced.
func (p *PostgresSessionRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSessionHasBookings
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

type pgSessionTx struct {
	tx pgx.Tx
}

func (t *pgSessionTx) LockHall(ctx context.Context, hallID int) (*domain.Hall, error) {
	return getHall(ctx, t.tx, hallID, "FOR NO KEY UPDATE")
}

func (t *pgSessionTx) GetMovie(ctx context.Context, movieID int) (*domain.Movie, error) {
	return getMovie(ctx, t.tx, movieID)
}

func (t *pgSessionTx) GetSessionForUpdate(ctx context.Context, sessionID int) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR NO KEY UPDATE`

	return scanSession(t.tx.QueryRow(ctx, query, sessionID))
}

func (t *pgSessionTx) FindOverlapping(
	ctx context.Context,
	hallID int,
	start, end time.Time,
	excludeSessionID int) ([]domain.Session, error) {

	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE hall_id = $1
			AND id <> $4
			AND start_time < $3
			AND start_time + make_interval(mins => duration_minutes) > $2
		ORDER BY start_time`

	rows, err := t.tx.Query(ctx, query, hallID, start, end, excludeSessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)

	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}

		sessions = append(sessions, *session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (t *pgSessionTx) CountActiveBookings(ctx context.Context, sessionID int) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE session_id = $1 AND status <> 'cancelled'`

	var count int

	err := t.tx.QueryRow(ctx, query, sessionID).Scan(&count)

	return count, err
}

func (t *pgSessionTx) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (movie_id, hall_id, start_time, duration_minutes, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return t.tx.QueryRow(
		ctx,
		query,
		session.MovieID,
		session.HallID,
		session.StartTime,
		session.DurationMinutes,
		session.Price).Scan(&session.ID, &session.CreatedAt)
}

func (t *pgSessionTx) UpdateSession(ctx context.Context, session *domain.Session) error {
	query := `
		UPDATE sessions
		SET movie_id = $2, hall_id = $3, start_time = $4, duration_minutes = $5, price = $6, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := t.tx.Exec(
		ctx,
		query,
		session.ID,
		session.MovieID,
		session.HallID,
		session.StartTime,
		session.DurationMinutes,
		session.Price)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
