package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) RunInTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		return fn(&pgBookingTx{tx: tx})
	})
}

const bookingColumns = `b.id, b.reference, b.session_id, b.user_id, b.status, b.total_price, b.created_at, b.updated_at`

func (p *PostgresBookingRepository) GetView(ctx context.Context, bookingID int) (*domain.BookingView, error) {
	query := `SELECT ` + bookingColumns + `,` + sessionDetailColumns + `
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		JOIN movies m ON m.id = s.movie_id
		JOIN halls h ON h.id = s.hall_id
		WHERE b.id = $1`

	view, err := scanBookingView(p.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		return nil, notFound(err)
	}

	seats, err := p.retrieveBookingSeats(ctx, []int{view.ID})
	if err != nil {
		return nil, err
	}

	view.Seats = seats[view.ID]

	return view, nil
}

func (p *PostgresBookingRepository) GetViewsByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingView, *domain.Metadata, error) {

	query := `SELECT COUNT(*) OVER(), ` + bookingColumns + `,` + sessionDetailColumns + `
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		JOIN movies m ON m.id = s.movie_id
		JOIN halls h ON h.id = s.hall_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	views := make([]domain.BookingView, 0)

	for rows.Next() {
		view, err := scanBookingView(rows, &totalRecords)
		if err != nil {
			return nil, nil, err
		}

		views = append(views, *view)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	ids := make([]int, len(views))
	for i, view := range views {
		ids[i] = view.ID
	}

	seats, err := p.retrieveBookingSeats(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	for i := range views {
		views[i].Seats = seats[views[i].ID]
	}

	return views, domain.NewMetadata(totalRecords, pagination), nil
}

// scanBookingView scans bookingColumns followed by sessionDetailColumns. Any extra
// leading destinations, such as a window count, are scanned first.
func scanBookingView(row pgx.Row, leading ...any) (*domain.BookingView, error) {
	var (
		view  domain.BookingView
		ref   pgtype.UUID
		total pgtype.Numeric
		price pgtype.Numeric
	)

	dest := append(leading,
		&view.ID,
		&ref,
		&view.SessionID,
		&view.UserID,
		&view.Status,
		&total,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Session.ID,
		&view.Session.MovieID,
		&view.Session.HallID,
		&view.Session.StartTime,
		&view.Session.DurationMinutes,
		&price,
		&view.Session.CreatedAt,
		&view.Session.MovieTitle,
		&view.Session.MoviePosterUrl,
		&view.Session.HallName,
	)

	err := row.Scan(dest...)
	if err != nil {
		return nil, err
	}

	view.Reference = toUUID(ref)
	view.TotalPrice = toDecimal(total)
	view.Session.Price = toDecimal(price)

	return &view, nil
}

// retrieveBookingSeats returns the seats of each booking ordered by row, then number.
func (p *PostgresBookingRepository) retrieveBookingSeats(ctx context.Context, bookingIDs []int) (map[int][]domain.Seat, error) {
	seats := make(map[int][]domain.Seat, len(bookingIDs))
	for _, id := range bookingIDs {
		seats[id] = []domain.Seat{}
	}

	if len(bookingIDs) == 0 {
		return seats, nil
	}

	query := `
		SELECT bs.booking_id, st.id, st.hall_id, st.seat_row, st.seat_number
		FROM booking_seats bs
		JOIN seats st ON st.id = bs.seat_id
		WHERE bs.booking_id = ANY($1)
		ORDER BY bs.booking_id, st.seat_row, st.seat_number
	`

	rows, err := p.db.Query(ctx, query, bookingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID int
			seat      domain.Seat
		)

		err = rows.Scan(&bookingID, &seat.ID, &seat.HallID, &seat.Row, &seat.SeatNumber)
		if err != nil {
			return nil, err
		}

		seats[bookingID] = append(seats[bookingID], seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) GetReport(ctx context.Context, since time.Time) (*domain.BookingReport, error) {
	byMovieQuery := `
		SELECT m.id, m.title, COUNT(b.id), COALESCE(SUM(c.seat_count), 0), COALESCE(SUM(b.total_price), 0)
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		JOIN movies m ON m.id = s.movie_id
		CROSS JOIN LATERAL (
			SELECT COUNT(*) AS seat_count FROM booking_seats bs WHERE bs.booking_id = b.id
		) c
		WHERE b.status <> 'cancelled'
		GROUP BY m.id, m.title
		ORDER BY SUM(b.total_price) DESC, m.id
	`

	rows, err := p.db.Query(ctx, byMovieQuery)
	if err != nil {
		return nil, err
	}

	byMovie, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MovieBookingStats, error) {
		var (
			stats   domain.MovieBookingStats
			revenue pgtype.Numeric
		)

		err := row.Scan(&stats.MovieID, &stats.MovieTitle, &stats.BookingCount, &stats.SeatCount, &revenue)
		stats.Revenue = toDecimal(revenue)

		return stats, err
	})
	if err != nil {
		return nil, err
	}

	byDayQuery := `
		SELECT date_trunc('day', b.created_at AT TIME ZONE 'UTC') AS day, COUNT(*), SUM(b.total_price)
		FROM bookings b
		WHERE b.status <> 'cancelled' AND b.created_at >= $1
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err = p.db.Query(ctx, byDayQuery, since)
	if err != nil {
		return nil, err
	}

	byDay, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyBookingStats, error) {
		var (
			stats   domain.DailyBookingStats
			revenue pgtype.Numeric
		)

		err := row.Scan(&stats.Day, &stats.BookingCount, &revenue)
		stats.Revenue = toDecimal(revenue)

		return stats, err
	})
	if err != nil {
		return nil, err
	}

	return &domain.BookingReport{
		ByMovie: byMovie,
		ByDay:   byDay,
	}, nil
}

func (p *PostgresBookingRepository) GetSeatAvailability(ctx context.Context, sessionID int) ([]domain.SeatAvailability, error) {
	query := `
		SELECT st.id, st.hall_id, st.seat_row, st.seat_number,
			NOT EXISTS (
				SELECT 1
				FROM booking_seats bs
				JOIN bookings b ON b.id = bs.booking_id
				WHERE bs.session_id = s.id AND bs.seat_id = st.id AND b.status <> 'cancelled'
			)
		FROM sessions s
		JOIN seats st ON st.hall_id = s.hall_id
		WHERE s.id = $1
		ORDER BY st.seat_row, st.seat_number
	`

	rows, err := p.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SeatAvailability, error) {
		var seat domain.SeatAvailability

		err := row.Scan(&seat.ID, &seat.HallID, &seat.Row, &seat.SeatNumber, &seat.Available)

		return seat, err
	})
}

type pgBookingTx struct {
	tx pgx.Tx
}

// LockSession takes a row lock on the session that blocks other reservations for
// it until this transaction ends. NO KEY UPDATE leaves foreign key checks from
// booking inserts unblocked.
func (t *pgBookingTx) LockSession(ctx context.Context, sessionID int) (*domain.SessionDetail, error) {
	query := `SELECT` + sessionDetailColumns + sessionDetailFrom + `
		WHERE s.id = $1
		FOR NO KEY UPDATE OF s`

	return scanSessionDetail(t.tx.QueryRow(ctx, query, sessionID))
}

func (t *pgBookingTx) GetSeatsForHall(ctx context.Context, hallID int) ([]domain.Seat, error) {
	return getSeatsForHall(ctx, t.tx, hallID)
}

func (t *pgBookingTx) GetClaimedSeats(ctx context.Context, sessionID int, seatIDs []int) ([]domain.Seat, error) {
	query := `
		SELECT DISTINCT st.id, st.hall_id, st.seat_row, st.seat_number
		FROM booking_seats bs
		JOIN bookings b ON b.id = bs.booking_id
		JOIN seats st ON st.id = bs.seat_id
		WHERE bs.session_id = $1 AND bs.seat_id = ANY($2) AND b.status <> 'cancelled'
		ORDER BY st.seat_row, st.seat_number
	`

	rows, err := t.tx.Query(ctx, query, sessionID, seatIDs)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, scanSeat)
}

func (t *pgBookingTx) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (reference, session_id, user_id, status, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	return t.tx.QueryRow(
		ctx,
		query,
		booking.Reference,
		booking.SessionID,
		booking.UserID,
		booking.Status,
		booking.TotalPrice).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (t *pgBookingTx) CreateBookingSeats(ctx context.Context, seats []domain.BookingSeat) error {
	rows := make([][]any, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, []any{
			seat.BookingID,
			seat.SessionID,
			seat.SeatID,
		})
	}

	_, err := t.tx.CopyFrom(
		ctx,
		pgx.Identifier{"booking_seats"},
		[]string{"booking_id", "session_id", "seat_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUniqueViolation
		}

		return err
	}

	return nil
}

func (t *pgBookingTx) GetBookingForUpdate(ctx context.Context, bookingID int) (*domain.Booking, error) {
	query := `
		SELECT id, reference, session_id, user_id, status, total_price, created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	var (
		booking domain.Booking
		ref     pgtype.UUID
		total   pgtype.Numeric
	)

	err := t.tx.QueryRow(ctx, query, bookingID).Scan(
		&booking.ID,
		&ref,
		&booking.SessionID,
		&booking.UserID,
		&booking.Status,
		&total,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	booking.Reference = toUUID(ref)
	booking.TotalPrice = toDecimal(total)

	return &booking, nil
}

func (t *pgBookingTx) GetSession(ctx context.Context, sessionID int) (*domain.Session, error) {
	return getSession(ctx, t.tx, sessionID)
}

func (t *pgBookingTx) UpdateBookingStatus(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := t.tx.QueryRow(ctx, query, booking.ID, booking.Status).Scan(&booking.UpdatedAt)
	if err != nil {
		return notFound(err)
	}

	return nil
}
