package reservation

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/shopspring/decimal"
)

// Scheduler writes sessions while keeping every hall free of overlapping sessions.
type Scheduler struct {
	sessions domain.SessionRepository
}

func NewScheduler(sessions domain.SessionRepository) *Scheduler {
	return &Scheduler{
		sessions: sessions,
	}
}

type SessionInput struct {
	MovieID   int
	HallID    int
	StartTime time.Time
	Price     decimal.Decimal
}

// FindConflict returns the first session of the hall overlapping
// [start, start+durationMinutes), ignoring excludeSessionID. A nil conflict means
// the slot is free.
func (s *Scheduler) FindConflict(
	ctx context.Context,
	hallID int,
	start time.Time,
	durationMinutes int,
	excludeSessionID int) (*domain.SchedulingConflictError, error) {

	var conflict *domain.SchedulingConflictError

	err := s.sessions.RunInTx(ctx, func(tx domain.SessionTx) error {
		var err error
		conflict, err = findConflict(ctx, tx, hallID, start, durationMinutes, excludeSessionID)
		return err
	})
	if err != nil {
		return nil, storageFailure(err)
	}

	return conflict, nil
}

func (s *Scheduler) HasConflict(
	ctx context.Context,
	hallID int,
	start time.Time,
	durationMinutes int,
	excludeSessionID int) (bool, error) {

	conflict, err := s.FindConflict(ctx, hallID, start, durationMinutes, excludeSessionID)
	if err != nil {
		return false, err
	}

	return conflict != nil, nil
}

// CreateSession schedules a new session. The hall row is locked for the duration
// of the check and insert so concurrent writes for one hall cannot both pass.
func (s *Scheduler) CreateSession(ctx context.Context, input SessionInput) (*domain.Session, error) {
	var created *domain.Session

	err := s.sessions.RunInTx(ctx, func(tx domain.SessionTx) error {
		err := lockHalls(ctx, tx, input.HallID)
		if err != nil {
			return err
		}

		movie, err := getMovie(ctx, tx, input.MovieID)
		if err != nil {
			return err
		}

		session := domain.Session{
			MovieID:         input.MovieID,
			HallID:          input.HallID,
			StartTime:       input.StartTime,
			DurationMinutes: movie.Duration,
			Price:           input.Price,
		}

		err = checkConflict(ctx, tx, session, 0)
		if err != nil {
			return err
		}

		err = tx.CreateSession(ctx, &session)
		if err != nil {
			return err
		}

		created = &session

		return nil
	})
	if err != nil {
		return nil, storageFailure(err)
	}

	return created, nil
}

// UpdateSession reschedules an existing session. The session never conflicts with
// its own previous slot. Moving a session with active bookings to another hall is
// refused since its seats would no longer exist.
func (s *Scheduler) UpdateSession(ctx context.Context, id int, input SessionInput) (*domain.Session, error) {
	var updated *domain.Session

	err := s.sessions.RunInTx(ctx, func(tx domain.SessionTx) error {
		current, err := tx.GetSessionForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}

			return err
		}

		err = lockHalls(ctx, tx, current.HallID, input.HallID)
		if err != nil {
			return err
		}

		if current.HallID != input.HallID {
			active, err := tx.CountActiveBookings(ctx, id)
			if err != nil {
				return err
			}

			if active > 0 {
				return domain.ErrSessionHasBookings
			}
		}

		movie, err := getMovie(ctx, tx, input.MovieID)
		if err != nil {
			return err
		}

		session := *current
		session.MovieID = input.MovieID
		session.HallID = input.HallID
		session.StartTime = input.StartTime
		session.DurationMinutes = movie.Duration
		session.Price = input.Price

		err = checkConflict(ctx, tx, session, id)
		if err != nil {
			return err
		}

		err = tx.UpdateSession(ctx, &session)
		if err != nil {
			return err
		}

		updated = &session

		return nil
	})
	if err != nil {
		return nil, storageFailure(err)
	}

	return updated, nil
}

func (s *Scheduler) DeleteSession(ctx context.Context, id int) error {
	err := s.sessions.Delete(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrSessionNotFound
	}

	return storageFailure(err)
}

// lockHalls locks each distinct hall in ascending id order.
func lockHalls(ctx context.Context, tx domain.SessionTx, hallIDs ...int) error {
	ids := slices.Clone(hallIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for _, id := range ids {
		_, err := tx.LockHall(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrHallNotFound
			}

			return err
		}
	}

	return nil
}

func getMovie(ctx context.Context, tx domain.SessionTx, movieID int) (*domain.Movie, error) {
	movie, err := tx.GetMovie(ctx, movieID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrMovieNotFound
		}

		return nil, err
	}

	return movie, nil
}

func checkConflict(ctx context.Context, tx domain.SessionTx, session domain.Session, excludeSessionID int) error {
	conflict, err := findConflict(ctx, tx, session.HallID, session.StartTime, session.DurationMinutes, excludeSessionID)
	if err != nil {
		return err
	}

	if conflict != nil {
		return conflict
	}

	return nil
}

func findConflict(
	ctx context.Context,
	tx domain.SessionTx,
	hallID int,
	start time.Time,
	durationMinutes int,
	excludeSessionID int) (*domain.SchedulingConflictError, error) {

	duration := time.Duration(durationMinutes) * time.Minute

	candidates, err := tx.FindOverlapping(ctx, hallID, start, start.Add(duration), excludeSessionID)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(candidates, func(a, b domain.Session) int {
		return a.StartTime.Compare(b.StartTime)
	})

	for _, existing := range candidates {
		if existing.ID == excludeSessionID {
			continue
		}

		if existing.Overlaps(start, duration) {
			return &domain.SchedulingConflictError{
				SessionID: existing.ID,
				StartTime: existing.StartTime,
				EndTime:   existing.EndTime(),
			}, nil
		}
	}

	return nil, nil
}
