package repository

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/shopspring/decimal"
)

// MemoryStore keeps the catalog and bookings in process memory. It honours the
// same transaction contract as the Postgres repositories: row locks are held until
// the transaction ends and writes become visible only on commit. It backs unit
// tests and local runs without a database.
type MemoryStore struct {
	mu           sync.RWMutex
	ids          map[string]int
	movies       map[int]domain.Movie
	halls        map[int]domain.Hall
	seats        map[int]domain.Seat
	sessions     map[int]domain.Session
	bookings     map[int]domain.Booking
	bookingSeats []domain.BookingSeat

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids:      make(map[string]int),
		movies:   make(map[int]domain.Movie),
		halls:    make(map[int]domain.Hall),
		seats:    make(map[int]domain.Seat),
		sessions: make(map[int]domain.Session),
		bookings: make(map[int]domain.Booking),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (m *MemoryStore) Bookings() *MemoryBookingRepository {
	return &MemoryBookingRepository{store: m}
}

func (m *MemoryStore) Sessions() *MemorySessionRepository {
	return &MemorySessionRepository{store: m}
}

// AddMovie stores a movie as is and returns it with its new id.
func (m *MemoryStore) AddMovie(movie domain.Movie) domain.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie.ID = m.nextID("movies")
	movie.CreatedAt = time.Now()
	m.movies[movie.ID] = movie

	return movie
}

// AddHall stores a hall with rows x seatsPerRow seats.
func (m *MemoryStore) AddHall(name string, rows, seatsPerRow int) (domain.Hall, []domain.Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hall := domain.Hall{
		ID:        m.nextID("halls"),
		Name:      name,
		Capacity:  rows * seatsPerRow,
		CreatedAt: time.Now(),
	}
	m.halls[hall.ID] = hall

	seats := domain.GenerateSeats(hall.ID, rows, seatsPerRow)
	for i := range seats {
		seats[i].ID = m.nextID("seats")
		m.seats[seats[i].ID] = seats[i]
	}

	return hall, seats
}

// AddSession stores a session without any scheduling checks.
func (m *MemoryStore) AddSession(session domain.Session) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.ID = m.nextID("sessions")
	session.CreatedAt = time.Now()
	m.sessions[session.ID] = session

	return session
}

func (m *MemoryStore) GetSession(ctx context.Context, id int) (*domain.SessionDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	detail := m.sessionDetail(session)

	return &detail, nil
}

func (m *MemoryStore) GetHall(ctx context.Context, id int) (*domain.Hall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hall, ok := m.halls[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &hall, nil
}

func (m *MemoryStore) GetSeatsForHall(ctx context.Context, hallID int) ([]domain.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.hallSeats(hallID), nil
}

func (m *MemoryStore) GetMovie(ctx context.Context, id int) (*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &movie, nil
}

func sessionLockKey(id int) string {
	return "session:" + strconv.Itoa(id)
}

func hallLockKey(id int) string {
	return "hall:" + strconv.Itoa(id)
}

func bookingLockKey(id int) string {
	return "booking:" + strconv.Itoa(id)
}

// nextID must be called with mu held for writing.
func (m *MemoryStore) nextID(table string) int {
	m.ids[table]++
	return m.ids[table]
}

// lock blocks until the named row lock is free and returns its release func.
func (m *MemoryStore) lock(key string) func() {
	m.locksMu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.locksMu.Unlock()

	l.Lock()

	return l.Unlock
}

func (m *MemoryStore) sessionDetail(session domain.Session) domain.SessionDetail {
	movie := m.movies[session.MovieID]

	return domain.SessionDetail{
		Session:        session,
		MovieTitle:     movie.Title,
		MoviePosterUrl: movie.PosterUrl,
		HallName:       m.halls[session.HallID].Name,
	}
}

func (m *MemoryStore) hallSeats(hallID int) []domain.Seat {
	seats := make([]domain.Seat, 0)
	for _, seat := range m.seats {
		if seat.HallID == hallID {
			seats = append(seats, seat)
		}
	}

	slices.SortFunc(seats, domain.SeatLess)

	return seats
}

// claimedSeatIDs returns the seats held by active bookings of a session.
func (m *MemoryStore) claimedSeatIDs(sessionID int) map[int]struct{} {
	claimed := make(map[int]struct{})

	for _, bs := range m.bookingSeats {
		if bs.SessionID != sessionID {
			continue
		}

		if m.bookings[bs.BookingID].IsActive() {
			claimed[bs.SeatID] = struct{}{}
		}
	}

	return claimed
}

func (m *MemoryStore) bookingView(booking domain.Booking) domain.BookingView {
	view := domain.BookingView{
		Booking: booking,
		Session: m.sessionDetail(m.sessions[booking.SessionID]),
		Seats:   make([]domain.Seat, 0),
	}

	for _, bs := range m.bookingSeats {
		if bs.BookingID == booking.ID {
			view.Seats = append(view.Seats, m.seats[bs.SeatID])
		}
	}

	slices.SortFunc(view.Seats, domain.SeatLess)

	return view
}

type MemoryBookingRepository struct {
	store *MemoryStore
}

func (r *MemoryBookingRepository) RunInTx(ctx context.Context, fn func(tx domain.BookingTx) error) error {
	tx := &memoryBookingTx{
		store:    r.store,
		statuses: make(map[int]domain.BookingStatus),
	}
	defer tx.release()

	err := fn(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tx.commit()

	return nil
}

func (r *MemoryBookingRepository) GetView(ctx context.Context, bookingID int) (*domain.BookingView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	booking, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	view := r.store.bookingView(booking)

	return &view, nil
}

func (r *MemoryBookingRepository) GetViewsByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingView, *domain.Metadata, error) {

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	owned := make([]domain.Booking, 0)
	for _, booking := range r.store.bookings {
		if booking.UserID == userID {
			owned = append(owned, booking)
		}
	}

	slices.SortFunc(owned, func(a, b domain.Booking) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.ID - a.ID
	})

	start := min(pagination.Offset(), len(owned))
	end := min(start+pagination.Limit(), len(owned))

	views := make([]domain.BookingView, 0, end-start)
	for _, booking := range owned[start:end] {
		views = append(views, r.store.bookingView(booking))
	}

	return views, domain.NewMetadata(len(owned), pagination), nil
}

func (r *MemoryBookingRepository) GetReport(ctx context.Context, since time.Time) (*domain.BookingReport, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byMovie := make(map[int]*domain.MovieBookingStats)
	byDay := make(map[time.Time]*domain.DailyBookingStats)

	seatCounts := make(map[int]int)
	for _, bs := range r.store.bookingSeats {
		seatCounts[bs.BookingID]++
	}

	for _, booking := range r.store.bookings {
		if !booking.IsActive() {
			continue
		}

		movie := r.store.movies[r.store.sessions[booking.SessionID].MovieID]

		stats, ok := byMovie[movie.ID]
		if !ok {
			stats = &domain.MovieBookingStats{MovieID: movie.ID, MovieTitle: movie.Title, Revenue: decimal.Zero}
			byMovie[movie.ID] = stats
		}
		stats.BookingCount++
		stats.SeatCount += seatCounts[booking.ID]
		stats.Revenue = stats.Revenue.Add(booking.TotalPrice)

		if booking.CreatedAt.Before(since) {
			continue
		}

		day := booking.CreatedAt.UTC().Truncate(24 * time.Hour)
		daily, ok := byDay[day]
		if !ok {
			daily = &domain.DailyBookingStats{Day: day, Revenue: decimal.Zero}
			byDay[day] = daily
		}
		daily.BookingCount++
		daily.Revenue = daily.Revenue.Add(booking.TotalPrice)
	}

	report := &domain.BookingReport{
		ByMovie: make([]domain.MovieBookingStats, 0, len(byMovie)),
		ByDay:   make([]domain.DailyBookingStats, 0, len(byDay)),
	}

	for _, stats := range byMovie {
		report.ByMovie = append(report.ByMovie, *stats)
	}
	slices.SortFunc(report.ByMovie, func(a, b domain.MovieBookingStats) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return cmp.Compare(a.MovieID, b.MovieID)
	})

	for _, daily := range byDay {
		report.ByDay = append(report.ByDay, *daily)
	}
	slices.SortFunc(report.ByDay, func(a, b domain.DailyBookingStats) int {
		return b.Day.Compare(a.Day)
	})

	return report, nil
}

func (r *MemoryBookingRepository) GetSeatAvailability(ctx context.Context, sessionID int) ([]domain.SeatAvailability, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	session, ok := r.store.sessions[sessionID]
	if !ok {
		return []domain.SeatAvailability{}, nil
	}

	claimed := r.store.claimedSeatIDs(sessionID)
	hallSeats := r.store.hallSeats(session.HallID)

	seats := make([]domain.SeatAvailability, len(hallSeats))
	for i, seat := range hallSeats {
		_, taken := claimed[seat.ID]
		seats[i] = domain.SeatAvailability{Seat: seat, Available: !taken}
	}

	return seats, nil
}

type memoryBookingTx struct {
	store    *MemoryStore
	unlocks  []func()
	booking  *domain.Booking
	claims   []domain.BookingSeat
	statuses map[int]domain.BookingStatus
}

func (tx *memoryBookingTx) release() {
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
}

func (tx *memoryBookingTx) commit() {
	s := tx.store

	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.booking != nil {
		s.bookings[tx.booking.ID] = *tx.booking
		s.bookingSeats = append(s.bookingSeats, tx.claims...)
	}

	for id, status := range tx.statuses {
		booking := s.bookings[id]
		booking.Status = status
		booking.UpdatedAt = time.Now()
		s.bookings[id] = booking
	}
}

func (tx *memoryBookingTx) LockSession(ctx context.Context, sessionID int) (*domain.SessionDetail, error) {
	tx.unlocks = append(tx.unlocks, tx.store.lock(sessionLockKey(sessionID)))

	return tx.store.GetSession(ctx, sessionID)
}

func (tx *memoryBookingTx) GetSeatsForHall(ctx context.Context, hallID int) ([]domain.Seat, error) {
	return tx.store.GetSeatsForHall(ctx, hallID)
}

func (tx *memoryBookingTx) GetClaimedSeats(ctx context.Context, sessionID int, seatIDs []int) ([]domain.Seat, error) {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	claimed := tx.store.claimedSeatIDs(sessionID)

	seats := make([]domain.Seat, 0)
	for _, id := range seatIDs {
		if _, ok := claimed[id]; ok {
			seats = append(seats, tx.store.seats[id])
			delete(claimed, id)
		}
	}

	return seats, nil
}

func (tx *memoryBookingTx) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	tx.store.mu.Lock()
	booking.ID = tx.store.nextID("bookings")
	tx.store.mu.Unlock()

	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	pending := *booking
	tx.booking = &pending

	return nil
}

func (tx *memoryBookingTx) CreateBookingSeats(ctx context.Context, seats []domain.BookingSeat) error {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	seen := make(map[[2]int]struct{}, len(seats))

	for _, bs := range seats {
		key := [2]int{bs.SessionID, bs.SeatID}
		if _, dup := seen[key]; dup {
			return domain.ErrUniqueViolation
		}
		seen[key] = struct{}{}

		if _, taken := tx.store.claimedSeatIDs(bs.SessionID)[bs.SeatID]; taken {
			return domain.ErrUniqueViolation
		}
	}

	tx.claims = append(tx.claims, seats...)

	return nil
}

func (tx *memoryBookingTx) GetBookingForUpdate(ctx context.Context, bookingID int) (*domain.Booking, error) {
	tx.unlocks = append(tx.unlocks, tx.store.lock(bookingLockKey(bookingID)))

	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	booking, ok := tx.store.bookings[bookingID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &booking, nil
}

func (tx *memoryBookingTx) GetSession(ctx context.Context, sessionID int) (*domain.Session, error) {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	session, ok := tx.store.sessions[sessionID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &session, nil
}

func (tx *memoryBookingTx) UpdateBookingStatus(ctx context.Context, booking *domain.Booking) error {
	tx.statuses[booking.ID] = booking.Status
	return nil
}

type MemorySessionRepository struct {
	store *MemoryStore
}

func (r *MemorySessionRepository) RunInTx(ctx context.Context, fn func(tx domain.SessionTx) error) error {
	tx := &memorySessionTx{store: r.store}
	defer tx.release()

	err := fn(tx)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tx.commit()

	return nil
}

func (r *MemorySessionRepository) GetById(ctx context.Context, id int) (*domain.SessionDetail, error) {
	return r.store.GetSession(ctx, id)
}

func (r *MemorySessionRepository) GetAll(ctx context.Context, filters domain.SessionFilters) ([]domain.SessionDetail, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	details := make([]domain.SessionDetail, 0)

	for _, session := range r.store.sessions {
		if filters.MovieID != 0 && session.MovieID != filters.MovieID {
			continue
		}

		if !filters.Day.IsZero() {
			dayStart := filters.Day.Truncate(24 * time.Hour)
			if session.StartTime.Before(dayStart) || !session.StartTime.Before(dayStart.Add(24*time.Hour)) {
				continue
			}
		}

		details = append(details, r.store.sessionDetail(session))
	}

	slices.SortFunc(details, func(a, b domain.SessionDetail) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return a.ID - b.ID
	})

	return details, nil
}

// Delete waits for any booking transaction holding the session so a booking
// committed concurrently is seen before the session is removed.
func (r *MemorySessionRepository) Delete(ctx context.Context, id int) error {
	unlock := r.store.lock(sessionLockKey(id))
	defer unlock()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sessions[id]; !ok {
		return domain.ErrRecordNotFound
	}

	for _, booking := range r.store.bookings {
		if booking.SessionID == id {
			return domain.ErrSessionHasBookings
		}
	}

	delete(r.store.sessions, id)

	return nil
}

type memorySessionTx struct {
	store   *MemoryStore
	unlocks []func()
	writes  []domain.Session
}

func (tx *memorySessionTx) release() {
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
}

func (tx *memorySessionTx) commit() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	for _, session := range tx.writes {
		tx.store.sessions[session.ID] = session
	}
}

func (tx *memorySessionTx) LockHall(ctx context.Context, hallID int) (*domain.Hall, error) {
	tx.unlocks = append(tx.unlocks, tx.store.lock(hallLockKey(hallID)))

	return tx.store.GetHall(ctx, hallID)
}

func (tx *memorySessionTx) GetMovie(ctx context.Context, movieID int) (*domain.Movie, error) {
	return tx.store.GetMovie(ctx, movieID)
}

func (tx *memorySessionTx) GetSessionForUpdate(ctx context.Context, sessionID int) (*domain.Session, error) {
	tx.unlocks = append(tx.unlocks, tx.store.lock(sessionLockKey(sessionID)))

	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	session, ok := tx.store.sessions[sessionID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &session, nil
}

func (tx *memorySessionTx) FindOverlapping(
	ctx context.Context,
	hallID int,
	start, end time.Time,
	excludeSessionID int) ([]domain.Session, error) {

	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	overlapping := make([]domain.Session, 0)

	for _, session := range tx.store.sessions {
		if session.HallID != hallID || session.ID == excludeSessionID {
			continue
		}

		if session.Overlaps(start, end.Sub(start)) {
			overlapping = append(overlapping, session)
		}
	}

	return overlapping, nil
}

func (tx *memorySessionTx) CountActiveBookings(ctx context.Context, sessionID int) (int, error) {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()

	count := 0
	for _, booking := range tx.store.bookings {
		if booking.SessionID == sessionID && booking.IsActive() {
			count++
		}
	}

	return count, nil
}

func (tx *memorySessionTx) CreateSession(ctx context.Context, session *domain.Session) error {
	tx.store.mu.Lock()
	session.ID = tx.store.nextID("sessions")
	tx.store.mu.Unlock()

	session.CreatedAt = time.Now()
	tx.writes = append(tx.writes, *session)

	return nil
}

func (tx *memorySessionTx) UpdateSession(ctx context.Context, session *domain.Session) error {
	tx.writes = append(tx.writes, *session)
	return nil
}
