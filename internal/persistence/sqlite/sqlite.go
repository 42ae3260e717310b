package sqlite

import "context"

// timeLayout is the storage format for timestamp columns. Unlike
// time.RFC3339Nano it never trims trailing fractional zeros, so the TEXT
// values stay fixed width and ORDER BY over them is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Storage bundles the SQLite-backed repositories over a shared connection
// pool.
type Storage struct {
	pool *ConnectionPool

	Users        *UserRepository
	Rooms        *RoomRepository
	Reservations *ReservationRepository
}

// Open creates the connection pool and repositories for the given DSN.
func Open(dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:         pool,
		Users:        NewUserRepository(pool),
		Rooms:        NewRoomRepository(pool),
		Reservations: NewReservationRepository(pool),
	}, nil
}

// Migrate brings the schema up to date.
func (s *Storage) Migrate(ctx context.Context) error {
	return s.pool.Migrate(ctx)
}

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Pool exposes the connection pool for callers that need transactions.
func (s *Storage) Pool() *ConnectionPool {
	return s.pool
}
