package testfixtures

import (
	"testing"
	"time"

	"github.com/example/room-tracker/internal/adapters"
	"github.com/example/room-tracker/internal/application"
	"github.com/example/room-tracker/internal/mail"
)

// Services bundles fully wired application services over a SQLite harness
// with a deterministic clock and identifier generator, for end-to-end style
// tests that exercise the real persistence layer.
type Services struct {
	Harness *SQLiteHarness
	Clock   *Clock
	IDs     *IDGenerator

	Auth         *application.AuthService
	Reservations *application.ReservationService
	Rooms        *application.RoomService
	Provision    *application.ProvisionService

	UserStore *adapters.UserStore
}

// ServicesOption configures a Services fixture.
type ServicesOption func(*servicesConfig)

type servicesConfig struct {
	clock        *Clock
	deleteWindow time.Duration
	notifier     application.Notifier
	hasher       application.PasswordHasher
}

// WithServicesClock overrides the clock used by the fixture.
func WithServicesClock(clock *Clock) ServicesOption {
	return func(cfg *servicesConfig) { cfg.clock = clock }
}

// WithDeleteWindow overrides the owner delete window.
func WithDeleteWindow(window time.Duration) ServicesOption {
	return func(cfg *servicesConfig) { cfg.deleteWindow = window }
}

// WithNotifier overrides the reservation decision notifier.
func WithNotifier(notifier application.Notifier) ServicesOption {
	return func(cfg *servicesConfig) { cfg.notifier = notifier }
}

// WithPasswordHasher overrides the provisioning password hasher. Tests that
// do not exercise credential verification can avoid bcrypt cost with a stub.
func WithPasswordHasher(hasher application.PasswordHasher) ServicesOption {
	return func(cfg *servicesConfig) { cfg.hasher = hasher }
}

// NewServices constructs the full service stack over a fresh SQLite
// harness.
func NewServices(tb testing.TB, opts ...ServicesOption) *Services {
	tb.Helper()

	cfg := &servicesConfig{
		clock:    NewClock(time.Time{}),
		notifier: mail.NopMailer{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	harness := NewSQLiteHarness(tb)
	ids := NewIDGenerator("id")

	userStore := adapters.NewUserStore(harness.Users)
	roomStore := adapters.NewRoomStore(harness.Rooms)
	reservationStore := adapters.NewReservationStore(harness.Reservations)

	now := cfg.clock.NowFunc()

	return &Services{
		Harness: harness,
		Clock:   cfg.clock,
		IDs:     ids,

		Auth: application.NewAuthService(userStore, nil),
		Reservations: application.NewReservationServiceWithLogger(
			reservationStore, roomStore, userStore, cfg.notifier,
			ids.NextFunc(), now, cfg.deleteWindow, nil,
		),
		Rooms:     application.NewRoomService(roomStore, ids.NextFunc(), now),
		Provision: application.NewProvisionService(userStore, cfg.hasher, ids.NextFunc(), now),

		UserStore: userStore,
	}
}
