package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// RoomRepository exposes CRUD operations for rooms. DeleteRoom removes the
// room together with every reservation that references it inside a single
// transaction.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// ReservationFilter narrows reservation queries. Zero-valued fields apply no
// predicate; Status "All" is equivalent to an empty Status.
type ReservationFilter struct {
	Status  string
	Search  string
	OwnerID string
	RoomID  string
}

// ReservationRepository stores reservation requests.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	UpdateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	SetReservationStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	DeleteReservation(ctx context.Context, id string) error
}
