package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-tracker/internal/persistence"
)

var (
	userCounter        uint64
	roomCounter        uint64
	reservationCounter uint64
)

// referenceTime matches the canonical walkthrough scenario: a student
// reserving a room on the morning of 2025-01-10.
var referenceTime = time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// WithUserRole overrides the fixture role.
func WithUserRole(role string) UserOption {
	return func(u *persistence.User) { u.Role = role }
}

// WithUserEmail overrides the fixture email.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithPasswordHash overrides the fixture password hash.
func WithPasswordHash(hash string) UserOption {
	return func(u *persistence.User) { u.PasswordHash = hash }
}

// NewUserFixture returns a deterministic student user row with optional
// overrides.
func NewUserFixture(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Username:     fmt.Sprintf("User %03d", idx),
		Email:        fmt.Sprintf("%s@campus.example.edu", id),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		Role:         "Student",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// RoomOption configures a generated room fixture.
type RoomOption func(*persistence.Room)

// WithRoomName overrides the fixture room name.
func WithRoomName(name string) RoomOption {
	return func(r *persistence.Room) { r.Name = name }
}

// WithRoomCapacity overrides the fixture capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) { r.Capacity = capacity }
}

// NewRoomFixture returns a deterministic active room row with optional
// overrides.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	id := fmt.Sprintf("room-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:        id,
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  40,
		Location:  fmt.Sprintf("Building A Floor %d", idx%5+1),
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// ReservationOption configures a generated reservation fixture.
type ReservationOption func(*persistence.Reservation)

// WithReservationOwner binds the fixture to a user.
func WithReservationOwner(userID string) ReservationOption {
	return func(r *persistence.Reservation) { r.UserID = userID }
}

// WithReservationRoom binds the fixture to a room.
func WithReservationRoom(roomID string) ReservationOption {
	return func(r *persistence.Reservation) { r.RoomID = roomID }
}

// WithReservationStatus overrides the fixture status.
func WithReservationStatus(status string) ReservationOption {
	return func(r *persistence.Reservation) { r.Status = status }
}

// WithReservationCreatedAt overrides the fixture creation timestamp.
func WithReservationCreatedAt(t time.Time) ReservationOption {
	return func(r *persistence.Reservation) {
		r.CreatedAt = t
		r.UpdatedAt = t
	}
}

// NewReservationFixture returns a deterministic pending reservation row with
// optional overrides. Owner and room must be bound by the caller when the
// row is destined for SQLite, which enforces the foreign keys.
func NewReservationFixture(opts ...ReservationOption) persistence.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	id := fmt.Sprintf("reservation-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	reservation := persistence.Reservation{
		ID:                  id,
		UserID:              fmt.Sprintf("user-%03d", idx),
		RoomID:              fmt.Sprintf("room-%03d", idx),
		FullName:            fmt.Sprintf("Requester %03d", idx),
		CourseSection:       "BSCS 3-1",
		ReservationType:     "Academic",
		StartTime:           start,
		EndTime:             start.Add(2 * time.Hour),
		ActivityDescription: "Review session",
		Status:              "Pending",
		CreatedAt:           referenceTime,
		UpdatedAt:           referenceTime,
	}
	for _, opt := range opts {
		opt(&reservation)
	}
	return reservation
}
