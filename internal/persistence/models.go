package persistence

import "time"

// User represents a provisioned account in the room tracker domain.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Room represents a specialized room catalog entry.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Location  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reservation represents a reservation request stored in persistence.
// RoomName is filled on reads by joining the rooms table and is ignored on
// writes.
type Reservation struct {
	ID                  string
	UserID              string
	RoomID              string
	RoomName            string
	FullName            string
	CourseSection       string
	ReservationType     string
	StartTime           time.Time
	EndTime             time.Time
	ActivityDescription string
	Status              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
