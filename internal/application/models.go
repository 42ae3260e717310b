package application

import "time"

// Roles recognised by the room tracker. Only the campus administrator role
// carries admin capability; every other role is treated as a student-level
// requester.
const (
	RoleStudent             = "Student"
	RoleCampusAdministrator = "Campus Administrator"
	RoleClassroomPresident  = "Classroom President"
)

// IsAdminRole reports whether the role grants administrator capability.
func IsAdminRole(role string) bool {
	return role == RoleCampusAdministrator
}

// Status enumerates the reservation lifecycle states. StatusAll is a filter
// value only and is never stored.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusCancelled Status = "Cancelled"
	StatusAll       Status = "All"
)

// ValidStatus reports whether s is a storable reservation status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Reservation types accepted from requesters.
const (
	TypeAcademic    = "Academic"
	TypeEvent       = "Event"
	TypeFormalEvent = "Formal Event"
	TypeOrgMeeting  = "Org Meeting"
	TypeOther       = "Other"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// User represents a provisioned account exposed by the application services.
type User struct {
	ID        string
	Username  string
	Email     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the role-tagged result of a successful credential check,
// handed to the presentation layer to drive dashboard selection.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// Principal derives the service-level principal for this identity.
func (i Identity) Principal() Principal {
	return Principal{UserID: i.UserID, IsAdmin: IsAdminRole(i.Role)}
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// VerifyCredentialsParams captures the data required for a credential check.
type VerifyCredentialsParams struct {
	Email    string
	Password string
}

// Room represents a catalog entry for a specialized room.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Location  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomInput captures caller provided room fields. Capacity arrives as the
// raw form text and must parse to a positive integer.
type RoomInput struct {
	Name     string
	Capacity string
	Location string
}

// AddRoomParams wraps the data required to add a room.
type AddRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// Reservation represents a persisted reservation request. RoomName is
// resolved from the registry for display.
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
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ReservationInput captures caller provided reservation fields.
// DurationHours is the raw form text; an unparsable value falls back to one
// hour.
type ReservationInput struct {
	RoomID              string
	FullName            string
	CourseSection       string
	ReservationType     string
	StartTime           time.Time
	DurationHours       string
	ActivityDescription string
}

// CreateReservationParams wraps the data required to create a reservation.
type CreateReservationParams struct {
	Principal Principal
	Input     ReservationInput
}

// UpdateReservationParams wraps the data required to edit a reservation.
type UpdateReservationParams struct {
	Principal     Principal
	ReservationID string
	Input         ReservationInput
}

// ListReservationsParams wraps the data required to list reservations.
// Non-admin principals are always restricted to their own rows.
type ListReservationsParams struct {
	Principal Principal
	Status    Status
	Search    string
}

// AccountSeed describes one predefined account to provision.
type AccountSeed struct {
	Username string
	Email    string
	Password string
	Role     string
}

// ProvisionReport summarises the outcome of a provisioning run.
type ProvisionReport struct {
	Created int
	Updated int
}
