// Package adapters bridges the persistence row types to the application
// service interfaces, translating storage sentinels into application
// sentinels at the boundary. Both the composition root and the test
// fixtures wire services through these.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-tracker/internal/application"
	"github.com/example/room-tracker/internal/persistence"
)

func mapPersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: %v", application.ErrAlreadyExists, err)
	default:
		return err
	}
}

func toApplicationUser(user persistence.User) application.User {
	return application.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// UserStore adapts a persistence.UserRepository to the credential,
// directory, provisioning, and principal-resolution interfaces the
// application and transport layers consume.
type UserStore struct {
	users persistence.UserRepository
}

// NewUserStore wraps a user repository.
func NewUserStore(users persistence.UserRepository) *UserStore {
	return &UserStore{users: users}
}

// GetUserCredentialsByEmail implements application.CredentialStore.
func (s *UserStore) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, mapPersistenceError(err)
	}
	return application.UserCredentials{
		User:         toApplicationUser(user),
		PasswordHash: user.PasswordHash,
	}, nil
}

// GetUser implements application.UserDirectory.
func (s *UserStore) GetUser(ctx context.Context, id string) (application.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(user), nil
}

// GetUserByEmail implements application.ProvisioningStore.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (application.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(user), nil
}

// CreateUser implements application.ProvisioningStore.
func (s *UserStore) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	row := persistence.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: passwordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := s.users.CreateUser(ctx, row); err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return user, nil
}

// UpdateUser implements application.ProvisioningStore.
func (s *UserStore) UpdateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	row := persistence.User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: passwordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := s.users.UpdateUser(ctx, row); err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return user, nil
}

// ResolvePrincipal implements the transport layer's principal resolution.
func (s *UserStore) ResolvePrincipal(ctx context.Context, userID string) (application.Principal, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return application.Principal{}, mapPersistenceError(err)
	}
	return application.Principal{
		UserID:  user.ID,
		IsAdmin: application.IsAdminRole(user.Role),
	}, nil
}

func toApplicationRoom(room persistence.Room) application.Room {
	return application.Room{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		Location:  room.Location,
		IsActive:  room.IsActive,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

// RoomStore adapts a persistence.RoomRepository to the application room
// interfaces.
type RoomStore struct {
	rooms persistence.RoomRepository
}

// NewRoomStore wraps a room repository.
func NewRoomStore(rooms persistence.RoomRepository) *RoomStore {
	return &RoomStore{rooms: rooms}
}

// CreateRoom implements application.RoomRepository.
func (s *RoomStore) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	row := persistence.Room{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		Location:  room.Location,
		IsActive:  room.IsActive,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
	if err := s.rooms.CreateRoom(ctx, row); err != nil {
		return application.Room{}, mapPersistenceError(err)
	}
	return room, nil
}

// GetRoom implements application.RoomCatalog and application.RoomRepository.
func (s *RoomStore) GetRoom(ctx context.Context, id string) (application.Room, error) {
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, mapPersistenceError(err)
	}
	return toApplicationRoom(room), nil
}

// ListRooms implements application.RoomRepository.
func (s *RoomStore) ListRooms(ctx context.Context) ([]application.Room, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	out := make([]application.Room, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toApplicationRoom(room))
	}
	return out, nil
}

// DeleteRoom implements application.RoomRepository.
func (s *RoomStore) DeleteRoom(ctx context.Context, id string) error {
	return mapPersistenceError(s.rooms.DeleteRoom(ctx, id))
}

func toApplicationReservation(res persistence.Reservation) application.Reservation {
	return application.Reservation{
		ID:                  res.ID,
		UserID:              res.UserID,
		RoomID:              res.RoomID,
		RoomName:            res.RoomName,
		FullName:            res.FullName,
		CourseSection:       res.CourseSection,
		ReservationType:     res.ReservationType,
		StartTime:           res.StartTime,
		EndTime:             res.EndTime,
		ActivityDescription: res.ActivityDescription,
		Status:              application.Status(res.Status),
		CreatedAt:           res.CreatedAt,
		UpdatedAt:           res.UpdatedAt,
	}
}

func toPersistenceReservation(res application.Reservation) persistence.Reservation {
	return persistence.Reservation{
		ID:                  res.ID,
		UserID:              res.UserID,
		RoomID:              res.RoomID,
		RoomName:            res.RoomName,
		FullName:            res.FullName,
		CourseSection:       res.CourseSection,
		ReservationType:     res.ReservationType,
		StartTime:           res.StartTime,
		EndTime:             res.EndTime,
		ActivityDescription: res.ActivityDescription,
		Status:              string(res.Status),
		CreatedAt:           res.CreatedAt,
		UpdatedAt:           res.UpdatedAt,
	}
}

// ReservationStore adapts a persistence.ReservationRepository to
// application.ReservationRepository.
type ReservationStore struct {
	reservations persistence.ReservationRepository
}

// NewReservationStore wraps a reservation repository.
func NewReservationStore(reservations persistence.ReservationRepository) *ReservationStore {
	return &ReservationStore{reservations: reservations}
}

// CreateReservation implements application.ReservationRepository.
func (s *ReservationStore) CreateReservation(ctx context.Context, res application.Reservation) (application.Reservation, error) {
	if err := s.reservations.CreateReservation(ctx, toPersistenceReservation(res)); err != nil {
		return application.Reservation{}, mapPersistenceError(err)
	}
	// Re-read to resolve the joined room name.
	persisted, err := s.reservations.GetReservation(ctx, res.ID)
	if err != nil {
		return application.Reservation{}, mapPersistenceError(err)
	}
	return toApplicationReservation(persisted), nil
}

// UpdateReservation implements application.ReservationRepository.
func (s *ReservationStore) UpdateReservation(ctx context.Context, res application.Reservation) (application.Reservation, error) {
	if err := s.reservations.UpdateReservation(ctx, toPersistenceReservation(res)); err != nil {
		return application.Reservation{}, mapPersistenceError(err)
	}
	persisted, err := s.reservations.GetReservation(ctx, res.ID)
	if err != nil {
		return application.Reservation{}, mapPersistenceError(err)
	}
	return toApplicationReservation(persisted), nil
}

// GetReservation implements application.ReservationRepository.
func (s *ReservationStore) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	res, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, mapPersistenceError(err)
	}
	return toApplicationReservation(res), nil
}

// ListReservations implements application.ReservationRepository.
func (s *ReservationStore) ListReservations(ctx context.Context, filter application.ReservationFilter) ([]application.Reservation, error) {
	status := filter.Status
	if status == application.StatusAll {
		status = ""
	}
	rows, err := s.reservations.ListReservations(ctx, persistence.ReservationFilter{
		Status:  string(status),
		Search:  filter.Search,
		OwnerID: filter.OwnerID,
		RoomID:  filter.RoomID,
	})
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	out := make([]application.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, toApplicationReservation(row))
	}
	return out, nil
}

// SetReservationStatus implements application.ReservationRepository.
func (s *ReservationStore) SetReservationStatus(ctx context.Context, id string, status application.Status, updatedAt time.Time) error {
	return mapPersistenceError(s.reservations.SetReservationStatus(ctx, id, string(status), updatedAt))
}

// DeleteReservation implements application.ReservationRepository.
func (s *ReservationStore) DeleteReservation(ctx context.Context, id string) error {
	return mapPersistenceError(s.reservations.DeleteReservation(ctx, id))
}
