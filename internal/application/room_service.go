package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// RoomRepository captures the persistence operations needed by the room
// service. DeleteRoom removes the room and its reservations atomically.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomService orchestrates validation, authorization, and persistence for
// the room registry.
type RoomService struct {
	rooms       RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomRepository, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{rooms: rooms, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// AddRoom validates input and persists a new active room for administrators.
// Capacity arrives as form text and must parse to a positive integer.
func (s *RoomService) AddRoom(ctx context.Context, params AddRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "AddRoom", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_id", room.ID).InfoContext(ctx, "room added")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	name := strings.TrimSpace(params.Input.Name)
	capacityText := strings.TrimSpace(params.Input.Capacity)

	vErr := &ValidationError{}
	if name == "" {
		vErr.add("name", "must not be empty")
	}

	capacity, parseErr := strconv.Atoi(capacityText)
	if parseErr != nil {
		vErr.add("capacity", "must be an integer")
	} else if capacity <= 0 {
		vErr.add("capacity", "must be a positive integer")
	}

	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	room = Room{
		ID:        s.idGenerator(),
		Name:      name,
		Capacity:  capacity,
		Location:  strings.TrimSpace(params.Input.Location),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var persisted Room
	persisted, err = s.rooms.CreateRoom(ctx, room)
	if err != nil {
		return
	}

	room = persisted
	return
}

// DeleteRoom removes a room and every reservation that references it for
// administrators. Both deletions happen in a single transaction at the
// persistence layer.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) (err error) {
	if s == nil {
		return fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoom",
		"principal_id", principal.UserID,
		"room_id", roomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "room deleted with dependent reservations")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	err = s.rooms.DeleteRoom(ctx, roomID)
	return
}

// ListRooms returns the full room catalog ordered by name. Dashboards filter
// on IsActive themselves.
func (s *RoomService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil {
		return nil, fmt.Errorf("RoomService is nil")
	}
	if s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListRooms").ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	return rooms, nil
}
