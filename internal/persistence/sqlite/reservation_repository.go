package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/room-tracker/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository using
// SQLite.
type ReservationRepository struct {
	helper *QueryHelper
}

// NewReservationRepository creates a new SQLite reservation repository.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{helper: NewQueryHelper(pool)}
}

// CreateReservation inserts a new reservation row.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO reservations (
			id, user_id, room_id, full_name, course_section, reservation_type,
			start_time, end_time, activity_description, status, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		reservation.ID,
		reservation.UserID,
		reservation.RoomID,
		reservation.FullName,
		reservation.CourseSection,
		reservation.ReservationType,
		reservation.StartTime.UTC().Format(timeLayout),
		reservation.EndTime.UTC().Format(timeLayout),
		reservation.ActivityDescription,
		reservation.Status,
		reservation.CreatedAt.UTC().Format(timeLayout),
		reservation.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// UpdateReservation rewrites the caller-editable fields of a reservation.
// Status and created_at are left untouched; SetReservationStatus owns status
// changes.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE reservations
		SET room_id = ?, full_name = ?, course_section = ?, reservation_type = ?,
			start_time = ?, end_time = ?, activity_description = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		reservation.RoomID,
		reservation.FullName,
		reservation.CourseSection,
		reservation.ReservationType,
		reservation.StartTime.UTC().Format(timeLayout),
		reservation.EndTime.UTC().Format(timeLayout),
		reservation.ActivityDescription,
		reservation.UpdatedAt.UTC().Format(timeLayout),
		reservation.ID,
	)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

const reservationColumns = `
	r.id, r.user_id, r.room_id, rm.name, r.full_name, r.course_section,
	r.reservation_type, r.start_time, r.end_time, r.activity_description,
	r.status, r.created_at, r.updated_at
`

// GetReservation retrieves a reservation by ID with its room name resolved.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN rooms rm ON r.room_id = rm.id
		WHERE r.id = ?
	`

	return scanReservation(r.helper.QueryRow(ctx, query, id))
}

// ListReservations returns reservations matching the filter, ordered by
// creation time then ID. The Search term matches the room name or requester
// full name case-insensitively.
func (r *ReservationRepository) ListReservations(ctx context.Context, filter persistence.ReservationFilter) ([]persistence.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations r
		JOIN rooms rm ON r.room_id = rm.id
		WHERE 1=1
	`
	var args []any

	if filter.Status != "" && filter.Status != "All" {
		query += " AND r.status = ?"
		args = append(args, filter.Status)
	}
	if filter.OwnerID != "" {
		query += " AND r.user_id = ?"
		args = append(args, filter.OwnerID)
	}
	if filter.RoomID != "" {
		query += " AND r.room_id = ?"
		args = append(args, filter.RoomID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query += " AND (LOWER(rm.name) LIKE ? OR LOWER(r.full_name) LIKE ?)"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY r.created_at ASC, r.id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return reservations, nil
}

// SetReservationStatus overwrites the status column unconditionally. The
// prior status is not inspected; legality of the transition is the caller's
// concern.
func (r *ReservationRepository) SetReservationStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt.UTC().Format(timeLayout), id,
	)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// DeleteReservation removes a reservation by ID.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var res persistence.Reservation
	var startStr, endStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.RoomID,
		&res.RoomName,
		&res.FullName,
		&res.CourseSection,
		&res.ReservationType,
		&startStr,
		&endStr,
		&res.ActivityDescription,
		&res.Status,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}

	for _, field := range []struct {
		name  string
		value string
		dst   *time.Time
	}{
		{"start_time", startStr, &res.StartTime},
		{"end_time", endStr, &res.EndTime},
		{"created_at", createdAtStr, &res.CreatedAt},
		{"updated_at", updatedAtStr, &res.UpdatedAt},
	} {
		parsed, err := time.Parse(timeLayout, field.value)
		if err != nil {
			return persistence.Reservation{}, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.dst = parsed
	}

	return res, nil
}
