package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultDeleteWindow is how long after creation an owner may delete their
// own reservation outright.
const DefaultDeleteWindow = 5 * time.Minute

// DefaultDurationHours applies when the submitted duration does not parse.
const DefaultDurationHours = 1.0

// ReservationRepository captures the persistence operations needed by the
// reservation service.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	SetReservationStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error
	DeleteReservation(ctx context.Context, id string) error
}

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	Status  Status
	Search  string
	OwnerID string
	RoomID  string
}

// RoomCatalog exposes the room lookup the reservation service needs to
// validate submissions.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (Room, error)
}

// UserDirectory resolves reservation owners for notification delivery.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (User, error)
}

// Notifier delivers a best-effort message to a recipient. Failures are
// logged, never retried, and never surfaced to the reservation flow.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// SetStatusParams wraps the data required to overwrite a reservation status.
type SetStatusParams struct {
	Principal     Principal
	ReservationID string
	Status        Status
}

// ReservationService orchestrates validation, authorization, and persistence
// for reservation requests.
type ReservationService struct {
	reservations ReservationRepository
	rooms        RoomCatalog
	users        UserDirectory
	notifier     Notifier
	idGenerator  func() string
	now          func() time.Time
	deleteWindow time.Duration
	logger       *slog.Logger
}

// NewReservationService constructs a reservation service with the provided
// dependencies.
func NewReservationService(reservations ReservationRepository, rooms RoomCatalog, users UserDirectory, notifier Notifier, idGenerator func() string, now func() time.Time) *ReservationService {
	return NewReservationServiceWithLogger(reservations, rooms, users, notifier, idGenerator, now, 0, nil)
}

// NewReservationServiceWithLogger constructs a reservation service with an
// explicit delete window and logger. A non-positive deleteWindow selects
// DefaultDeleteWindow.
func NewReservationServiceWithLogger(reservations ReservationRepository, rooms RoomCatalog, users UserDirectory, notifier Notifier, idGenerator func() string, now func() time.Time, deleteWindow time.Duration, logger *slog.Logger) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if deleteWindow <= 0 {
		deleteWindow = DefaultDeleteWindow
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		users:        users,
		notifier:     notifier,
		idGenerator:  idGenerator,
		now:          now,
		deleteWindow: deleteWindow,
		logger:       defaultLogger(logger),
	}
}

func (s *ReservationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationService", operation, attrs...)
}

// Create validates a submission and persists it with status Pending. The end
// time is derived from the submitted duration; overlapping reservations for
// the same room and time are accepted without a conflict check.
func (s *ReservationService) Create(ctx context.Context, params CreateReservationParams) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Create",
		"principal_id", params.Principal.UserID,
		"room_id", params.Input.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation created")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	normalized := normalizeReservationInput(params.Input)
	hours, fellBack := parseDurationHours(normalized.DurationHours)
	if fellBack {
		logger.WarnContext(ctx, "duration did not parse, defaulting", "submitted", params.Input.DurationHours, "hours", hours)
	}

	vErr := validateReservationInput(normalized, hours)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.requireRoom(ctx, normalized.RoomID, vErr); err != nil {
		return
	}

	now := s.now()
	reservation = Reservation{
		ID:                  s.idGenerator(),
		UserID:              params.Principal.UserID,
		RoomID:              normalized.RoomID,
		FullName:            normalized.FullName,
		CourseSection:       normalized.CourseSection,
		ReservationType:     normalized.ReservationType,
		StartTime:           normalized.StartTime,
		EndTime:             normalized.StartTime.Add(durationFromHours(hours)),
		ActivityDescription: normalized.ActivityDescription,
		Status:              StatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	var persisted Reservation
	persisted, err = s.reservations.CreateReservation(ctx, reservation)
	if err != nil {
		return
	}

	reservation = persisted
	return
}

// Update rewrites the editable fields of an existing reservation for
// administrators, recomputing the end time from the submitted duration. The
// status is left untouched.
func (s *ReservationService) Update(ctx context.Context, params UpdateReservationParams) (reservation Reservation, err error) {
	if s == nil {
		err = fmt.Errorf("ReservationService is nil")
		return
	}
	if s.reservations == nil {
		err = fmt.Errorf("reservation repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "Update",
		"principal_id", params.Principal.UserID,
		"reservation_id", params.ReservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing Reservation
	existing, err = s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		return
	}

	normalized := normalizeReservationInput(params.Input)
	hours, fellBack := parseDurationHours(normalized.DurationHours)
	if fellBack {
		logger.WarnContext(ctx, "duration did not parse, defaulting", "submitted", params.Input.DurationHours, "hours", hours)
	}

	vErr := validateReservationInput(normalized, hours)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.requireRoom(ctx, normalized.RoomID, vErr); err != nil {
		return
	}

	existing.RoomID = normalized.RoomID
	existing.FullName = normalized.FullName
	existing.CourseSection = normalized.CourseSection
	existing.ReservationType = normalized.ReservationType
	existing.StartTime = normalized.StartTime
	existing.EndTime = normalized.StartTime.Add(durationFromHours(hours))
	existing.ActivityDescription = normalized.ActivityDescription
	existing.UpdatedAt = s.now()

	reservation, err = s.reservations.UpdateReservation(ctx, existing)
	return
}

// List returns reservations visible to the principal. Non-admin callers only
// see their own rows; StatusAll (or an empty status) applies no status
// predicate.
func (s *ReservationService) List(ctx context.Context, params ListReservationsParams) ([]Reservation, error) {
	if s == nil {
		return nil, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}

	status := params.Status
	if status == "" {
		status = StatusAll
	}
	if status != StatusAll && !ValidStatus(status) {
		vErr := &ValidationError{}
		vErr.add("status", "unknown status filter")
		return nil, vErr
	}

	filter := ReservationFilter{
		Status: status,
		Search: strings.TrimSpace(params.Search),
	}
	if !params.Principal.IsAdmin {
		filter.OwnerID = params.Principal.UserID
	}

	reservations, err := s.reservations.ListReservations(ctx, filter)
	if err != nil {
		s.loggerWith(ctx, "List", "principal_id", params.Principal.UserID).
			ErrorContext(ctx, "failed to list reservations", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	return reservations, nil
}

// SetStatus overwrites a reservation status. Administrators may set any
// status over any prior state; the data layer enforces no transition
// legality. Owners are limited to cancelling their own reservations.
// Administrator decisions are mailed to the owner on a best-effort basis.
func (s *ReservationService) SetStatus(ctx context.Context, params SetStatusParams) (err error) {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return fmt.Errorf("reservation repository not configured")
	}

	logger := s.loggerWith(ctx, "SetStatus",
		"principal_id", params.Principal.UserID,
		"reservation_id", params.ReservationID,
		"status", string(params.Status),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set reservation status", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation status set")
	}()

	if !ValidStatus(params.Status) {
		vErr := &ValidationError{}
		vErr.add("status", "unknown status")
		err = vErr
		return
	}

	var reservation Reservation
	reservation, err = s.reservations.GetReservation(ctx, params.ReservationID)
	if err != nil {
		return
	}

	if !params.Principal.IsAdmin {
		if reservation.UserID != params.Principal.UserID || params.Status != StatusCancelled {
			err = ErrUnauthorized
			return
		}
	}

	if err = s.reservations.SetReservationStatus(ctx, params.ReservationID, params.Status, s.now()); err != nil {
		return
	}

	if params.Principal.IsAdmin && (params.Status == StatusApproved || params.Status == StatusRejected) {
		s.notifyDecision(ctx, logger, reservation, params.Status)
	}

	return nil
}

// Delete removes a reservation. Administrators delete unconditionally;
// owners only within the delete window measured from creation. An expired
// window is a policy violation, not a storage error, and leaves the record
// untouched.
func (s *ReservationService) Delete(ctx context.Context, principal Principal, reservationID string) (err error) {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return fmt.Errorf("reservation repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete",
		"principal_id", principal.UserID,
		"reservation_id", reservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation deleted")
	}()

	var reservation Reservation
	reservation, err = s.reservations.GetReservation(ctx, reservationID)
	if err != nil {
		return
	}

	if !principal.IsAdmin {
		if reservation.UserID != principal.UserID {
			err = ErrUnauthorized
			return
		}
		if s.now().Sub(reservation.CreatedAt) > s.deleteWindow {
			err = ErrDeleteWindowExpired
			return
		}
	}

	err = s.reservations.DeleteReservation(ctx, reservationID)
	return
}

// requireRoom confirms the target room exists, reporting a field error when
// it does not.
func (s *ReservationService) requireRoom(ctx context.Context, roomID string, vErr *ValidationError) error {
	if s.rooms == nil {
		return nil
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, ErrNotFound) {
			if vErr == nil {
				vErr = &ValidationError{}
			}
			vErr.add("room_id", "room does not exist")
			return vErr
		}
		return err
	}
	return nil
}

func (s *ReservationService) notifyDecision(ctx context.Context, logger *slog.Logger, reservation Reservation, status Status) {
	if s.notifier == nil || s.users == nil {
		return
	}

	owner, err := s.users.GetUser(ctx, reservation.UserID)
	if err != nil {
		logger.WarnContext(ctx, "could not resolve reservation owner for notification", "error", err)
		return
	}
	if owner.Email == "" {
		return
	}

	subject := fmt.Sprintf("Reservation %s", strings.ToLower(string(status)))
	body := fmt.Sprintf(
		"Hello %s,\n\nYour reservation for %s starting %s has been %s.\n\nSpecialized Room Tracker",
		owner.Username,
		reservation.RoomName,
		reservation.StartTime.Format("2006-01-02 15:04"),
		strings.ToLower(string(status)),
	)

	if err := s.notifier.Send(ctx, owner.Email, subject, body); err != nil {
		logger.WarnContext(ctx, "notification delivery failed", "recipient", owner.Email, "error", err)
	}
}

func normalizeReservationInput(input ReservationInput) ReservationInput {
	input.RoomID = strings.TrimSpace(input.RoomID)
	input.FullName = strings.TrimSpace(input.FullName)
	input.CourseSection = strings.TrimSpace(input.CourseSection)
	input.ReservationType = strings.TrimSpace(input.ReservationType)
	input.DurationHours = strings.TrimSpace(input.DurationHours)
	input.ActivityDescription = strings.TrimSpace(input.ActivityDescription)
	return input
}

func validateReservationInput(input ReservationInput, hours float64) *ValidationError {
	vErr := &ValidationError{}

	if input.RoomID == "" {
		vErr.add("room_id", "must not be empty")
	}
	if input.FullName == "" {
		vErr.add("full_name", "must not be empty")
	}
	if input.CourseSection == "" {
		vErr.add("course_section", "must not be empty")
	}
	if input.ReservationType == "" {
		vErr.add("reservation_type", "must not be empty")
	}
	if input.ActivityDescription == "" {
		vErr.add("activity_description", "must not be empty")
	}
	if input.StartTime.IsZero() {
		vErr.add("start_time", "must be provided")
	}
	if hours <= 0 {
		vErr.add("duration_hours", "must be a positive number of hours")
	}

	return vErr
}

// parseDurationHours interprets the submitted duration text. An unparsable
// value falls back to DefaultDurationHours, mirroring the desktop form's
// long-standing leniency; the second return reports the fallback so callers
// can log it. NaN and infinities count as unparsable since no finite end
// time can be derived from them.
func parseDurationHours(raw string) (float64, bool) {
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return DefaultDurationHours, true
	}
	return hours, false
}

func durationFromHours(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
