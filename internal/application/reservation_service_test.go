package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type reservationRepoStub struct {
	reservation Reservation
	created     Reservation
	updated     Reservation
	list        []Reservation
	filter      ReservationFilter
	setID       string
	setStatus   Status
	deletedID   string
	err         error
	getErr      error
	setErr      error
	deleteErr   error
	listErr     error
}

func (r *reservationRepoStub) CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	if r.err != nil {
		return Reservation{}, r.err
	}
	r.created = reservation
	return reservation, nil
}

func (r *reservationRepoStub) UpdateReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	if r.err != nil {
		return Reservation{}, r.err
	}
	r.updated = reservation
	return reservation, nil
}

func (r *reservationRepoStub) GetReservation(ctx context.Context, id string) (Reservation, error) {
	if r.getErr != nil {
		return Reservation{}, r.getErr
	}
	if r.reservation.ID == "" {
		return Reservation{}, ErrNotFound
	}
	return r.reservation, nil
}

func (r *reservationRepoStub) ListReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error) {
	r.filter = filter
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Reservation, len(r.list))
	copy(out, r.list)
	return out, nil
}

func (r *reservationRepoStub) SetReservationStatus(ctx context.Context, id string, status Status, updatedAt time.Time) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.setID = id
	r.setStatus = status
	return nil
}

func (r *reservationRepoStub) DeleteReservation(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = id
	return nil
}

type roomCatalogStub struct {
	room Room
	err  error
}

func (r *roomCatalogStub) GetRoom(ctx context.Context, id string) (Room, error) {
	if r.err != nil {
		return Room{}, r.err
	}
	return r.room, nil
}

type userDirectoryStub struct {
	user User
	err  error
}

func (u *userDirectoryStub) GetUser(ctx context.Context, id string) (User, error) {
	if u.err != nil {
		return User{}, u.err
	}
	return u.user, nil
}

type notifierStub struct {
	recipients []string
	subjects   []string
	bodies     []string
	err        error
}

func (n *notifierStub) Send(ctx context.Context, recipient, subject, body string) error {
	n.recipients = append(n.recipients, recipient)
	n.subjects = append(n.subjects, subject)
	n.bodies = append(n.bodies, body)
	return n.err
}

func mustUTC(hour int) time.Time {
	return time.Date(2025, time.January, 10, hour, 0, 0, 0, time.UTC)
}

func newReservationService(repo *reservationRepoStub, rooms *roomCatalogStub, users *userDirectoryStub, notifier *notifierStub, now func() time.Time) *ReservationService {
	if rooms == nil {
		rooms = &roomCatalogStub{room: Room{ID: "room-1", Name: "Room 101"}}
	}
	if users == nil {
		users = &userDirectoryStub{}
	}
	if notifier == nil {
		notifier = &notifierStub{}
	}
	if now == nil {
		now = func() time.Time { return mustUTC(9) }
	}
	return NewReservationService(repo, rooms, users, notifier, func() string { return "reservation-1" }, now)
}

func validReservationInput() ReservationInput {
	return ReservationInput{
		RoomID:              "room-1",
		FullName:            "Alice Cruz",
		CourseSection:       "BSIT 3-1",
		ReservationType:     TypeOrgMeeting,
		StartTime:           mustUTC(9),
		DurationHours:       "2",
		ActivityDescription: "Club meeting",
	}
}

func TestReservationService_Create_StartsPendingWithDerivedEndTime(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{}
	svc := newReservationService(repo, nil, nil, nil, nil)

	reservation, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validReservationInput(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reservation.Status != StatusPending {
		t.Fatalf("expected Pending status, got %q", reservation.Status)
	}
	if !reservation.EndTime.Equal(mustUTC(11)) {
		t.Fatalf("expected end time 11:00, got %v", reservation.EndTime)
	}
	if reservation.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %q", reservation.UserID)
	}
	if repo.created.ID != "reservation-1" {
		t.Fatalf("expected generated id to be persisted, got %q", repo.created.ID)
	}
}

func TestReservationService_Create_SupportsFractionalHours(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{}
	svc := newReservationService(repo, nil, nil, nil, nil)

	input := validReservationInput()
	input.DurationHours = "1.5"

	reservation, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: Principal{UserID: "user-1"},
		Input:     input,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := mustUTC(9).Add(90 * time.Minute)
	if !reservation.EndTime.Equal(want) {
		t.Fatalf("expected end time %v, got %v", want, reservation.EndTime)
	}
}

func TestReservationService_Create_DefaultsUnparsableDurationToOneHour(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{}
	svc := newReservationService(repo, nil, nil, nil, nil)

	input := validReservationInput()
	input.DurationHours = "two hours"

	reservation, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: Principal{UserID: "user-1"},
		Input:     input,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reservation.EndTime.Equal(mustUTC(10)) {
		t.Fatalf("expected one hour fallback ending 10:00, got %v", reservation.EndTime)
	}
}

func TestReservationService_Create_DefaultsNonFiniteDurationToOneHour(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{}
	svc := newReservationService(repo, nil, nil, nil, nil)

	for _, raw := range []string{"NaN", "+Inf", "-Inf", "Infinity"} {
		input := validReservationInput()
		input.DurationHours = raw

		reservation, err := svc.Create(context.Background(), CreateReservationParams{
			Principal: Principal{UserID: "user-1"},
			Input:     input,
		})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}

		if !reservation.EndTime.Equal(mustUTC(10)) {
			t.Fatalf("%q: expected one hour fallback ending 10:00, got %v", raw, reservation.EndTime)
		}
	}
}

func TestReservationService_Create_RejectsNonPositiveDuration(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

	input := validReservationInput()
	input.DurationHours = "-1"

	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: Principal{UserID: "user-1"},
		Input:     input,
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["duration_hours"]; !ok {
		t.Fatalf("expected duration_hours validation error, got %v", vErr.FieldErrors)
	}
}

func TestReservationService_Create_ValidatesRequiredFields(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: Principal{UserID: "user-1"},
		Input:     ReservationInput{DurationHours: "1"},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"room_id", "full_name", "course_section", "reservation_type", "activity_description", "start_time"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected %s validation error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestReservationService_Create_RejectsUnknownRoom(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, &roomCatalogStub{err: ErrNotFound}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateReservationParams{
		Principal: Principal{UserID: "user-1"},
		Input:     validReservationInput(),
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["room_id"]; !ok {
		t.Fatalf("expected room_id validation error, got %v", vErr.FieldErrors)
	}
}

func TestReservationService_Create_RequiresPrincipal(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateReservationParams{Input: validReservationInput()})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReservationService_Update_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

	_, err := svc.Update(context.Background(), UpdateReservationParams{
		Principal:     Principal{UserID: "user-1"},
		ReservationID: "reservation-1",
		Input:         validReservationInput(),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReservationService_Update_RecomputesEndTimeAndKeepsStatus(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:        "reservation-1",
		UserID:    "user-1",
		Status:    StatusApproved,
		CreatedAt: mustUTC(8),
	}}
	svc := newReservationService(repo, nil, nil, nil, func() time.Time { return mustUTC(12) })

	input := validReservationInput()
	input.DurationHours = "3"

	updated, err := svc.Update(context.Background(), UpdateReservationParams{
		Principal:     Principal{UserID: "admin-1", IsAdmin: true},
		ReservationID: "reservation-1",
		Input:         input,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != StatusApproved {
		t.Fatalf("expected status untouched, got %q", updated.Status)
	}
	if !updated.EndTime.Equal(mustUTC(12)) {
		t.Fatalf("expected end time 12:00, got %v", updated.EndTime)
	}
	if !repo.updated.UpdatedAt.Equal(mustUTC(12)) {
		t.Fatalf("expected updated_at stamped, got %v", repo.updated.UpdatedAt)
	}
}

func TestReservationService_List_RestrictsNonAdminsToOwnRows(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{}
	svc := newReservationService(repo, nil, nil, nil, nil)

	_, err := svc.List(context.Background(), ListReservationsParams{
		Principal: Principal{UserID: "user-1"},
		Status:    StatusPending,
		Search:    "  Room 101  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.filter.OwnerID != "user-1" {
		t.Fatalf("expected owner filter user-1, got %q", repo.filter.OwnerID)
	}
	if repo.filter.Search != "Room 101" {
		t.Fatalf("expected trimmed search, got %q", repo.filter.Search)
	}
}

func TestReservationService_List_AdminsSeeEveryRow(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{}
	svc := newReservationService(repo, nil, nil, nil, nil)

	_, err := svc.List(context.Background(), ListReservationsParams{
		Principal: Principal{UserID: "admin-1", IsAdmin: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.filter.OwnerID != "" {
		t.Fatalf("expected no owner filter for admins, got %q", repo.filter.OwnerID)
	}
	if repo.filter.Status != StatusAll {
		t.Fatalf("expected StatusAll for empty filter, got %q", repo.filter.Status)
	}
}

func TestReservationService_List_RejectsUnknownStatusFilter(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

	_, err := svc.List(context.Background(), ListReservationsParams{
		Principal: Principal{UserID: "admin-1", IsAdmin: true},
		Status:    "Tentative",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestReservationService_SetStatus_AdminOverwritesAnyPriorState(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:     "reservation-1",
		UserID: "user-1",
		Status: StatusApproved,
	}}
	users := &userDirectoryStub{user: User{ID: "user-1", Username: "alice", Email: "alice@campus.edu"}}
	svc := newReservationService(repo, nil, users, &notifierStub{}, nil)

	err := svc.SetStatus(context.Background(), SetStatusParams{
		Principal:     Principal{UserID: "admin-1", IsAdmin: true},
		ReservationID: "reservation-1",
		Status:        StatusPending,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.setStatus != StatusPending {
		t.Fatalf("expected Pending written, got %q", repo.setStatus)
	}
}

func TestReservationService_SetStatus_NotifiesOwnerOnDecision(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:        "reservation-1",
		UserID:    "user-1",
		RoomName:  "Room 101",
		StartTime: mustUTC(9),
		Status:    StatusPending,
	}}
	users := &userDirectoryStub{user: User{ID: "user-1", Username: "alice", Email: "alice@campus.edu"}}
	notifier := &notifierStub{}
	svc := newReservationService(repo, nil, users, notifier, nil)

	err := svc.SetStatus(context.Background(), SetStatusParams{
		Principal:     Principal{UserID: "admin-1", IsAdmin: true},
		ReservationID: "reservation-1",
		Status:        StatusApproved,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.recipients) != 1 || notifier.recipients[0] != "alice@campus.edu" {
		t.Fatalf("expected one notification to the owner, got %v", notifier.recipients)
	}
}

func TestReservationService_SetStatus_NotificationFailureDoesNotSurface(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:     "reservation-1",
		UserID: "user-1",
		Status: StatusPending,
	}}
	users := &userDirectoryStub{user: User{ID: "user-1", Email: "alice@campus.edu"}}
	notifier := &notifierStub{err: errors.New("smtp unreachable")}
	svc := newReservationService(repo, nil, users, notifier, nil)

	err := svc.SetStatus(context.Background(), SetStatusParams{
		Principal:     Principal{UserID: "admin-1", IsAdmin: true},
		ReservationID: "reservation-1",
		Status:        StatusRejected,
	})
	if err != nil {
		t.Fatalf("expected delivery failure to stay internal, got %v", err)
	}
}

func TestReservationService_SetStatus_OwnerMayOnlyCancelOwnReservation(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:     "reservation-1",
		UserID: "user-1",
		Status: StatusPending,
	}}
	svc := newReservationService(repo, nil, nil, nil, nil)

	err := svc.SetStatus(context.Background(), SetStatusParams{
		Principal:     Principal{UserID: "user-1"},
		ReservationID: "reservation-1",
		Status:        StatusCancelled,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.setStatus != StatusCancelled {
		t.Fatalf("expected Cancelled written, got %q", repo.setStatus)
	}

	err = svc.SetStatus(context.Background(), SetStatusParams{
		Principal:     Principal{UserID: "user-1"},
		ReservationID: "reservation-1",
		Status:        StatusApproved,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for owner approval, got %v", err)
	}

	err = svc.SetStatus(context.Background(), SetStatusParams{
		Principal:     Principal{UserID: "user-2"},
		ReservationID: "reservation-1",
		Status:        StatusCancelled,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-owner, got %v", err)
	}
}

func TestReservationService_SetStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

	err := svc.SetStatus(context.Background(), SetStatusParams{
		Principal:     Principal{UserID: "admin-1", IsAdmin: true},
		ReservationID: "reservation-1",
		Status:        "Archived",
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestReservationService_Delete_OwnerInsideWindow(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:        "reservation-1",
		UserID:    "user-1",
		CreatedAt: mustUTC(9),
	}}
	now := mustUTC(9).Add(5 * time.Minute)
	svc := newReservationService(repo, nil, nil, nil, func() time.Time { return now })

	if err := svc.Delete(context.Background(), Principal{UserID: "user-1"}, "reservation-1"); err != nil {
		t.Fatalf("expected delete at the window boundary to succeed, got %v", err)
	}
	if repo.deletedID != "reservation-1" {
		t.Fatalf("expected reservation deleted, got %q", repo.deletedID)
	}
}

func TestReservationService_Delete_OwnerPastWindow(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:        "reservation-1",
		UserID:    "user-1",
		CreatedAt: mustUTC(9),
	}}
	now := mustUTC(9).Add(5*time.Minute + time.Second)
	svc := newReservationService(repo, nil, nil, nil, func() time.Time { return now })

	err := svc.Delete(context.Background(), Principal{UserID: "user-1"}, "reservation-1")
	if !errors.Is(err, ErrDeleteWindowExpired) {
		t.Fatalf("expected ErrDeleteWindowExpired, got %v", err)
	}
	if repo.deletedID != "" {
		t.Fatalf("expected record untouched, got delete of %q", repo.deletedID)
	}
}

func TestReservationService_Delete_AdminIgnoresWindow(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:        "reservation-1",
		UserID:    "user-1",
		CreatedAt: mustUTC(9),
	}}
	now := mustUTC(9).Add(48 * time.Hour)
	svc := newReservationService(repo, nil, nil, nil, func() time.Time { return now })

	if err := svc.Delete(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "reservation-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedID != "reservation-1" {
		t.Fatalf("expected reservation deleted, got %q", repo.deletedID)
	}
}

func TestReservationService_Delete_StrangerCannotDelete(t *testing.T) {
	t.Parallel()

	repo := &reservationRepoStub{reservation: Reservation{
		ID:        "reservation-1",
		UserID:    "user-1",
		CreatedAt: mustUTC(9),
	}}
	svc := newReservationService(repo, nil, nil, nil, nil)

	err := svc.Delete(context.Background(), Principal{UserID: "user-2"}, "reservation-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReservationService_Delete_MissingReservation(t *testing.T) {
	t.Parallel()

	svc := newReservationService(&reservationRepoStub{}, nil, nil, nil, nil)

	err := svc.Delete(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
