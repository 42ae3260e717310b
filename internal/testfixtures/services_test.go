package testfixtures_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/room-tracker/internal/application"
	"github.com/example/room-tracker/internal/testfixtures"
)

type recordingNotifier struct {
	mu         sync.Mutex
	recipients []string
	subjects   []string
}

func (n *recordingNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recipients = append(n.recipients, recipient)
	n.subjects = append(n.subjects, subject)
	return nil
}

// TestReservationWorkflow drives the full stack over real SQLite: accounts
// are provisioned, a student logs in and reserves a room, an administrator
// approves the request, and finally removes the room with its reservations.
func TestReservationWorkflow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := testfixtures.NewClock(time.Time{})
	notifier := &recordingNotifier{}
	services := testfixtures.NewServices(t,
		testfixtures.WithServicesClock(clock),
		testfixtures.WithNotifier(notifier),
	)

	// Provision the predefined accounts. Running the batch twice must not
	// create duplicates.
	seeds := []application.AccountSeed{
		{Username: "registrar", Email: "registrar@campus.edu", Password: "admin123", Role: application.RoleCampusAdministrator},
		{Username: "alice", Email: "alice@campus.edu", Password: "alice123", Role: application.RoleStudent},
	}
	report, err := services.Provision.ProvisionAccounts(ctx, seeds)
	if err != nil {
		t.Fatalf("ProvisionAccounts failed: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("expected 2 accounts created, got %+v", report)
	}
	report, err = services.Provision.ProvisionAccounts(ctx, seeds)
	if err != nil {
		t.Fatalf("second ProvisionAccounts failed: %v", err)
	}
	if report.Created != 0 || report.Updated != 2 {
		t.Fatalf("expected idempotent rerun, got %+v", report)
	}

	// Both roles authenticate with their seeded passwords.
	adminIdentity, err := services.Auth.VerifyCredentials(ctx, application.VerifyCredentialsParams{
		Email:    "registrar@campus.edu",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	admin := adminIdentity.Principal()
	if !admin.IsAdmin {
		t.Fatalf("expected campus administrator principal, got %+v", admin)
	}

	studentIdentity, err := services.Auth.VerifyCredentials(ctx, application.VerifyCredentialsParams{
		Email:    "alice@campus.edu",
		Password: "alice123",
	})
	if err != nil {
		t.Fatalf("student login failed: %v", err)
	}
	student := studentIdentity.Principal()
	if student.IsAdmin {
		t.Fatalf("expected student principal, got %+v", student)
	}

	if _, err := services.Auth.VerifyCredentials(ctx, application.VerifyCredentialsParams{
		Email:    "alice@campus.edu",
		Password: "wrong",
	}); !errors.Is(err, application.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}

	// The administrator registers the room.
	room, err := services.Rooms.AddRoom(ctx, application.AddRoomParams{
		Principal: admin,
		Input:     application.RoomInput{Name: "Room 101", Capacity: "50", Location: "Main Building"},
	})
	if err != nil {
		t.Fatalf("AddRoom failed: %v", err)
	}

	// The student reserves two hours starting at the reference instant.
	start := testfixtures.ReferenceTime()
	reservation, err := services.Reservations.Create(ctx, application.CreateReservationParams{
		Principal: student,
		Input: application.ReservationInput{
			RoomID:              room.ID,
			FullName:            "Alice Cruz",
			CourseSection:       "BSIT 3-1",
			ReservationType:     "Org Meeting",
			StartTime:           start,
			DurationHours:       "2",
			ActivityDescription: "Club meeting",
		},
	})
	if err != nil {
		t.Fatalf("Create reservation failed: %v", err)
	}
	if reservation.Status != application.StatusPending {
		t.Fatalf("expected Pending, got %q", reservation.Status)
	}
	if !reservation.EndTime.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected end at 11:00, got %v", reservation.EndTime)
	}
	if reservation.RoomName != "Room 101" {
		t.Fatalf("expected room name resolved, got %q", reservation.RoomName)
	}

	// The administrator approves it and the owner is notified.
	if err := services.Reservations.SetStatus(ctx, application.SetStatusParams{
		Principal:     admin,
		ReservationID: reservation.ID,
		Status:        application.StatusApproved,
	}); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if len(notifier.recipients) != 1 || notifier.recipients[0] != "alice@campus.edu" {
		t.Fatalf("expected one notification to the owner, got %v", notifier.recipients)
	}

	approved, err := services.Reservations.List(ctx, application.ListReservationsParams{
		Principal: admin,
		Status:    application.StatusApproved,
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != reservation.ID {
		t.Fatalf("expected the approved reservation listed, got %#v", approved)
	}

	// The student only sees their own rows regardless of the filter.
	mine, err := services.Reservations.List(ctx, application.ListReservationsParams{Principal: student})
	if err != nil {
		t.Fatalf("student List failed: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != student.UserID {
		t.Fatalf("expected only the student's reservations, got %#v", mine)
	}

	// Owner deletion is bound to the five minute window.
	if err := services.Reservations.Delete(ctx, student, reservation.ID); err != nil {
		t.Fatalf("delete inside the window failed: %v", err)
	}

	lateReservation, err := services.Reservations.Create(ctx, application.CreateReservationParams{
		Principal: student,
		Input: application.ReservationInput{
			RoomID:              room.ID,
			FullName:            "Alice Cruz",
			CourseSection:       "BSIT 3-1",
			ReservationType:     "Org Meeting",
			StartTime:           start.Add(24 * time.Hour),
			DurationHours:       "1",
			ActivityDescription: "Follow-up meeting",
		},
	})
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	clock.Advance(5*time.Minute + time.Second)
	if err := services.Reservations.Delete(ctx, student, lateReservation.ID); !errors.Is(err, application.ErrDeleteWindowExpired) {
		t.Fatalf("expected ErrDeleteWindowExpired, got %v", err)
	}

	// Removing the room takes its remaining reservations with it.
	if err := services.Rooms.DeleteRoom(ctx, admin, room.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	remaining, err := services.Reservations.List(ctx, application.ListReservationsParams{Principal: admin})
	if err != nil {
		t.Fatalf("List after room delete failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no reservations after cascade delete, got %#v", remaining)
	}
	rooms, err := services.Rooms.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms failed: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("expected empty catalog, got %#v", rooms)
	}
}

func TestServices_DuplicateRoomNameSurfacesConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	services := testfixtures.NewServices(t)
	admin := application.Principal{UserID: "admin", IsAdmin: true}

	if _, err := services.Rooms.AddRoom(ctx, application.AddRoomParams{
		Principal: admin,
		Input:     application.RoomInput{Name: "AVR", Capacity: "30"},
	}); err != nil {
		t.Fatalf("AddRoom failed: %v", err)
	}

	_, err := services.Rooms.AddRoom(ctx, application.AddRoomParams{
		Principal: admin,
		Input:     application.RoomInput{Name: "AVR", Capacity: "60"},
	})
	if !errors.Is(err, application.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
