package http

import (
	"time"

	"github.com/example/room-tracker/internal/application"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type reservationRequest struct {
	RoomID              string    `json:"room_id"`
	FullName            string    `json:"full_name"`
	CourseSection       string    `json:"course_section"`
	ReservationType     string    `json:"reservation_type"`
	StartTime           time.Time `json:"start_time"`
	DurationHours       string    `json:"duration_hours"`
	ActivityDescription string    `json:"activity_description"`
}

func (r reservationRequest) toInput() application.ReservationInput {
	return application.ReservationInput{
		RoomID:              r.RoomID,
		FullName:            r.FullName,
		CourseSection:       r.CourseSection,
		ReservationType:     r.ReservationType,
		StartTime:           r.StartTime,
		DurationHours:       r.DurationHours,
		ActivityDescription: r.ActivityDescription,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

type reservationDTO struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	RoomID              string    `json:"room_id"`
	RoomName            string    `json:"room_name"`
	FullName            string    `json:"full_name"`
	CourseSection       string    `json:"course_section"`
	ReservationType     string    `json:"reservation_type"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	ActivityDescription string    `json:"activity_description"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	return reservationDTO{
		ID:                  reservation.ID,
		UserID:              reservation.UserID,
		RoomID:              reservation.RoomID,
		RoomName:            reservation.RoomName,
		FullName:            reservation.FullName,
		CourseSection:       reservation.CourseSection,
		ReservationType:     reservation.ReservationType,
		StartTime:           reservation.StartTime,
		EndTime:             reservation.EndTime,
		ActivityDescription: reservation.ActivityDescription,
		Status:              string(reservation.Status),
		CreatedAt:           reservation.CreatedAt,
	}
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
}

type reservationListResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type roomRequest struct {
	Name     string `json:"name"`
	Capacity string `json:"capacity"`
	Location string `json:"location"`
}

func (r roomRequest) toInput() application.RoomInput {
	return application.RoomInput{Name: r.Name, Capacity: r.Capacity, Location: r.Location}
}

type roomDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	IsActive bool   `json:"is_active"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		ID:       room.ID,
		Name:     room.Name,
		Capacity: room.Capacity,
		Location: room.Location,
		IsActive: room.IsActive,
	}
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type roomListResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type accountSeedDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type provisionRequest struct {
	Accounts []accountSeedDTO `json:"accounts"`
}

func (r provisionRequest) toSeeds() []application.AccountSeed {
	seeds := make([]application.AccountSeed, 0, len(r.Accounts))
	for _, account := range r.Accounts {
		seeds = append(seeds, application.AccountSeed{
			Username: account.Username,
			Email:    account.Email,
			Password: account.Password,
			Role:     account.Role,
		})
	}
	return seeds
}

type provisionResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
