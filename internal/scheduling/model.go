package scheduling

import (
	"time"

	"github.com/neumoapp/platform/internal/shared/types"
)

// Status is the lifecycle state of an appointment
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Active reports whether the appointment still holds its slot
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment represents a booked slot
type Appointment struct {
	ID                 types.ID        `json:"id"`
	PatientID          types.ID        `json:"patient_id"`
	ConsultationRoomID types.ID        `json:"consultation_room_id"`
	SpecialtyID        types.ID        `json:"specialty_id"`
	Date               types.Date      `json:"appointment_date"`
	StartTime          types.TimeOfDay `json:"start_time"`
	EndTime            types.TimeOfDay `json:"end_time"`
	Shift              Shift           `json:"shift"`
	Status             Status          `json:"status"`
	Reason             string          `json:"reason,omitempty"`
	Observations       string          `json:"observations,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// SpecialtyInfo is the slice of a specialty the scheduler needs
type SpecialtyInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	IsActive bool     `json:"-"`
}

// RoomInfo is the slice of a consultation room the scheduler needs
type RoomInfo struct {
	ID         types.ID `json:"id"`
	HospitalID types.ID `json:"hospital_id"`
	RoomNumber string   `json:"room_number"`
	Name       string   `json:"name,omitempty"`
	IsActive   bool     `json:"-"`
}

// TimeSlot is one bookable interval in one room
type TimeSlot struct {
	StartTime types.TimeOfDay `json:"start_time"`
	EndTime   types.TimeOfDay `json:"end_time"`
	Room      RoomInfo        `json:"consultation_room"`
	Available bool            `json:"available"`
}

// AvailableSlotsResponse is the answer to an availability query
type AvailableSlotsResponse struct {
	HospitalID    types.ID   `json:"hospital_id"`
	SpecialtyID   types.ID   `json:"specialty_id"`
	SpecialtyName string     `json:"specialty_name"`
	Date          types.Date `json:"date"`
	Shift         Shift      `json:"shift"`
	Slots         []TimeSlot `json:"slots"`
}

// BookAppointmentRequest is the request to book a slot
type BookAppointmentRequest struct {
	SpecialtyID        types.ID `json:"specialty_id"`
	ConsultationRoomID types.ID `json:"consultation_room_id"`
	Date               string   `json:"appointment_date"`
	StartTime          string   `json:"start_time"`
	Shift              string   `json:"shift"`
	Reason             string   `json:"reason,omitempty"`
}

// UpdateAppointmentRequest is the request to change an appointment's
// status or attach observations
type UpdateAppointmentRequest struct {
	Status       *Status `json:"status,omitempty"`
	Observations *string `json:"observations,omitempty"`
}

// SlotQuery identifies one availability question
type SlotQuery struct {
	HospitalID  types.ID
	SpecialtyID types.ID
	Date        types.Date
	Shift       Shift
	// RoomID optionally narrows the answer to a single room
	RoomID types.ID
	// OnlyAvailable drops occupied slots instead of flagging them
	OnlyAvailable bool
}
