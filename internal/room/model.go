package room

import (
	"time"

	"github.com/neumoapp/platform/internal/shared/types"
)

// ConsultationRoom represents a bookable room within a hospital. A
// room may serve several specialties; the assignments live in the
// room_specialties join and are listed separately.
type ConsultationRoom struct {
	ID           types.ID   `json:"id"`
	HospitalID   types.ID   `json:"hospital_id"`
	RoomNumber   string     `json:"room_number"`
	Name         string     `json:"name,omitempty"`
	IsActive     bool       `json:"is_active"`
	SpecialtyIDs []types.ID `json:"specialty_ids,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateRoomRequest is the request to create a consultation room,
// optionally with its initial specialty assignments
type CreateRoomRequest struct {
	HospitalID   types.ID   `json:"hospital_id"`
	RoomNumber   string     `json:"room_number"`
	Name         string     `json:"name,omitempty"`
	SpecialtyIDs []types.ID `json:"specialty_ids,omitempty"`
}

// UpdateRoomRequest is the request to update a consultation room
type UpdateRoomRequest struct {
	RoomNumber *string `json:"room_number,omitempty"`
	Name       *string `json:"name,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// AssignSpecialtyRequest is the request to assign a specialty to a room
type AssignSpecialtyRequest struct {
	SpecialtyID types.ID `json:"specialty_id"`
}

// ListFilter narrows room listings
type ListFilter struct {
	HospitalID  types.ID
	SpecialtyID types.ID
	ActiveOnly  bool
}
