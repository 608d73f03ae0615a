package scheduling

import (
	"context"

	"github.com/neumoapp/platform/internal/shared/types"
)

// SpecialtyDirectory resolves specialties for the scheduler
type SpecialtyDirectory interface {
	Specialty(ctx context.Context, id types.ID) (*SpecialtyInfo, error)
}

// RoomDirectory resolves consultation rooms for the scheduler
type RoomDirectory interface {
	// Room returns the room regardless of its active flag
	Room(ctx context.Context, id types.ID) (*RoomInfo, error)
	// Serves reports whether the room is assigned to the specialty
	Serves(ctx context.Context, roomID, specialtyID types.ID) (bool, error)
	// Eligible returns the active rooms in a hospital serving a
	// specialty, provided the hospital is active and offers it
	Eligible(ctx context.Context, hospitalID, specialtyID types.ID) ([]*RoomInfo, error)
}

// HospitalDirectory answers offering questions for the scheduler
type HospitalDirectory interface {
	Offers(ctx context.Context, hospitalID, specialtyID types.ID) (bool, error)
}

// AppointmentStore persists appointments
type AppointmentStore interface {
	Insert(ctx context.Context, appt *Appointment) error
	Get(ctx context.Context, id types.ID) (*Appointment, error)
	// Update persists the appointment's status and observations
	Update(ctx context.Context, appt *Appointment) error
	// SlotTaken reports whether an active appointment already holds
	// the slot
	SlotTaken(ctx context.Context, roomID types.ID, date types.Date, start types.TimeOfDay) (bool, error)
	// OccupiedSlots returns, per room, the start times held by active
	// appointments on the given date
	OccupiedSlots(ctx context.Context, roomIDs []types.ID, date types.Date) (map[types.ID][]types.TimeOfDay, error)
	ListByPatient(ctx context.Context, patientID types.ID) ([]*Appointment, error)
	ListUpcoming(ctx context.Context, patientID types.ID, from types.Date) ([]*Appointment, error)
}
