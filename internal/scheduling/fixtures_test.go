package scheduling

import (
	"context"
	"sync"
	"time"

	"github.com/neumoapp/platform/internal/shared/config"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

func testSchedule() Schedule {
	return NewSchedule(config.SchedulingConfig{
		SlotDuration:   20 * time.Minute,
		MorningStart:   types.NewTimeOfDay(8, 0),
		MorningEnd:     types.NewTimeOfDay(13, 0),
		AfternoonStart: types.NewTimeOfDay(14, 0),
		AfternoonEnd:   types.NewTimeOfDay(18, 0),
	})
}

// fixture is an in-memory backend implementing every scheduling
// dependency. Insert enforces the same one-active-appointment-per-slot
// rule the database's unique index does.
type fixture struct {
	mu          sync.Mutex
	specialties map[types.ID]*SpecialtyInfo
	rooms       map[types.ID]*RoomInfo
	serves      map[string]bool
	offers      map[string]bool
	appts       map[types.ID]*Appointment
}

func newFixture() *fixture {
	return &fixture{
		specialties: make(map[types.ID]*SpecialtyInfo),
		rooms:       make(map[types.ID]*RoomInfo),
		serves:      make(map[string]bool),
		offers:      make(map[string]bool),
		appts:       make(map[types.ID]*Appointment),
	}
}

func (f *fixture) addSpecialty(name string, active bool) types.ID {
	id := types.NewID()
	f.specialties[id] = &SpecialtyInfo{ID: id, Name: name, IsActive: active}
	return id
}

func (f *fixture) addHospital() types.ID {
	return types.NewID()
}

func (f *fixture) addRoom(hospitalID, specialtyID types.ID, number string, active, offered bool) types.ID {
	id := types.NewID()
	f.rooms[id] = &RoomInfo{
		ID:         id,
		HospitalID: hospitalID,
		RoomNumber: number,
		IsActive:   active,
	}
	f.serves[offerKey(id, specialtyID)] = true
	f.offers[offerKey(hospitalID, specialtyID)] = offered
	return id
}

// assignSpecialty adds a further specialty assignment to a room
func (f *fixture) assignSpecialty(roomID, specialtyID types.ID, offered bool) {
	f.serves[offerKey(roomID, specialtyID)] = true
	f.offers[offerKey(f.rooms[roomID].HospitalID, specialtyID)] = offered
}

func offerKey(hospitalID, specialtyID types.ID) string {
	return hospitalID.String() + "|" + specialtyID.String()
}

func slotKey(roomID types.ID, date types.Date, start types.TimeOfDay) string {
	return roomID.String() + "|" + date.String() + "|" + start.String()
}

// --- SpecialtyDirectory ---

func (f *fixture) Specialty(ctx context.Context, id types.ID) (*SpecialtyInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.specialties[id]
	if !ok {
		return nil, errors.NotFound("specialty", id.String())
	}
	return s, nil
}

// --- RoomDirectory ---

func (f *fixture) Room(ctx context.Context, id types.ID) (*RoomInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, errors.NotFound("consultation room", id.String())
	}
	return r, nil
}

func (f *fixture) Serves(ctx context.Context, roomID, specialtyID types.ID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.serves[offerKey(roomID, specialtyID)], nil
}

func (f *fixture) Eligible(ctx context.Context, hospitalID, specialtyID types.ID) ([]*RoomInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := []*RoomInfo{}
	for _, r := range f.rooms {
		if r.HospitalID == hospitalID && r.IsActive &&
			f.serves[offerKey(r.ID, specialtyID)] &&
			f.offers[offerKey(hospitalID, specialtyID)] {
			rooms = append(rooms, r)
		}
	}
	return rooms, nil
}

// --- HospitalDirectory ---

func (f *fixture) Offers(ctx context.Context, hospitalID, specialtyID types.ID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offers[offerKey(hospitalID, specialtyID)], nil
}

// --- AppointmentStore ---

func (f *fixture) Insert(ctx context.Context, appt *Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.appts {
		if existing.Status.Active() &&
			existing.ConsultationRoomID == appt.ConsultationRoomID &&
			existing.Date.Equal(appt.Date) &&
			existing.StartTime == appt.StartTime {
			return errors.Conflict("the selected slot is no longer available")
		}
	}

	stored := *appt
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.appts[appt.ID] = &stored
	return nil
}

func (f *fixture) Get(ctx context.Context, id types.ID) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appt, ok := f.appts[id]
	if !ok {
		return nil, errors.NotFound("appointment", id.String())
	}
	copied := *appt
	return &copied, nil
}

func (f *fixture) Update(ctx context.Context, appt *Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.appts[appt.ID]
	if !ok {
		return errors.NotFound("appointment", appt.ID.String())
	}
	stored.Status = appt.Status
	stored.Observations = appt.Observations
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fixture) SlotTaken(ctx context.Context, roomID types.ID, date types.Date, start types.TimeOfDay) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, appt := range f.appts {
		if appt.Status.Active() &&
			appt.ConsultationRoomID == roomID &&
			appt.Date.Equal(date) &&
			appt.StartTime == start {
			return true, nil
		}
	}
	return false, nil
}

func (f *fixture) OccupiedSlots(ctx context.Context, roomIDs []types.ID, date types.Date) (map[types.ID][]types.TimeOfDay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wanted := make(map[types.ID]bool, len(roomIDs))
	for _, id := range roomIDs {
		wanted[id] = true
	}

	occupied := make(map[types.ID][]types.TimeOfDay)
	for _, appt := range f.appts {
		if appt.Status.Active() && wanted[appt.ConsultationRoomID] && appt.Date.Equal(date) {
			occupied[appt.ConsultationRoomID] = append(occupied[appt.ConsultationRoomID], appt.StartTime)
		}
	}
	return occupied, nil
}

func (f *fixture) ListByPatient(ctx context.Context, patientID types.ID) ([]*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointments := []*Appointment{}
	for _, appt := range f.appts {
		if appt.PatientID == patientID {
			copied := *appt
			appointments = append(appointments, &copied)
		}
	}
	return appointments, nil
}

func (f *fixture) ListUpcoming(ctx context.Context, patientID types.ID, from types.Date) ([]*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointments := []*Appointment{}
	for _, appt := range f.appts {
		if appt.PatientID == patientID && appt.Status.Active() && !appt.Date.Before(from) {
			copied := *appt
			appointments = append(appointments, &copied)
		}
	}
	return appointments, nil
}

// fixedNow pins a service clock for deterministic tests
func fixedNow(year int, month time.Month, day, hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
	}
}
