package scheduling

import (
	"context"
	"log"
	"time"

	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/events"
	"github.com/neumoapp/platform/internal/shared/metrics"
	"github.com/neumoapp/platform/internal/shared/types"
)

// BookingService books, cancels and inspects appointments
type BookingService struct {
	specialties SpecialtyDirectory
	rooms       RoomDirectory
	hospitals   HospitalDirectory
	store       AppointmentStore
	schedule    Schedule
	bus         *events.Bus
	now         func() time.Time
}

// NewBookingService creates a booking service
func NewBookingService(
	specialties SpecialtyDirectory,
	rooms RoomDirectory,
	hospitals HospitalDirectory,
	store AppointmentStore,
	schedule Schedule,
	bus *events.Bus,
) *BookingService {
	return &BookingService{
		specialties: specialties,
		rooms:       rooms,
		hospitals:   hospitals,
		store:       store,
		schedule:    schedule,
		bus:         bus,
		now:         time.Now,
	}
}

// Book validates and creates a pending appointment for the patient.
// The existence check on the slot is only a fast path; the database's
// unique index over active appointments is what makes the booking
// atomic, so a duplicate key on insert also comes back as a conflict.
func (s *BookingService) Book(ctx context.Context, patientID types.ID, req BookAppointmentRequest) (*Appointment, error) {
	sp, err := s.specialties.Specialty(ctx, req.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if !sp.IsActive {
		return nil, errors.NotFound("specialty", req.SpecialtyID.String())
	}

	room, err := s.rooms.Room(ctx, req.ConsultationRoomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, errors.BadRequest("consultation room is not available")
	}

	serves, err := s.rooms.Serves(ctx, room.ID, req.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if !serves {
		return nil, errors.BadRequest("consultation room is not assigned to this specialty")
	}

	offers, err := s.hospitals.Offers(ctx, room.HospitalID, req.SpecialtyID)
	if err != nil {
		return nil, err
	}
	if !offers {
		return nil, errors.BadRequest("hospital does not offer this specialty")
	}

	date, err := types.ParseDate(req.Date)
	if err != nil {
		return nil, errors.BadRequest("appointment_date must be YYYY-MM-DD")
	}
	start, err := types.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, errors.BadRequest("start_time must be HH:MM")
	}

	shift, err := ParseShift(req.Shift)
	if err != nil {
		return nil, err
	}
	derived, ok := s.schedule.ShiftFor(start)
	if !ok {
		return nil, errors.BadRequest("appointment time is outside working hours")
	}
	if derived != shift {
		return nil, errors.BadRequest("start_time does not fall within the requested shift")
	}

	now := s.now()
	today := types.DateOf(now)
	if date.Before(today) {
		return nil, errors.BadRequest("cannot book appointments in the past")
	}
	if !date.IsWeekday() {
		return nil, errors.BadRequest("appointments are only available on weekdays")
	}
	if date.Equal(today) {
		current := types.NewTimeOfDay(now.Hour(), now.Minute())
		if !current.Before(start) {
			return nil, errors.BadRequest("appointment time has already passed")
		}
	}

	if !s.schedule.ValidStart(shift, start) {
		return nil, errors.BadRequest("appointment time does not align with the slot grid")
	}

	taken, err := s.store.SlotTaken(ctx, room.ID, date, start)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.RecordBookingConflict()
		return nil, errors.Conflict("the selected slot is no longer available")
	}

	appt := &Appointment{
		ID:                 types.NewID(),
		PatientID:          patientID,
		ConsultationRoomID: room.ID,
		SpecialtyID:        req.SpecialtyID,
		Date:               date,
		StartTime:          start,
		EndTime:            start.Add(s.schedule.SlotDuration),
		Shift:              shift,
		Status:             StatusPending,
		Reason:             req.Reason,
	}

	if err := s.store.Insert(ctx, appt); err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == "CONFLICT" {
			metrics.RecordBookingConflict()
		}
		return nil, err
	}

	metrics.RecordAppointmentBooked()
	s.publish(ctx, events.TypeAppointmentBooked, appt, nil)

	return appt, nil
}

// Get returns a patient's own appointment
func (s *BookingService) Get(ctx context.Context, patientID, apptID types.ID) (*Appointment, error) {
	appt, err := s.store.Get(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != patientID {
		return nil, errors.Forbidden("appointment belongs to another patient")
	}
	return appt, nil
}

// Cancel cancels a patient's own pending or confirmed appointment,
// which frees its slot
func (s *BookingService) Cancel(ctx context.Context, patientID, apptID types.ID) (*Appointment, error) {
	appt, err := s.Get(ctx, patientID, apptID)
	if err != nil {
		return nil, err
	}
	if !appt.Status.Active() {
		return nil, errors.BadRequest("only pending or confirmed appointments can be cancelled")
	}

	appt.Status = StatusCancelled
	if err := s.store.Update(ctx, appt); err != nil {
		return nil, err
	}

	metrics.RecordAppointmentCancelled()
	s.publish(ctx, events.TypeAppointmentCancelled, appt, nil)

	return appt, nil
}

// Update changes a patient's own appointment, moving it to a new
// status and/or attaching observations
func (s *BookingService) Update(ctx context.Context, patientID, apptID types.ID, req UpdateAppointmentRequest) (*Appointment, error) {
	if req.Status == nil && req.Observations == nil {
		return nil, errors.BadRequest("nothing to update")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, errors.BadRequest("status must be one of pending, confirmed, cancelled, completed")
	}

	appt, err := s.Get(ctx, patientID, apptID)
	if err != nil {
		return nil, err
	}

	previous := appt.Status
	if req.Status != nil {
		appt.Status = *req.Status
	}
	if req.Observations != nil {
		appt.Observations = *req.Observations
	}

	if err := s.store.Update(ctx, appt); err != nil {
		return nil, err
	}

	if appt.Status != previous {
		if appt.Status == StatusCancelled {
			metrics.RecordAppointmentCancelled()
		}
		s.publish(ctx, events.TypeAppointmentStatusChanged, appt, map[string]any{
			"previous_status": previous,
		})
	}

	return appt, nil
}

// ListByPatient lists the patient's appointment history, newest first
func (s *BookingService) ListByPatient(ctx context.Context, patientID types.ID) ([]*Appointment, error) {
	return s.store.ListByPatient(ctx, patientID)
}

// ListUpcoming lists the patient's active future appointments
func (s *BookingService) ListUpcoming(ctx context.Context, patientID types.ID) ([]*Appointment, error) {
	return s.store.ListUpcoming(ctx, patientID, types.DateOf(s.now()))
}

func (s *BookingService) publish(ctx context.Context, eventType string, appt *Appointment, extra map[string]any) {
	if s.bus == nil {
		return
	}

	data := map[string]any{
		"appointment_id":       appt.ID,
		"consultation_room_id": appt.ConsultationRoomID,
		"specialty_id":         appt.SpecialtyID,
		"appointment_date":     appt.Date.String(),
		"start_time":           appt.StartTime.String(),
		"status":               appt.Status,
	}
	for k, v := range extra {
		data[k] = v
	}

	event := events.NewEvent(eventType, "scheduling", data).WithPatient(appt.PatientID)
	if err := s.bus.Publish(ctx, event); err != nil {
		log.Printf("failed to publish %s event for appointment %s: %v", eventType, appt.ID, err)
	}
}
