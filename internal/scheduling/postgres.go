package scheduling

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Store is the Postgres-backed appointment store. The partial unique
// index on (consultation_room_id, appointment_date, start_time) over
// active statuses is what actually serializes concurrent bookings;
// everything above it is a fast path.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new appointment store
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert persists a new appointment. A duplicate key on the active
// slot index means another booking won the slot.
func (s *Store) Insert(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, consultation_room_id, specialty_id,
			appointment_date, start_time, end_time, shift, status, reason, observations
		) VALUES ($1, $2, $3, $4, $5, $6::time, $7::time, $8, $9, $10, $11)`

	_, err := s.pool.Exec(ctx, query,
		appt.ID, appt.PatientID, appt.ConsultationRoomID, appt.SpecialtyID,
		appt.Date, appt.StartTime.String(), appt.EndTime.String(), appt.Shift,
		appt.Status, appt.Reason, appt.Observations,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("the selected slot is no longer available")
		}
		return errors.Wrap(err, "failed to create appointment")
	}

	return nil
}

const appointmentColumns = `
	id, patient_id, consultation_room_id, specialty_id,
	appointment_date, start_time::text, end_time::text, shift, status,
	reason, observations, created_at, updated_at`

// Get retrieves an appointment by ID
func (s *Store) Get(ctx context.Context, id types.ID) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(s.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("appointment", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get appointment")
	}

	return appt, nil
}

// Update persists an appointment's status and observations
func (s *Store) Update(ctx context.Context, appt *Appointment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = $2, observations = $3, updated_at = NOW() WHERE id = $1`,
		appt.ID, appt.Status, appt.Observations,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("the appointment slot is already taken")
		}
		return errors.Wrap(err, "failed to update appointment")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("appointment", appt.ID.String())
	}

	return nil
}

// SlotTaken reports whether an active appointment holds the slot
func (s *Store) SlotTaken(ctx context.Context, roomID types.ID, date types.Date, start types.TimeOfDay) (bool, error) {
	var taken bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE consultation_room_id = $1
			  AND appointment_date = $2
			  AND start_time = $3::time
			  AND status IN ('pending', 'confirmed')
		)`, roomID, date, start.String()).Scan(&taken)
	if err != nil {
		return false, errors.Wrap(err, "failed to check slot")
	}

	return taken, nil
}

// OccupiedSlots returns the start times held by active appointments
// per room on the given date
func (s *Store) OccupiedSlots(ctx context.Context, roomIDs []types.ID, date types.Date) (map[types.ID][]types.TimeOfDay, error) {
	occupied := make(map[types.ID][]types.TimeOfDay)
	if len(roomIDs) == 0 {
		return occupied, nil
	}

	ids := make([]string, len(roomIDs))
	for i, id := range roomIDs {
		ids[i] = id.String()
	}

	rows, err := s.pool.Query(ctx, `
		SELECT consultation_room_id, start_time::text
		FROM appointments
		WHERE consultation_room_id = ANY($1::uuid[])
		  AND appointment_date = $2
		  AND status IN ('pending', 'confirmed')`,
		ids, date,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query occupied slots")
	}
	defer rows.Close()

	for rows.Next() {
		var roomID types.ID
		var start string
		if err := rows.Scan(&roomID, &start); err != nil {
			return nil, errors.Wrap(err, "failed to scan occupied slot")
		}
		t, err := types.ParseTimeOfDay(start)
		if err != nil {
			return nil, errors.Wrap(err, "invalid start time in storage")
		}
		occupied[roomID] = append(occupied[roomID], t)
	}

	return occupied, nil
}

// ListByPatient lists a patient's appointments, newest first
func (s *Store) ListByPatient(ctx context.Context, patientID types.ID) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date DESC, start_time DESC`

	return s.list(ctx, query, patientID)
}

// ListUpcoming lists a patient's active appointments from the given
// date onward, soonest first
func (s *Store) ListUpcoming(ctx context.Context, patientID types.ID, from types.Date) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		  AND appointment_date >= $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY appointment_date ASC, start_time ASC`

	return s.list(ctx, query, patientID, from)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list appointments")
	}
	defer rows.Close()

	appointments := []*Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan appointment")
		}
		appointments = append(appointments, appt)
	}

	return appointments, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	appt := &Appointment{}
	var start, end string
	var reason, observations *string

	err := row.Scan(
		&appt.ID, &appt.PatientID, &appt.ConsultationRoomID, &appt.SpecialtyID,
		&appt.Date, &start, &end, &appt.Shift, &appt.Status,
		&reason, &observations, &appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appt.StartTime, err = types.ParseTimeOfDay(start); err != nil {
		return nil, err
	}
	if appt.EndTime, err = types.ParseTimeOfDay(end); err != nil {
		return nil, err
	}
	if reason != nil {
		appt.Reason = *reason
	}
	if observations != nil {
		appt.Observations = *observations
	}

	return appt, nil
}
