package room

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Repository provides database operations for consultation rooms
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new room repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create creates a new consultation room
func (r *Repository) Create(ctx context.Context, room *ConsultationRoom) error {
	query := `
		INSERT INTO consultation_rooms (id, hospital_id, room_number, name, is_active)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		room.ID, room.HospitalID, room.RoomNumber, room.Name, room.IsActive,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("room number already exists in this hospital")
		}
		if strings.Contains(err.Error(), "foreign key") {
			return errors.BadRequest("hospital does not exist")
		}
		return errors.Wrap(err, "failed to create consultation room")
	}

	return nil
}

// Get retrieves a consultation room by ID, including its specialty
// assignments
func (r *Repository) Get(ctx context.Context, id types.ID) (*ConsultationRoom, error) {
	query := `
		SELECT id, hospital_id, room_number, name, is_active, created_at, updated_at
		FROM consultation_rooms
		WHERE id = $1`

	room := &ConsultationRoom{}
	var name *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID, &room.HospitalID, &room.RoomNumber,
		&name, &room.IsActive, &room.CreatedAt, &room.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("consultation room", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get consultation room")
	}

	if name != nil {
		room.Name = *name
	}

	if room.SpecialtyIDs, err = r.ListSpecialties(ctx, id); err != nil {
		return nil, err
	}
	return room, nil
}

// List lists consultation rooms matching the filter
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*ConsultationRoom, error) {
	query := `
		SELECT cr.id, cr.hospital_id, cr.room_number, cr.name, cr.is_active,
			cr.created_at, cr.updated_at
		FROM consultation_rooms cr
		WHERE ($1 = '' OR cr.hospital_id::text = $1)
		  AND ($2 = '' OR EXISTS (
			SELECT 1 FROM room_specialties rs
			WHERE rs.consultation_room_id = cr.id AND rs.specialty_id::text = $2
		  ))
		  AND (NOT $3 OR cr.is_active)
		ORDER BY cr.room_number`

	rows, err := r.pool.Query(ctx, query,
		filter.HospitalID.String(), filter.SpecialtyID.String(), filter.ActiveOnly,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list consultation rooms")
	}
	defer rows.Close()

	return scanRooms(rows)
}

// FindEligible returns the active rooms in a hospital that can host an
// appointment for a specialty: the room is assigned to the specialty,
// the hospital is active, and the hospital's offering is active.
func (r *Repository) FindEligible(ctx context.Context, hospitalID, specialtyID types.ID) ([]*ConsultationRoom, error) {
	query := `
		SELECT cr.id, cr.hospital_id, cr.room_number, cr.name, cr.is_active,
			cr.created_at, cr.updated_at
		FROM consultation_rooms cr
		JOIN room_specialties rs
			ON rs.consultation_room_id = cr.id AND rs.specialty_id = $2
		JOIN hospitals h ON h.id = cr.hospital_id AND h.is_active
		JOIN hospital_specialties hs
			ON hs.hospital_id = cr.hospital_id AND hs.specialty_id = $2 AND hs.is_active
		WHERE cr.hospital_id = $1
		  AND cr.is_active
		ORDER BY cr.room_number`

	rows, err := r.pool.Query(ctx, query, hospitalID, specialtyID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find eligible rooms")
	}
	defer rows.Close()

	return scanRooms(rows)
}

// Update updates a consultation room
func (r *Repository) Update(ctx context.Context, room *ConsultationRoom) error {
	query := `
		UPDATE consultation_rooms SET
			room_number = $2, name = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, room.ID, room.RoomNumber, room.Name, room.IsActive)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("room number already exists in this hospital")
		}
		return errors.Wrap(err, "failed to update consultation room")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("consultation room", room.ID.String())
	}

	return nil
}

// Deactivate marks a consultation room inactive
func (r *Repository) Deactivate(ctx context.Context, id types.ID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE consultation_rooms SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to deactivate consultation room")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("consultation room", id.String())
	}

	return nil
}

// --- Specialty assignments ---

// AssignSpecialty assigns a specialty to a room
func (r *Repository) AssignSpecialty(ctx context.Context, roomID, specialtyID types.ID) error {
	query := `
		INSERT INTO room_specialties (consultation_room_id, specialty_id)
		VALUES ($1, $2)`

	_, err := r.pool.Exec(ctx, query, roomID, specialtyID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("room is already assigned to this specialty")
		}
		if strings.Contains(err.Error(), "foreign key") {
			return errors.NotFound("consultation room or specialty", roomID.String())
		}
		return errors.Wrap(err, "failed to assign specialty to room")
	}

	return nil
}

// RemoveSpecialty removes a specialty assignment from a room
func (r *Repository) RemoveSpecialty(ctx context.Context, roomID, specialtyID types.ID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM room_specialties WHERE consultation_room_id = $1 AND specialty_id = $2`,
		roomID, specialtyID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to remove specialty from room")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("specialty assignment", specialtyID.String())
	}

	return nil
}

// ListSpecialties lists the specialty IDs assigned to a room
func (r *Repository) ListSpecialties(ctx context.Context, roomID types.ID) ([]types.ID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rs.specialty_id
		FROM room_specialties rs
		JOIN specialties s ON s.id = rs.specialty_id
		WHERE rs.consultation_room_id = $1
		ORDER BY s.name`, roomID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list room specialties")
	}
	defer rows.Close()

	ids := []types.ID{}
	for rows.Next() {
		var id types.ID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan room specialty")
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// ServesSpecialty reports whether a room is assigned to a specialty
func (r *Repository) ServesSpecialty(ctx context.Context, roomID, specialtyID types.ID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM room_specialties
			WHERE consultation_room_id = $1 AND specialty_id = $2
		)`, roomID, specialtyID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check specialty assignment")
	}

	return exists, nil
}

func scanRooms(rows pgx.Rows) ([]*ConsultationRoom, error) {
	rooms := []*ConsultationRoom{}
	for rows.Next() {
		room := &ConsultationRoom{}
		var name *string
		if err := rows.Scan(
			&room.ID, &room.HospitalID, &room.RoomNumber,
			&name, &room.IsActive, &room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan consultation room")
		}
		if name != nil {
			room.Name = *name
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}
