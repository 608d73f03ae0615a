package hospital

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Repository provides database operations for hospitals
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new hospital repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create creates a new hospital
func (r *Repository) Create(ctx context.Context, h *Hospital) error {
	query := `
		INSERT INTO hospitals (id, name, street, district, city, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		h.ID, h.Name, h.Address.Street, h.Address.District, h.Address.City, h.Phone, h.IsActive,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create hospital")
	}

	return nil
}

// Get retrieves a hospital by ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Hospital, error) {
	query := `
		SELECT id, name, street, district, city, phone, is_active, created_at, updated_at
		FROM hospitals
		WHERE id = $1`

	h := &Hospital{}
	var district, phone *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&h.ID, &h.Name, &h.Address.Street, &district, &h.Address.City,
		&phone, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("hospital", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get hospital")
	}

	if district != nil {
		h.Address.District = *district
	}
	if phone != nil {
		h.Phone = *phone
	}
	return h, nil
}

// List lists hospitals matching the filter
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*Hospital, error) {
	query := `
		SELECT id, name, street, district, city, phone, is_active, created_at, updated_at
		FROM hospitals
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR city = $2)
		  AND (NOT $3 OR is_active)
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, filter.Search, filter.City, filter.ActiveOnly)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list hospitals")
	}
	defer rows.Close()

	hospitals := []*Hospital{}
	for rows.Next() {
		h := &Hospital{}
		var district, phone *string
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Address.Street, &district, &h.Address.City,
			&phone, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan hospital")
		}
		if district != nil {
			h.Address.District = *district
		}
		if phone != nil {
			h.Phone = *phone
		}
		hospitals = append(hospitals, h)
	}

	return hospitals, nil
}

// Update updates a hospital
func (r *Repository) Update(ctx context.Context, h *Hospital) error {
	query := `
		UPDATE hospitals SET
			name = $2, street = $3, district = $4, city = $5, phone = $6,
			is_active = $7, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		h.ID, h.Name, h.Address.Street, h.Address.District, h.Address.City, h.Phone, h.IsActive,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update hospital")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("hospital", h.ID.String())
	}

	return nil
}

// Deactivate marks a hospital inactive
func (r *Repository) Deactivate(ctx context.Context, id types.ID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE hospitals SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to deactivate hospital")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("hospital", id.String())
	}

	return nil
}

// --- Specialty offerings ---

// AddSpecialty registers that a hospital offers a specialty. An
// offering removed earlier is reactivated; an active one conflicts.
func (r *Repository) AddSpecialty(ctx context.Context, hospitalID, specialtyID types.ID) error {
	query := `
		INSERT INTO hospital_specialties (hospital_id, specialty_id)
		VALUES ($1, $2)
		ON CONFLICT (hospital_id, specialty_id)
			DO UPDATE SET is_active = TRUE
			WHERE hospital_specialties.is_active = FALSE`

	tag, err := r.pool.Exec(ctx, query, hospitalID, specialtyID)
	if err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			return errors.NotFound("hospital or specialty", hospitalID.String())
		}
		return errors.Wrap(err, "failed to add specialty to hospital")
	}
	if tag.RowsAffected() == 0 {
		return errors.Conflict("hospital already offers this specialty")
	}

	return nil
}

// RemoveSpecialty deactivates a specialty offering, keeping the join
// row so the offering can be restored later
func (r *Repository) RemoveSpecialty(ctx context.Context, hospitalID, specialtyID types.ID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE hospital_specialties SET is_active = FALSE
		WHERE hospital_id = $1 AND specialty_id = $2 AND is_active`,
		hospitalID, specialtyID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to remove specialty from hospital")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("specialty offering", specialtyID.String())
	}

	return nil
}

// ListSpecialties lists the specialties a hospital actively offers
func (r *Repository) ListSpecialties(ctx context.Context, hospitalID types.ID) ([]*OfferedSpecialty, error) {
	query := `
		SELECT s.id, s.name, s.is_active
		FROM hospital_specialties hs
		JOIN specialties s ON s.id = hs.specialty_id
		WHERE hs.hospital_id = $1
		  AND hs.is_active
		ORDER BY s.name`

	rows, err := r.pool.Query(ctx, query, hospitalID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list hospital specialties")
	}
	defer rows.Close()

	specialties := []*OfferedSpecialty{}
	for rows.Next() {
		s := &OfferedSpecialty{}
		if err := rows.Scan(&s.ID, &s.Name, &s.IsActive); err != nil {
			return nil, errors.Wrap(err, "failed to scan hospital specialty")
		}
		specialties = append(specialties, s)
	}

	return specialties, nil
}

// OffersSpecialty reports whether a hospital actively offers a
// specialty
func (r *Repository) OffersSpecialty(ctx context.Context, hospitalID, specialtyID types.ID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM hospital_specialties
			WHERE hospital_id = $1 AND specialty_id = $2 AND is_active
		)`, hospitalID, specialtyID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check specialty offering")
	}

	return exists, nil
}
