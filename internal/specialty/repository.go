package specialty

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Repository provides database operations for specialties
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new specialty repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create creates a new specialty
func (r *Repository) Create(ctx context.Context, s *Specialty) error {
	query := `
		INSERT INTO specialties (id, name, description, is_active)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.Description, s.IsActive)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("specialty with this name already exists")
		}
		return errors.Wrap(err, "failed to create specialty")
	}

	return nil
}

// Get retrieves a specialty by ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Specialty, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM specialties
		WHERE id = $1`

	s := &Specialty{}
	var description *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("specialty", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get specialty")
	}

	if description != nil {
		s.Description = *description
	}
	return s, nil
}

// GetActive retrieves a specialty that must exist and be active
func (r *Repository) GetActive(ctx context.Context, id types.ID) (*Specialty, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.IsActive {
		return nil, errors.NotFound("specialty", id.String())
	}
	return s, nil
}

// List lists specialties matching the filter
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*Specialty, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM specialties
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND (NOT $2 OR is_active)
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, filter.Search, filter.ActiveOnly)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list specialties")
	}
	defer rows.Close()

	specialties := []*Specialty{}
	for rows.Next() {
		s := &Specialty{}
		var description *string
		if err := rows.Scan(&s.ID, &s.Name, &description, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan specialty")
		}
		if description != nil {
			s.Description = *description
		}
		specialties = append(specialties, s)
	}

	return specialties, nil
}

// Update updates a specialty
func (r *Repository) Update(ctx context.Context, s *Specialty) error {
	query := `
		UPDATE specialties SET
			name = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.Description, s.IsActive)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("specialty with this name already exists")
		}
		return errors.Wrap(err, "failed to update specialty")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("specialty", s.ID.String())
	}

	return nil
}

// Deactivate marks a specialty inactive. Existing appointments are
// untouched; the specialty just stops accepting new bookings.
func (r *Repository) Deactivate(ctx context.Context, id types.ID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE specialties SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to deactivate specialty")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("specialty", id.String())
	}

	return nil
}
