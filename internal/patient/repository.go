package patient

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Repository provides database operations for patients
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new patient repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create creates a new patient
func (r *Repository) Create(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (
			id, document_number, first_name, last_name, birth_date,
			email, phone, password_hash, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.DocumentNumber, p.FirstName, p.LastName, p.BirthDate,
		p.Contact.Email, p.Contact.Phone, p.PasswordHash, p.IsActive,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("patient with this document number already exists")
		}
		return errors.Wrap(err, "failed to create patient")
	}

	return nil
}

// Get retrieves a patient by ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Patient, error) {
	query := `
		SELECT id, document_number, first_name, last_name, birth_date,
			email, phone, password_hash, is_active, created_at, updated_at
		FROM patients
		WHERE id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id), id.String())
}

// GetByDocument retrieves a patient by document number
func (r *Repository) GetByDocument(ctx context.Context, document types.DocumentNumber) (*Patient, error) {
	query := `
		SELECT id, document_number, first_name, last_name, birth_date,
			email, phone, password_hash, is_active, created_at, updated_at
		FROM patients
		WHERE document_number = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, document), document.Masked())
}

func (r *Repository) scanOne(row pgx.Row, ref string) (*Patient, error) {
	p := &Patient{}
	var email, phone *string
	err := row.Scan(
		&p.ID, &p.DocumentNumber, &p.FirstName, &p.LastName, &p.BirthDate,
		&email, &phone, &p.PasswordHash, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", ref)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get patient")
	}

	if email != nil {
		p.Contact.Email = *email
	}
	if phone != nil {
		p.Contact.Phone = *phone
	}
	return p, nil
}

// Update updates a patient's profile
func (r *Repository) Update(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patients SET
			first_name = $2, last_name = $3, email = $4, phone = $5, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.FirstName, p.LastName, p.Contact.Email, p.Contact.Phone,
	)
	if err != nil {
		return errors.Wrap(err, "failed to update patient")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("patient", p.ID.String())
	}

	return nil
}
