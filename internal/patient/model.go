package patient

import (
	"time"

	"github.com/neumoapp/platform/internal/shared/types"
)

// Patient represents a registered patient
type Patient struct {
	ID             types.ID             `json:"id"`
	DocumentNumber types.DocumentNumber `json:"document_number"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	BirthDate      types.Date           `json:"birth_date"`
	Contact        types.ContactInfo    `json:"contact"`
	PasswordHash   string               `json:"-"`
	IsActive       bool                 `json:"is_active"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// RegisterRequest is the request to register a patient
type RegisterRequest struct {
	DocumentNumber string            `json:"document_number"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	BirthDate      string            `json:"birth_date"`
	Contact        types.ContactInfo `json:"contact"`
	Password       string            `json:"password"`
}

// LoginRequest is the request to authenticate a patient
type LoginRequest struct {
	DocumentNumber string `json:"document_number"`
	Password       string `json:"password"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UpdatePatientRequest is the request to update the authenticated
// patient's profile
type UpdatePatientRequest struct {
	FirstName *string            `json:"first_name,omitempty"`
	LastName  *string            `json:"last_name,omitempty"`
	Contact   *types.ContactInfo `json:"contact,omitempty"`
}
