package specialty

import (
	"time"

	"github.com/neumoapp/platform/internal/shared/types"
)

// Specialty represents a medical specialty offered across the network
type Specialty struct {
	ID          types.ID  `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSpecialtyRequest is the request to create a specialty
type CreateSpecialtyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateSpecialtyRequest is the request to update a specialty
type UpdateSpecialtyRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// ListFilter narrows specialty listings
type ListFilter struct {
	Search     string
	ActiveOnly bool
}
