package hospital

import (
	"time"

	"github.com/neumoapp/platform/internal/shared/types"
)

// Hospital represents a care site in the network
type Hospital struct {
	ID        types.ID      `json:"id"`
	Name      string        `json:"name"`
	Address   types.Address `json:"address"`
	Phone     string        `json:"phone,omitempty"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// OfferedSpecialty is a specialty offered by a hospital
type OfferedSpecialty struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	IsActive bool     `json:"is_active"`
}

// CreateHospitalRequest is the request to create a hospital
type CreateHospitalRequest struct {
	Name    string        `json:"name"`
	Address types.Address `json:"address"`
	Phone   string        `json:"phone,omitempty"`
}

// UpdateHospitalRequest is the request to update a hospital
type UpdateHospitalRequest struct {
	Name     *string        `json:"name,omitempty"`
	Address  *types.Address `json:"address,omitempty"`
	Phone    *string        `json:"phone,omitempty"`
	IsActive *bool          `json:"is_active,omitempty"`
}

// ListFilter narrows hospital listings
type ListFilter struct {
	Search     string
	City       string
	ActiveOnly bool
}
