package types

// Address represents a physical address
type Address struct {
	Street   string `json:"street"`
	District string `json:"district,omitempty"`
	City     string `json:"city"`
}

// ContactInfo represents contact information
type ContactInfo struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
