package types

import (
	"fmt"
	"regexp"
)

// DocumentNumber is a patient's national identity document number.
// Registration and login key on it, so it is unique per patient.
type DocumentNumber string

var documentNumberRegex = regexp.MustCompile(`^\d{8,12}$`)

// ParseDocumentNumber validates a document number string
func ParseDocumentNumber(s string) (DocumentNumber, error) {
	if !documentNumberRegex.MatchString(s) {
		return "", fmt.Errorf("document number must be 8 to 12 digits")
	}
	return DocumentNumber(s), nil
}

// String returns the string representation
func (d DocumentNumber) String() string {
	return string(d)
}

// Masked returns a masked version for display (last 3 digits visible)
func (d DocumentNumber) Masked() string {
	if len(d) < 4 {
		return "********"
	}
	masked := make([]byte, len(d))
	for i := range masked {
		if i < len(d)-3 {
			masked[i] = '*'
		} else {
			masked[i] = d[i]
		}
	}
	return string(masked)
}

// IsZero checks if the document number is empty
func (d DocumentNumber) IsZero() bool {
	return d == ""
}
