package types

import (
	"encoding/json"
	"testing"
	"time"
)

// TestParseTimeOfDay tests clock time parsing
func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"Plain HH:MM", "08:00", NewTimeOfDay(8, 0), false},
		{"With seconds", "12:40:00", NewTimeOfDay(12, 40), false},
		{"Late afternoon", "17:40", NewTimeOfDay(17, 40), false},
		{"Midnight", "00:00", NewTimeOfDay(0, 0), false},
		{"Hour out of range", "24:00", 0, true},
		{"Minute out of range", "08:60", 0, true},
		{"Missing leading zero", "8:00", 0, true},
		{"Garbage", "morning", 0, true},
		{"Empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestTimeOfDayAdd tests duration arithmetic
func TestTimeOfDayAdd(t *testing.T) {
	start := NewTimeOfDay(12, 40)
	end := start.Add(20 * time.Minute)
	if end != NewTimeOfDay(13, 0) {
		t.Errorf("Expected 13:00, got %s", end)
	}

	if got := NewTimeOfDay(8, 0).Add(time.Hour); got != NewTimeOfDay(9, 0) {
		t.Errorf("Expected 09:00, got %s", got)
	}
}

// TestTimeOfDayJSON tests the JSON round trip
func TestTimeOfDayJSON(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(9, 5))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != `"09:05"` {
		t.Errorf("Expected \"09:05\", got %s", data)
	}

	var parsed TimeOfDay
	if err := json.Unmarshal([]byte(`"14:20"`), &parsed); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if parsed != NewTimeOfDay(14, 20) {
		t.Errorf("Expected 14:20, got %s", parsed)
	}

	if err := json.Unmarshal([]byte(`"25:00"`), &parsed); err == nil {
		t.Error("Expected out of range time to be rejected")
	}
}

// TestParseDate tests calendar date parsing
func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-10-28")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d.String() != "2024-10-28" {
		t.Errorf("Expected 2024-10-28, got %s", d)
	}

	if _, err := ParseDate("28/10/2024"); err == nil {
		t.Error("Expected slash format to be rejected")
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Error("Expected month 13 to be rejected")
	}
}

// TestDateWeekday tests weekday classification
func TestDateWeekday(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2024-10-25", true},  // Friday
		{"2024-10-26", false}, // Saturday
		{"2024-10-27", false}, // Sunday
		{"2024-10-28", true},  // Monday
	}

	for _, tt := range tests {
		d, err := ParseDate(tt.date)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if d.IsWeekday() != tt.want {
			t.Errorf("IsWeekday(%s) = %v, want %v", tt.date, d.IsWeekday(), tt.want)
		}
	}
}

// TestDateComparison tests ordering and equality
func TestDateComparison(t *testing.T) {
	earlier := NewDate(2024, time.October, 21)
	later := NewDate(2024, time.October, 28)

	if !earlier.Before(later) {
		t.Error("Expected earlier date to sort before later")
	}
	if later.Before(earlier) {
		t.Error("Expected later date not to sort before earlier")
	}
	if !earlier.Equal(NewDate(2024, time.October, 21)) {
		t.Error("Expected same-day dates to be equal")
	}
}

// TestDateJSON tests the JSON round trip
func TestDateJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2024, time.October, 28))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != `"2024-10-28"` {
		t.Errorf("Expected \"2024-10-28\", got %s", data)
	}

	var parsed Date
	if err := json.Unmarshal([]byte(`"2024-10-28"`), &parsed); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !parsed.Equal(NewDate(2024, time.October, 28)) {
		t.Errorf("Expected 2024-10-28, got %s", parsed)
	}
}

// TestParseDocumentNumber tests document number validation
func TestParseDocumentNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Eight digits", "12345678", false},
		{"Twelve digits", "123456789012", false},
		{"Too short", "1234567", true},
		{"Too long", "1234567890123", true},
		{"Letters", "1234567a", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocumentNumber(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %q", tt.input)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error for %q, got %v", tt.input, err)
			}
		})
	}
}

// TestDocumentNumberMasked tests that masking keeps only the tail
func TestDocumentNumberMasked(t *testing.T) {
	doc, err := ParseDocumentNumber("12345678")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	masked := doc.Masked()
	if masked == doc.String() {
		t.Error("Expected masked form to differ from the raw number")
	}
	if len(masked) != len(doc.String()) {
		t.Errorf("Expected masked form to keep length, got %q", masked)
	}
	if masked[len(masked)-3:] != "678" {
		t.Errorf("Expected last three digits visible, got %q", masked)
	}
}

// TestIDRoundTrip tests ID parsing
func TestIDRoundTrip(t *testing.T) {
	id := NewID()
	if id.IsZero() {
		t.Fatal("Expected non-zero ID")
	}

	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if parsed != id {
		t.Errorf("Expected %s, got %s", id, parsed)
	}

	if _, err := ParseID("not-a-uuid"); err == nil {
		t.Error("Expected invalid UUID to be rejected")
	}
}
