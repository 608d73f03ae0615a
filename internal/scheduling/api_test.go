package scheduling

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neumoapp/platform/internal/shared/auth"
	"github.com/neumoapp/platform/internal/shared/types"
)

func testHandler(f *fixture) *Handler {
	availability := newAvailabilityService(f)
	booking := newBookingService(f)
	return NewHandler(availability, booking)
}

func authedRequest(method, target, body string, patientID types.ID) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	claims := &auth.Claims{PatientID: patientID.String()}
	return req.WithContext(auth.ContextWithClaims(req.Context(), claims))
}

// TestSlotsEndpoint tests the availability endpoint end to end
func TestSlotsEndpoint(t *testing.T) {
	f := newFixture()
	hospitalID := f.addHospital()
	specialtyID := f.addSpecialty("Cardiology", true)
	f.addRoom(hospitalID, specialtyID, "101", true, true)

	h := testHandler(f)
	router := h.Routes()

	target := "/slots/available?hospital_id=" + hospitalID.String() +
		"&specialty_id=" + specialtyID.String() + "&date=2024-10-28&shift=morning"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, target, "", types.NewID()))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AvailableSlotsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if len(resp.Slots) != 15 {
		t.Errorf("Expected 15 slots, got %d", len(resp.Slots))
	}
	if resp.Shift != ShiftMorning {
		t.Errorf("Expected morning shift, got %s", resp.Shift)
	}
}

// TestSlotsEndpointRejectsBadQuery tests query validation at the edge
func TestSlotsEndpointRejectsBadQuery(t *testing.T) {
	f := newFixture()
	hospitalID := f.addHospital()
	specialtyID := f.addSpecialty("Cardiology", true)
	f.addRoom(hospitalID, specialtyID, "101", true, true)

	h := testHandler(f)
	router := h.Routes()

	base := "/slots/available?hospital_id=" + hospitalID.String() + "&specialty_id=" + specialtyID.String()

	tests := []struct {
		name   string
		target string
	}{
		{"Unknown shift", base + "&date=2024-10-28&shift=evening"},
		{"Missing hospital", "/slots/available?specialty_id=" + specialtyID.String() + "&date=2024-10-28&shift=morning"},
		{"Bad room filter", base + "&date=2024-10-28&shift=morning&room_id=nonsense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodGet, tt.target, "", types.NewID()))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

// TestBookEndpoint tests booking and double-booking over HTTP
func TestBookEndpoint(t *testing.T) {
	f := newFixture()
	hospitalID := f.addHospital()
	specialtyID := f.addSpecialty("Cardiology", true)
	roomID := f.addRoom(hospitalID, specialtyID, "101", true, true)
	patientID := types.NewID()

	h := testHandler(f)
	router := h.Routes()

	body := `{
		"specialty_id": "` + specialtyID.String() + `",
		"consultation_room_id": "` + roomID.String() + `",
		"appointment_date": "2024-10-28",
		"start_time": "09:00",
		"shift": "morning"
	}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/appointments", body, patientID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var appt Appointment
	if err := json.NewDecoder(rec.Body).Decode(&appt); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if appt.Status != StatusPending {
		t.Errorf("Expected pending status, got %s", appt.Status)
	}
	if appt.StartTime != types.NewTimeOfDay(9, 0) || appt.EndTime != types.NewTimeOfDay(9, 20) {
		t.Errorf("Expected 09:00-09:20, got %s-%s", appt.StartTime, appt.EndTime)
	}
	if appt.Shift != ShiftMorning {
		t.Errorf("Expected shift morning on the wire, got %s", appt.Shift)
	}

	// Same slot again conflicts
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/appointments", body, types.NewID()))
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}
}

// TestBookEndpointValidation tests request-shape validation
func TestBookEndpointValidation(t *testing.T) {
	f := newFixture()
	h := testHandler(f)
	router := h.Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/appointments", `{}`, types.NewID()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}

	var resp struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if resp.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %s", resp.Code)
	}
	if _, ok := resp.Details["specialty_id"]; !ok {
		t.Errorf("Expected specialty_id detail, got %v", resp.Details)
	}
	if _, ok := resp.Details["shift"]; !ok {
		t.Errorf("Expected shift detail, got %v", resp.Details)
	}
}

// TestCancelEndpoint tests the cancel route
func TestCancelEndpoint(t *testing.T) {
	f := newFixture()
	hospitalID := f.addHospital()
	specialtyID := f.addSpecialty("Cardiology", true)
	roomID := f.addRoom(hospitalID, specialtyID, "101", true, true)
	patientID := types.NewID()

	booking := newBookingService(f)
	h := NewHandler(newAvailabilityService(f), booking)
	router := h.Routes()

	appt, err := booking.Book(authedRequest(http.MethodGet, "/", "", patientID).Context(), patientID, BookAppointmentRequest{
		SpecialtyID:        specialtyID,
		ConsultationRoomID: roomID,
		Date:               "2024-10-28",
		StartTime:          "09:00",
		Shift:              "morning",
	})
	if err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/appointments/"+appt.ID.String(), "", patientID))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var cancelled Appointment
	if err := json.NewDecoder(rec.Body).Decode(&cancelled); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("Expected cancelled, got %s", cancelled.Status)
	}

	// A stranger cannot cancel someone else's appointment
	appt2, err := booking.Book(authedRequest(http.MethodGet, "/", "", patientID).Context(), patientID, BookAppointmentRequest{
		SpecialtyID:        specialtyID,
		ConsultationRoomID: roomID,
		Date:               "2024-10-29",
		StartTime:          "09:00",
		Shift:              "morning",
	})
	if err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/appointments/"+appt2.ID.String(), "", types.NewID()))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}
}

// TestUpdateEndpoint tests the patch route
func TestUpdateEndpoint(t *testing.T) {
	f := newFixture()
	hospitalID := f.addHospital()
	specialtyID := f.addSpecialty("Cardiology", true)
	roomID := f.addRoom(hospitalID, specialtyID, "101", true, true)
	patientID := types.NewID()

	booking := newBookingService(f)
	h := NewHandler(newAvailabilityService(f), booking)
	router := h.Routes()

	appt, err := booking.Book(authedRequest(http.MethodGet, "/", "", patientID).Context(), patientID, BookAppointmentRequest{
		SpecialtyID:        specialtyID,
		ConsultationRoomID: roomID,
		Date:               "2024-10-28",
		StartTime:          "09:00",
		Shift:              "morning",
	})
	if err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}

	body := `{"status": "confirmed", "observations": "bring previous scans"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPatch, "/appointments/"+appt.ID.String(), body, patientID))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated Appointment
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("Expected confirmed, got %s", updated.Status)
	}
	if updated.Observations != "bring previous scans" {
		t.Errorf("Expected observations, got %q", updated.Observations)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPatch, "/appointments/"+appt.ID.String(), `{"status": "archived"}`, patientID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", rec.Code)
	}
}

// TestMyAppointmentsEndpoint tests the patient history route
func TestMyAppointmentsEndpoint(t *testing.T) {
	f := newFixture()
	hospitalID := f.addHospital()
	specialtyID := f.addSpecialty("Cardiology", true)
	roomID := f.addRoom(hospitalID, specialtyID, "101", true, true)
	patientID := types.NewID()

	booking := newBookingService(f)
	h := NewHandler(newAvailabilityService(f), booking)
	router := h.Routes()

	ctx := authedRequest(http.MethodGet, "/", "", patientID).Context()
	appt, err := booking.Book(ctx, patientID, BookAppointmentRequest{
		SpecialtyID:        specialtyID,
		ConsultationRoomID: roomID,
		Date:               "2024-10-28",
		StartTime:          "09:00",
		Shift:              "morning",
	})
	if err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}
	if _, err := booking.Cancel(ctx, patientID, appt.ID); err != nil {
		t.Fatalf("Expected cancel to succeed, got %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/appointments/my-appointments", "", patientID))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data  []Appointment `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	// History keeps cancelled appointments
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("Expected 1 appointment in history, got %d", resp.Total)
	}
	if resp.Data[0].Status != StatusCancelled {
		t.Errorf("Expected cancelled appointment in history, got %s", resp.Data[0].Status)
	}
}

// TestUpcomingEndpoint tests the upcoming listing route
func TestUpcomingEndpoint(t *testing.T) {
	f := newFixture()
	hospitalID := f.addHospital()
	specialtyID := f.addSpecialty("Cardiology", true)
	roomID := f.addRoom(hospitalID, specialtyID, "101", true, true)
	patientID := types.NewID()

	booking := newBookingService(f)
	h := NewHandler(newAvailabilityService(f), booking)
	router := h.Routes()

	ctx := authedRequest(http.MethodGet, "/", "", patientID).Context()
	if _, err := booking.Book(ctx, patientID, BookAppointmentRequest{
		SpecialtyID:        specialtyID,
		ConsultationRoomID: roomID,
		Date:               "2024-10-28",
		StartTime:          "09:00",
		Shift:              "morning",
	}); err != nil {
		t.Fatalf("Expected booking to succeed, got %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/appointments/upcoming", "", patientID))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []Appointment `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Errorf("Expected 1 upcoming appointment, got %d", resp.Total)
	}
}
