package scheduling

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/neumoapp/platform/internal/shared/auth"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Handler provides HTTP handlers for availability and appointments
type Handler struct {
	availability *AvailabilityService
	booking      *BookingService
}

// NewHandler creates a new scheduling handler
func NewHandler(availability *AvailabilityService, booking *BookingService) *Handler {
	return &Handler{availability: availability, booking: booking}
}

// Routes registers the scheduling routes. All of them require an
// authenticated patient.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/slots/available", h.AvailableSlots)

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.Book)
		r.Get("/my-appointments", h.ListMine)
		r.Get("/upcoming", h.ListUpcoming)

		r.Route("/{appointmentID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Cancel)
			r.Patch("/", h.Update)
		})
	})

	return r
}

// AvailableSlots answers an availability query
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	hospitalID, err := types.ParseID(params.Get("hospital_id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital_id"))
		return
	}

	specialtyID, err := types.ParseID(params.Get("specialty_id"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid specialty_id"))
		return
	}

	date, err := types.ParseDate(params.Get("date"))
	if err != nil {
		writeError(w, errors.BadRequest("date must be YYYY-MM-DD"))
		return
	}

	shift, err := ParseShift(params.Get("shift"))
	if err != nil {
		writeError(w, err)
		return
	}

	query := SlotQuery{
		HospitalID:    hospitalID,
		SpecialtyID:   specialtyID,
		Date:          date,
		Shift:         shift,
		OnlyAvailable: params.Get("only_available") != "" && params.Get("only_available") != "false",
	}

	if raw := params.Get("room_id"); raw != "" {
		roomID, err := types.ParseID(raw)
		if err != nil {
			writeError(w, errors.BadRequest("invalid room_id"))
			return
		}
		query.RoomID = roomID
	}

	resp, err := h.availability.AvailableSlots(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Book books a new appointment for the authenticated patient
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	details := map[string]string{}
	if req.SpecialtyID.IsZero() {
		details["specialty_id"] = "specialty_id is required"
	}
	if req.ConsultationRoomID.IsZero() {
		details["consultation_room_id"] = "consultation_room_id is required"
	}
	if req.Date == "" {
		details["appointment_date"] = "appointment_date is required"
	}
	if req.StartTime == "" {
		details["start_time"] = "start_time is required"
	}
	if req.Shift == "" {
		details["shift"] = "shift is required"
	}
	if len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	appt, err := h.booking.Book(r.Context(), patientID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

// Get returns one of the patient's appointments
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	apptID, err := types.ParseID(chi.URLParam(r, "appointmentID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid appointment ID"))
		return
	}

	appt, err := h.booking.Get(r.Context(), patientID, apptID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// ListMine lists the patient's appointment history
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	appointments, err := h.booking.ListByPatient(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  appointments,
		"total": len(appointments),
	})
}

// ListUpcoming lists the patient's active future appointments
func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	appointments, err := h.booking.ListUpcoming(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  appointments,
		"total": len(appointments),
	})
}

// Cancel cancels one of the patient's appointments
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	apptID, err := types.ParseID(chi.URLParam(r, "appointmentID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid appointment ID"))
		return
	}

	appt, err := h.booking.Cancel(r.Context(), patientID, apptID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// Update changes the status of one of the patient's appointments or
// attaches observations to it
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	apptID, err := types.ParseID(chi.URLParam(r, "appointmentID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid appointment ID"))
		return
	}

	var req UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	appt, err := h.booking.Update(r.Context(), patientID, apptID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
