package room

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the consultation room module
type Handler struct {
	repo *Repository
}

// NewHandler creates a new room handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the consultation room routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Route("/{roomID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Deactivate)

		r.Route("/specialties", func(r chi.Router) {
			r.Get("/", h.ListSpecialties)
			r.Post("/", h.AssignSpecialty)
			r.Delete("/{specialtyID}", h.RemoveSpecialty)
		})
	})

	return r
}

// List lists consultation rooms
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		ActiveOnly: r.URL.Query().Get("include_inactive") == "",
	}

	if v := r.URL.Query().Get("hospital_id"); v != "" {
		id, err := types.ParseID(v)
		if err != nil {
			writeError(w, errors.BadRequest("invalid hospital_id"))
			return
		}
		filter.HospitalID = id
	}

	if v := r.URL.Query().Get("specialty_id"); v != "" {
		id, err := types.ParseID(v)
		if err != nil {
			writeError(w, errors.BadRequest("invalid specialty_id"))
			return
		}
		filter.SpecialtyID = id
	}

	rooms, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  rooms,
		"total": len(rooms),
	})
}

// Get gets a consultation room by ID
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid room ID"))
		return
	}

	room, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// Create creates a new consultation room
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	details := map[string]string{}
	if req.HospitalID.IsZero() {
		details["hospital_id"] = "hospital_id is required"
	}
	if req.RoomNumber == "" {
		details["room_number"] = "room_number is required"
	}
	if len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	room := &ConsultationRoom{
		ID:         types.NewID(),
		HospitalID: req.HospitalID,
		RoomNumber: req.RoomNumber,
		Name:       req.Name,
		IsActive:   true,
	}

	if err := h.repo.Create(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}

	for _, specialtyID := range req.SpecialtyIDs {
		if err := h.repo.AssignSpecialty(r.Context(), room.ID, specialtyID); err != nil {
			writeError(w, err)
			return
		}
	}
	room.SpecialtyIDs = req.SpecialtyIDs

	writeJSON(w, http.StatusCreated, room)
}

// Update updates a consultation room
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid room ID"))
		return
	}

	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	room, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.RoomNumber != nil {
		room.RoomNumber = *req.RoomNumber
	}
	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), room); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// Deactivate deactivates a consultation room
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid room ID"))
		return
	}

	if err := h.repo.Deactivate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSpecialties lists the specialties assigned to a room
func (h *Handler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid room ID"))
		return
	}

	ids, err := h.repo.ListSpecialties(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  ids,
		"total": len(ids),
	})
}

// AssignSpecialty assigns a specialty to a room
func (h *Handler) AssignSpecialty(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid room ID"))
		return
	}

	var req AssignSpecialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if req.SpecialtyID.IsZero() {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"specialty_id": "specialty_id is required",
		}))
		return
	}

	if err := h.repo.AssignSpecialty(r.Context(), id, req.SpecialtyID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RemoveSpecialty removes a specialty assignment from a room
func (h *Handler) RemoveSpecialty(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid room ID"))
		return
	}

	specialtyID, err := types.ParseID(chi.URLParam(r, "specialtyID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid specialty ID"))
		return
	}

	if err := h.repo.RemoveSpecialty(r.Context(), id, specialtyID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
