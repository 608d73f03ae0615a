package hospital

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the hospital module
type Handler struct {
	repo *Repository
}

// NewHandler creates a new hospital handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the hospital routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Route("/{hospitalID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Deactivate)

		r.Route("/specialties", func(r chi.Router) {
			r.Get("/", h.ListSpecialties)
			r.Post("/{specialtyID}", h.AddSpecialty)
			r.Delete("/{specialtyID}", h.RemoveSpecialty)
		})
	})

	return r
}

// List lists hospitals
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Search:     r.URL.Query().Get("search"),
		City:       r.URL.Query().Get("city"),
		ActiveOnly: r.URL.Query().Get("include_inactive") == "",
	}

	hospitals, err := h.repo.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  hospitals,
		"total": len(hospitals),
	})
}

// Get gets a hospital by ID
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	hospital, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hospital)
}

// Create creates a new hospital
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	details := map[string]string{}
	if req.Name == "" {
		details["name"] = "name is required"
	}
	if req.Address.Street == "" {
		details["address.street"] = "street is required"
	}
	if req.Address.City == "" {
		details["address.city"] = "city is required"
	}
	if len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	hospital := &Hospital{
		ID:       types.NewID(),
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := h.repo.Create(r.Context(), hospital); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, hospital)
}

// Update updates a hospital
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	var req UpdateHospitalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	hospital, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil {
		hospital.Name = *req.Name
	}
	if req.Address != nil {
		hospital.Address = *req.Address
	}
	if req.Phone != nil {
		hospital.Phone = *req.Phone
	}
	if req.IsActive != nil {
		hospital.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), hospital); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hospital)
}

// Deactivate deactivates a hospital
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	if err := h.repo.Deactivate(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSpecialties lists the specialties a hospital offers
func (h *Handler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	if _, err := h.repo.Get(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	specialties, err := h.repo.ListSpecialties(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  specialties,
		"total": len(specialties),
	})
}

// AddSpecialty registers a specialty offering
func (h *Handler) AddSpecialty(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	specialtyID, err := types.ParseID(chi.URLParam(r, "specialtyID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid specialty ID"))
		return
	}

	if err := h.repo.AddSpecialty(r.Context(), hospitalID, specialtyID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveSpecialty removes a specialty offering
func (h *Handler) RemoveSpecialty(w http.ResponseWriter, r *http.Request) {
	hospitalID, err := types.ParseID(chi.URLParam(r, "hospitalID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid hospital ID"))
		return
	}

	specialtyID, err := types.ParseID(chi.URLParam(r, "specialtyID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid specialty ID"))
		return
	}

	if err := h.repo.RemoveSpecialty(r.Context(), hospitalID, specialtyID); err != nil {
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
