package patient

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/neumoapp/platform/internal/shared/auth"
	"github.com/neumoapp/platform/internal/shared/errors"
	"github.com/neumoapp/platform/internal/shared/events"
	"github.com/neumoapp/platform/internal/shared/metrics"
	"github.com/neumoapp/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the patient module
type Handler struct {
	repo   *Repository
	issuer *auth.TokenIssuer
	bus    *events.Bus
}

// NewHandler creates a new patient handler
func NewHandler(repo *Repository, issuer *auth.TokenIssuer, bus *events.Bus) *Handler {
	return &Handler{repo: repo, issuer: issuer, bus: bus}
}

// PublicRoutes registers registration and login, which need no token
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

// Routes registers the authenticated patient routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.Me)
	r.Put("/me", h.UpdateMe)
	return r
}

// Register creates a new patient account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	details := map[string]string{}
	document, err := types.ParseDocumentNumber(req.DocumentNumber)
	if err != nil {
		details["document_number"] = "document number must be 8 to 12 digits"
	}
	if req.FirstName == "" {
		details["first_name"] = "first_name is required"
	}
	if req.LastName == "" {
		details["last_name"] = "last_name is required"
	}
	if len(req.Password) < 8 {
		details["password"] = "password must be at least 8 characters"
	}
	birthDate, err := types.ParseDate(req.BirthDate)
	if err != nil {
		details["birth_date"] = "birth_date must be YYYY-MM-DD"
	}
	if len(details) > 0 {
		writeError(w, errors.Validation("validation failed", details))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	p := &Patient{
		ID:             types.NewID(),
		DocumentNumber: document,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		BirthDate:      birthDate,
		Contact:        req.Contact,
		PasswordHash:   string(hash),
		IsActive:       true,
	}

	if err := h.repo.Create(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordPatientRegistered()
	if h.bus != nil {
		event := events.NewEvent(events.TypePatientRegistered, "patient", map[string]any{
			"patient_id":      p.ID,
			"document_number": p.DocumentNumber.Masked(),
		}).WithPatient(p.ID)
		if err := h.bus.Publish(r.Context(), event); err != nil {
			log.Printf("failed to publish %s event for patient %s: %v", events.TypePatientRegistered, p.ID, err)
		}
	}

	writeJSON(w, http.StatusCreated, p)
}

// Login authenticates a patient and issues a token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	document, err := types.ParseDocumentNumber(req.DocumentNumber)
	if err != nil {
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	p, err := h.repo.GetByDocument(r.Context(), document)
	if err != nil {
		// Same answer for unknown document and wrong password
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	if !p.IsActive {
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	token, expiresAt, err := h.issuer.Issue(p.ID, p.DocumentNumber)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// Me returns the authenticated patient's profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	p, err := h.repo.Get(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// UpdateMe updates the authenticated patient's profile
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	patientID, ok := auth.PatientIDFromContext(r.Context())
	if !ok {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	p, err := h.repo.Get(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Contact != nil {
		p.Contact = *req.Contact
	}

	if err := h.repo.Update(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
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
