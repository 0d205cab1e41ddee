package patient

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/duxcare/portal/internal/shared/auth"
	"github.com/duxcare/portal/internal/shared/config"
	"github.com/duxcare/portal/internal/shared/errors"
	"github.com/duxcare/portal/internal/shared/metrics"
)

// Handler provides HTTP handlers for patient management and login
type Handler struct {
	store   *Store
	service *Service
	authCfg config.AuthConfig
}

// NewHandler creates a new patient handler
func NewHandler(store *Store, service *Service, authCfg config.AuthConfig) *Handler {
	return &Handler{store: store, service: service, authCfg: authCfg}
}

// Routes registers the nurse-facing patient management routes. The caller
// must mount them behind nurse-role auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/patients", h.ListPatients)
	r.Post("/patients", h.CreatePatient)
	r.Get("/patients/{name}", h.GetPatient)
	r.Put("/patients/{name}", h.UpdatePatient)
	r.Delete("/patients/{name}", h.DeletePatient)
	r.Post("/patients/{name}/provision", h.ProvisionAgent)

	r.Get("/alerts", h.ListAlerts)
	r.Delete("/alerts", h.ClearAlerts)
	r.Delete("/alerts/{index}", h.DismissAlert)

	r.Get("/stats", h.Stats)

	return r
}

// AuthRoutes registers the public login routes.
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/patients", h.LoginList)
	r.Post("/nurse", h.NurseLogin)
	r.Post("/patient", h.PatientLogin)
	r.Get("/magic", h.MagicLogin)

	return r
}

// CreatePatient registers a new patient, provisions their agent and
// emails their credentials
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	result, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ListPatients returns all patient records
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Patients())
}

// GetPatient returns a single patient record by name
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPatientByName(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePatient replaces the clinical fields of a record. Identity and
// credentials are not editable through this endpoint.
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPatientByName(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Conditions    []string     `json:"conditions"`
		Medications   []Medication `json:"medications"`
		Allergies     []string     `json:"allergies"`
		DischargePlan string       `json:"discharge_plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	p.Conditions = req.Conditions
	p.Medications = req.Medications
	p.Allergies = req.Allergies
	p.DischargePlan = req.DischargePlan

	if err := h.store.UpdatePatient(*p); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// DeletePatient removes a patient and everything recorded about them
func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.service.Delete(r.Context(), name); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
		"name":   name,
	})
}

// ProvisionAgent retries agent creation for a patient without one
func (h *Handler) ProvisionAgent(w http.ResponseWriter, r *http.Request) {
	agentID, err := h.service.Provision(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"agent_id": agentID})
}

// ListAlerts returns the pending alert queue
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Alerts())
}

// ClearAlerts empties the alert queue
func (h *Handler) ClearAlerts(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAlerts(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// DismissAlert removes a single alert by queue position
func (h *Handler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, errors.BadRequest("alert index must be a number"))
		return
	}

	if err := h.store.RemoveAlert(index); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// Stats returns dashboard statistics
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Statistics())
}

// LoginList returns the reduced patient list shown on the login page.
// Only patients with a provisioned agent appear.
func (h *Handler) LoginList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ListPatientsForLogin())
}

// NurseLogin issues a nurse session
func (h *Handler) NurseLogin(w http.ResponseWriter, r *http.Request) {
	token, err := auth.IssueSession(h.authCfg, auth.RoleNurse, "")
	if err != nil {
		writeError(w, errors.Wrap(err, "could not issue session"))
		return
	}

	metrics.RecordSessionIssued("nurse", "dashboard")
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"role":  string(auth.RoleNurse),
	})
}

// PatientLogin authenticates a patient by ID and password
func (h *Handler) PatientLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID string `json:"patient_id"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	p, err := h.store.Authenticate(req.PatientID, req.Password)
	if err != nil {
		writeError(w, errors.Unauthorized("invalid patient ID or password"))
		return
	}

	h.issuePatientSession(w, p, "password")
}

// MagicLogin authenticates a patient by magic link token
func (h *Handler) MagicLogin(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	p, err := h.store.GetPatientByToken(token)
	if err != nil {
		writeError(w, errors.Unauthorized("invalid or expired login link"))
		return
	}

	h.issuePatientSession(w, p, "magic_link")
}

func (h *Handler) issuePatientSession(w http.ResponseWriter, p *Patient, method string) {
	token, err := auth.IssueSession(h.authCfg, auth.RolePatient, p.PatientID)
	if err != nil {
		writeError(w, errors.Wrap(err, "could not issue session"))
		return
	}

	metrics.RecordSessionIssued("patient", method)
	writeJSON(w, http.StatusOK, map[string]string{
		"token":        token,
		"role":         string(auth.RolePatient),
		"patient_id":   p.PatientID,
		"patient_name": p.Name,
	})
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
